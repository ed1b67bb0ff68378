// Package errs defines the sentinel errors returned by flatbin.
//
// Call sites wrap these sentinels with context, so callers should match them with
// errors.Is rather than by equality.
package errs

import "github.com/cockroachdb/errors"

// Write engine errors.
var (
	// ErrBufferTooSmall is returned when an allocation would move the write cursor below zero.
	// The pass cannot continue; retry with a larger buffer and a fresh pass.
	ErrBufferTooSmall = errors.New("buffer too small")
	// ErrOutOfRange is returned for negative item counts, negative sizes and non-positive
	// explicit capacities.
	ErrOutOfRange = errors.New("argument out of range")
	// ErrOffsetOverflow is returned when a relative offset or a size computation does not fit
	// its wire representation.
	ErrOffsetOverflow = errors.New("offset arithmetic overflow")
	// ErrInvalidAlignment is returned when an alignment is not a positive power of two.
	ErrInvalidAlignment = errors.New("alignment must be a power of two")
	// ErrBigEndianHost is returned by raw element copies on a big-endian host.
	ErrBigEndianHost = errors.New("raw element copy requires a little-endian host")
	// ErrMisaligned marks an internal consistency defect: an offset that is not a multiple
	// of the size it is accessed with.
	ErrMisaligned = errors.New("misaligned offset")
	// ErrInvalidVTable is returned when candidate vtable bytes are malformed.
	ErrInvalidVTable = errors.New("invalid vtable")
	// ErrNilReference is returned when a nil object is passed to the identity cache.
	ErrNilReference = errors.New("nil object reference")
)

// Configuration and framing errors.
var (
	// ErrInvalidCompression is returned for an unknown compression type.
	ErrInvalidCompression = errors.New("invalid compression type")
	// ErrInvalidFrameHeader is returned when a frame header is truncated or has a bad magic/version.
	ErrInvalidFrameHeader = errors.New("invalid frame header")
	// ErrFrameChecksum is returned when a decoded frame body does not match its checksum.
	ErrFrameChecksum = errors.New("frame checksum mismatch")
	// ErrFrameLength is returned when a frame's recorded lengths disagree with its contents.
	ErrFrameLength = errors.New("frame length mismatch")
)
