// Package endian provides the byte order engine used by flatbin writers.
//
// The flatbin wire format is little-endian on every host. This package combines the
// standard library's ByteOrder and AppendByteOrder interfaces into a single EndianEngine
// and reports the host byte order, which matters for the raw element copies performed by
// typed-element vector writes: those copy memory verbatim and are only correct when host
// order and wire order agree.
//
// # Basic Usage
//
//	engine := endian.GetLittleEndianEngine()
//	engine.PutUint32(buf[offset:], value)
//
// Guarding a bulk memory copy:
//
//	if err := endian.RequireLittleEndian(); err != nil {
//	    return 0, err
//	}
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use. The returned engines are
// immutable and stateless.
package endian

import (
	"encoding/binary"
	"unsafe"

	"github.com/arloliu/flatbin/errs"
	"github.com/cockroachdb/errors"
)

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary.
//
// binary.LittleEndian and binary.BigEndian both satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// nativeOrder is computed once; the host byte order cannot change at runtime.
var nativeOrder = CheckEndianness()

// CheckEndianness uses a fixed integer value to determine the host's byte order.
func CheckEndianness() binary.ByteOrder {
	// 0x0100 is 256. On a little-endian host the low byte (0x00) is stored first.
	var i uint16 = 0x0100

	b := (*[2]byte)(unsafe.Pointer(&i))
	if b[0] == 0x01 {
		return binary.BigEndian
	}

	return binary.LittleEndian
}

// IsNativeLittleEndian reports whether the host stores integers least significant byte first.
func IsNativeLittleEndian() bool {
	return nativeOrder == binary.LittleEndian
}

// IsNativeBigEndian reports whether the host stores integers most significant byte first.
func IsNativeBigEndian() bool {
	return nativeOrder == binary.BigEndian
}

// CompareNativeEndian reports whether engine matches the host byte order.
func CompareNativeEndian(engine EndianEngine) bool {
	return engine == nativeOrder
}

// RequireLittleEndian returns errs.ErrBigEndianHost unless the host is little-endian.
//
// Raw copies of multi-byte elements produce wire bytes only when host order is
// little-endian; flatbin refuses rather than byte-swapping silently.
func RequireLittleEndian() error {
	if !IsNativeLittleEndian() {
		return errors.Wrap(errs.ErrBigEndianHost, "host byte order is big-endian")
	}

	return nil
}

// GetLittleEndianEngine returns the little-endian engine, the flatbin wire byte order.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// GetBigEndianEngine returns the big-endian engine.
//
// It is only useful for comparisons; flatbin never writes big-endian data.
func GetBigEndianEngine() EndianEngine {
	return binary.BigEndian
}
