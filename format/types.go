// Package format defines the enumerations shared by flatbin's framing layer.
package format

import (
	"github.com/arloliu/flatbin/errs"
	"github.com/cockroachdb/errors"
)

// CompressionType identifies the codec applied to a framed buffer body.
type CompressionType uint8

const (
	CompressionNone CompressionType = 0x1 // CompressionNone stores the finished buffer as-is.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 block compression.
)

// Frame layout constants.
const (
	FrameMagic      uint16 = 0x4246 // "FB" read as little-endian
	FrameVersion    uint8  = 1
	FrameHeaderSize        = 16
)

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	default:
		return "Unknown"
	}
}

// Validate returns errs.ErrInvalidCompression for values outside the known set.
func (c CompressionType) Validate() error {
	switch c {
	case CompressionNone, CompressionZstd, CompressionS2, CompressionLZ4:
		return nil
	default:
		return errors.Wrapf(errs.ErrInvalidCompression, "compression type 0x%x", uint8(c))
	}
}
