package frame

import (
	"github.com/arloliu/flatbin/endian"
	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/format"
	"github.com/cockroachdb/errors"
)

var engine = endian.GetLittleEndianEngine()

// Header is the fixed-size prefix of a frame.
type Header struct {
	Compression format.CompressionType // byte offset 3
	RawLength   uint32                 // byte offset 4-7
	BodyLength  uint32                 // byte offset 8-11
	Checksum    uint32                 // byte offset 12-15
}

// Bytes serializes the header into a new FrameHeaderSize-byte slice.
func (h Header) Bytes() []byte {
	b := make([]byte, format.FrameHeaderSize)
	h.put(b)

	return b
}

func (h Header) put(b []byte) {
	engine.PutUint16(b[0:2], format.FrameMagic)
	b[2] = format.FrameVersion
	b[3] = byte(h.Compression)
	engine.PutUint32(b[4:8], h.RawLength)
	engine.PutUint32(b[8:12], h.BodyLength)
	engine.PutUint32(b[12:16], h.Checksum)
}

// ParseHeader parses a Header from the start of data.
//
// Returns:
//   - Header: Parsed header
//   - error: errs.ErrInvalidFrameHeader if data is shorter than a header or carries a
//     foreign magic or version, errs.ErrInvalidCompression for an unknown codec
func ParseHeader(data []byte) (Header, error) {
	if len(data) < format.FrameHeaderSize {
		return Header{}, errors.Wrapf(errs.ErrInvalidFrameHeader, "need %d bytes, got %d", format.FrameHeaderSize, len(data))
	}

	if magic := engine.Uint16(data[0:2]); magic != format.FrameMagic {
		return Header{}, errors.Wrapf(errs.ErrInvalidFrameHeader, "magic 0x%04x", magic)
	}
	if version := data[2]; version != format.FrameVersion {
		return Header{}, errors.Wrapf(errs.ErrInvalidFrameHeader, "version %d", version)
	}

	h := Header{
		Compression: format.CompressionType(data[3]),
		RawLength:   engine.Uint32(data[4:8]),
		BodyLength:  engine.Uint32(data[8:12]),
		Checksum:    engine.Uint32(data[12:16]),
	}
	if err := h.Compression.Validate(); err != nil {
		return Header{}, err
	}

	return h, nil
}
