package frame

import (
	"math"

	"github.com/arloliu/flatbin/compress"
	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/format"
	"github.com/arloliu/flatbin/internal/hash"
	"github.com/cockroachdb/errors"
)

// Encode compresses raw with the given codec and returns header and body as one slice.
func Encode(raw []byte, compression format.CompressionType) ([]byte, error) {
	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}
	if uint64(len(raw)) > math.MaxUint32 {
		return nil, errors.Wrapf(errs.ErrFrameLength, "raw length %d exceeds uint32", len(raw))
	}

	body, err := codec.Compress(raw)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %s body", compression)
	}
	if uint64(len(body)) > math.MaxUint32 {
		return nil, errors.Wrapf(errs.ErrFrameLength, "body length %d exceeds uint32", len(body))
	}

	h := Header{
		Compression: compression,
		RawLength:   uint32(len(raw)),  //nolint:gosec
		BodyLength:  uint32(len(body)), //nolint:gosec
		Checksum:    hash.Checksum32(raw),
	}

	out := make([]byte, format.FrameHeaderSize+len(body))
	h.put(out)
	copy(out[format.FrameHeaderSize:], body)

	return out, nil
}

// Decode verifies a frame and returns the raw flatbin buffer it carries.
//
// The returned slice never aliases data, so data may be reused after Decode returns.
//
// Returns:
//   - []byte: The raw buffer
//   - error: header errors from ParseHeader, errs.ErrFrameLength when the recorded
//     lengths disagree with the frame, errs.ErrFrameChecksum when the raw buffer does not
//     match its checksum, or codec errors
func Decode(data []byte) ([]byte, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}

	body := data[format.FrameHeaderSize:]
	if uint64(len(body)) != uint64(h.BodyLength) {
		return nil, errors.Wrapf(errs.ErrFrameLength, "body length %d, header says %d", len(body), h.BodyLength)
	}

	codec, err := compress.GetCodec(h.Compression)
	if err != nil {
		return nil, err
	}

	raw, err := codec.Decompress(body)
	if err != nil {
		return nil, errors.Wrapf(err, "frame %s body", h.Compression)
	}
	if h.Compression == format.CompressionNone {
		raw = append([]byte(nil), raw...)
	}

	if uint64(len(raw)) != uint64(h.RawLength) {
		return nil, errors.Wrapf(errs.ErrFrameLength, "raw length %d, header says %d", len(raw), h.RawLength)
	}
	if sum := hash.Checksum32(raw); sum != h.Checksum {
		return nil, errors.Wrapf(errs.ErrFrameChecksum, "got 0x%08x, want 0x%08x", sum, h.Checksum)
	}

	return raw, nil
}
