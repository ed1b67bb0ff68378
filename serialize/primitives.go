package serialize

import (
	"math"
	"unsafe"

	"github.com/arloliu/flatbin/endian"
	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/spanwriter"
	"github.com/cockroachdb/errors"
)

// Scalar is the set of fixed-width element types that can be copied verbatim into a vector.
type Scalar interface {
	~uint8 | ~int8 | ~uint16 | ~int16 | ~uint32 | ~int32 | ~uint64 | ~int64 | ~float32 | ~float64
}

// requireLittleEndian guards raw element copies; tests replace it to simulate a big-endian host.
var requireLittleEndian = endian.RequireLittleEndian

// WriteByteBlock writes data as a byte vector and returns the vector offset.
//
// Layout: a uint32 item count at the returned offset, followed by the bytes.
func WriteByteBlock(w spanwriter.SpanWriter, buf []byte, data []byte, ctx *Context) (int, error) {
	offset, err := ctx.AllocateVector(1, len(data), 1)
	if err != nil {
		return 0, err
	}

	w.WriteUint32(buf, uint32(len(data)), offset) //nolint:gosec
	w.WriteBytes(buf, data, offset+SizeUOffset)

	return offset, nil
}

// WriteScalarVector writes items as a vector whose elements are aligned to alignment
// and returns the vector offset.
//
// Element memory is copied verbatim, which yields wire bytes only on a little-endian
// host; on a big-endian host errs.ErrBigEndianHost is returned and nothing is written.
//
// Parameters:
//   - w: Writer for the count prefix
//   - buf: The region of the pass
//   - items: Elements to copy
//   - alignment: Required element alignment; must equal the element width so every
//     element lands on its natural boundary
//   - ctx: The pass Context
//
// Returns errs.ErrInvalidAlignment for any other alignment. Nothing is allocated on failure.
func WriteScalarVector[T Scalar](
	w spanwriter.SpanWriter,
	buf []byte,
	items []T,
	alignment int,
	ctx *Context,
) (int, error) {
	var zero T
	itemSize := int(unsafe.Sizeof(zero))

	if alignment < itemSize || itemSize%alignment != 0 {
		return 0, errors.Wrapf(errs.ErrInvalidAlignment, "alignment %d for %d-byte elements", alignment, itemSize)
	}
	if err := requireLittleEndian(); err != nil {
		return 0, err
	}

	offset, err := ctx.AllocateVector(alignment, len(items), itemSize)
	if err != nil {
		return 0, err
	}

	w.WriteUint32(buf, uint32(len(items)), offset) //nolint:gosec

	raw := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(items))), len(items)*itemSize)
	w.WriteBytes(buf, raw, offset+SizeUOffset)

	return offset, nil
}

// ProvisionString writes value as a string vector and returns its offset.
//
// Layout: a uint32 byte length (excluding the terminator), the UTF-8 bytes, then a NUL
// terminator byte.
func ProvisionString(w spanwriter.SpanWriter, buf []byte, value string, ctx *Context) (int, error) {
	count := len(value)
	if uint64(count) >= math.MaxUint32 {
		return 0, errors.Wrapf(errs.ErrOffsetOverflow, "string length %d", count)
	}

	offset, err := ctx.AllocateVector(1, count+1, 1)
	if err != nil {
		return 0, err
	}

	written := w.PutString(buf, value, offset+SizeUOffset)
	w.WriteUint32(buf, uint32(written), offset) //nolint:gosec
	w.WriteUint8(buf, 0, offset+SizeUOffset+written)

	return offset, nil
}

// ProvisionSharedString writes value through the shared string writer attached to ctx,
// or with ProvisionString when none is attached.
func ProvisionSharedString(w spanwriter.SpanWriter, buf []byte, value string, ctx *Context) (int, error) {
	if shared := ctx.SharedStrings(); shared != nil {
		return shared.WriteSharedString(w, buf, value, ctx)
	}

	return ProvisionString(w, buf, value, ctx)
}

// WriteUOffset stores target - fieldOffset as a uint32 at fieldOffset.
//
// The target must sit at or above the field; anything else, or a distance that does not
// fit in uint32, returns errs.ErrOffsetOverflow and writes nothing.
func WriteUOffset(w spanwriter.SpanWriter, buf []byte, target int, fieldOffset int) error {
	delta := target - fieldOffset
	if delta < 0 || uint64(delta) > math.MaxUint32 {
		return errors.Wrapf(errs.ErrOffsetOverflow, "uoffset from %d to %d", fieldOffset, target)
	}

	w.WriteUint32(buf, uint32(delta), fieldOffset)

	return nil
}

// WriteBool stores the canonical boolean byte at offset.
func WriteBool(w spanwriter.SpanWriter, buf []byte, b bool, offset int) {
	if b {
		w.WriteUint8(buf, spanwriter.True, offset)
	} else {
		w.WriteUint8(buf, spanwriter.False, offset)
	}
}

// CheckAlignment verifies that offset is a multiple of size.
//
// It only checks when built with the flatbin_debug tag and returns nil otherwise.
// A failure is an internal consistency defect marked with errs.ErrMisaligned.
func CheckAlignment(offset int, size int) error {
	if !debugChecks {
		return nil
	}

	return checkAlignment(offset, size)
}

func checkAlignment(offset int, size int) error {
	if size <= 0 || offset%size != 0 {
		return errors.Mark(
			errors.AssertionFailedf("unaligned access at offset %d, expected alignment %d", offset, size),
			errs.ErrMisaligned,
		)
	}

	return nil
}
