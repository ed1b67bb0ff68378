package serialize

import (
	"math"

	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/spanwriter"
	"github.com/cockroachdb/errors"
)

// VTableBuilder assembles candidate vtable bytes for one table at a time.
//
// A vtable is laid out as:
//
//	uint16  vtable size in bytes, this entry included
//	uint16  inline table size in bytes, the leading soffset included
//	uint16  byte offset of field i within the table, 0 when absent   (repeated)
//
// Trailing absent fields are trimmed, so tables that only differ by missing trailing
// fields share a vtable. The builder reuses its storage; the slice returned by Bytes is
// valid until the next Start.
type VTableBuilder struct {
	fields  []uint16
	scratch []byte
}

// Start begins a vtable for a table with numFields schema fields.
func (b *VTableBuilder) Start(numFields int) {
	if cap(b.fields) < numFields {
		b.fields = make([]uint16, numFields)
		return
	}

	b.fields = b.fields[:numFields]
	clear(b.fields)
}

// SetField records that field index lives at offsetInTable bytes from the table start.
//
// Returns errs.ErrOutOfRange if index is not a field of the table, or if offsetInTable
// overlaps the leading soffset or does not fit in uint16.
func (b *VTableBuilder) SetField(index int, offsetInTable int) error {
	if index < 0 || index >= len(b.fields) {
		return errors.Wrapf(errs.ErrOutOfRange, "field index %d of %d", index, len(b.fields))
	}
	if offsetInTable < SizeSOffset || offsetInTable > math.MaxUint16 {
		return errors.Wrapf(errs.ErrOutOfRange, "field offset %d", offsetInTable)
	}

	b.fields[index] = uint16(offsetInTable)

	return nil
}

// Bytes returns the candidate vtable for a table whose inline size is tableSize bytes.
func (b *VTableBuilder) Bytes(tableSize int) ([]byte, error) {
	if tableSize < SizeSOffset || tableSize > math.MaxUint16 {
		return nil, errors.Wrapf(errs.ErrOutOfRange, "table size %d", tableSize)
	}

	n := len(b.fields)
	for n > 0 && b.fields[n-1] == 0 {
		n--
	}

	size := (2 + n) * SizeVOffset
	if cap(b.scratch) < size {
		b.scratch = make([]byte, size)
	}
	vt := b.scratch[:size]

	wire.PutUint16(vt[0:], uint16(size))      //nolint:gosec
	wire.PutUint16(vt[2:], uint16(tableSize)) //nolint:gosec
	for i, off := range b.fields[:n] {
		wire.PutUint16(vt[(2+i)*SizeVOffset:], off)
	}

	return vt, nil
}

// FinishTable links the table at tableOffset to a vtable equal to candidate.
//
// The vtable is deduplicated through ctx.FinishVTable, then the table's leading int32 is
// set to tableOffset - vtableOffset, which is negative when the table reuses a vtable
// written before it.
//
// Returns:
//   - int: Absolute offset of the vtable
//   - error: vtable or allocation errors, errs.ErrOffsetOverflow if the distance does not
//     fit in int32
func FinishTable(w spanwriter.SpanWriter, buf []byte, ctx *Context, tableOffset int, candidate []byte) (int, error) {
	vtableOffset, err := ctx.FinishVTable(buf, candidate)
	if err != nil {
		return 0, err
	}

	soffset := tableOffset - vtableOffset
	if soffset < math.MinInt32 || soffset > math.MaxInt32 {
		return 0, errors.Wrapf(errs.ErrOffsetOverflow, "soffset from table %d to vtable %d", tableOffset, vtableOffset)
	}

	w.WriteInt32(buf, int32(soffset), tableOffset)

	return vtableOffset, nil
}
