package serialize

import (
	"bytes"
	"math"

	"github.com/arloliu/flatbin/endian"
	"github.com/arloliu/flatbin/errs"
	"github.com/cockroachdb/errors"
)

// Wire sizes.
const (
	SizeUOffset = 4 // SizeUOffset is the byte width of a relative offset and of a vector length prefix.
	SizeSOffset = 4 // SizeSOffset is the byte width of a table's signed offset to its vtable.
	SizeVOffset = 2 // SizeVOffset is the byte width of one vtable entry.
)

// wire is the byte order of every multi-byte value in a flatbin buffer.
var wire = endian.GetLittleEndianEngine()

// PostSerializeAction runs once after all structural writes of a pass are complete.
//
// The finished region and the pass Context are passed explicitly so the action only
// needs to capture the data it works on, e.g. a vector offset and a comparison key.
type PostSerializeAction func(buf []byte, ctx *Context) error

// Context owns the allocation cursor and the caches of exactly one write pass.
//
// A Context is not safe for concurrent use. Reuse one instance sequentially per worker
// and call Reset before every pass.
type Context struct {
	offset        int
	capacity      int
	maxAlign      int
	postActions   []PostSerializeAction
	vtableOffsets []int
	objectOffsets map[any]int
	sharedStrings SharedStringWriter
}

// NewContext creates a Context ready for a pass over a region of the given capacity.
//
// Panics if capacity is negative.
func NewContext(capacity int) *Context {
	c := &Context{
		vtableOffsets: make([]int, 0, 16),
		objectOffsets: make(map[any]int),
	}
	c.Reset(capacity)

	return c
}

// Reset prepares the Context for a new pass over a region of the given capacity.
//
// The cursor moves to capacity; the vtable list, the deferred action queue and the
// object offset cache are emptied, and any attached shared string writer is detached.
// Allocated storage is kept for reuse.
//
// Panics if capacity is negative.
func (c *Context) Reset(capacity int) {
	if capacity < 0 {
		panic("serialize: negative context capacity")
	}

	c.offset = capacity
	c.capacity = capacity
	c.maxAlign = 1
	c.sharedStrings = nil

	clear(c.postActions)
	c.postActions = c.postActions[:0]
	c.vtableOffsets = c.vtableOffsets[:0]

	if c.objectOffsets == nil {
		c.objectOffsets = make(map[any]int)
	} else {
		clear(c.objectOffsets)
	}
}

// Offset returns the current cursor: the lowest byte claimed so far.
func (c *Context) Offset() int {
	return c.offset
}

// Capacity returns the capacity the Context was last reset to.
func (c *Context) Capacity() int {
	return c.capacity
}

// Used returns the number of bytes claimed so far, padding included.
func (c *Context) Used() int {
	return c.capacity - c.offset
}

// MaxAlignment returns the largest alignment requested during the pass.
func (c *Context) MaxAlignment() int {
	return c.maxAlign
}

// SharedStrings returns the shared string writer attached to this pass, or nil.
func (c *Context) SharedStrings() SharedStringWriter {
	return c.sharedStrings
}

// SetSharedStrings attaches a shared string writer for the rest of the pass.
// Pass nil to detach. Reset always detaches.
func (c *Context) SetSharedStrings(w SharedStringWriter) {
	c.sharedStrings = w
}

// AllocateSpace claims bytesNeeded bytes aligned to alignment and returns the absolute
// offset of the claimed block.
//
// The cursor moves down by bytesNeeded and is then rounded down to a multiple of
// alignment; the gap left by rounding is padding that is never referenced.
//
// Parameters:
//   - bytesNeeded: Number of bytes to claim (must not be negative)
//   - alignment: Required alignment of the returned offset (power of two)
//
// Returns:
//   - int: Absolute start offset of the block
//   - error: errs.ErrBufferTooSmall if the region is exhausted, errs.ErrOutOfRange for a
//     negative size, errs.ErrInvalidAlignment for a bad alignment. The cursor is left
//     unchanged on failure.
func (c *Context) AllocateSpace(bytesNeeded int, alignment int) (int, error) {
	if alignment <= 0 || alignment&(alignment-1) != 0 {
		return 0, errors.Wrapf(errs.ErrInvalidAlignment, "alignment %d", alignment)
	}
	if bytesNeeded < 0 {
		return 0, errors.Wrapf(errs.ErrOutOfRange, "negative allocation size %d", bytesNeeded)
	}

	offset := c.offset
	if offset < bytesNeeded {
		return 0, errors.Wrapf(errs.ErrBufferTooSmall,
			"need %d bytes, %d of %d remaining", bytesNeeded, offset, c.capacity)
	}

	newOffset := alignBackwards(offset-bytesNeeded, alignment)
	c.offset = newOffset
	if alignment > c.maxAlign {
		c.maxAlign = alignment
	}

	return newOffset, nil
}

// AllocateVector claims room for itemCount items of itemSize bytes aligned to
// itemAlignment, followed at the lower address by a 4-byte item count.
//
// The returned offset is the position of the count prefix. It is a multiple of 4, and
// items begin at offset+4, which is a multiple of itemAlignment. The caller writes both
// the count and the items.
//
// Returns:
//   - int: Absolute offset of the count prefix
//   - error: errs.ErrOutOfRange for a negative count or size, errs.ErrOffsetOverflow if the
//     byte size or the count does not fit, errs.ErrBufferTooSmall if the region is
//     exhausted. The cursor is left unchanged on failure.
func (c *Context) AllocateVector(itemAlignment int, itemCount int, itemSize int) (int, error) {
	if itemCount < 0 {
		return 0, errors.Wrapf(errs.ErrOutOfRange, "negative item count %d", itemCount)
	}
	if itemSize < 0 {
		return 0, errors.Wrapf(errs.ErrOutOfRange, "negative item size %d", itemSize)
	}
	if uint64(itemCount) > math.MaxUint32 {
		return 0, errors.Wrapf(errs.ErrOffsetOverflow, "item count %d exceeds uint32", itemCount)
	}

	bytesNeeded, ok := mulInt(itemCount, itemSize)
	if !ok {
		return 0, errors.Wrapf(errs.ErrOffsetOverflow, "vector size %d x %d", itemCount, itemSize)
	}

	saved := c.offset
	if _, err := c.AllocateSpace(bytesNeeded, itemAlignment); err != nil {
		return 0, err
	}

	offset, err := c.AllocateSpace(SizeUOffset, SizeUOffset)
	if err != nil {
		c.offset = saved
		return 0, err
	}

	return offset, nil
}

// FinishVTable returns the offset of a vtable equal to candidate, writing candidate into
// buf only when no equal vtable was written earlier in the pass.
//
// Previously written vtables are scanned in list order and compared by their stored
// length prefix and contents. A matching entry is promoted by swapping it with the
// entry at half its index; a newly written vtable is appended and promoted the same
// way, so frequently reused vtables drift toward the front of the list.
//
// Parameters:
//   - buf: The region of the pass
//   - candidate: Complete vtable bytes; the first uint16 must equal len(candidate)
//
// Returns:
//   - int: Absolute offset of the vtable
//   - error: errs.ErrInvalidVTable for malformed candidates, allocation errors otherwise
func (c *Context) FinishVTable(buf []byte, candidate []byte) (int, error) {
	if err := validateVTable(candidate); err != nil {
		return 0, err
	}

	offsets := c.vtableOffsets
	for i, offset := range offsets {
		existingLen := int(wire.Uint16(buf[offset:]))
		if existingLen == len(candidate) && bytes.Equal(buf[offset:offset+existingLen], candidate) {
			promote(offsets, i)
			return offset, nil
		}
	}

	newOffset, err := c.AllocateSpace(len(candidate), SizeVOffset)
	if err != nil {
		return 0, err
	}
	copy(buf[newOffset:], candidate)

	c.vtableOffsets = append(c.vtableOffsets, newOffset)
	promote(c.vtableOffsets, len(c.vtableOffsets)-1)

	return newOffset, nil
}

// VTableCount returns the number of distinct vtables written during the pass.
func (c *Context) VTableCount() int {
	return len(c.vtableOffsets)
}

// AddPostAction queues action to run after the pass completes.
func (c *Context) AddPostAction(action PostSerializeAction) {
	c.postActions = append(c.postActions, action)
}

// PendingPostActions returns the number of queued actions.
func (c *Context) PendingPostActions() int {
	return len(c.postActions)
}

// RunPostActions invokes queued actions in registration order, each exactly once, and
// empties the queue. Actions queued while running are run in the same call.
//
// The first failing action aborts the run and its error is returned; the queue is
// emptied either way.
func (c *Context) RunPostActions(buf []byte) error {
	defer func() {
		clear(c.postActions)
		c.postActions = c.postActions[:0]
	}()

	for i := 0; i < len(c.postActions); i++ {
		if err := c.postActions[i](buf, c); err != nil {
			return errors.Wrapf(err, "post action #%d", i)
		}
	}

	return nil
}

// promote swaps entry i with the entry at i/2.
//
// This is a heuristic, not an LRU: one hit halves the index of the matched entry.
func promote(offsets []int, i int) {
	j := i / 2
	offsets[i], offsets[j] = offsets[j], offsets[i]
}

func alignBackwards(offset int, alignment int) int {
	return offset &^ (alignment - 1)
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if a > math.MaxInt/b {
		return 0, false
	}

	return a * b, true
}

func validateVTable(candidate []byte) error {
	if len(candidate) < 2*SizeVOffset || len(candidate)%SizeVOffset != 0 {
		return errors.Wrapf(errs.ErrInvalidVTable, "vtable length %d", len(candidate))
	}
	if len(candidate) > math.MaxUint16 {
		return errors.Wrapf(errs.ErrInvalidVTable, "vtable length %d exceeds uint16", len(candidate))
	}
	if prefix := int(wire.Uint16(candidate)); prefix != len(candidate) {
		return errors.Wrapf(errs.ErrInvalidVTable, "length prefix %d, actual %d", prefix, len(candidate))
	}

	return nil
}
