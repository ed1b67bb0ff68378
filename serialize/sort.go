package serialize

import (
	"slices"

	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/internal/pool"
	"github.com/arloliu/flatbin/spanwriter"
	"github.com/cockroachdb/errors"
)

// TableCompareFunc orders two tables given their absolute offsets in buf.
type TableCompareFunc func(buf []byte, a, b int) int

// SortTableVector returns a post action that reorders the vector of table references at
// vectorOffset so that a reader can binary search it by key.
//
// Table offsets are only final once the pass is complete, which is why the sort runs as
// a deferred action. Each slot's UOffset is recomputed for its new target. The sort is
// stable, so tables with equal keys keep their written order.
//
// Example:
//
//	ctx.AddPostAction(serialize.SortTableVector(w, vectorOffset, compareByName))
func SortTableVector(w spanwriter.SpanWriter, vectorOffset int, compare TableCompareFunc) PostSerializeAction {
	return func(buf []byte, _ *Context) error {
		if vectorOffset < 0 || vectorOffset+SizeUOffset > len(buf) {
			return errors.Wrapf(errs.ErrOutOfRange, "vector offset %d", vectorOffset)
		}

		count := int(wire.Uint32(buf[vectorOffset:]))
		first := vectorOffset + SizeUOffset
		if count > (len(buf)-first)/SizeUOffset {
			return errors.Wrapf(errs.ErrOutOfRange, "vector of %d items at %d", count, vectorOffset)
		}

		tables, cleanup := pool.GetIntSlice(count)
		defer cleanup()

		for i := range count {
			slot := first + i*SizeUOffset
			tables[i] = slot + int(wire.Uint32(buf[slot:]))
		}

		slices.SortStableFunc(tables, func(a, b int) int {
			return compare(buf, a, b)
		})

		for i, table := range tables {
			if err := WriteUOffset(w, buf, table, first+i*SizeUOffset); err != nil {
				return err
			}
		}

		return nil
	}
}
