// Package serialize implements the flatbin binary write engine.
//
// A write pass fills one caller-owned, fixed-capacity byte region from the high end
// toward the low end. Children are written before their parents, so every reference
// is encoded as a relative unsigned offset (UOffset) computed as
// target - referrer, where the target always sits at a higher address.
//
// # Components
//
//   - Context: the bump-down allocator, the vtable dedup cache, the deferred action
//     queue and the identity-keyed object offset cache for one pass.
//   - SharedStringCache: an optional direct-mapped interning cache that collapses repeated
//     string writes into one physical copy.
//   - Encode primitives: stateless helpers (WriteByteBlock, WriteScalarVector,
//     ProvisionString, WriteUOffset, WriteBool, ...) layered on a spanwriter.SpanWriter.
//   - VTableBuilder and FinishTable: build candidate vtables and link tables to them.
//   - FinishRoot: writes the root UOffset and runs deferred actions.
//
// # Basic Usage
//
//	ctx := serialize.NewContext(len(buf))
//	w := spanwriter.NewLittleEndianWriter()
//
//	name, err := serialize.ProvisionString(w, buf, "hello", ctx)
//	if err != nil {
//	    return err
//	}
//	// ... write a table that references name ...
//	start, err := serialize.FinishRoot(w, buf, ctx, tableOffset)
//	if err != nil {
//	    return err
//	}
//	finished := buf[start:]
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent use. A Context, and any
// SharedStringCache attached to it, belongs to exactly one in-flight pass. Use a
// ContextPool to check out one Context per goroutine and return it afterwards.
//
// # Errors
//
// Failures are returned synchronously and never retried: errs.ErrBufferTooSmall when the
// region is exhausted, errs.ErrOutOfRange for invalid counts and capacities,
// errs.ErrOffsetOverflow for offsets or sizes that do not fit their wire width, and
// errs.ErrBigEndianHost for raw element copies on a big-endian host. An aborted pass
// leaves no usable buffer.
package serialize
