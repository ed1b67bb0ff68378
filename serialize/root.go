package serialize

import (
	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/spanwriter"
	"github.com/cockroachdb/errors"
)

// FileIdentifierLength is the length of the optional identifier that follows the root UOffset.
const FileIdentifierLength = 4

// FinishRoot completes a pass: it writes the UOffset of the root table at the new
// logical start of the buffer and runs the queued post actions.
//
// The root UOffset is aligned to the largest alignment requested during the pass, so a
// reader given buf[start:] in a suitably aligned allocation sees every value aligned.
//
// Returns:
//   - int: Logical start of the finished buffer; the finished bytes are buf[start:ctx.Capacity()]
//   - error: allocation, offset or post action errors
func FinishRoot(w spanwriter.SpanWriter, buf []byte, ctx *Context, rootOffset int) (int, error) {
	return finishRoot(w, buf, ctx, rootOffset, nil)
}

// FinishRootWithIdentifier is FinishRoot with a 4-byte file identifier stored right
// after the root UOffset.
func FinishRootWithIdentifier(
	w spanwriter.SpanWriter,
	buf []byte,
	ctx *Context,
	rootOffset int,
	identifier string,
) (int, error) {
	if len(identifier) != FileIdentifierLength {
		return 0, errors.Wrapf(errs.ErrOutOfRange, "file identifier %q must be %d bytes", identifier, FileIdentifierLength)
	}

	return finishRoot(w, buf, ctx, rootOffset, []byte(identifier))
}

func finishRoot(w spanwriter.SpanWriter, buf []byte, ctx *Context, rootOffset int, identifier []byte) (int, error) {
	align := max(SizeUOffset, ctx.MaxAlignment())

	start, err := ctx.AllocateSpace(SizeUOffset+len(identifier), align)
	if err != nil {
		return 0, err
	}

	if err := WriteUOffset(w, buf, rootOffset, start); err != nil {
		return 0, err
	}
	if len(identifier) > 0 {
		w.WriteBytes(buf, identifier, start+SizeUOffset)
	}

	if err := ctx.RunPostActions(buf); err != nil {
		return 0, err
	}

	return start, nil
}
