package serialize

import (
	"encoding/binary"
	"testing"

	"github.com/arloliu/flatbin/spanwriter"
	"github.com/stretchr/testify/require"
)

var le = binary.LittleEndian

func newPass(capacity int) ([]byte, *Context, spanwriter.LittleEndianWriter) {
	return make([]byte, capacity), NewContext(capacity), newWriter()
}

func newWriter() spanwriter.LittleEndianWriter {
	return spanwriter.NewLittleEndianWriter()
}

// uoffsetTarget resolves the UOffset stored at field.
func uoffsetTarget(buf []byte, field int) int {
	return field + int(le.Uint32(buf[field:]))
}

// readString decodes the string vector at offset and checks its terminator.
func readString(t *testing.T, buf []byte, offset int) string {
	t.Helper()

	n := int(le.Uint32(buf[offset:]))
	start := offset + SizeUOffset
	require.Equal(t, byte(0), buf[start+n], "string must be NUL terminated")

	return string(buf[start : start+n])
}

// tableField returns the absolute position of field index in the table at table, or -1
// when the field is absent.
func tableField(buf []byte, table int, index int) int {
	vt := table - int(int32(le.Uint32(buf[table:]))) //nolint:gosec
	vtSize := int(le.Uint16(buf[vt:]))

	entry := vt + (2+index)*SizeVOffset
	if entry >= vt+vtSize {
		return -1
	}

	off := int(le.Uint16(buf[entry:]))
	if off == 0 {
		return -1
	}

	return table + off
}

// writeNamedTable writes a table with one string field and returns its offset.
func writeNamedTable(t *testing.T, w spanwriter.SpanWriter, buf []byte, ctx *Context, vb *VTableBuilder, name string) int {
	t.Helper()

	nameOffset, err := ProvisionSharedString(w, buf, name, ctx)
	require.NoError(t, err)

	table, err := ctx.AllocateSpace(8, 4)
	require.NoError(t, err)
	require.NoError(t, WriteUOffset(w, buf, nameOffset, table+4))

	vb.Start(1)
	require.NoError(t, vb.SetField(0, 4))
	vt, err := vb.Bytes(8)
	require.NoError(t, err)

	_, err = FinishTable(w, buf, ctx, table, vt)
	require.NoError(t, err)

	return table
}
