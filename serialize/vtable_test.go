package serialize

import (
	"testing"

	"github.com/arloliu/flatbin/errs"
	"github.com/stretchr/testify/require"
)

func TestVTableBuilder_Bytes(t *testing.T) {
	var b VTableBuilder

	b.Start(3)
	require.NoError(t, b.SetField(0, 4))
	require.NoError(t, b.SetField(1, 8))

	vt, err := b.Bytes(12)
	require.NoError(t, err)
	require.Equal(t, []byte{8, 0, 12, 0, 4, 0, 8, 0}, vt, "trailing absent field is trimmed")

	b.Start(2)
	require.NoError(t, b.SetField(1, 4))

	vt, err = b.Bytes(8)
	require.NoError(t, err)
	require.Equal(t, []byte{8, 0, 8, 0, 0, 0, 4, 0}, vt, "leading absent field is kept")

	b.Start(4)
	vt, err = b.Bytes(4)
	require.NoError(t, err)
	require.Equal(t, []byte{4, 0, 4, 0}, vt)
}

func TestVTableBuilder_Errors(t *testing.T) {
	var b VTableBuilder
	b.Start(2)

	require.ErrorIs(t, b.SetField(2, 4), errs.ErrOutOfRange)
	require.ErrorIs(t, b.SetField(-1, 4), errs.ErrOutOfRange)
	require.ErrorIs(t, b.SetField(0, 2), errs.ErrOutOfRange, "field may not overlap the soffset")
	require.ErrorIs(t, b.SetField(0, 1<<16), errs.ErrOutOfRange)

	_, err := b.Bytes(2)
	require.ErrorIs(t, err, errs.ErrOutOfRange)
}

func TestFinishTable_SharedVTable(t *testing.T) {
	buf, c, w := newPass(128)
	candidate := []byte{6, 0, 8, 0, 4, 0}

	t1, err := c.AllocateSpace(8, 4)
	require.NoError(t, err)
	require.Equal(t, 120, t1)

	vt1, err := FinishTable(w, buf, c, t1, candidate)
	require.NoError(t, err)
	require.Equal(t, 114, vt1)
	require.Equal(t, int32(6), int32(le.Uint32(buf[t1:]))) //nolint:gosec

	t2, err := c.AllocateSpace(8, 4)
	require.NoError(t, err)
	require.Equal(t, 104, t2)

	vt2, err := FinishTable(w, buf, c, t2, candidate)
	require.NoError(t, err)
	require.Equal(t, vt1, vt2)
	require.Equal(t, int32(-10), int32(le.Uint32(buf[t2:]))) //nolint:gosec
	require.Equal(t, 1, c.VTableCount())
}

func TestFinishTable_InvalidVTable(t *testing.T) {
	buf, c, w := newPass(32)

	_, err := FinishTable(w, buf, c, 24, []byte{4, 0, 4})
	require.ErrorIs(t, err, errs.ErrInvalidVTable)
}
