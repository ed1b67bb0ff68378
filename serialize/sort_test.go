package serialize

import (
	"bytes"
	"testing"

	"github.com/arloliu/flatbin/errs"
	"github.com/stretchr/testify/require"
)

func nameOf(buf []byte, table int) []byte {
	field := tableField(buf, table, 0)
	s := uoffsetTarget(buf, field)
	n := int(le.Uint32(buf[s:]))

	return buf[s+SizeUOffset : s+SizeUOffset+n]
}

func compareByName(buf []byte, a, b int) int {
	return bytes.Compare(nameOf(buf, a), nameOf(buf, b))
}

func TestSortTableVector(t *testing.T) {
	buf, c, w := newPass(512)
	var vb VTableBuilder

	names := []string{"cherry", "apple", "banana", "apple"}
	tables := make([]int, len(names))
	for i, name := range names {
		tables[i] = writeNamedTable(t, w, buf, c, &vb, name)
	}

	vec, err := c.AllocateVector(SizeUOffset, len(tables), SizeUOffset)
	require.NoError(t, err)
	w.WriteUint32(buf, uint32(len(tables)), vec)
	for i, table := range tables {
		require.NoError(t, WriteUOffset(w, buf, table, vec+SizeUOffset+i*SizeUOffset))
	}

	c.AddPostAction(SortTableVector(w, vec, compareByName))
	require.Equal(t, 1, c.PendingPostActions())

	// A second table references the vector; it must still see it after sorting.
	holder, err := c.AllocateSpace(8, 4)
	require.NoError(t, err)
	require.NoError(t, WriteUOffset(w, buf, vec, holder+4))
	vb.Start(1)
	require.NoError(t, vb.SetField(0, 4))
	vt, err := vb.Bytes(8)
	require.NoError(t, err)
	_, err = FinishTable(w, buf, c, holder, vt)
	require.NoError(t, err)

	_, err = FinishRoot(w, buf, c, holder)
	require.NoError(t, err)

	var got []string
	var order []int
	for i := range len(tables) {
		table := uoffsetTarget(buf, vec+SizeUOffset+i*SizeUOffset)
		order = append(order, table)
		got = append(got, string(nameOf(buf, table)))
	}

	require.Equal(t, []string{"apple", "apple", "banana", "cherry"}, got)
	require.Equal(t, []int{tables[1], tables[3], tables[2], tables[0]}, order, "sort is stable")
}

func TestSortTableVector_OutOfRange(t *testing.T) {
	buf, c, w := newPass(16)

	require.ErrorIs(t, SortTableVector(w, 14, compareByName)(buf, c), errs.ErrOutOfRange)
	require.ErrorIs(t, SortTableVector(w, -4, compareByName)(buf, c), errs.ErrOutOfRange)

	le.PutUint32(buf[8:], 100)
	require.ErrorIs(t, SortTableVector(w, 8, compareByName)(buf, c), errs.ErrOutOfRange)
}

func TestSortTableVector_Empty(t *testing.T) {
	buf, c, w := newPass(16)

	vec, err := c.AllocateVector(SizeUOffset, 0, SizeUOffset)
	require.NoError(t, err)
	w.WriteUint32(buf, 0, vec)

	require.NoError(t, SortTableVector(w, vec, compareByName)(buf, c))
}
