package serialize

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContextPool(t *testing.T) {
	p := NewContextPool()

	c := p.Get(64)
	require.Equal(t, 64, c.Offset())
	require.Equal(t, 64, c.Capacity())

	_, err := c.AllocateSpace(10, 4)
	require.NoError(t, err)
	c.AddPostAction(func([]byte, *Context) error { return nil })
	p.Put(c)

	c = p.Get(32)
	require.Equal(t, 32, c.Offset())
	require.Equal(t, 1, c.MaxAlignment())
	require.Equal(t, 0, c.PendingPostActions())
	require.Equal(t, 0, c.VTableCount())

	require.NotPanics(t, func() { p.Put(nil) })
}

func TestContextPool_ZeroValue(t *testing.T) {
	var p ContextPool

	c := p.Get(48)
	require.NotNil(t, c)
	require.Equal(t, 48, c.Offset())
	require.Equal(t, 48, c.Capacity())

	p.Put(c)
	c = p.Get(16)
	require.Equal(t, 16, c.Offset())
}

func TestContextPool_Concurrent(t *testing.T) {
	p := NewContextPool()
	w := newWriter()

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()

			c := p.Get(64)
			defer p.Put(c)

			buf := make([]byte, 64)
			offset, err := ProvisionString(w, buf, "worker", c)
			if err != nil {
				return
			}
			n := int(le.Uint32(buf[offset:]))
			results[i] = string(buf[offset+4 : offset+4+n])
		}()
	}
	wg.Wait()

	for _, r := range results {
		require.Equal(t, "worker", r)
	}
}
