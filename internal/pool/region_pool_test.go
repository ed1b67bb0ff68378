package pool

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegion(t *testing.T) {
	r := NewRegion(1024)

	require.NotNil(t, r)
	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 1024, r.Cap())
}

func TestRegion_Acquire(t *testing.T) {
	t.Run("within capacity reuses memory", func(t *testing.T) {
		r := NewRegion(64)
		b := r.Acquire(32)
		require.Len(t, b, 32)
		assert.Equal(t, 64, r.Cap())
		assert.True(t, &r.B[0] == &b[0], "Acquire should return the backing slice")
	})

	t.Run("grows when capacity is insufficient", func(t *testing.T) {
		r := NewRegion(8)
		b := r.Acquire(100)
		require.Len(t, b, 100)
		assert.GreaterOrEqual(t, r.Cap(), 100)
	})

	t.Run("clears previous contents", func(t *testing.T) {
		r := NewRegion(16)
		b := r.Acquire(16)
		for i := range b {
			b[i] = 0xFF
		}

		b = r.Acquire(16)
		assert.Equal(t, make([]byte, 16), b)
	})

	t.Run("zero size", func(t *testing.T) {
		r := NewRegion(16)
		assert.Empty(t, r.Acquire(0))
	})

	t.Run("negative size panics", func(t *testing.T) {
		r := NewRegion(16)
		assert.Panics(t, func() { r.Acquire(-1) })
	})
}

func TestRegion_Reset(t *testing.T) {
	r := NewRegion(64)
	r.Acquire(40)

	r.Reset()

	assert.Equal(t, 0, r.Len())
	assert.Equal(t, 64, r.Cap(), "Reset should preserve capacity")
}

func TestRegionPool(t *testing.T) {
	t.Run("get returns usable region", func(t *testing.T) {
		p := NewRegionPool(128, 1024)
		r := p.Get()
		require.NotNil(t, r)
		assert.Equal(t, 0, r.Len())
		p.Put(r)
	})

	t.Run("put resets region", func(t *testing.T) {
		p := NewRegionPool(128, 1024)
		r := p.Get()
		r.Acquire(100)
		p.Put(r)
		assert.Equal(t, 0, r.Len())
	})

	t.Run("put nil is ignored", func(t *testing.T) {
		p := NewRegionPool(128, 1024)
		assert.NotPanics(t, func() { p.Put(nil) })
	})

	t.Run("oversized region is discarded", func(t *testing.T) {
		p := NewRegionPool(16, 32)
		r := p.Get()
		r.Acquire(64)
		p.Put(r)
		assert.Equal(t, 64, r.Len(), "discarded region is not reset")
	})

	t.Run("concurrent use", func(t *testing.T) {
		p := NewRegionPool(RegionDefaultSize, RegionMaxThreshold)
		var wg sync.WaitGroup
		for i := range 8 {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				for range 100 {
					r := p.Get()
					b := r.Acquire(n*16 + 1)
					b[0] = byte(n)
					p.Put(r)
				}
			}(i)
		}
		wg.Wait()
	})
}

func TestGetIntSlice(t *testing.T) {
	s, cleanup := GetIntSlice(10)
	require.Len(t, s, 10)
	for i := range s {
		s[i] = i
	}
	cleanup()

	s, cleanup = GetIntSlice(3)
	defer cleanup()
	require.Len(t, s, 3)

	big, cleanupBig := GetIntSlice(1000)
	defer cleanupBig()
	require.Len(t, big, 1000)
}
