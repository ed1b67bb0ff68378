package serialize

import (
	"bytes"
	"testing"

	"github.com/arloliu/flatbin/errs"
	"github.com/stretchr/testify/require"
)

func TestNewSharedStringCache(t *testing.T) {
	cache, err := NewSharedStringCache()
	require.NoError(t, err)
	require.Equal(t, DefaultSharedStringBuckets, cache.Buckets())
	require.True(t, cache.IsDirty(), "a new cache starts dirty")

	cache.Reset()
	require.False(t, cache.IsDirty())

	small, err := NewSharedStringCache(WithBucketCount(7))
	require.NoError(t, err)
	require.Equal(t, 7, small.Buckets())

	for _, n := range []int{0, -3} {
		_, err := NewSharedStringCache(WithBucketCount(n))
		require.ErrorIs(t, err, errs.ErrOutOfRange)
	}
}

func TestSharedStringCache_Hit(t *testing.T) {
	buf, c, w := newPass(128)
	cache, err := NewSharedStringCache()
	require.NoError(t, err)
	cache.Reset()
	c.SetSharedStrings(cache)

	first, err := ProvisionSharedString(w, buf, "hello", c)
	require.NoError(t, err)
	require.True(t, cache.IsDirty())

	used := c.Used()
	second, err := ProvisionSharedString(w, buf, "hello", c)
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, used, c.Used(), "a hit must not allocate")
	require.Equal(t, 1, bytes.Count(buf, []byte("hello")))
	require.Equal(t, "hello", readString(t, buf, first))
}

func TestSharedStringCache_Collision(t *testing.T) {
	buf, c, w := newPass(128)
	cache, err := NewSharedStringCache(WithBucketCount(1))
	require.NoError(t, err)
	cache.Reset()

	alpha, err := cache.WriteSharedString(w, buf, "alpha", c)
	require.NoError(t, err)

	beta, err := cache.WriteSharedString(w, buf, "beta", c)
	require.NoError(t, err)
	require.NotEqual(t, alpha, beta)

	// beta evicted alpha, so alpha is written again.
	alphaAgain, err := cache.WriteSharedString(w, buf, "alpha", c)
	require.NoError(t, err)
	require.NotEqual(t, alpha, alphaAgain)

	require.Equal(t, "alpha", readString(t, buf, alpha))
	require.Equal(t, "beta", readString(t, buf, beta))
	require.Equal(t, "alpha", readString(t, buf, alphaAgain))
	require.Equal(t, 2, bytes.Count(buf, []byte("alpha")))
}

func TestSharedStringCache_EmptyString(t *testing.T) {
	buf, c, w := newPass(64)
	cache, err := NewSharedStringCache()
	require.NoError(t, err)
	cache.Reset()

	offset, err := cache.WriteSharedString(w, buf, "", c)
	require.NoError(t, err)
	require.Equal(t, 56, offset, "an empty bucket must not be mistaken for a cached empty string")
	require.Equal(t, "", readString(t, buf, offset))

	again, err := cache.WriteSharedString(w, buf, "", c)
	require.NoError(t, err)
	require.Equal(t, offset, again)
}

func TestSharedStringCache_ResetBetweenRegions(t *testing.T) {
	cache, err := NewSharedStringCache()
	require.NoError(t, err)
	cache.Reset()

	buf1, c1, w := newPass(32)
	first, err := cache.WriteSharedString(w, buf1, "name", c1)
	require.NoError(t, err)
	require.True(t, cache.IsDirty())

	// Without a reset the cache hands back an offset into the first region.
	buf2, c2, _ := newPass(64)
	stale, err := cache.WriteSharedString(w, buf2, "name", c2)
	require.NoError(t, err)
	require.Equal(t, first, stale)
	require.Equal(t, 64, c2.Offset(), "nothing was written into the second region")

	buf3, c3, _ := newPass(64)
	cache.Reset()
	fresh, err := cache.WriteSharedString(w, buf3, "name", c3)
	require.NoError(t, err)
	require.Equal(t, "name", readString(t, buf3, fresh))
}

func TestProvisionSharedString_WithoutCache(t *testing.T) {
	buf, c, w := newPass(64)

	first, err := ProvisionSharedString(w, buf, "plain", c)
	require.NoError(t, err)
	second, err := ProvisionSharedString(w, buf, "plain", c)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, 2, bytes.Count(buf, []byte("plain")))
}

func TestContextReset_DetachesSharedStrings(t *testing.T) {
	c := NewContext(64)
	cache, err := NewSharedStringCache()
	require.NoError(t, err)

	c.SetSharedStrings(cache)
	require.Same(t, cache, c.SharedStrings())

	c.Reset(64)
	require.Nil(t, c.SharedStrings())
}

func BenchmarkSharedStringCache_Hit(b *testing.B) {
	buf, c, w := newPass(1 << 12)
	cache, _ := NewSharedStringCache()
	cache.Reset()
	_, _ = cache.WriteSharedString(w, buf, "benchmark", c)

	for b.Loop() {
		_, _ = cache.WriteSharedString(w, buf, "benchmark", c)
	}
}
