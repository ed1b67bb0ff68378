package serialize

import (
	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/internal/hash"
	"github.com/arloliu/flatbin/internal/options"
	"github.com/arloliu/flatbin/spanwriter"
	"github.com/cockroachdb/errors"
)

// DefaultSharedStringBuckets is the default bucket count of a SharedStringCache.
// A prime spreads hashes evenly across buckets.
const DefaultSharedStringBuckets = 1019

// SharedStringWriter writes strings that may be shared by several fields.
//
// Implementations return the absolute offset of a string vector equal to value, writing
// one only when necessary.
type SharedStringWriter interface {
	WriteSharedString(w spanwriter.SpanWriter, buf []byte, value string, ctx *Context) (int, error)
	// IsDirty reports whether the writer may hold offsets from an earlier region.
	IsDirty() bool
	// Reset forgets every cached offset.
	Reset()
}

type sharedStringEntry struct {
	value  string
	offset int
	used   bool
}

// SharedStringCache is a direct-mapped SharedStringWriter: each string hashes to exactly
// one bucket, and a different string landing in an occupied bucket replaces it.
//
// A miss always writes fresh bytes, so collisions only cost hit rate, never correctness.
// Cached offsets are relative to the region they were written into: call Reset before
// using the cache with a different region. A new cache starts dirty so that callers
// checking IsDirty reset it before first use.
//
// A SharedStringCache is not safe for concurrent use.
type SharedStringCache struct {
	entries []sharedStringEntry
	dirty   bool
}

var _ SharedStringWriter = (*SharedStringCache)(nil)

type sharedStringConfig struct {
	buckets int
}

// SharedStringOption configures a SharedStringCache.
type SharedStringOption = options.Option[*sharedStringConfig]

// WithBucketCount sets the number of cache buckets.
//
// Returns errs.ErrOutOfRange from NewSharedStringCache if n is not positive.
func WithBucketCount(n int) SharedStringOption {
	return options.New(func(c *sharedStringConfig) error {
		if n <= 0 {
			return errors.Wrapf(errs.ErrOutOfRange, "shared string bucket count %d", n)
		}
		c.buckets = n

		return nil
	})
}

// NewSharedStringCache creates a cache with DefaultSharedStringBuckets buckets unless
// WithBucketCount says otherwise.
func NewSharedStringCache(opts ...SharedStringOption) (*SharedStringCache, error) {
	cfg := &sharedStringConfig{buckets: DefaultSharedStringBuckets}
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &SharedStringCache{
		entries: make([]sharedStringEntry, cfg.buckets),
		dirty:   true,
	}, nil
}

// Buckets returns the number of buckets.
func (s *SharedStringCache) Buckets() int {
	return len(s.entries)
}

// IsDirty reports whether the cache has been written to since the last Reset.
func (s *SharedStringCache) IsDirty() bool {
	return s.dirty
}

// Reset clears every bucket and the dirty flag.
func (s *SharedStringCache) Reset() {
	clear(s.entries)
	s.dirty = false
}

// WriteSharedString returns the cached offset of value when its bucket holds the same
// string, and otherwise writes value with ProvisionString and caches the new offset.
func (s *SharedStringCache) WriteSharedString(
	w spanwriter.SpanWriter,
	buf []byte,
	value string,
	ctx *Context,
) (int, error) {
	entry := &s.entries[hash.Bucket(value, len(s.entries))]
	if entry.used && entry.value == value {
		return entry.offset, nil
	}

	offset, err := ProvisionString(w, buf, value, ctx)
	if err != nil {
		return 0, err
	}

	entry.value = value
	entry.offset = offset
	entry.used = true
	s.dirty = true

	return offset, nil
}
