// Package flatbin writes object graphs into a flat, zero-copy binary buffer.
//
// A flatbin buffer is built back to front in one pass over a fixed-capacity region:
// children are written before the tables that reference them, every reference is an
// unsigned offset from the referring field to its target, and tables share
// deduplicated vtables that describe where their fields live. Readers can access any
// field straight from the bytes without a decoding step.
//
// # Basic Usage
//
// The caller supplies a WriteFunc that writes the root table and returns its offset:
//
//	s, _ := flatbin.NewSerializer()
//
//	buf, err := s.Serialize(256, func(w spanwriter.SpanWriter, buf []byte, ctx *serialize.Context) (int, error) {
//	    name, err := serialize.ProvisionSharedString(w, buf, "orc", ctx)
//	    if err != nil {
//	        return 0, err
//	    }
//
//	    table, err := ctx.AllocateSpace(8, 4)
//	    if err != nil {
//	        return 0, err
//	    }
//	    if err := serialize.WriteUOffset(w, buf, name, table+4); err != nil {
//	        return 0, err
//	    }
//
//	    var vb serialize.VTableBuilder
//	    vb.Start(1)
//	    _ = vb.SetField(0, 4)
//	    vt, _ := vb.Bytes(8)
//	    _, err = serialize.FinishTable(w, buf, ctx, table, vt)
//
//	    return table, err
//	})
//
// When the required size is not known up front, SerializeGrowing retries with a larger
// region until the pass fits. SerializeBatch runs many passes in parallel.
//
// # Package Structure
//
// This package is a convenience layer over the serialize package, which holds the
// allocator, the vtable and string caches, and the encode primitives. Use serialize
// directly to manage regions and contexts yourself.
package flatbin

import (
	"context"
	"sync"

	"github.com/arloliu/flatbin/errs"
	"github.com/arloliu/flatbin/frame"
	"github.com/arloliu/flatbin/internal/options"
	"github.com/arloliu/flatbin/internal/pool"
	"github.com/arloliu/flatbin/serialize"
	"github.com/arloliu/flatbin/spanwriter"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// WriteFunc writes one object graph into buf and returns the offset of its root table.
//
// It must write children before the tables that reference them, and must only use
// offsets obtained from ctx.
type WriteFunc func(w spanwriter.SpanWriter, buf []byte, ctx *serialize.Context) (int, error)

// Serializer runs write passes over pooled regions and contexts.
//
// A Serializer is safe for concurrent use: every pass checks out its own region,
// Context and shared string cache. Create one with NewSerializer; the zero value is
// not usable.
type Serializer struct {
	cfg      *serializerConfig
	writer   spanwriter.LittleEndianWriter
	regions  *pool.RegionPool
	contexts *serialize.ContextPool
	caches   sync.Pool
}

// NewSerializer creates a Serializer.
//
// Returns an error if any option is invalid.
func NewSerializer(opts ...SerializerOption) (*Serializer, error) {
	cfg := defaultSerializerConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return &Serializer{
		cfg:      cfg,
		writer:   spanwriter.NewLittleEndianWriter(),
		regions:  pool.NewRegionPool(pool.RegionDefaultSize, pool.RegionMaxThreshold),
		contexts: serialize.NewContextPool(),
	}, nil
}

// Serialize runs fn over a region of exactly capacity bytes and returns the finished buffer.
//
// The returned slice is owned by the caller. It holds the flat buffer starting at its
// root offset, or a frame around it when WithCompression is set.
//
// Returns errs.ErrBufferTooSmall, possibly wrapped, when fn does not fit in capacity.
func (s *Serializer) Serialize(capacity int, fn WriteFunc) ([]byte, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(errs.ErrOutOfRange, "capacity %d", capacity)
	}

	region := s.regions.Get()
	defer s.regions.Put(region)
	buf := region.Acquire(capacity)

	ctx := s.contexts.Get(capacity)
	defer s.contexts.Put(ctx)

	if s.cfg.sharedStrings {
		cache, err := s.getCache()
		if err != nil {
			return nil, err
		}
		defer s.caches.Put(cache)

		if cache.IsDirty() {
			cache.Reset()
		}
		ctx.SetSharedStrings(cache)
	}

	root, err := fn(s.writer, buf, ctx)
	if err != nil {
		return nil, errors.Wrap(err, "write root")
	}

	var start int
	if s.cfg.identifier != "" {
		start, err = serialize.FinishRootWithIdentifier(s.writer, buf, ctx, root, s.cfg.identifier)
	} else {
		start, err = serialize.FinishRoot(s.writer, buf, ctx, root)
	}
	if err != nil {
		return nil, errors.Wrap(err, "finish root")
	}

	finished := buf[start:capacity]
	if s.cfg.framed {
		return frame.Encode(finished, s.cfg.compression)
	}

	out := make([]byte, len(finished))
	copy(out, finished)

	return out, nil
}

// SerializeGrowing runs fn starting with a region of initialCapacity bytes and doubles
// the region each time the pass runs out of space, up to the configured max capacity.
func (s *Serializer) SerializeGrowing(initialCapacity int, fn WriteFunc) ([]byte, error) {
	if initialCapacity <= 0 {
		return nil, errors.Wrapf(errs.ErrOutOfRange, "initial capacity %d", initialCapacity)
	}

	capacity := min(initialCapacity, s.cfg.maxCapacity)
	for {
		out, err := s.Serialize(capacity, fn)
		if err == nil || !errors.Is(err, errs.ErrBufferTooSmall) {
			return out, err
		}

		if capacity >= s.cfg.maxCapacity {
			s.cfg.logger.Warn("buffer does not fit in max capacity",
				zap.Int("max_capacity", s.cfg.maxCapacity),
				zap.Error(err))

			return nil, err
		}

		next := capacity * 2
		if next > s.cfg.maxCapacity || next <= 0 {
			next = s.cfg.maxCapacity
		}

		s.cfg.logger.Debug("buffer too small, growing region",
			zap.Int("capacity", capacity),
			zap.Int("next_capacity", next))
		capacity = next
	}
}

// SerializeBatch serializes every fn in parallel, each pass starting at initialCapacity
// and growing as SerializeGrowing does. Results are returned in the order of fns.
//
// The first failure cancels passes that have not started yet and is returned.
func (s *Serializer) SerializeBatch(ctx context.Context, initialCapacity int, fns []WriteFunc) ([][]byte, error) {
	results := make([][]byte, len(fns))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.parallelism)

	for i, fn := range fns {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := s.SerializeGrowing(initialCapacity, fn)
			if err != nil {
				return errors.Wrapf(err, "batch item #%d", i)
			}
			results[i] = out

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

// Deframe verifies a frame produced with WithCompression and returns the flat buffer it carries.
func Deframe(data []byte) ([]byte, error) {
	return frame.Decode(data)
}

func (s *Serializer) getCache() (*serialize.SharedStringCache, error) {
	if cache, ok := s.caches.Get().(*serialize.SharedStringCache); ok {
		return cache, nil
	}

	return serialize.NewSharedStringCache(serialize.WithBucketCount(s.cfg.buckets))
}
