package pool

import "sync"

// Default sizes for pooled write regions.
const (
	RegionDefaultSize  = 1024 * 4        // 4KiB
	RegionMaxThreshold = 1024 * 1024 * 4 // 4MiB
)

// Region is a reusable, fixed-capacity byte region that a single write pass fills
// from the high end down.
type Region struct {
	// B is the underlying byte slice.
	B []byte
}

// NewRegion creates a new Region with the specified initial capacity.
func NewRegion(defaultSize int) *Region {
	return &Region{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (r *Region) Bytes() []byte {
	return r.B
}

// Len returns the length of the region.
func (r *Region) Len() int {
	return len(r.B)
}

// Cap returns the capacity of the region.
func (r *Region) Cap() int {
	return cap(r.B)
}

// Reset empties the region but keeps the allocated memory for reuse.
func (r *Region) Reset() {
	r.B = r.B[:0]
}

// Acquire returns a zeroed slice of exactly n bytes backed by the region,
// reallocating only when the current capacity is insufficient.
//
// Panics if n is negative.
func (r *Region) Acquire(n int) []byte {
	if n < 0 {
		panic("Acquire: negative size")
	}

	if cap(r.B) < n {
		r.B = make([]byte, n)
		return r.B
	}

	r.B = r.B[:n]
	clear(r.B)

	return r.B
}

// RegionPool is a pool of Regions backed by sync.Pool.
//
// Regions whose capacity grew past maxThreshold are dropped on Put so that one
// oversized pass does not pin memory forever.
type RegionPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewRegionPool creates a RegionPool handing out regions of defaultSize initial capacity.
func NewRegionPool(defaultSize int, maxThreshold int) *RegionPool {
	return &RegionPool{
		pool: sync.Pool{
			New: func() any {
				return NewRegion(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a Region from the pool.
func (rp *RegionPool) Get() *Region {
	r, _ := rp.pool.Get().(*Region)
	return r
}

// Put returns a Region to the pool for reuse.
func (rp *RegionPool) Put(r *Region) {
	if r == nil {
		return
	}

	if rp.maxThreshold > 0 && cap(r.B) > rp.maxThreshold {
		return
	}

	r.Reset()
	rp.pool.Put(r)
}
