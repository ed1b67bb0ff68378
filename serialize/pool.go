package serialize

import "sync"

// ContextPool hands out Contexts so that each goroutine runs its pass on its own
// instance. Get resets the Context for the requested capacity; Put resets it again so
// that a pooled Context does not keep object references or closures alive.
//
// The zero value is ready to use.
type ContextPool struct {
	pool sync.Pool
}

// NewContextPool creates an empty ContextPool.
func NewContextPool() *ContextPool {
	return &ContextPool{
		pool: sync.Pool{
			New: func() any {
				return NewContext(0)
			},
		},
	}
}

// Get checks out a Context reset to capacity.
func (p *ContextPool) Get(capacity int) *Context {
	c, ok := p.pool.Get().(*Context)
	if !ok {
		return NewContext(capacity)
	}
	c.Reset(capacity)

	return c
}

// Put returns c to the pool. c must not be used afterwards.
func (p *ContextPool) Put(c *Context) {
	if c == nil {
		return
	}

	c.Reset(0)
	p.pool.Put(c)
}
