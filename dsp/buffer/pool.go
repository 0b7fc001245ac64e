package buffer

import "sync"

// Pool provides sync.Pool-based Ring reuse so that filters replaced during
// reconfiguration hand their history back instead of leaving it to the GC.
type Pool struct {
	pool sync.Pool
}

// NewPool returns a Pool ready for use.
func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() any {
				return &Ring{}
			},
		},
	}
}

// Get returns a zeroed Ring whose logical length is capacity and whose
// physical capacity is at least capacity. Pooled rings that are too small
// are dropped. Callers must return it via Put when done.
func (p *Pool) Get(capacity int) *Ring {
	if capacity < 0 {
		capacity = 0
	}
	r := p.pool.Get().(*Ring)
	if r.Cap() < capacity {
		return NewRing(capacity)
	}
	r.Reset()
	r.size = capacity
	return r
}

// Put returns a Ring to the pool for reuse.
// The caller must not use the ring after calling Put.
func (p *Pool) Put(r *Ring) {
	if r == nil {
		return
	}
	p.pool.Put(r)
}
