package orbit

import "sync"

// BufferPool recycles orbit buffers between dispatches. The zero value is
// ready to use.
type BufferPool struct {
	pool sync.Pool
}

// Get returns an empty buffer with capacity for at least n iterates.
func (p *BufferPool) Get(n uint32) []complex128 {
	if buf, ok := p.pool.Get().([]complex128); ok && cap(buf) >= int(n) {
		return buf[:0]
	}
	return make([]complex128, 0, n)
}

// Put returns buf to the pool. The caller must not use it afterwards.
func (p *BufferPool) Put(buf []complex128) {
	if cap(buf) == 0 {
		return
	}
	p.pool.Put(buf[:0])
}
