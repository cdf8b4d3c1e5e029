// Package pool provides a generic object pool with generation-checked handles.
// Slots are reused instead of reallocated, and a handle held past Return simply
// stops resolving instead of aliasing the next occupant.
package pool

import "errors"

// ErrStaleHandle is returned when a handle does not refer to an in-use slot.
var ErrStaleHandle = errors.New("pool: stale or unknown handle")

// Handle encodes a 32-bit slot index in the lower bits and a 32-bit
// generation in the upper bits. Generation increments on every release.
// The zero Handle never refers to a slot.
type Handle uint64

func makeHandle(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

func (h Handle) Index() uint32      { return uint32(h) }
func (h Handle) Generation() uint32 { return uint32(h >> 32) }
func (h Handle) IsZero() bool       { return h == 0 }

// Options controls pool sizing.
type Options struct {
	Initial int // slots allocated up front
	Grow    int // slots added when no slot is free (at least 1)
	Max     int // hard slot limit, 0 means unbounded
}

type slot[T any] struct {
	value T
	gen   uint32
	inUse bool
	seq   uint64 // borrow order, used to find the longest-running entry
}

// Pool hands out reusable values of type T.
// Not safe for concurrent use; the owner serializes access.
type Pool[T any] struct {
	opts  Options
	slots []*slot[T]
	free  []uint32
	inUse int
	seq   uint64
	reset func(*T)
}

// New creates a pool and preallocates opts.Initial slots.
// reset is called on every released value; nil zeroes it.
func New[T any](opts Options, reset func(*T)) *Pool[T] {
	if opts.Grow < 1 {
		opts.Grow = 1
	}
	if opts.Initial < 0 {
		opts.Initial = 0
	}
	if opts.Max < 0 {
		opts.Max = 0
	}
	if opts.Max > 0 && opts.Initial > opts.Max {
		opts.Initial = opts.Max
	}
	if reset == nil {
		reset = func(v *T) {
			var zero T
			*v = zero
		}
	}
	p := &Pool[T]{opts: opts, reset: reset}
	p.grow(opts.Initial)
	return p
}

// grow adds up to n slots, respecting Max. Returns the number added.
func (p *Pool[T]) grow(n int) int {
	if p.opts.Max > 0 {
		n = min(n, p.opts.Max-len(p.slots))
	}
	if n <= 0 {
		return 0
	}
	start := len(p.slots)
	for i := 0; i < n; i++ {
		p.slots = append(p.slots, &slot[T]{gen: 1})
	}
	// Push in reverse so the lowest index is borrowed first.
	for i := start + n - 1; i >= start; i-- {
		p.free = append(p.free, uint32(i))
	}
	return n
}

// Borrow returns a free slot, growing the pool if needed. When the pool is
// at Max with every slot in use, the longest-running entry is recycled and
// its old handle is returned as evicted so the owner can detach it.
// evicted is zero when nothing was recycled.
func (p *Pool[T]) Borrow() (h Handle, v *T, evicted Handle) {
	if len(p.free) == 0 && p.grow(p.opts.Grow) == 0 {
		evicted = p.evictOldest()
	}

	idx := p.free[len(p.free)-1]
	p.free = p.free[:len(p.free)-1]

	s := p.slots[idx]
	s.inUse = true
	p.seq++
	s.seq = p.seq
	p.inUse++
	return makeHandle(idx, s.gen), &s.value, evicted
}

func (p *Pool[T]) evictOldest() Handle {
	oldest := -1
	for i, s := range p.slots {
		if s.inUse && (oldest < 0 || s.seq < p.slots[oldest].seq) {
			oldest = i
		}
	}
	s := p.slots[oldest]
	h := makeHandle(uint32(oldest), s.gen)
	p.release(uint32(oldest))
	return h
}

func (p *Pool[T]) lookup(h Handle) (*slot[T], bool) {
	idx := h.Index()
	if h.IsZero() || int(idx) >= len(p.slots) {
		return nil, false
	}
	s := p.slots[idx]
	if !s.inUse || s.gen != h.Generation() {
		return nil, false
	}
	return s, true
}

func (p *Pool[T]) release(idx uint32) {
	s := p.slots[idx]
	p.reset(&s.value)
	s.inUse = false
	s.gen++
	if s.gen == 0 {
		s.gen = 1
	}
	p.inUse--
	p.free = append(p.free, idx)
}

// Get resolves a handle to its value.
func (p *Pool[T]) Get(h Handle) (*T, bool) {
	s, ok := p.lookup(h)
	if !ok {
		return nil, false
	}
	return &s.value, true
}

// Alive reports whether h still refers to an in-use slot.
func (p *Pool[T]) Alive(h Handle) bool {
	_, ok := p.lookup(h)
	return ok
}

// Return frees the slot referred to by h.
func (p *Pool[T]) Return(h Handle) error {
	if _, ok := p.lookup(h); !ok {
		return ErrStaleHandle
	}
	p.release(h.Index())
	return nil
}

// ReturnAll frees every outstanding slot.
func (p *Pool[T]) ReturnAll() {
	for i, s := range p.slots {
		if s.inUse {
			p.release(uint32(i))
		}
	}
}

// InUse returns the number of borrowed slots.
func (p *Pool[T]) InUse() int {
	return p.inUse
}

// Cap returns the number of allocated slots.
func (p *Pool[T]) Cap() int {
	return len(p.slots)
}
