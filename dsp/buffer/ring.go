package buffer

import "fmt"

// Ring is a circular history of complex samples.
//
// The backing slice is allocated once with a fixed capacity. The logical
// window (Len) can be moved anywhere in [0, Cap] without reallocating; the
// write cursor always stays inside the logical window.
type Ring struct {
	samples []complex128
	size    int
	pos     int
}

// NewRing returns a zero-filled ring whose logical length equals capacity.
func NewRing(capacity int) *Ring {
	if capacity < 0 {
		capacity = 0
	}
	return &Ring{samples: make([]complex128, capacity), size: capacity}
}

// Len returns the logical window length.
func (r *Ring) Len() int {
	return r.size
}

// Cap returns the physical capacity of the backing slice.
func (r *Ring) Cap() int {
	return len(r.samples)
}

// Cursor returns the slot the next Push overwrites.
func (r *Ring) Cursor() int {
	return r.pos
}

// Data returns the full backing slice, including slots outside the logical
// window. Mutations are visible through the ring.
func (r *Ring) Data() []complex128 {
	return r.samples
}

// Push stores x at the cursor and advances it, wrapping at Len.
func (r *Ring) Push(x complex128) {
	if r.size == 0 {
		return
	}
	r.samples[r.pos] = x
	r.pos++
	if r.pos >= r.size {
		r.pos = 0
	}
}

// At returns the sample pushed age steps ago; age 0 is the newest sample.
func (r *Ring) At(age int) complex128 {
	if r.size == 0 {
		return 0
	}
	age %= r.size
	if age < 0 {
		age += r.size
	}
	idx := r.pos - 1 - age
	if idx < 0 {
		idx += r.size
	}
	return r.samples[idx]
}

// Each calls fn for every sample in the logical window, newest first.
func (r *Ring) Each(fn func(age int, x complex128)) {
	newer, older := r.Segments()
	age := 0
	for i := len(newer) - 1; i >= 0; i-- {
		fn(age, newer[i])
		age++
	}
	for i := len(older) - 1; i >= 0; i-- {
		fn(age, older[i])
		age++
	}
}

// Segments splits the logical window into two contiguous runs. Walking newer
// from its last element to its first, then older the same way, visits the
// samples from newest to oldest.
func (r *Ring) Segments() (newer, older []complex128) {
	return r.samples[:r.pos], r.samples[r.pos:r.size]
}

// Resize moves the logical window to n samples without reallocating.
// Slots newly exposed by growing are zeroed, and the cursor wraps to 0 if it
// would fall outside the shrunken window. n must not exceed Cap.
func (r *Ring) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n > len(r.samples) {
		panic(fmt.Sprintf("buffer: resize %d exceeds capacity %d", n, len(r.samples)))
	}
	for i := r.size; i < n; i++ {
		r.samples[i] = 0
	}
	r.size = n
	if r.pos >= n {
		r.pos = 0
	}
}

// Reset clears every stored sample and rewinds the cursor.
func (r *Ring) Reset() {
	for i := range r.samples {
		r.samples[i] = 0
	}
	r.pos = 0
}
