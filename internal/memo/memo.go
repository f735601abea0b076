// Package memo caches the last output of a two-input derivation, keyed on
// the identity of the input slices rather than their contents.
package memo

import (
	"sync"
	"unsafe"
)

// Ref identifies a slice by its backing array and length. Two refs are equal
// only when they view the same elements of the same array.
type Ref struct {
	data unsafe.Pointer
	n    int
}

// RefOf returns the identity of s. A nil slice and an empty slice with no
// backing array share the zero ref.
func RefOf[T any](s []T) Ref {
	if len(s) == 0 {
		return Ref{}
	}
	return Ref{data: unsafe.Pointer(unsafe.SliceData(s)), n: len(s)}
}

// Pair holds the last inputs and output of a derivation over two slices.
// Mutating an input in place after a call is not detected.
type Pair[A, B, R any] struct {
	mu    sync.Mutex
	valid bool
	a     Ref
	b     Ref
	out   R
}

// Get returns the cached output when both inputs are identical to the
// previous call, otherwise it runs compute and caches its result. The second
// return value reports a cache hit.
func (p *Pair[A, B, R]) Get(a []A, b []B, compute func([]A, []B) R) (R, bool) {
	ra, rb := RefOf(a), RefOf(b)

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.valid && p.a == ra && p.b == rb {
		return p.out, true
	}
	p.out = compute(a, b)
	p.a, p.b = ra, rb
	p.valid = true
	return p.out, false
}

// Reset drops the cached output.
func (p *Pair[A, B, R]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	var zero R
	p.out = zero
	p.valid = false
	p.a, p.b = Ref{}, Ref{}
}
