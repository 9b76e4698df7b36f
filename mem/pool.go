// Package mem provides the pool allocator capability the display core
// draws its scratch buffers from.
//
// Firmware pool memory is finite and allocation may fail; Heap models that
// with an optional byte budget so callers exercise their exhaustion paths.
package mem

import (
	"errors"
	"fmt"
)

// ErrOutOfResources is returned when an allocation would exceed the pool.
var ErrOutOfResources = errors.New("mem: out of resources")

// Pool is a raw byte-buffer allocate/free capability.
type Pool interface {
	Allocate(n int) ([]byte, error)
	Free(b []byte)
}

// Heap is a Pool backed by the Go heap with an optional budget.
//
// A zero limit means unlimited. Heap is not safe for concurrent use.
type Heap struct {
	limit int
	used  int
}

// NewHeap returns a heap pool that hands out at most limit bytes at a time.
func NewHeap(limit int) *Heap {
	if limit < 0 {
		limit = 0
	}
	return &Heap{limit: limit}
}

// Allocate returns a zeroed buffer of n bytes.
func (h *Heap) Allocate(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("mem: allocate %d bytes: %w", n, ErrOutOfResources)
	}
	if h.limit > 0 && h.used+n > h.limit {
		return nil, fmt.Errorf("mem: allocate %d bytes (%d/%d in use): %w", n, h.used, h.limit, ErrOutOfResources)
	}
	h.used += n
	return make([]byte, n), nil
}

// Free returns b to the pool. Freeing nil is a no-op.
func (h *Heap) Free(b []byte) {
	if b == nil {
		return
	}
	h.used -= cap(b)
	if h.used < 0 {
		h.used = 0
	}
}

// InUse reports the number of bytes currently allocated.
func (h *Heap) InUse() int { return h.used }
