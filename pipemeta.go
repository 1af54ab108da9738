package pipemeta

import (
	"fmt"
	"sync"
)

// Allocator supplies the byte arrays owned by a decoded metadata handle.
// Every buffer obtained from Alloc is returned through Free on the same
// Allocator exactly once.
type Allocator interface {
	Alloc(size int) ([]byte, error)
	Free(buf []byte)
}

// HeapAllocator allocates from the Go heap. Free is a no-op; the garbage
// collector reclaims released buffers.
type HeapAllocator struct{}

// Alloc returns a zeroed slice of the given size.
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative allocation size %d", size)
	}
	return make([]byte, size), nil
}

// Free releases nothing.
func (HeapAllocator) Free([]byte) {}

// BudgetAllocator is a heap-backed Allocator that refuses requests once the
// bytes currently in use would exceed a fixed limit. It also keeps track of
// outstanding allocations, which makes it useful for asserting that a
// consumer released everything it acquired. Safe for concurrent use.
type BudgetAllocator struct {
	limit       int
	inUse       int
	outstanding int
	mu          sync.Mutex
}

// NewBudgetAllocator creates an allocator that serves at most limit bytes at
// a time. A negative limit means unlimited.
func NewBudgetAllocator(limit int) *BudgetAllocator {
	return &BudgetAllocator{limit: limit}
}

// Alloc reserves size bytes from the budget.
func (a *BudgetAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("negative allocation size %d", size)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.limit >= 0 && a.inUse+size > a.limit {
		return nil, fmt.Errorf("budget exhausted: %d bytes in use, %d requested, limit %d", a.inUse, size, a.limit)
	}
	a.inUse += size
	a.outstanding++
	return make([]byte, size), nil
}

// Free returns buf's capacity to the budget.
func (a *BudgetAllocator) Free(buf []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.inUse -= len(buf)
	a.outstanding--
}

// InUse returns the number of bytes currently allocated.
func (a *BudgetAllocator) InUse() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inUse
}

// Outstanding returns the number of buffers not yet freed.
func (a *BudgetAllocator) Outstanding() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.outstanding
}
