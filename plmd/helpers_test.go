package plmd_test

import (
	"encoding/binary"
	"sync"

	pipemeta "github.com/wippyai/pipeline-metadata"
)

// blob assembles big-endian test inputs word by word.
type blob struct {
	b []byte
}

func (bl *blob) words(ws ...uint32) *blob {
	for _, w := range ws {
		bl.b = binary.BigEndian.AppendUint32(bl.b, w)
	}
	return bl
}

// raw appends a raw span holding s, NUL padded to a word boundary.
func (bl *blob) raw(s string) *blob {
	n := len(s)/4 + 1
	bl.words(0xFFFFFFFF, uint32(n))
	payload := make([]byte, n*4)
	copy(payload, s)
	bl.b = append(bl.b, payload...)
	return bl
}

func header(layout, image, sampler, user uint32) []uint32 {
	return []uint32{0xDEADBEEF, 32, 1, 0, layout, image, sampler, user}
}

// scenarioBlob is one set with one uniform buffer descriptor visible to the
// vertex stage, empty CIS maps and a single foo=bar user pair.
func scenarioBlob() []byte {
	bl := &blob{}
	bl.words(header(32, 52, 56, 60)...)
	bl.words(1, 1, 0, 0, 0x01) // layout @32
	bl.words(0)                // image map @52
	bl.words(0)                // sampler map @56
	bl.words(1)                // user metadata @60
	bl.raw("foo").raw("bar")
	return bl.b
}

// failingAllocator fails the failAt-th allocation (1-based) and delegates
// everything else.
type failingAllocator struct {
	inner  *pipemeta.BudgetAllocator
	failAt int
	calls  int
	mu     sync.Mutex
}

func newFailingAllocator(failAt int) *failingAllocator {
	return &failingAllocator{inner: pipemeta.NewBudgetAllocator(-1), failAt: failAt}
}

func (a *failingAllocator) Alloc(size int) ([]byte, error) {
	a.mu.Lock()
	a.calls++
	fail := a.calls == a.failAt
	a.mu.Unlock()
	if fail {
		return nil, errInjected
	}
	return a.inner.Alloc(size)
}

func (a *failingAllocator) Free(buf []byte) {
	a.inner.Free(buf)
}

type injectedError struct{}

func (injectedError) Error() string { return "injected allocation failure" }

var errInjected error = injectedError{}
