package differ

import "sync"

// slicePool recycles scratch slices across entity classifications. Slices
// that grew past maxCap are dropped.
type slicePool[T any] struct {
	pool   sync.Pool
	maxCap int
}

func newSlicePool[T any](initialCap, maxCap int) *slicePool[T] {
	sp := &slicePool[T]{maxCap: maxCap}
	sp.pool.New = func() any {
		s := make([]T, 0, initialCap)
		return &s
	}
	return sp
}

func (sp *slicePool[T]) get() *[]T {
	s := sp.pool.Get().(*[]T)
	*s = (*s)[:0]
	return s
}

func (sp *slicePool[T]) put(s *[]T) {
	if s == nil || cap(*s) > sp.maxCap {
		return
	}
	clear(*s)
	sp.pool.Put(s)
}

var (
	changeSlices  = newSlicePool[Change](16, 128)
	segmentSlices = newSlicePool[segment](8, 64)
)
