package pathutil

import "sync"

// Depth limits of pooled builders, in segments.
const (
	initialDepth   = 12
	maxPooledDepth = 64
)

var builders = sync.Pool{
	New: func() any {
		return &PathBuilder{segments: make([]segment, 0, initialDepth)}
	},
}

// Get returns an empty PathBuilder from the pool.
func Get() *PathBuilder {
	p := builders.Get().(*PathBuilder)
	p.Reset()
	return p
}

// Put returns p to the pool. Builders that grew past maxPooledDepth are left
// to the garbage collector. Put drops the keys p still references.
func Put(p *PathBuilder) {
	if p == nil || cap(p.segments) > maxPooledDepth {
		return
	}
	clear(p.segments[:cap(p.segments)])
	p.segments = p.segments[:0]
	builders.Put(p)
}
