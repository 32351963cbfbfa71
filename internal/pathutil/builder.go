package pathutil

import (
	"strconv"
	"strings"
)

// segment is one step of a path. Index segments render as "[n]".
type segment struct {
	key   string
	index bool
}

// PathBuilder provides efficient incremental path construction.
// Uses push/pop semantics to avoid allocations during traversal.
// The full string is only materialized when String() is called.
type PathBuilder struct {
	segments []segment
}

// Push adds a key segment to the path.
func (p *PathBuilder) Push(key string) {
	p.segments = append(p.segments, segment{key: key})
}

// PushIndex adds an array index segment: "[0]", "[1]", etc.
func (p *PathBuilder) PushIndex(i int) {
	p.segments = append(p.segments, segment{key: strconv.Itoa(i), index: true})
}

// Pop removes the last segment.
func (p *PathBuilder) Pop() {
	if len(p.segments) == 0 {
		return
	}
	p.segments = p.segments[:len(p.segments)-1]
}

// Reset clears the builder for reuse.
func (p *PathBuilder) Reset() {
	p.segments = p.segments[:0]
}

// Len returns the number of segments.
func (p *PathBuilder) Len() int {
	return len(p.segments)
}

// Keys returns a copy of the raw segment keys, index segments included as
// their decimal form.
func (p *PathBuilder) Keys() []string {
	keys := make([]string, len(p.segments))
	for i, s := range p.segments {
		keys[i] = s.key
	}
	return keys
}

// String materializes the full path. Only call when the path is needed.
func (p *PathBuilder) String() string {
	if len(p.segments) == 0 {
		return ""
	}
	var b strings.Builder
	for i, seg := range p.segments {
		switch {
		case seg.index:
			b.WriteByte('[')
			b.WriteString(seg.key)
			b.WriteByte(']')
		case NeedsQuoting(seg.key):
			b.WriteByte('[')
			b.WriteString(strconv.Quote(seg.key))
			b.WriteByte(']')
		default:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(seg.key)
		}
	}
	return b.String()
}

// Join renders keys as a path in one call.
func Join(keys ...string) string {
	p := Get()
	defer Put(p)
	for _, k := range keys {
		p.Push(k)
	}
	return p.String()
}

// NeedsQuoting reports whether key must be rendered in bracket form.
func NeedsQuoting(key string) bool {
	return key == "" || strings.ContainsAny(key, `.[]"`)
}
