package differ

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlicePool_Reset(t *testing.T) {
	s := changeSlices.get()
	*s = append(*s, Change{Path: "title", Kind: KindTitleChanged})
	changeSlices.put(s)

	s2 := changeSlices.get()
	assert.Empty(t, *s2)
	changeSlices.put(s2)
}

func TestSlicePool_NilSafe(t *testing.T) {
	assert.NotPanics(t, func() { changeSlices.put(nil) })
	assert.NotPanics(t, func() { segmentSlices.put(nil) })
}

func TestSlicePool_Capacity(t *testing.T) {
	p := newSlicePool[segment](4, 8)
	s := p.get()
	assert.GreaterOrEqual(t, cap(*s), 4)

	big := make([]segment, 0, 32)
	assert.NotPanics(t, func() { p.put(&big) })
	p.put(s)
}

func TestSlicePool_ClearsReferences(t *testing.T) {
	p := newSlicePool[segment](2, 8)
	s := p.get()
	*s = append(*s, segment{name: "properties", index: -1})
	full := (*s)[:cap(*s)]
	p.put(s)
	assert.Equal(t, segment{}, full[0])
}
