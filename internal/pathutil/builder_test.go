package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathBuilder_Basic(t *testing.T) {
	p := &PathBuilder{}
	p.Push("properties")
	p.Push("name")
	assert.Equal(t, "properties.name", p.String())
	assert.Equal(t, 2, p.Len())
}

func TestPathBuilder_WithIndex(t *testing.T) {
	p := &PathBuilder{}
	p.Push("enum")
	p.PushIndex(2)
	assert.Equal(t, "enum[2]", p.String())
	assert.Equal(t, []string{"enum", "2"}, p.Keys())
}

func TestPathBuilder_PushPop(t *testing.T) {
	p := &PathBuilder{}
	p.Push("a")
	p.Push("b")
	p.Pop()
	p.Push("c")
	assert.Equal(t, "a.c", p.String())
}

func TestPathBuilder_Empty(t *testing.T) {
	p := &PathBuilder{}
	assert.Equal(t, "", p.String())
	p.Pop() // Should not panic
	assert.Equal(t, "", p.String())
}

func TestPathBuilder_Quoting(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"dotted key", []string{"color", "brand.500", "value"}, `color["brand.500"].value`},
		{"leading quoted key", []string{"a.b"}, `["a.b"]`},
		{"empty key", []string{"x", ""}, `x[""]`},
		{"bracket key", []string{"sizes[0]"}, `["sizes[0]"]`},
		{"reserved looking key", []string{"properties", "new-value"}, "properties.new-value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Join(tt.keys...))
		})
	}
}

func TestPathBuilder_Reset(t *testing.T) {
	p := Get()
	p.Push("x")
	p.Reset()
	assert.Equal(t, "", p.String())
	Put(p)
	Put(nil)
}
