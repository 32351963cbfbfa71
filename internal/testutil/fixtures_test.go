package testutil

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/catalogdiff/catalog"
)

func TestObjKeepsOrder(t *testing.T) {
	obj := Obj("z", 1, "a", map[string]any{"k": "v"})
	assert.Equal(t, []string{"z", "a"}, obj.Keys())
	a, _ := obj.Get("a")
	_, ok := a.(*catalog.Object)
	assert.True(t, ok, "nested maps are normalized")

	assert.Panics(t, func() { Obj("odd") })
}

func TestFixtures(t *testing.T) {
	assert.Equal(t, 4, NewTokenSnapshot().Len())

	schemas := NewSchemaSnapshot()
	assert.Equal(t, []string{"Button", "Card"}, schemas.Names())
	btn, _ := schemas.Get("Button")
	def, ok := catalog.Lookup(btn.Value, "properties", "container", "default")
	require.True(t, ok)
	assert.Nil(t, def)
}

func TestGenerateCatalog(t *testing.T) {
	snap := GenerateCatalog(3, 2)
	assert.Equal(t, []string{"entity00000", "entity00001", "entity00002"}, snap.Names())
	// root + 3 * (entity, id, title, properties, 2 * (prop, type, maxLength))
	assert.Equal(t, 1+3*(4+2*3), snap.NodeCount())
}

func TestWriteTemp(t *testing.T) {
	path := WriteTempJSON(t, "a.json", map[string]any{"x": 1})
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"x":1}`, string(data))

	path = WriteTempYAML(t, "a.yaml", map[string]any{"x": 1})
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x: 1\n", string(data))
}

func TestPtr(t *testing.T) {
	p := Ptr(5)
	require.NotNil(t, p)
	assert.Equal(t, 5, *p)
}
