package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/catalogdiff/catalogerrors"
)

func TestSnapshotAdd(t *testing.T) {
	snap := NewSnapshot()
	require.NoError(t, snap.Add("color.primary", map[string]any{"$value": "#fff"}))
	require.NoError(t, snap.Add("color.accent", map[string]any{"$value": "#000"}))

	assert.Equal(t, []string{"color.primary", "color.accent"}, snap.Names())
	assert.Equal(t, 2, snap.Len())
	assert.True(t, snap.Has("color.accent"))

	e, ok := snap.Get("color.primary")
	require.True(t, ok)
	v, ok := e.Field("$value")
	require.True(t, ok)
	assert.Equal(t, "#fff", v)

	err := snap.Add("color.primary", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, catalogerrors.ErrParse)
}

func TestSnapshotZeroValue(t *testing.T) {
	var snap Snapshot
	assert.Equal(t, 0, snap.Len())
	assert.False(t, snap.Has("a"))
	assert.Empty(t, snap.Names())

	require.NoError(t, snap.Add("a", map[string]any{"id": "a"}))
	require.NoError(t, snap.Add("b", map[string]any{"id": "b"}))
	assert.Equal(t, []string{"a", "b"}, snap.Names())
	assert.Equal(t, 2, snap.Root().Len())
	assert.ErrorIs(t, snap.Add("a", nil), catalogerrors.ErrParse)
}

func TestSnapshotRange(t *testing.T) {
	snap := SnapshotFromMap(map[string]any{"b": 1, "a": 2, "c": 3})
	var names []string
	snap.Range(func(e Entity) bool {
		names = append(names, e.Name)
		return len(names) < 2
	})
	assert.Equal(t, []string{"a", "b"}, names)
}

func TestSnapshotNodeCount(t *testing.T) {
	var nilSnap *Snapshot
	assert.Equal(t, 0, nilSnap.NodeCount())
	assert.Equal(t, 0, nilSnap.Len())

	snap := SnapshotFromMap(map[string]any{"a": map[string]any{"x": 1}})
	assert.Equal(t, 3, snap.NodeCount())
	assert.Equal(t, 1, SnapshotFromObject(nil).NodeCount())
}

func TestEntityFieldOnScalar(t *testing.T) {
	e := Entity{Name: "x", Value: "scalar"}
	_, ok := e.Field("any")
	assert.False(t, ok)
}
