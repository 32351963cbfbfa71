package mcpserver

import (
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erraggy/catalogdiff/internal/testutil"
)

const tokensV1 = `{
  "color": {
    "brand": {
      "primary": {"id": "tok-1", "$value": "#0055ff"},
      "secondary": {"id": "tok-2", "$value": "#ff5500"}
    }
  }
}`

// withConfig swaps the active configuration for the duration of a test and
// empties the snapshot cache.
func withConfig(t *testing.T, mutate func(c *serverConfig)) {
	t.Helper()
	saved := *cfg
	mutate(cfg)
	snapshotCache.Purge()
	t.Cleanup(func() {
		*cfg = saved
		snapshotCache.Purge()
	})
}

func TestSnapshotInput_ResolveFile(t *testing.T) {
	withConfig(t, func(*serverConfig) {})
	path := testutil.WriteTemp(t, "tokens.json", []byte(tokensV1))

	snap, err := snapshotInput{File: path}.resolve(loadOptions{Flatten: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"color.brand.primary", "color.brand.secondary"}, snap.Names())
	assert.Equal(t, path, snap.Source)
}

func TestSnapshotInput_ResolveContent(t *testing.T) {
	withConfig(t, func(*serverConfig) {})

	snap, err := snapshotInput{Content: tokensV1}.resolve(loadOptions{Root: []string{"color", "brand"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"primary", "secondary"}, snap.Names())
	assert.Equal(t, "inline", snap.Source)
}

func TestSnapshotInput_ResolveErrors(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.MaxInlineSize = 64 })

	tests := []struct {
		name  string
		input snapshotInput
		want  string
	}{
		{"none", snapshotInput{}, "exactly one of file or content"},
		{"both", snapshotInput{File: "a.json", Content: "{}"}, "exactly one of file or content"},
		{"missing file", snapshotInput{File: "/nonexistent/catalog.json"}, ""},
		{"too large", snapshotInput{Content: strings.Repeat(" ", 65)}, "exceeds maximum"},
		{"not an object", snapshotInput{Content: "[1, 2]"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.input.resolve(loadOptions{})
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestSnapshotCache_HitOnSameInput(t *testing.T) {
	withConfig(t, func(*serverConfig) {})

	first, err := snapshotInput{Content: tokensV1}.resolve(loadOptions{Flatten: true})
	require.NoError(t, err)
	second, err := snapshotInput{Content: tokensV1}.resolve(loadOptions{Flatten: true})
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, snapshotCache.Len())

	// Different load options decode differently and must not share an entry.
	third, err := snapshotInput{Content: tokensV1}.resolve(loadOptions{})
	require.NoError(t, err)
	assert.NotSame(t, first, third)
	assert.Equal(t, 2, snapshotCache.Len())
}

func TestSnapshotCache_MissOnModifiedFile(t *testing.T) {
	withConfig(t, func(*serverConfig) {})
	path := testutil.WriteTemp(t, "tokens.json", []byte(tokensV1))

	first, err := snapshotInput{File: path}.resolve(loadOptions{Flatten: true})
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"a": {"$value": 1}}`), 0o600))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	second, err := snapshotInput{File: path}.resolve(loadOptions{Flatten: true})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, []string{"a"}, second.Names())
}

func TestSnapshotCache_Disabled(t *testing.T) {
	withConfig(t, func(c *serverConfig) { c.CacheEnabled = false })

	first, err := snapshotInput{Content: tokensV1}.resolve(loadOptions{})
	require.NoError(t, err)
	second, err := snapshotInput{Content: tokensV1}.resolve(loadOptions{})
	require.NoError(t, err)
	assert.NotSame(t, first, second)
	assert.Equal(t, 0, snapshotCache.Len())
}

func TestMakeCacheKey(t *testing.T) {
	assert.Empty(t, makeCacheKey(snapshotInput{}, loadOptions{}))
	assert.Empty(t, makeCacheKey(snapshotInput{File: "/nonexistent/x.json"}, loadOptions{}))

	a := makeCacheKey(snapshotInput{Content: "{}"}, loadOptions{Root: []string{"a", "b"}})
	b := makeCacheKey(snapshotInput{Content: "{}"}, loadOptions{Root: []string{"a.b"}})
	assert.True(t, strings.HasPrefix(a, "content:"))
	assert.NotEqual(t, a, b)
}
