package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v4"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/catalogerrors"
	"github.com/erraggy/catalogdiff/differ"
	"github.com/erraggy/catalogdiff/internal/testutil"
)

const tokensV1 = `{
  "color": {
    "primary": {"id": "tok-1", "$value": "#0055ff"},
    "secondary": {"id": "tok-2", "$value": "#ff5500"}
  },
  "spacing": {
    "small": {"id": "tok-3", "$value": 4}
  }
}`

const tokensV2 = `{
  "color": {
    "primary": {"id": "tok-1", "$value": "#0044ee"},
    "accent": {"id": "tok-2", "$value": "#ff5500"}
  },
  "spacing": {
    "small": {"id": "tok-3", "$value": 4},
    "large": {"id": "tok-4", "$value": 16}
  }
}`

const schemasV1 = `components:
  schemas:
    Button:
      id: cmp-button
      required: [label]
    Alert:
      id: cmp-alert
`

const schemasV2 = `components:
  schemas:
    Button:
      id: cmp-button
      required: [label]
      properties:
        size: {type: string}
`

// captureOutput redirects Stdout and Stderr for the duration of a test.
func captureOutput(t *testing.T) (stdout, stderr *bytes.Buffer) {
	t.Helper()
	stdout, stderr = &bytes.Buffer{}, &bytes.Buffer{}
	savedOut, savedErr := Stdout, Stderr
	Stdout, Stderr = stdout, stderr
	t.Cleanup(func() {
		Stdout, Stderr = savedOut, savedErr
	})
	return stdout, stderr
}

func tokenFiles(t *testing.T) (string, string) {
	t.Helper()
	return testutil.WriteTemp(t, "tokens-v1.json", []byte(tokensV1)),
		testutil.WriteTemp(t, "tokens-v2.json", []byte(tokensV2))
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"valid text", FormatText, false},
		{"valid json", FormatJSON, false},
		{"valid yaml", FormatYAML, false},
		{"invalid format", "xml", true},
		{"empty format", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format)
			assert.Equal(t, tt.wantErr, err != nil)
		})
	}
}

func TestOutputStructured(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, OutputStructured(&buf, map[string]int{"a": 1}, FormatJSON))
	assert.JSONEq(t, `{"a": 1}`, buf.String())

	buf.Reset()
	require.NoError(t, OutputStructured(&buf, map[string]int{"a": 1}, FormatYAML))
	assert.Equal(t, "a: 1\n", buf.String())

	assert.Error(t, OutputStructured(&buf, nil, FormatText))
}

func TestLoadFlags_RootPath(t *testing.T) {
	tests := []struct {
		root string
		want []string
	}{
		{"", nil},
		{"components/schemas", []string{"components", "schemas"}},
		{"/tokens/", []string{"tokens"}},
		{"a.b/c", []string{"a.b", "c"}},
	}
	for _, tt := range tests {
		t.Run(tt.root, func(t *testing.T) {
			f := LoadFlags{Root: tt.root}
			assert.Equal(t, tt.want, f.RootPath())
		})
	}
}

func TestSetupDiffFlags(t *testing.T) {
	fs, flags := SetupDiffFlags()

	assert.Equal(t, FormatText, flags.Format)
	assert.Equal(t, "id", flags.IDKey)
	assert.Equal(t, 1_000_000, flags.MaxNodes)

	args := []string{
		"--format", "json", "--root", "tokens", "--flatten", "--id-key", "uid",
		"--max-nodes", "50", "--history", "v0.json", "--history", "v00.json",
		"--metrics-file", "out.prom", "--breaking-only", "--strict-ids", "--lenient", "--verbose",
		"v1.json", "v2.json",
	}
	require.NoError(t, fs.Parse(args))
	assert.Equal(t, "json", flags.Format)
	assert.Equal(t, "tokens", flags.Root)
	assert.True(t, flags.Flatten)
	assert.Equal(t, "uid", flags.IDKey)
	assert.Equal(t, 50, flags.MaxNodes)
	assert.Equal(t, stringList{"v0.json", "v00.json"}, flags.History)
	assert.Equal(t, "out.prom", flags.MetricsFile)
	assert.True(t, flags.BreakingOnly)
	assert.True(t, flags.StrictIDs)
	assert.True(t, flags.Lenient)
	assert.True(t, flags.Verbose)
	assert.Equal(t, 2, fs.NArg())
}

func TestHandleDiff_Text(t *testing.T) {
	stdout, _ := captureOutput(t)
	v1, v2 := tokenFiles(t)

	err := HandleDiff([]string{"--flatten", v1, v2})
	require.NoError(t, err, "renames and additions are compatible")

	out := stdout.String()
	assert.Contains(t, out, "Original: "+v1+" (3 entities)")
	assert.Contains(t, out, "Renamed Entities (1 change):")
	assert.Contains(t, out, "ℹ color.accent: renamed from color.secondary")
	assert.Contains(t, out, "Updated Entities (1 change):")
	assert.Contains(t, out, "Added Entities (1 change):")
	assert.Contains(t, out, "ℹ spacing.large: added entity")
	assert.Contains(t, out, "✓ Breaking changes: 0")
	assert.Contains(t, out, "Suggested bump: minor")
}

func TestHandleDiff_Breaking(t *testing.T) {
	stdout, _ := captureOutput(t)
	v1 := testutil.WriteTemp(t, "v1.yaml", []byte(schemasV1))
	v2 := testutil.WriteTemp(t, "v2.yaml", []byte(schemasV2))

	err := HandleDiff([]string{"--root", "components/schemas", "--breaking-only", v1, v2})
	require.ErrorIs(t, err, ErrBreakingChanges)

	out := stdout.String()
	assert.Contains(t, out, "Deleted Entities (1 change):")
	assert.Contains(t, out, "✗ Alert: removed entity")
	assert.NotContains(t, out, "Updated Entities", "compatible changes are filtered")
	assert.Contains(t, out, "⚠️  Breaking changes: 1")
	assert.Contains(t, out, "Suggested bump: major")
}

func TestWriteTextReport_GroupsLargeResult(t *testing.T) {
	original := testutil.GenerateCatalog(300, 1)
	updated := testutil.GenerateCatalog(300, 1)
	for i := range 100 {
		updated.Root().Delete(fmt.Sprintf("entity%05d", i))
		v, _ := updated.Root().Get(fmt.Sprintf("entity%05d", i+100))
		v.(*catalog.Object).Set("title", "Retitled")
	}
	result, err := differ.New().DiffSnapshots(original, updated)
	require.NoError(t, err)

	var buf bytes.Buffer
	writeTextReport(&buf, result, false)
	out := buf.String()
	assert.Contains(t, out, "Deleted Entities (100 changes):")
	assert.Contains(t, out, "Updated Entities (100 changes):")
	assert.NotContains(t, out, "Added Entities")
	assert.Less(t, strings.Index(out, "Deleted Entities"), strings.Index(out, "Updated Entities"))
}

func TestHandleDiff_Identical(t *testing.T) {
	stdout, _ := captureOutput(t)
	v1, _ := tokenFiles(t)

	require.NoError(t, HandleDiff([]string{"--flatten", v1, v1}))
	assert.Contains(t, stdout.String(), "✓ No differences found - catalogs are identical")
}

func TestHandleDiff_JSON(t *testing.T) {
	stdout, _ := captureOutput(t)
	v1, v2 := tokenFiles(t)

	require.NoError(t, HandleDiff([]string{"--flatten", "--format", "json", v1, v2}))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &doc))
	renamed, ok := doc["renamed"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, renamed, "color.accent")
	summary := doc["summary"].(map[string]any)
	assert.Equal(t, false, summary["hasBreakingChanges"])
}

func TestHandleDiff_YAML(t *testing.T) {
	stdout, _ := captureOutput(t)
	v1, v2 := tokenFiles(t)

	require.NoError(t, HandleDiff([]string{"--flatten", "--format", "yaml", v1, v2}))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &doc))
	assert.Contains(t, doc["added"], "spacing.large")
}

func TestHandleDiff_History(t *testing.T) {
	stdout, _ := captureOutput(t)
	v0 := testutil.WriteTemp(t, "v0.json", []byte(`{"a": {"id": "a", "$value": 1}}`))
	v1 := testutil.WriteTemp(t, "v1.json", []byte(`{"a": {"id": "a", "$value": 2}}`))
	v2 := testutil.WriteTemp(t, "v2.json", []byte(`{"a": {"id": "a", "$value": 1}}`))

	require.NoError(t, HandleDiff([]string{"--history", v0, v1, v2}))
	assert.Contains(t, stdout.String(), "Reverted Entities (1 change):")
}

func TestHandleDiff_MetricsFile(t *testing.T) {
	captureOutput(t)
	v1, v2 := tokenFiles(t)
	metrics := filepath.Join(t.TempDir(), "catalogdiff.prom")

	require.NoError(t, HandleDiff([]string{"--flatten", "--metrics-file", metrics, v1, v2}))

	data, err := os.ReadFile(metrics)
	require.NoError(t, err)
	assert.Contains(t, string(data), `catalogdiff_diffs_total{outcome="compatible"} 1`)
	assert.Contains(t, string(data), `catalogdiff_entities_total{partition="renamed"} 1`)
}

func TestHandleDiff_OutputFile(t *testing.T) {
	stdout, _ := captureOutput(t)
	v1, v2 := tokenFiles(t)
	report := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, HandleDiff([]string{"--flatten", "--format", "json", "-o", report, v1, v2}))
	assert.Empty(t, stdout.String())

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "summary")

	info, err := os.Stat(report)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestHandleDiff_Verbose(t *testing.T) {
	_, stderr := captureOutput(t)
	v1, v2 := tokenFiles(t)

	require.NoError(t, HandleDiff([]string{"--flatten", "--verbose", v1, v2}))
	assert.Contains(t, stderr.String(), "diff complete")
}

func TestHandleDiff_Errors(t *testing.T) {
	captureOutput(t)
	v1, v2 := tokenFiles(t)

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"no args", []string{}, nil},
		{"one arg", []string{v1}, nil},
		{"bad format", []string{"--format", "xml", v1, v2}, nil},
		{"missing file", []string{v1, filepath.Join(t.TempDir(), "missing.json")}, nil},
		{"missing history", []string{"--history", "/nonexistent/v0.json", v1, v2}, nil},
		{"size guard", []string{"--flatten", "--max-nodes", "3", v1, v2}, catalogerrors.ErrResourceLimit},
		{"negative max nodes", []string{"--max-nodes", "-1", v1, v2}, catalogerrors.ErrConfig},
		{"unknown flag", []string{"--nope", v1, v2}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := HandleDiff(tt.args)
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrBreakingChanges)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
}

func TestHandleDiff_Help(t *testing.T) {
	captureOutput(t)
	assert.NoError(t, HandleDiff([]string{"--help"}))
}

func TestHandleBump(t *testing.T) {
	v1, v2 := tokenFiles(t)
	s1 := testutil.WriteTemp(t, "s1.yaml", []byte(schemasV1))
	s2 := testutil.WriteTemp(t, "s2.yaml", []byte(schemasV2))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"minor", []string{"--flatten", v1, v2}, "minor\n"},
		{"patch when identical", []string{"--flatten", v1, v1}, "patch\n"},
		{"major", []string{"--root", "components/schemas", s1, s2}, "major\n"},
		{"next version", []string{"--flatten", "--current", "v1.4.2", v1, v2}, "v1.5.0\n"},
		{"next major", []string{"--root", "components/schemas", "--current", "2.3.4", s1, s2}, "3.0.0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, _ := captureOutput(t)
			require.NoError(t, HandleBump(tt.args))
			assert.Equal(t, tt.want, stdout.String())
		})
	}
}

func TestHandleBump_Errors(t *testing.T) {
	captureOutput(t)
	v1, v2 := tokenFiles(t)

	assert.Error(t, HandleBump([]string{v1}))
	assert.Error(t, HandleBump([]string{"--current", "not-a-version", v1, v2}))
	assert.Error(t, HandleBump([]string{v1, "/nonexistent/v2.json"}))
	assert.NoError(t, HandleBump([]string{"-h"}))
}

func TestHandleMCP_Help(t *testing.T) {
	_, stderr := captureOutput(t)
	require.NoError(t, HandleMCP([]string{"--help"}))
	assert.Contains(t, stderr.String(), "Usage: catalogdiff mcp")
}
