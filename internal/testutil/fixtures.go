// Package testutil provides test utilities and fixtures for unit tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/internal/fileutil"
)

// Obj builds an ordered object from alternating keys and values. Nested
// map[string]any values are converted with catalog.Normalize.
//
//	testutil.Obj("title", "Button", "required", []any{"label"})
func Obj(kv ...any) *catalog.Object {
	if len(kv)%2 != 0 {
		panic("testutil.Obj: odd number of arguments")
	}
	obj := catalog.NewObject(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		obj.Set(kv[i].(string), catalog.Normalize(kv[i+1]))
	}
	return obj
}

// Snap builds a snapshot from alternating entity names and values, keeping
// the argument order.
func Snap(kv ...any) *catalog.Snapshot {
	return catalog.SnapshotFromObject(Obj(kv...))
}

// NewTokenSnapshot returns a small flattened design-token catalog.
func NewTokenSnapshot() *catalog.Snapshot {
	return Snap(
		"color.brand.primary", Obj("id", "tok-1", "$value", "#0055ff", "$type", "color"),
		"color.brand.secondary", Obj("id", "tok-2", "$value", "#ff5500", "$type", "color"),
		"spacing.small", Obj("id", "tok-3", "$value", 4, "$type", "dimension"),
		"spacing.large", Obj("id", "tok-4", "$value", 16, "$type", "dimension"),
	)
}

// NewSchemaSnapshot returns a small component-schema catalog.
func NewSchemaSnapshot() *catalog.Snapshot {
	return Snap(
		"Button", Obj(
			"id", "cmp-button",
			"title", "Button",
			"type", "object",
			"required", []any{"label"},
			"properties", Obj(
				"label", Obj("type", "string"),
				"variant", Obj("type", "string", "enum", []any{"primary", "secondary"}, "default", "primary"),
				"container", Obj("type", "string", "default", nil),
			),
		),
		"Card", Obj(
			"id", "cmp-card",
			"title", "Card",
			"type", "object",
			"properties", Obj(
				"elevation", Obj("type", "number"),
			),
		),
	)
}

// GenerateCatalog builds a deterministic snapshot of entities entities with
// props leaf properties each. Every entity carries an "id" field.
func GenerateCatalog(entities, props int) *catalog.Snapshot {
	root := catalog.NewObject(entities)
	for i := range entities {
		properties := catalog.NewObject(props)
		for j := range props {
			properties.Set(fmt.Sprintf("prop%d", j), Obj("type", "string", "maxLength", j))
		}
		root.Set(fmt.Sprintf("entity%05d", i), Obj(
			"id", fmt.Sprintf("id-%d", i),
			"title", fmt.Sprintf("Entity %d", i),
			"properties", properties,
		))
	}
	return catalog.SnapshotFromObject(root)
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// WriteTempYAML writes doc as YAML to a temporary file named name and returns its path.
func WriteTempYAML(t *testing.T, name string, doc any) string {
	t.Helper()

	data, err := yaml.Marshal(doc)
	if err != nil {
		t.Fatalf("Failed to marshal document to YAML: %v", err)
	}
	return WriteTemp(t, name, data)
}

// WriteTempJSON writes doc as JSON to a temporary file named name and returns its path.
func WriteTempJSON(t *testing.T, name string, doc any) string {
	t.Helper()

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("Failed to marshal document to JSON: %v", err)
	}
	return WriteTemp(t, name, data)
}

// WriteTemp writes data to a temporary file named name and returns its path.
func WriteTemp(t *testing.T, name string, data []byte) string {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(tmpFile, data, fileutil.OwnerReadWrite); err != nil {
		t.Fatalf("Failed to write temporary file: %v", err)
	}
	return tmpFile
}
