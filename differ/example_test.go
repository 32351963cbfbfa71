package differ_test

import (
	"fmt"
	"log"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/differ"
)

func entity(kv ...any) *catalog.Object {
	obj := catalog.NewObject(len(kv) / 2)
	for i := 0; i < len(kv); i += 2 {
		obj.Set(kv[i].(string), kv[i+1])
	}
	return obj
}

// Example compares two component catalogs held in memory
func Example() {
	original := catalog.SnapshotFromObject(entity(
		"Button", entity(
			"id", "c1",
			"required", []any{"label"},
			"properties", entity("size", entity("enum", []any{"sm", "md"})),
		),
		"Alert", entity("id", "c2"),
	))
	updated := catalog.SnapshotFromObject(entity(
		"PushButton", entity(
			"id", "c1",
			"required", []any{"label", "size"},
			"properties", entity("size", entity("enum", []any{"sm", "md", "lg"})),
		),
		"Toast", entity("id", "c3"),
	))

	result, err := differ.DiffWithOptions(
		differ.WithOriginalSnapshot(original),
		differ.WithUpdatedSnapshot(updated),
	)
	if err != nil {
		log.Fatal(err)
	}

	for _, c := range result.Changes() {
		fmt.Println(c)
	}
	fmt.Println("breaking:", result.Summary.BreakingChanges)
	fmt.Println("bump:", result.Bump())
	// Output:
	// ✗ Alert: removed entity
	// ℹ PushButton: renamed from Button
	// ✗ PushButton required: added required property: size
	// ℹ PushButton properties.size.enum: added enum values: lg
	// ℹ Toast: added entity
	// breaking: 2
	// bump: major
}

// Example_files compares two YAML catalogs whose entities live under
// components.schemas
func Example_files() {
	result, err := differ.DiffWithOptions(
		differ.WithOriginalFilePath("testdata/schemas-v1.yaml"),
		differ.WithUpdatedFilePath("testdata/schemas-v2.yaml"),
		differ.WithParseOptions(catalog.WithRoot("components", "schemas")),
	)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("deleted:", result.Deleted.Keys())
	fmt.Println("added:", result.Added.Keys())
	for _, r := range result.Renamed {
		fmt.Printf("renamed: %s -> %s\n", r.OldName, r.NewName)
	}
	fmt.Println("has breaking changes:", result.Summary.HasBreakingChanges)
	// Output:
	// deleted: [Alert]
	// added: [Toast]
	// renamed: Menu -> DropdownMenu
	// has breaking changes: true
}

// ExampleIsBreaking classifies the diff of a single entity
func ExampleIsBreaking() {
	before := entity("required", []any{"variant"})
	after := entity("required", []any{"variant", "size"})
	breaking, err := differ.IsBreaking(differ.TreeDiff(before, after), before, after)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("required field added:", breaking)

	before = entity("properties", entity("container", entity("default", nil)))
	after = entity("properties", entity("container", entity()))
	breaking, err = differ.IsBreaking(differ.TreeDiff(before, after), before, after)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("default null removed:", breaking)
	// Output:
	// required field added: true
	// default null removed: false
}

// ExampleWithBreakingRules relaxes the verdict for removed enum members
func ExampleWithBreakingRules() {
	original := catalog.SnapshotFromObject(entity("Badge", entity("enum", []any{"info", "legacy"})))
	updated := catalog.SnapshotFromObject(entity("Badge", entity("enum", []any{"info"})))

	for _, rules := range []*differ.BreakingRulesConfig{nil, differ.LenientRules()} {
		result, err := differ.DiffWithOptions(
			differ.WithOriginalSnapshot(original),
			differ.WithUpdatedSnapshot(updated),
			differ.WithBreakingRules(rules),
		)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(result.Summary.HasBreakingChanges)
	}
	// Output:
	// true
	// false
}

// ExampleNextVersion derives the next release version from a comparison
func ExampleNextVersion() {
	next, err := differ.NextVersion("v1.4.2", differ.BumpMinor)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(next)
	// Output: v1.5.0
}
