// Package catalogdiff compares two snapshots of a design-token or
// component-schema catalog and classifies every difference.
//
// A catalog is a named map of entities. Each entity is a JSON-like value
// with an optional stable identifier that survives renames, and optional
// marker fields such as a deprecation comment, a required list, or enum
// members. Given the catalog as it was and as it is, catalogdiff reports
// which entities were added, deleted, renamed, deprecated, reverted or
// updated, and whether each change can break existing consumers.
//
// # Overview
//
// The library consists of two packages:
//
//   - catalog: Load JSON or YAML catalogs into order-preserving snapshots
//   - differ: Compare snapshots and classify the changes
//
// Errors returned by both are structured; see the catalogerrors package.
//
// # Installation
//
//	go get github.com/erraggy/catalogdiff
//
// # Quick Start
//
// Compare two token files:
//
//	import "github.com/erraggy/catalogdiff/differ"
//
//	result, err := differ.DiffWithOptions(
//		differ.WithOriginalFilePath("tokens-v1.json"),
//		differ.WithUpdatedFilePath("tokens-v2.json"),
//		differ.WithParseOptions(catalog.WithFlatten(true)),
//	)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, c := range result.Changes() {
//		fmt.Println(c)
//	}
//	if result.Summary.HasBreakingChanges {
//		os.Exit(1)
//	}
//
// Compare component schemas nested inside a larger document:
//
//	result, err := differ.DiffWithOptions(
//		differ.WithOriginalFilePath("schemas-v1.yaml"),
//		differ.WithUpdatedFilePath("schemas-v2.yaml"),
//		differ.WithParseOptions(catalog.WithRoot("components", "schemas")),
//	)
//
// # Catalog Package
//
// The catalog package decodes JSON and YAML documents while keeping the key
// order of the source, so results list entities in the order authors wrote
// them.
//
// Key features:
//   - JSON and YAML input from files, readers or bytes
//   - Selection of a nested entity map (WithRoot)
//   - Flattening of nested token groups into dotted names (WithFlatten)
//   - File size guard (WithMaxFileSize)
//
// # Differ Package
//
// The differ package runs four stages over two snapshots: a structural tree
// diff, rename detection by identifier, lifecycle classification and
// breaking-change classification.
//
// Key features:
//   - Renames matched by a configurable identifier field
//   - Deprecation and reverted detection, optionally against history snapshots
//   - Breaking verdicts with human-readable descriptions per change
//   - Configurable breaking rules (DefaultRules, StrictRules, LenientRules)
//   - Semantic version bump derivation (Result.Bump, NextVersion)
//   - Parallel comparison of many pairs (DiffBatch, DiffEntities)
//
// Example:
//
//	before := catalog.NewObject(1).Set("required", []any{"label"})
//	after := catalog.NewObject(1).Set("required", []any{"label", "size"})
//	breaking, err := differ.IsBreaking(differ.TreeDiff(before, after), before, after)
//
// See the differ package documentation for more details.
//
// # Command-Line Interface
//
// The catalogdiff command wraps the library:
//
//	catalogdiff diff --flatten tokens-v1.json tokens-v2.json
//	catalogdiff diff --format json --root components/schemas v1.yaml v2.yaml
//	catalogdiff bump --current v1.4.2 tokens-v1.json tokens-v2.json
//	catalogdiff mcp
//
// diff exits with status 1 when breaking changes are found. mcp serves the
// diff and classify_entity tools to MCP clients over stdio.
package catalogdiff
