// Package catalog provides the snapshot model compared by the differ package.
//
// A catalog is a hierarchical, named-entity document: a set of design tokens
// or a set of component schema declarations. One version of a catalog is a
// [Snapshot], an ordered mapping from entity name to entity definition.
//
// # Values
//
// Entity definitions are JSON-like value trees:
//
//   - objects are *[Object], an insertion-ordered map with hashed lookups
//   - arrays are []any
//   - scalars are string, bool, nil, or a Go number
//
// [Equal] compares values structurally, ignoring object key order and
// comparing numbers by value. [DeepCopy] produces independent copies.
//
// # Loading
//
// [ParseWithOptions] and [Parser] load local JSON or YAML files, keeping the
// key order of the source document:
//
//	snap, err := catalog.ParseWithOptions(
//	    catalog.WithFilePath("openapi.yaml"),
//	    catalog.WithRoot("components", "schemas"),
//	)
//
// Nested token groups can be flattened into dotted entity names with
// [WithFlatten]; a node is a token when it contains the leaf key ("$value"
// by default).
//
// # Options
//
// Input (exactly one is required):
//
//   - [WithFilePath] reads a local .json, .yaml or .yml file
//   - [WithReader] and [WithBytes] read in-memory content
//
// Selection and shaping:
//
//   - [WithRoot] selects the nested map holding the entities
//   - [WithFlatten], [WithLeafKey] and [WithSeparator] control token flattening
//   - [WithSourceName] names non-file input in errors
//
// Limits and diagnostics:
//
//   - [WithMaxFileSize] rejects oversized files before decoding
//   - [WithMaxNodes] bounds the values a document may expand into
//   - [WithLogger] receives debug messages
//
// Snapshots can also be assembled in code with [NewSnapshot] and
// [Snapshot.Add], or from plain maps with [SnapshotFromMap].
package catalog
