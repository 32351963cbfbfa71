/*
Package differ compares two versions of a design-token or component-schema
catalog and classifies every difference.

# Overview

A comparison runs in four stages:

 1. TreeDiff computes the structural diff of the two snapshots as three
    Delta trees (added, deleted, updated) mirroring only changed paths.
 2. BuildIndex and DetectRenames pair deleted and added entities that carry
    the same stable identifier and report them as renames.
 3. LifecycleClassifier sorts the remaining entities into new, removed,
    deprecated, reverted and updated.
 4. Classifier describes the changes of every changed entity and decides
    whether each one is breaking.

The outcome is a Result: mutually exclusive partitions plus a Summary with
breaking and non-breaking counts. Result.Bump derives the semantic version
increment a release needs.

# Usage

The package provides two API styles:

 1. Package-level DiffWithOptions for one-off comparisons
 2. A Differ struct for reusable, shareable configuration

# Options

Inputs: WithOriginalFilePath, WithOriginalSnapshot, WithUpdatedFilePath,
WithUpdatedSnapshot and WithParseOptions.

Identity and lifecycle: WithIdentifierPath (default "id"),
WithStrictIdentifiers, WithDeprecationKey, WithSchemaRefKeys and
WithHistory.

Classification and runtime: WithBreakingRules, WithMaxNodes,
WithConcurrency, WithLogger and WithObserver.

# Breaking Changes

Under the default rules:

  - Removing an entity, a property, an enum member or a required name is breaking
  - Dropping a "default: null" while its property remains is not breaking
  - Adding a name to a required list is breaking
  - Changing an entity's top-level title or schema reference is breaking
  - Everything else (additions, relaxed constraints, value changes) is not

BreakingRulesConfig overrides individual verdicts. Enum and required lists are
compared as sets, so reordering them is not a change.

# Reverted Entities

Reverted detection is a heuristic. An entity that drops its deprecation
marker is reverted. With WithHistory, an entity whose new value equals a
value it held in one of the history snapshots is reverted as well.

# Example

	package main

	import (
		"fmt"
		"log"

		"github.com/erraggy/catalogdiff/catalog"
		"github.com/erraggy/catalogdiff/differ"
	)

	func main() {
		result, err := differ.DiffWithOptions(
			differ.WithOriginalFilePath("tokens-v1.json"),
			differ.WithUpdatedFilePath("tokens-v2.json"),
			differ.WithParseOptions(catalog.WithFlatten(true)),
		)
		if err != nil {
			log.Fatal(err)
		}

		for _, change := range result.Changes() {
			fmt.Println(change.String())
		}
		fmt.Println("bump:", result.Bump())
	}

# Size Guard

WithMaxNodes bounds the number of value nodes in either snapshot (default
1,000,000). Larger inputs fail fast with a *catalogerrors.ResourceLimitError.

# Related Packages

  - [github.com/erraggy/catalogdiff/catalog] - Snapshot model and JSON/YAML loader
  - [github.com/erraggy/catalogdiff/catalogerrors] - Structured error types
*/
package differ
