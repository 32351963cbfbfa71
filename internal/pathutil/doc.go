// Copyright 2024 Erraggy
// SPDX-License-Identifier: MIT

// Package pathutil provides efficient path building for catalog traversal.
//
// The primary type is [PathBuilder], which uses push/pop semantics to build
// paths incrementally without allocating intermediate strings. Paths are only
// materialized when a change is reported.
//
// # PathBuilder Usage
//
// Use [Get] to obtain a pooled PathBuilder, and [Put] to return it:
//
//	path := pathutil.Get()
//	defer pathutil.Put(path)
//
//	path.Push("properties")
//	path.Push(propName)
//	// ... recurse ...
//	path.Pop()
//
// # Quoting
//
// Keys are catalog data and may contain any character. A key that is empty or
// contains '.', '[', ']' or '"' is rendered in bracket form (`["a.b"]`) so the
// rendered path stays unambiguous:
//
//	color["brand.500"].value
package pathutil
