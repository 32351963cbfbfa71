package differ

import (
	"github.com/erraggy/catalogdiff/catalog"
)

// DiffResult is the structural diff of two value trees. Each tree mirrors only
// the changed paths of the inputs:
//
//   - Added holds values present only in the updated tree
//   - Deleted holds values present only in the original tree
//   - Updated holds values present in both with different content
//
// All values are deep copies; mutating a DiffResult never affects its inputs.
type DiffResult struct {
	Added   *Delta `json:"added"`
	Deleted *Delta `json:"deleted"`
	Updated *Delta `json:"updated"`
}

// IsEmpty reports whether the two trees were equal.
func (r DiffResult) IsEmpty() bool {
	return r.Added.IsEmpty() && r.Deleted.IsEmpty() && r.Updated.IsEmpty()
}

// Sub returns the part of r below the top-level key name.
func (r DiffResult) Sub(name string) DiffResult {
	return DiffResult{
		Added:   r.Added.Child(name),
		Deleted: r.Deleted.Child(name),
		Updated: r.Updated.Child(name),
	}
}

// TreeDiff compares original and updated recursively.
//
// Object keys are matched through hashed lookups, so the cost is linear in the
// total number of keys. Arrays are compared by index: a length mismatch shows
// up as trailing additions or deletions, and a reordered array looks like a
// rewrite of every moved position.
//
// Two containers of the same kind are always descended into and a key is kept
// in a partition only when its subtree there is non-empty. Scalars, or values
// of different kinds, that are not equal produce an Updated terminal.
func TreeDiff(original, updated any) DiffResult {
	res := DiffResult{Added: newRoot(), Deleted: newRoot(), Updated: newRoot()}
	diffValues(original, updated, res.Added, res.Deleted, res.Updated)
	return res
}

func diffValues(a, b any, added, deleted, updated *Delta) {
	switch av := a.(type) {
	case *catalog.Object:
		if bv, ok := b.(*catalog.Object); ok {
			diffObjects(av, bv, added, deleted, updated)
			return
		}
	case []any:
		if bv, ok := b.([]any); ok {
			diffArrays(av, bv, added, deleted, updated)
			return
		}
	}
	if !catalog.Equal(a, b) {
		setChanged(updated, a, b)
	}
}

func diffObjects(a, b *catalog.Object, added, deleted, updated *Delta) {
	a.Range(func(key string, av any) bool {
		bv, ok := b.Get(key)
		if !ok {
			deleted.add(removedTerminal(key, -1, av))
			return true
		}
		diffChild(key, -1, av, bv, added, deleted, updated)
		return true
	})
	b.Range(func(key string, bv any) bool {
		if !a.Has(key) {
			added.add(addedTerminal(key, -1, bv))
		}
		return true
	})
}

func diffArrays(a, b []any, added, deleted, updated *Delta) {
	n := min(len(a), len(b))
	for i := range n {
		diffChild("", i, a[i], b[i], added, deleted, updated)
	}
	for i := n; i < len(a); i++ {
		deleted.add(removedTerminal("", i, a[i]))
	}
	for i := n; i < len(b); i++ {
		added.add(addedTerminal("", i, b[i]))
	}
}

func diffChild(name string, index int, a, b any, added, deleted, updated *Delta) {
	if sameContainer(a, b) {
		ca, cd, cu := newBranch(name, index), newBranch(name, index), newBranch(name, index)
		diffValues(a, b, ca, cd, cu)
		if !ca.IsEmpty() {
			added.add(ca)
		}
		if !cd.IsEmpty() {
			deleted.add(cd)
		}
		if !cu.IsEmpty() {
			updated.add(cu)
		}
		return
	}
	if !catalog.Equal(a, b) {
		t := newBranch(name, index)
		setChanged(t, a, b)
		updated.add(t)
	}
}

func sameContainer(a, b any) bool {
	ka := catalog.KindOf(a)
	return ka == catalog.KindOf(b) && (ka == catalog.KindObject || ka == catalog.KindArray)
}

func setChanged(t *Delta, a, b any) {
	t.Old, t.HasOld = catalog.DeepCopy(a), true
	t.New, t.HasNew = catalog.DeepCopy(b), true
}

func removedTerminal(name string, index int, v any) *Delta {
	return &Delta{Name: name, Index: index, Old: catalog.DeepCopy(v), HasOld: true}
}

func addedTerminal(name string, index int, v any) *Delta {
	return &Delta{Name: name, Index: index, New: catalog.DeepCopy(v), HasNew: true}
}
