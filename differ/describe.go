package differ

import (
	"slices"
	"strconv"
	"strings"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/catalogerrors"
	"github.com/erraggy/catalogdiff/internal/fingerprint"
	"github.com/erraggy/catalogdiff/internal/pathutil"
)

// segment is one step from an entity root to a changed location.
type segment struct {
	name  string
	index int
}

type side int

const (
	sideDeleted side = iota
	sideUpdated
	sideAdded
)

// describer turns the diff of one entity into a list of changes.
type describer struct {
	c        *Classifier
	entity   string
	original any
	updated  any

	changes *[]Change
	lists   map[string]struct{}
	segs    []segment
}

func (c *Classifier) describe(entity string, d DiffResult, original, updated any) ([]Change, error) {
	ds := &describer{
		c:        c,
		entity:   entity,
		original: original,
		updated:  updated,
		changes:  changeSlices.get(),
	}
	defer changeSlices.put(ds.changes)
	segs := segmentSlices.get()
	ds.segs = *segs
	defer func() {
		*segs = ds.segs[:0]
		segmentSlices.put(segs)
	}()

	for _, t := range []struct {
		root *Delta
		side side
	}{
		{d.Deleted, sideDeleted},
		{d.Updated, sideUpdated},
		{d.Added, sideAdded},
	} {
		if t.root.IsEmpty() {
			continue
		}
		if err := ds.visit(t.root, t.side); err != nil {
			return nil, err
		}
	}
	return slices.Clone(*ds.changes), nil
}

func (ds *describer) visit(n *Delta, s side) error {
	if len(ds.segs) > 0 && ds.isList() {
		return ds.list()
	}
	if n.IsTerminal() {
		return ds.terminal(n, s)
	}
	for _, child := range n.Children {
		ds.segs = append(ds.segs, segment{name: child.Name, index: child.Index})
		err := ds.visit(child, s)
		ds.segs = ds.segs[:len(ds.segs)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

// isList reports whether the current location is an enum or required list.
// A property that merely happens to be named "enum" or "required" is not.
func (ds *describer) isList() bool {
	last := ds.segs[len(ds.segs)-1]
	if last.index >= 0 || (last.name != "enum" && last.name != "required") {
		return false
	}
	return !ds.parentIsProperties()
}

func (ds *describer) parentIsProperties() bool {
	if len(ds.segs) < 2 {
		return false
	}
	parent := ds.segs[len(ds.segs)-2]
	return parent.index < 0 && parent.name == "properties"
}

// list compares an enum or required list as a multiset, once per location.
func (ds *describer) list() error {
	path := ds.path()
	if ds.lists == nil {
		ds.lists = make(map[string]struct{})
	}
	if _, done := ds.lists[path]; done {
		return nil
	}
	ds.lists[path] = struct{}{}

	before, err := ds.listAt(ds.original, path)
	if err != nil {
		return err
	}
	after, err := ds.listAt(ds.updated, path)
	if err != nil {
		return err
	}
	added, removed := setDifference(before, after)

	if ds.segs[len(ds.segs)-1].name == "enum" {
		if len(removed) > 0 {
			ds.emit(KindEnumValueRemoved, path, "removed enum values: "+joinMembers(removed))
		}
		if len(added) > 0 {
			ds.emit(KindEnumValueAdded, path, "added enum values: "+joinMembers(added))
		}
		return nil
	}
	if len(removed) > 0 {
		ds.emit(KindRequiredRemoved, path, "removed "+plural(len(removed), "required property", "required properties")+": "+joinMembers(removed))
	}
	if len(added) > 0 {
		ds.emit(KindRequiredAdded, path, "added "+plural(len(added), "required property", "required properties")+": "+joinMembers(added))
	}
	return nil
}

func (ds *describer) listAt(root any, path string) ([]any, error) {
	v, ok := lookupSegments(root, ds.segs)
	if !ok {
		return nil, nil
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &catalogerrors.UnhandledTypeError{
			Entity:   ds.entity,
			Path:     path,
			Expected: "list",
			Value:    v,
		}
	}
	return list, nil
}

func (ds *describer) terminal(n *Delta, s side) error {
	path := ds.path()
	label := ds.label()

	if len(ds.segs) == 1 && n.Index < 0 {
		switch {
		case n.Name == ds.c.deprecationKey():
			return ds.deprecation(n, s, path)
		case n.Name == "title" && s != sideAdded:
			ds.emit(KindTitleChanged, path, describeScalar(s, "title", n))
			return nil
		case slices.Contains(ds.c.schemaRefKeys(), n.Name):
			ds.emit(KindSchemaRefChanged, path, describeScalar(s, n.Name, n))
			return nil
		}
	}

	switch s {
	case sideDeleted:
		switch {
		case n.Index < 0 && n.Name == "default" && n.Old == nil && ds.parentRemains():
			ds.emit(KindDefaultNullRemoved, path, "removed default: null")
		case ds.parentIsProperties():
			ds.emit(KindPropertyRemoved, path, "removed property: "+n.Name)
		default:
			ds.emit(KindPropertyRemoved, path, "removed "+label+": "+catalog.FormatScalar(n.Old))
		}
	case sideAdded:
		if ds.parentIsProperties() {
			ds.emit(KindPropertyAdded, path, "added property: "+n.Name)
		} else {
			ds.emit(KindPropertyAdded, path, "added "+label+": "+catalog.FormatScalar(n.New))
		}
	default:
		ds.emit(KindValueChanged, path, "changed "+label+" from "+catalog.FormatScalar(n.Old)+" to "+catalog.FormatScalar(n.New))
	}
	return nil
}

// deprecation handles a top-level deprecation marker. Markers must be strings.
func (ds *describer) deprecation(n *Delta, s side, path string) error {
	for _, v := range []struct {
		has bool
		val any
	}{{n.HasOld, n.Old}, {n.HasNew, n.New}} {
		if _, ok := v.val.(string); v.has && !ok {
			return &catalogerrors.UnhandledTypeError{
				Entity:   ds.entity,
				Path:     path,
				Expected: "string deprecation comment",
				Value:    v.val,
			}
		}
	}
	if s == sideDeleted {
		ds.emit(KindUndeprecated, path, "removed deprecation: "+n.Old.(string))
		return nil
	}
	ds.emit(KindDeprecated, path, "deprecated: "+n.New.(string))
	return nil
}

// parentRemains reports whether the object declaring the current key still
// exists in the updated value.
func (ds *describer) parentRemains() bool {
	_, ok := lookupSegments(ds.updated, ds.segs[:len(ds.segs)-1])
	return ok && ds.updated != nil
}

func (ds *describer) emit(kind ChangeKind, path, description string) {
	breaking, ignore := ds.c.Rules.verdict(kind)
	if ignore {
		return
	}
	*ds.changes = append(*ds.changes, Change{
		Path:        path,
		Kind:        kind,
		Description: description,
		Breaking:    breaking,
		Severity:    severityFor(kind, breaking),
	})
}

func (ds *describer) path() string {
	p := pathutil.Get()
	defer pathutil.Put(p)
	for _, s := range ds.segs {
		if s.index >= 0 {
			p.PushIndex(s.index)
		} else {
			p.Push(s.name)
		}
	}
	return p.String()
}

// label names the current location in a description: the key, or the
// parent key with an index suffix for array elements.
func (ds *describer) label() string {
	if len(ds.segs) == 0 {
		return "value"
	}
	last := ds.segs[len(ds.segs)-1]
	if last.index < 0 {
		return last.name
	}
	var b strings.Builder
	if len(ds.segs) > 1 {
		b.WriteString(ds.segs[len(ds.segs)-2].name)
	}
	b.WriteByte('[')
	b.WriteString(strconv.Itoa(last.index))
	b.WriteByte(']')
	return b.String()
}

func lookupSegments(v any, segs []segment) (any, bool) {
	cur := v
	for _, s := range segs {
		if s.index >= 0 {
			arr, ok := cur.([]any)
			if !ok || s.index >= len(arr) {
				return nil, false
			}
			cur = arr[s.index]
			continue
		}
		obj, ok := cur.(*catalog.Object)
		if !ok {
			return nil, false
		}
		if cur, ok = obj.Get(s.name); !ok {
			return nil, false
		}
	}
	return cur, true
}

func describeScalar(s side, label string, n *Delta) string {
	switch s {
	case sideDeleted:
		return "removed " + label + " " + catalog.FormatScalar(n.Old)
	case sideAdded:
		return "added " + label + " " + catalog.FormatScalar(n.New)
	default:
		return "changed " + label + " from " + catalog.FormatScalar(n.Old) + " to " + catalog.FormatScalar(n.New)
	}
}

// setDifference compares two lists as multisets. It returns the members of
// after with no counterpart in before, and the members of before with no
// counterpart in after, each in list order. A repeated member needs as many
// counterparts as it has occurrences, so dropping a duplicate is a removal.
func setDifference(before, after []any) (added, removed []any) {
	h := fingerprint.New()
	type member struct {
		value   any
		matched bool
	}
	pending := make(map[uint64][]*member, len(before))
	members := make([]*member, len(before))
	for i, v := range before {
		m := &member{value: v}
		members[i] = m
		sum := h.Sum(v)
		pending[sum] = append(pending[sum], m)
	}

	for _, v := range after {
		found := false
		for _, m := range pending[h.Sum(v)] {
			if !m.matched && catalog.Equal(m.value, v) {
				m.matched, found = true, true
				break
			}
		}
		if !found {
			added = append(added, v)
		}
	}
	for _, m := range members {
		if !m.matched {
			removed = append(removed, m.value)
		}
	}
	return added, removed
}

func joinMembers(members []any) string {
	parts := make([]string, len(members))
	for i, m := range members {
		if s, ok := m.(string); ok {
			parts[i] = s
		} else {
			parts[i] = catalog.FormatScalar(m)
		}
	}
	return strings.Join(parts, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
