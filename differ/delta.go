package differ

import (
	"encoding/json"
	"strconv"

	"github.com/erraggy/catalogdiff/catalog"
)

// Delta is a node of a diff tree. A node is either a branch, whose Children
// mirror the changed children of a container, or a terminal, which carries
// the original and/or updated value of one location.
//
// Engine annotations live in the struct fields, never in property names, so
// an entity property called "old", "new" or "path" is just another child.
type Delta struct {
	// Name is the property name of this node within its parent object.
	// Empty for the root and for array elements.
	Name string
	// Index is the position of this node within its parent array, or -1.
	Index int
	// Children are the changed children of a branch, in source order.
	Children []*Delta
	// Old is the original value of a terminal node.
	Old any
	// New is the updated value of a terminal node.
	New any
	// HasOld reports whether Old is set; it distinguishes an explicit null
	// from an absent value.
	HasOld bool
	// HasNew reports whether New is set.
	HasNew bool

	byName map[string]*Delta
}

func newBranch(name string, index int) *Delta {
	return &Delta{Name: name, Index: index}
}

// newRoot returns a branch with a child lookup table, for the wide
// top-level trees.
func newRoot() *Delta {
	return &Delta{Index: -1, byName: make(map[string]*Delta)}
}

// IsTerminal reports whether d carries values rather than children.
func (d *Delta) IsTerminal() bool {
	return d != nil && (d.HasOld || d.HasNew)
}

// IsEmpty reports whether d records no change at all.
func (d *Delta) IsEmpty() bool {
	return d == nil || (!d.IsTerminal() && len(d.Children) == 0)
}

// Len returns the number of direct children.
func (d *Delta) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Children)
}

// Label returns the path segment of d: its name, or "[i]" for an array element.
func (d *Delta) Label() string {
	if d.Index >= 0 {
		return "[" + strconv.Itoa(d.Index) + "]"
	}
	return d.Name
}

// Child returns the named child of a branch, or nil.
func (d *Delta) Child(name string) *Delta {
	if d == nil {
		return nil
	}
	if d.byName != nil {
		return d.byName[name]
	}
	for _, c := range d.Children {
		if c.Index < 0 && c.Name == name {
			return c
		}
	}
	return nil
}

// Names returns the names of the keyed children in order.
func (d *Delta) Names() []string {
	if d == nil {
		return nil
	}
	names := make([]string, 0, len(d.Children))
	for _, c := range d.Children {
		if c.Index < 0 {
			names = append(names, c.Name)
		}
	}
	return names
}

func (d *Delta) add(child *Delta) {
	d.Children = append(d.Children, child)
	if child.Index < 0 && d.byName != nil {
		d.byName[child.Name] = child
	}
}

// Walk calls fn for every terminal t below d. chain holds the nodes leading
// from d (exclusive) to t (inclusive); it is empty when d itself is the
// terminal. The chain slice is reused between calls.
func (d *Delta) Walk(fn func(chain []*Delta, t *Delta)) {
	if d == nil {
		return
	}
	if d.IsTerminal() {
		fn(nil, d)
		return
	}
	chain := make([]*Delta, 0, 8)
	var walk func(n *Delta)
	walk = func(n *Delta) {
		chain = append(chain, n)
		if n.IsTerminal() {
			fn(chain, n)
		} else {
			for _, c := range n.Children {
				walk(c)
			}
		}
		chain = chain[:len(chain)-1]
	}
	for _, c := range d.Children {
		walk(c)
	}
}

// Value rebuilds a plain value tree from an added or deleted delta: branches
// become objects keyed by label and terminals contribute their value.
func (d *Delta) Value() any {
	if d == nil {
		return nil
	}
	if d.IsTerminal() {
		if d.HasNew {
			return catalog.DeepCopy(d.New)
		}
		return catalog.DeepCopy(d.Old)
	}
	obj := catalog.NewObject(len(d.Children))
	for _, c := range d.Children {
		obj.Set(c.Label(), c.Value())
	}
	return obj
}

// node renders d in its tagged form: a branch is {"children": {...}} and a
// terminal is {"old": ..., "new": ...} with only the sides it carries.
func (d *Delta) node() *catalog.Object {
	out := catalog.NewObject(2)
	if d == nil {
		return out
	}
	if d.IsTerminal() {
		if d.HasOld {
			out.Set("old", d.Old)
		}
		if d.HasNew {
			out.Set("new", d.New)
		}
		return out
	}
	children := catalog.NewObject(len(d.Children))
	for _, c := range d.Children {
		children.Set(c.Label(), c.node())
	}
	out.Set("children", children)
	return out
}

// MarshalJSON encodes the delta in its tagged form.
func (d *Delta) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.node())
}

// MarshalYAML encodes the delta in its tagged form.
func (d *Delta) MarshalYAML() (any, error) {
	return d.node(), nil
}
