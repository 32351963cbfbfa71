package catalog

import (
	"fmt"

	"github.com/erraggy/catalogdiff/catalogerrors"
)

// Entity is one named record of a snapshot: a design token or a component
// schema declaration.
type Entity struct {
	// Name is the entity's key in its snapshot. Names are mutable across
	// versions; use an identifier field to track renames.
	Name string
	// Value is the entity definition, usually a *Object.
	Value any
}

// Field returns a top-level field of the entity definition.
func (e Entity) Field(key string) (any, bool) {
	obj, ok := e.Value.(*Object)
	if !ok {
		return nil, false
	}
	return obj.Get(key)
}

// Snapshot is an ordered mapping from entity name to entity definition,
// representing one version of a catalog. The zero value is an empty
// snapshot ready to use.
//
// # Immutability
//
// Callers should treat a Snapshot as read-only once it is handed to the
// differ. The differ never mutates a snapshot and never returns references
// into it.
type Snapshot struct {
	// Source identifies where the snapshot came from (file path or label).
	Source string
	// Format is the detected source format, if the snapshot was parsed.
	Format SourceFormat
	// Size is the number of bytes read, if the snapshot was parsed.
	Size int64

	root *Object
}

// NewSnapshot returns an empty snapshot.
func NewSnapshot() *Snapshot {
	return &Snapshot{root: NewObject(0)}
}

// SnapshotFromObject wraps root as a snapshot. The snapshot takes ownership
// of root; callers must not modify it afterwards.
func SnapshotFromObject(root *Object) *Snapshot {
	if root == nil {
		root = NewObject(0)
	}
	return &Snapshot{root: root}
}

// SnapshotFromMap builds a snapshot from a Go map. Entity order follows the
// sorted entity names.
func SnapshotFromMap(m map[string]any) *Snapshot {
	return SnapshotFromObject(FromMap(m))
}

// Add appends an entity. Adding a name twice is an error. Add works on a zero
// Snapshot.
func (s *Snapshot) Add(name string, value any) error {
	if s.root == nil {
		s.root = NewObject(0)
	}
	if s.root.Has(name) {
		return &catalogerrors.ParseError{
			Path:    s.Source,
			Message: fmt.Sprintf("duplicate entity name %q", name),
		}
	}
	s.root.Set(name, Normalize(value))
	return nil
}

// Get returns the entity stored under name.
func (s *Snapshot) Get(name string) (Entity, bool) {
	v, ok := s.root.Get(name)
	if !ok {
		return Entity{}, false
	}
	return Entity{Name: name, Value: v}, true
}

// Has reports whether an entity named name exists.
func (s *Snapshot) Has(name string) bool {
	return s.root.Has(name)
}

// Names returns the entity names in snapshot order.
func (s *Snapshot) Names() []string {
	return s.root.Keys()
}

// Len returns the number of entities.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return s.root.Len()
}

// Range calls fn for each entity in snapshot order until fn returns false.
func (s *Snapshot) Range(fn func(e Entity) bool) {
	s.root.Range(func(name string, value any) bool {
		return fn(Entity{Name: name, Value: value})
	})
}

// Root returns the underlying object. It must be treated as read-only.
func (s *Snapshot) Root() *Object {
	if s.root == nil {
		s.root = NewObject(0)
	}
	return s.root
}

// NodeCount returns the total number of value nodes in the snapshot.
func (s *Snapshot) NodeCount() int {
	if s == nil {
		return 0
	}
	return CountNodes(s.root)
}
