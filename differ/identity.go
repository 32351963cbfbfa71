package differ

import (
	"fmt"
	"strings"

	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/catalogerrors"
)

// DefaultIdentifierKey is the entity field holding the stable identifier.
const DefaultIdentifierKey = "id"

// IdentityIndex maps identifiers to the names of the entities carrying them,
// for one snapshot. Only scalar, non-null identifiers are indexed.
type IdentityIndex struct {
	path   []string
	byID   map[string][]string
	byName map[string]string
}

// BuildIndex indexes snapshot by the identifier found at path inside each
// entity. An empty path uses DefaultIdentifierKey.
func BuildIndex(snapshot *catalog.Snapshot, path ...string) *IdentityIndex {
	if len(path) == 0 {
		path = []string{DefaultIdentifierKey}
	}
	ix := &IdentityIndex{
		path:   path,
		byID:   make(map[string][]string),
		byName: make(map[string]string),
	}
	if snapshot == nil {
		return ix
	}
	snapshot.Range(func(e catalog.Entity) bool {
		id, ok := identifierOf(e.Value, path)
		if ok {
			ix.byID[id] = append(ix.byID[id], e.Name)
			ix.byName[e.Name] = id
		}
		return true
	})
	return ix
}

// identifierOf returns the canonical identifier of value. Identifiers of
// different kinds never match, so "1" and 1 are distinct.
func identifierOf(value any, path []string) (string, bool) {
	v, ok := catalog.Lookup(value, path...)
	if !ok {
		return "", false
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return "", false
		}
		return t, true
	case bool:
		return "\x00bool:" + catalog.FormatScalar(t), true
	default:
		if catalog.KindOf(v) == catalog.KindNumber {
			return "\x00number:" + catalog.FormatScalar(v), true
		}
		return "", false
	}
}

// displayIdentifier strips the kind prefix of a canonical identifier.
func displayIdentifier(id string) string {
	if len(id) > 0 && id[0] == 0 {
		for i := 1; i < len(id); i++ {
			if id[i] == ':' {
				return id[i+1:]
			}
		}
	}
	return id
}

// Identifier returns the identifier of the named entity.
func (ix *IdentityIndex) Identifier(name string) (string, bool) {
	id, ok := ix.byName[name]
	return id, ok
}

// Lookup returns the first entity name, in snapshot order, carrying id.
func (ix *IdentityIndex) Lookup(id string) (string, bool) {
	names := ix.byID[id]
	if len(names) == 0 {
		return "", false
	}
	return names[0], true
}

// Names returns every entity name carrying id, in snapshot order.
func (ix *IdentityIndex) Names(id string) []string {
	return append([]string(nil), ix.byID[id]...)
}

// Len returns the number of distinct identifiers.
func (ix *IdentityIndex) Len() int {
	return len(ix.byID)
}

// Rename pairs the old and new name of an entity that kept its identifier.
type Rename struct {
	OldName    string `json:"oldName" yaml:"oldName"`
	NewName    string `json:"newName" yaml:"newName"`
	Identifier string `json:"identifier" yaml:"identifier"`
}

// Ambiguity records an identifier carried by several candidate entities on
// one side of a rename. Chosen is the candidate that was matched.
type Ambiguity struct {
	// Kind is "deleted" when several removed entities share the identifier
	// and "added" when several new entities do.
	Kind       string   `json:"kind" yaml:"kind"`
	Identifier string   `json:"identifier" yaml:"identifier"`
	Candidates []string `json:"candidates" yaml:"candidates"`
	Chosen     string   `json:"chosen" yaml:"chosen"`
}

// String summarizes the ambiguity on one line.
func (a Ambiguity) String() string {
	return fmt.Sprintf("identifier %q shared by %s entities %s; matched %s",
		a.Identifier, a.Kind, strings.Join(a.Candidates, ", "), a.Chosen)
}

// Renames is the outcome of rename detection. Added and Deleted are the
// names left over once every matched pair has been removed.
type Renames struct {
	Pairs       []Rename
	Added       []string
	Deleted     []string
	Ambiguities []Ambiguity
}

// OldName returns the original name of the entity now called newName.
func (r Renames) OldName(newName string) (string, bool) {
	for _, p := range r.Pairs {
		if p.NewName == newName {
			return p.OldName, true
		}
	}
	return "", false
}

// DetectRenames pairs deleted names from the original snapshot with added
// names from the updated snapshot that carry the same identifier. added and
// deleted must be in their snapshot order.
//
// When several deleted (or added) names share an identifier, the first in
// snapshot order is matched and the choice is recorded as an Ambiguity. With
// strict set, the first ambiguity is returned as an *catalogerrors.AmbiguityError
// instead.
func DetectRenames(original, updated *IdentityIndex, added, deleted []string, strict bool) (Renames, error) {
	deletedByID := make(map[string][]string, len(deleted))
	for _, name := range deleted {
		if id, ok := original.Identifier(name); ok {
			deletedByID[id] = append(deletedByID[id], name)
		}
	}

	addedByID := make(map[string][]string, len(added))
	ids := make([]string, 0, len(added))
	for _, name := range added {
		id, ok := updated.Identifier(name)
		if !ok || len(deletedByID[id]) == 0 {
			continue
		}
		if len(addedByID[id]) == 0 {
			ids = append(ids, id)
		}
		addedByID[id] = append(addedByID[id], name)
	}

	var out Renames
	claimed := make(map[string]struct{}, 2*len(ids))
	for _, id := range ids {
		olds, news := deletedByID[id], addedByID[id]
		display := displayIdentifier(id)
		if len(olds) > 1 {
			if strict {
				return Renames{}, &catalogerrors.AmbiguityError{Identifier: display, Names: olds, Side: "original"}
			}
			out.Ambiguities = append(out.Ambiguities, Ambiguity{
				Kind: "deleted", Identifier: display, Candidates: olds, Chosen: olds[0],
			})
		}
		if len(news) > 1 {
			if strict {
				return Renames{}, &catalogerrors.AmbiguityError{Identifier: display, Names: news, Side: "updated"}
			}
			out.Ambiguities = append(out.Ambiguities, Ambiguity{
				Kind: "added", Identifier: display, Candidates: news, Chosen: news[0],
			})
		}
		out.Pairs = append(out.Pairs, Rename{OldName: olds[0], NewName: news[0], Identifier: display})
		claimed[olds[0]] = struct{}{}
		claimed[news[0]] = struct{}{}
	}

	out.Added = unclaimed(added, claimed)
	out.Deleted = unclaimed(deleted, claimed)
	return out, nil
}

func unclaimed(names []string, claimed map[string]struct{}) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := claimed[n]; !ok {
			out = append(out, n)
		}
	}
	return out
}
