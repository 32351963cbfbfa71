package differ

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/erraggy/catalogdiff/catalog"
)

// RenamedEntity is an entity whose name changed while its identifier stayed.
// Content changes made alongside the rename are recorded here, not under
// Updated.
type RenamedEntity struct {
	NewName    string   `json:"-" yaml:"-"`
	OldName    string   `json:"oldName" yaml:"oldName"`
	Identifier string   `json:"identifier" yaml:"identifier"`
	Changes    []Change `json:"changes,omitempty" yaml:"changes,omitempty"`
	Breaking   bool     `json:"breaking" yaml:"breaking"`
}

// DeprecatedEntity is a changed entity that gained or changed a deprecation
// marker.
type DeprecatedEntity struct {
	Name     string   `json:"-" yaml:"-"`
	Comment  string   `json:"comment" yaml:"comment"`
	Changes  []Change `json:"changes,omitempty" yaml:"changes,omitempty"`
	Breaking bool     `json:"breaking" yaml:"breaking"`
}

// UpdatedEntity is a changed entity with its structural diff and the
// changes described from it.
type UpdatedEntity struct {
	Name     string   `json:"-" yaml:"-"`
	Added    *Delta   `json:"added,omitempty" yaml:"added,omitempty"`
	Deleted  *Delta   `json:"deleted,omitempty" yaml:"deleted,omitempty"`
	Updated  *Delta   `json:"updated,omitempty" yaml:"updated,omitempty"`
	Changes  []Change `json:"changes" yaml:"changes"`
	Breaking bool     `json:"breaking" yaml:"breaking"`
}

// Diff returns the entity's structural diff.
func (u UpdatedEntity) Diff() DiffResult {
	return DiffResult{Added: u.Added, Deleted: u.Deleted, Updated: u.Updated}
}

// EntityCounts counts entities per coarse partition. Updated includes
// renamed, deprecated and reverted entities.
type EntityCounts struct {
	Added   int `json:"added" yaml:"added"`
	Deleted int `json:"deleted" yaml:"deleted"`
	Updated int `json:"updated" yaml:"updated"`
}

// Summary aggregates the verdicts of a Result. Each added or deleted entity
// counts as one change; each changed entity counts as one change that is
// breaking when any of its own changes is.
type Summary struct {
	TotalEntities      EntityCounts `json:"totalEntities" yaml:"totalEntities"`
	BreakingChanges    int          `json:"breakingChanges" yaml:"breakingChanges"`
	NonBreakingChanges int          `json:"nonBreakingChanges" yaml:"nonBreakingChanges"`
	HasBreakingChanges bool         `json:"hasBreakingChanges" yaml:"hasBreakingChanges"`
}

// Result is the classified comparison of two snapshots. Every entity name of
// either snapshot is in at most one partition; names in none are unchanged.
// All entity values are deep copies of the inputs.
type Result struct {
	// Added maps new entity names to their definitions, in updated order.
	Added *catalog.Object
	// Deleted maps removed entity names to their definitions, in original order.
	Deleted *catalog.Object
	// Renamed lists renames in updated order.
	Renamed []RenamedEntity
	// Deprecated lists newly deprecated entities in original order.
	Deprecated []DeprecatedEntity
	// Reverted maps reverted entity names to their updated definitions.
	Reverted *catalog.Object
	// Updated lists the remaining changed entities in original order.
	Updated []UpdatedEntity
	// Ambiguities lists identifiers shared by several rename candidates.
	Ambiguities []Ambiguity
	// Summary aggregates the verdicts.
	Summary Summary

	// OriginalSource and UpdatedSource echo the Source of the inputs.
	OriginalSource string
	UpdatedSource  string

	rules *BreakingRulesConfig
}

func newResult() *Result {
	return &Result{
		Added:    catalog.NewObject(0),
		Deleted:  catalog.NewObject(0),
		Reverted: catalog.NewObject(0),
	}
}

// IsEmpty reports whether the snapshots had no differences.
func (r *Result) IsEmpty() bool {
	return r.Added.Len() == 0 && r.Deleted.Len() == 0 && r.Reverted.Len() == 0 &&
		len(r.Renamed) == 0 && len(r.Deprecated) == 0 && len(r.Updated) == 0
}

// Partition names the partition holding the entity called name: "added",
// "deleted", "renamed", "deprecated", "reverted", "updated", or "" when the
// entity is unchanged or unknown. Both the old and the new name of a rename
// report "renamed".
func (r *Result) Partition(name string) string {
	switch {
	case r.Added.Has(name):
		return "added"
	case r.Deleted.Has(name):
		return "deleted"
	case r.Reverted.Has(name):
		return "reverted"
	}
	for _, e := range r.Renamed {
		if e.NewName == name || e.OldName == name {
			return "renamed"
		}
	}
	for _, e := range r.Deprecated {
		if e.Name == name {
			return "deprecated"
		}
	}
	for _, e := range r.Updated {
		if e.Name == name {
			return "updated"
		}
	}
	return ""
}

// Partitions maps every changed entity name to its partition, with the same
// precedence as Partition. Use it instead of calling Partition per entity.
func (r *Result) Partitions() map[string]string {
	out := make(map[string]string, r.Added.Len()+r.Deleted.Len()+r.Reverted.Len()+
		2*len(r.Renamed)+len(r.Deprecated)+len(r.Updated))
	set := func(name, p string) {
		if _, ok := out[name]; !ok {
			out[name] = p
		}
	}
	for _, name := range r.Added.Keys() {
		set(name, "added")
	}
	for _, name := range r.Deleted.Keys() {
		set(name, "deleted")
	}
	for _, name := range r.Reverted.Keys() {
		set(name, "reverted")
	}
	for _, e := range r.Renamed {
		set(e.NewName, "renamed")
		set(e.OldName, "renamed")
	}
	for _, e := range r.Deprecated {
		set(e.Name, "deprecated")
	}
	for _, e := range r.Updated {
		set(e.Name, "updated")
	}
	return out
}

// Changes flattens every change of the result into one list, with Entity set.
// Whole-entity additions and deletions are included.
func (r *Result) Changes() []Change {
	var out []Change
	r.Deleted.Range(func(name string, _ any) bool {
		out = r.appendEntityChange(out, name, KindEntityRemoved, "removed entity")
		return true
	})
	for _, e := range r.Renamed {
		out = r.appendEntityChange(out, e.NewName, KindEntityRenamed, "renamed from "+e.OldName)
		out = appendEntityChanges(out, e.NewName, e.Changes)
	}
	for _, e := range r.Deprecated {
		out = appendEntityChanges(out, e.Name, e.Changes)
	}
	r.Reverted.Range(func(name string, _ any) bool {
		out = r.appendEntityChange(out, name, KindEntityReverted, "reverted to an earlier definition")
		return true
	})
	for _, e := range r.Updated {
		out = appendEntityChanges(out, e.Name, e.Changes)
	}
	r.Added.Range(func(name string, _ any) bool {
		out = r.appendEntityChange(out, name, KindEntityAdded, "added entity")
		return true
	})
	return out
}

func (r *Result) appendEntityChange(out []Change, entity string, kind ChangeKind, description string) []Change {
	breaking, ignore := r.rules.verdict(kind)
	if ignore {
		return out
	}
	return append(out, Change{
		Entity:      entity,
		Kind:        kind,
		Description: description,
		Breaking:    breaking,
		Severity:    severityFor(kind, breaking),
	})
}

func appendEntityChanges(out []Change, entity string, changes []Change) []Change {
	for _, c := range changes {
		c.Entity = entity
		out = append(out, c)
	}
	return out
}

// ordered renders the result with every map in snapshot order.
func (r *Result) ordered() *catalog.Object {
	renamed := catalog.NewObject(len(r.Renamed))
	for _, e := range r.Renamed {
		renamed.Set(e.NewName, e)
	}
	deprecated := catalog.NewObject(len(r.Deprecated))
	for _, e := range r.Deprecated {
		deprecated.Set(e.Name, e)
	}
	updated := catalog.NewObject(len(r.Updated))
	for _, e := range r.Updated {
		updated.Set(e.Name, e)
	}
	ambiguities := r.Ambiguities
	if ambiguities == nil {
		ambiguities = []Ambiguity{}
	}

	out := catalog.NewObject(8)
	out.Set("added", r.Added).
		Set("deleted", r.Deleted).
		Set("renamed", renamed).
		Set("deprecated", deprecated).
		Set("reverted", r.Reverted).
		Set("updated", updated).
		Set("ambiguities", ambiguities).
		Set("summary", r.Summary)
	return out
}

// MarshalJSON encodes the result with maps in snapshot order.
func (r *Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ordered())
}

// MarshalYAML encodes the result with maps in snapshot order.
func (r *Result) MarshalYAML() (any, error) {
	return r.ordered(), nil
}

// Bump is a semantic version increment.
type Bump string

const (
	// BumpMajor follows any entity deletion.
	BumpMajor Bump = "major"
	// BumpMinor follows entity additions without deletions.
	BumpMinor Bump = "minor"
	// BumpPatch follows updates only, or no change at all.
	BumpPatch Bump = "patch"
)

// Bump derives the version increment a release carrying r needs: any
// deleted entity is major, else any added entity is minor, else patch.
func (r *Result) Bump() Bump {
	switch {
	case r.Deleted.Len() > 0:
		return BumpMajor
	case r.Added.Len() > 0:
		return BumpMinor
	default:
		return BumpPatch
	}
}

// NextVersion applies b to the MAJOR.MINOR.PATCH version current. All three
// components are required, so "1.2" is rejected. A leading "v" is kept. A
// pre-release version is promoted to its release on a patch bump instead of
// being incremented.
func NextVersion(current string, b Bump) (string, error) {
	trimmed := strings.TrimSpace(current)
	prefix := ""
	if strings.HasPrefix(trimmed, "v") {
		prefix, trimmed = "v", trimmed[1:]
	}
	v, err := semver.StrictNewVersion(trimmed)
	if err != nil {
		return "", fmt.Errorf("differ: invalid version %q: %w", current, err)
	}
	var next semver.Version
	switch b {
	case BumpMajor:
		next = v.IncMajor()
	case BumpMinor:
		next = v.IncMinor()
	case BumpPatch:
		next = v.IncPatch()
	default:
		return "", fmt.Errorf("differ: unknown bump %q", b)
	}
	return prefix + next.String(), nil
}
