package differ

import (
	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/catalogerrors"
)

// Lifecycle partitions the entities of a comparison. The partitions are
// mutually exclusive and every slice is in snapshot order.
type Lifecycle struct {
	// New are added entities not claimed as renames.
	New []string
	// Removed are deleted entities not claimed as renames.
	Removed []string
	// Deprecated are changed entities that gained or changed a deprecation marker.
	Deprecated []string
	// Reverted are changed entities that dropped their deprecation marker or
	// returned to a value recorded in the History.
	Reverted []string
	// Updated are the remaining changed entities.
	Updated []string
	// Comments holds the deprecation comment of each Deprecated entity.
	Comments map[string]string
}

// LifecycleClassifier sorts the entities of a comparison into lifecycle
// partitions. The zero value uses DefaultDeprecationKey and no history.
//
// Reverted detection is a heuristic. Without history it only recognizes an
// entity whose deprecation marker was dropped. With a History it also
// recognizes an entity whose new value equals a value it held in one of the
// recorded snapshots.
type LifecycleClassifier struct {
	// DeprecationKey is the top-level marker field. Default: "deprecatedComment"
	DeprecationKey string
	// History enables content-based reverted detection. Nil disables it.
	History *History
}

// Classify applies the zero LifecycleClassifier.
func Classify(tree DiffResult, original, updated *catalog.Snapshot, renames Renames) (Lifecycle, error) {
	var lc LifecycleClassifier
	return lc.Classify(tree, original, updated, renames)
}

// Classify partitions the entities of tree, the diff of original against
// updated, after rename detection. Entities claimed by renames are left out.
// A changed deprecation marker that is not a string yields an
// *catalogerrors.UnhandledTypeError naming the entity.
func (lc *LifecycleClassifier) Classify(tree DiffResult, original, updated *catalog.Snapshot, renames Renames) (Lifecycle, error) {
	out := Lifecycle{
		New:      renames.Added,
		Removed:  renames.Deleted,
		Comments: make(map[string]string),
	}
	key := lc.DeprecationKey
	if key == "" {
		key = DefaultDeprecationKey
	}

	for _, name := range original.Names() {
		if !updated.Has(name) || tree.Sub(name).IsEmpty() {
			continue
		}
		before, _ := original.Get(name)
		after, _ := updated.Get(name)

		oldMarker, hadMarker := before.Field(key)
		newMarker, hasMarker := after.Field(key)
		changed := hadMarker != hasMarker || !catalog.Equal(oldMarker, newMarker)
		if changed {
			if err := checkMarker(name, key, hadMarker, oldMarker); err != nil {
				return Lifecycle{}, err
			}
			if err := checkMarker(name, key, hasMarker, newMarker); err != nil {
				return Lifecycle{}, err
			}
		}

		switch {
		case changed && hasMarker:
			out.Deprecated = append(out.Deprecated, name)
			out.Comments[name] = newMarker.(string)
		case changed && hadMarker:
			out.Reverted = append(out.Reverted, name)
		case lc.History.Seen(name, after.Value):
			out.Reverted = append(out.Reverted, name)
		default:
			out.Updated = append(out.Updated, name)
		}
	}
	return out, nil
}

func checkMarker(entity, key string, present bool, v any) error {
	if !present {
		return nil
	}
	if _, ok := v.(string); ok {
		return nil
	}
	return &catalogerrors.UnhandledTypeError{
		Entity:   entity,
		Path:     key,
		Expected: "string deprecation comment",
		Value:    v,
	}
}
