package differ

import (
	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/internal/fingerprint"
)

// History holds fingerprints of the values entities had in earlier
// snapshots. It backs the content-based half of reverted detection.
//
// A History is read-only after construction and safe for concurrent use.
type History struct {
	byName map[string][]historyEntry
}

type historyEntry struct {
	sum   uint64
	value any
}

// NewHistory fingerprints every entity of the given snapshots. Values are
// copied, so the snapshots may be released or modified afterwards.
func NewHistory(snapshots ...*catalog.Snapshot) *History {
	h := &History{byName: make(map[string][]historyEntry)}
	hasher := fingerprint.New()
	for _, snap := range snapshots {
		if snap == nil {
			continue
		}
		snap.Range(func(e catalog.Entity) bool {
			h.byName[e.Name] = append(h.byName[e.Name], historyEntry{
				sum:   hasher.Sum(e.Value),
				value: catalog.DeepCopy(e.Value),
			})
			return true
		})
	}
	return h
}

// Len returns the number of entity names with recorded values.
func (h *History) Len() int {
	if h == nil {
		return 0
	}
	return len(h.byName)
}

// Seen reports whether the entity named name held value in a recorded
// snapshot. Fingerprint matches are confirmed with a deep comparison.
func (h *History) Seen(name string, value any) bool {
	if h == nil {
		return false
	}
	entries := h.byName[name]
	if len(entries) == 0 {
		return false
	}
	sum := fingerprint.Of(value)
	for _, e := range entries {
		if e.sum == sum && catalog.Equal(e.value, value) {
			return true
		}
	}
	return false
}
