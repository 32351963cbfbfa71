package differ

import (
	"fmt"

	"github.com/erraggy/catalogdiff/internal/severity"
)

// Severity indicates the severity level of a change
type Severity = severity.Severity

const (
	// SeverityInfo indicates compatible changes (additions, relaxed constraints)
	SeverityInfo = severity.SeverityInfo
	// SeverityWarning indicates lifecycle events such as deprecations
	SeverityWarning = severity.SeverityWarning
	// SeverityError indicates breaking changes inside an entity
	SeverityError = severity.SeverityError
	// SeverityCritical indicates a removed entity
	SeverityCritical = severity.SeverityCritical
)

// Change describes one difference found in a catalog.
type Change struct {
	// Entity is the name of the entity the change belongs to. It is empty in
	// the per-entity lists of a Result, where the entity is the map key.
	Entity string `json:"entity,omitempty" yaml:"entity,omitempty"`
	// Path locates the change inside the entity (e.g. "properties.size.enum").
	// Empty when the change concerns the entity as a whole.
	Path string `json:"path" yaml:"path"`
	// Kind classifies the change
	Kind ChangeKind `json:"kind" yaml:"kind"`
	// Description is a human-readable summary (e.g. "added enum values: sm, lg")
	Description string `json:"description" yaml:"description"`
	// Breaking reports whether the change can break existing consumers
	Breaking bool `json:"breaking" yaml:"breaking"`
	// Severity grades the impact of the change
	Severity Severity `json:"severity" yaml:"severity"`
}

// String returns a formatted string representation of the change
func (c Change) String() string {
	var symbol string
	switch c.Severity {
	case SeverityError, SeverityCritical:
		symbol = "✗"
	case SeverityWarning:
		symbol = "⚠"
	default:
		symbol = "ℹ"
	}

	loc := c.Entity
	if c.Path != "" {
		if loc != "" {
			loc += " "
		}
		loc += c.Path
	}
	if loc == "" {
		return fmt.Sprintf("%s %s", symbol, c.Description)
	}
	return fmt.Sprintf("%s %s: %s", symbol, loc, c.Description)
}

func severityFor(kind ChangeKind, breaking bool) Severity {
	switch {
	case breaking && kind == KindEntityRemoved:
		return SeverityCritical
	case breaking:
		return SeverityError
	case kind == KindDeprecated:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}
