// Package severity provides the severity levels attached to catalog changes.
//
// The levels are ordered from least to most severe:
// Info < Warning < Error < Critical
//
// Error and Critical mark breaking changes; Warning marks lifecycle events
// such as deprecations that do not break consumers yet.
package severity

// Severity indicates how strongly a change affects consumers of an entity.
type Severity int

const (
	// SeverityInfo indicates a compatible change (additions, relaxed constraints).
	SeverityInfo Severity = iota

	// SeverityWarning indicates a compatible change consumers should act on,
	// such as a deprecation.
	SeverityWarning

	// SeverityError indicates a breaking change inside an entity.
	SeverityError

	// SeverityCritical indicates a whole entity was removed.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// IsBreaking reports whether the severity marks a breaking change.
func (s Severity) IsBreaking() bool {
	return s == SeverityError || s == SeverityCritical
}

// MarshalText encodes the severity as its name so JSON and YAML output stay readable.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
