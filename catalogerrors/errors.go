// Package catalogerrors provides structured error types for catalogdiff.
//
// These error types enable programmatic error handling via errors.Is() and
// errors.As(), allowing callers to distinguish a malformed catalog from an
// engine-level failure.
//
// # Error Categories
//
//   - ParseError: JSON/YAML decoding failures and malformed snapshots
//   - UnhandledTypeError: a changed value whose shape no classifier recognizes
//   - ResourceLimitError: size guard violations (node count, file size)
//   - AmbiguityError: duplicated identifiers when strict identifier matching is on
//   - ConfigError: invalid configuration or input options
//
// # Usage with errors.As
//
//	result, err := differ.DiffWithOptions(
//	    differ.WithOriginalFilePath("tokens-v1.json"),
//	    differ.WithUpdatedFilePath("tokens-v2.json"),
//	)
//	if err != nil {
//	    var typeErr *catalogerrors.UnhandledTypeError
//	    if errors.As(err, &typeErr) {
//	        fmt.Println("bad value at", typeErr.Entity, typeErr.Path)
//	    }
//	}
package catalogerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a catalog could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrUnhandledType indicates a changed value had an unrecognized shape.
	ErrUnhandledType = errors.New("unhandled property data type")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrAmbiguousIdentifier indicates an identifier matched more than one entity.
	ErrAmbiguousIdentifier = errors.New("ambiguous identifier")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to load a catalog snapshot.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// UnhandledTypeError is raised when a classifier meets a changed value whose
// shape does not match any recognized case, for example a null where a
// deprecation comment was expected. The engine never coerces such values.
type UnhandledTypeError struct {
	// Entity is the name of the entity being classified
	Entity string
	// Path is the location of the offending value inside the entity
	Path string
	// Expected describes the shape the classifier looked for
	Expected string
	// Value is the offending value (may be nil)
	Value any
}

// Error returns a human-readable error message.
func (e *UnhandledTypeError) Error() string {
	msg := "unhandled property data type"
	if e.Entity != "" {
		msg += " in entity " + e.Entity
	}
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Expected != "" {
		msg += fmt.Sprintf(": expected %s, got %s", e.Expected, describeKind(e.Value))
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *UnhandledTypeError) Is(target error) bool {
	return target == ErrUnhandledType
}

func describeKind(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case int, int64, float64, uint64:
		return "number"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}

// ResourceLimitError represents a resource exhaustion condition.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "node_count", "file_size"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// AmbiguityError reports an identifier shared by several entities on the same
// side of a comparison. It is only returned in strict identifier mode; by
// default ambiguities are resolved by snapshot order and flagged in the result.
type AmbiguityError struct {
	// Identifier is the duplicated identifier value
	Identifier string
	// Names lists the entity names carrying the identifier, in snapshot order
	Names []string
	// Side is "original" or "updated"
	Side string
}

// Error returns a human-readable error message.
func (e *AmbiguityError) Error() string {
	msg := "ambiguous identifier"
	if e.Identifier != "" {
		msg += fmt.Sprintf(" %q", e.Identifier)
	}
	if e.Side != "" {
		msg += " in " + e.Side + " snapshot"
	}
	if len(e.Names) > 0 {
		msg += ": shared by " + strings.Join(e.Names, ", ")
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *AmbiguityError) Is(target error) bool {
	return target == ErrAmbiguousIdentifier
}

// ConfigError represents an invalid configuration or input.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
