package catalogerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseError(t *testing.T) {
	t.Run("Error message with all fields", func(t *testing.T) {
		cause := errors.New("underlying error")
		err := &ParseError{
			Path:    "/path/to/tokens.yaml",
			Line:    42,
			Column:  10,
			Message: "invalid syntax",
			Cause:   cause,
		}
		assert.Equal(t, "parse error in /path/to/tokens.yaml at line 42, column 10: invalid syntax: underlying error", err.Error())
	})

	t.Run("Error message with minimal fields", func(t *testing.T) {
		assert.Equal(t, "parse error", (&ParseError{}).Error())
	})

	t.Run("Unwrap returns cause", func(t *testing.T) {
		cause := errors.New("underlying")
		err := &ParseError{Cause: cause}
		assert.Same(t, cause, err.Unwrap())
	})

	t.Run("Is matches ErrParse only", func(t *testing.T) {
		err := &ParseError{Message: "test"}
		assert.ErrorIs(t, err, ErrParse)
		assert.NotErrorIs(t, err, ErrUnhandledType)
		assert.NotErrorIs(t, err, ErrConfig)
	})
}

func TestUnhandledTypeError(t *testing.T) {
	err := &UnhandledTypeError{
		Entity:   "color.primary",
		Path:     "deprecatedComment",
		Expected: "string",
		Value:    nil,
	}
	assert.Equal(t, "unhandled property data type in entity color.primary at deprecatedComment: expected string, got null", err.Error())
	assert.ErrorIs(t, err, ErrUnhandledType)

	wrapped := fmt.Errorf("differ: classifying: %w", err)
	var target *UnhandledTypeError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "color.primary", target.Entity)

	tests := []struct {
		value any
		want  string
	}{
		{[]any{"a"}, "array"},
		{true, "boolean"},
		{3.5, "number"},
		{"x", "string"},
	}
	for _, tt := range tests {
		e := &UnhandledTypeError{Expected: "list", Value: tt.value}
		assert.Contains(t, e.Error(), "got "+tt.want)
	}
}

func TestResourceLimitError(t *testing.T) {
	err := &ResourceLimitError{
		ResourceType: "node_count",
		Limit:        100,
		Actual:       250,
		Message:      "original snapshot too large",
	}
	assert.Equal(t, "resource limit exceeded: node_count (limit: 100, actual: 250): original snapshot too large", err.Error())
	assert.ErrorIs(t, err, ErrResourceLimit)
	assert.Equal(t, "resource limit exceeded", (&ResourceLimitError{}).Error())
}

func TestAmbiguityError(t *testing.T) {
	err := &AmbiguityError{Identifier: "u1", Names: []string{"a", "b"}, Side: "original"}
	assert.Equal(t, `ambiguous identifier "u1" in original snapshot: shared by a, b`, err.Error())
	assert.ErrorIs(t, err, ErrAmbiguousIdentifier)
	assert.NotErrorIs(t, err, ErrParse)
}

func TestConfigError(t *testing.T) {
	cause := errors.New("boom")
	err := &ConfigError{Option: "max-nodes", Value: -1, Message: "must not be negative", Cause: cause}
	assert.Equal(t, "configuration error for max-nodes (value: -1): must not be negative: boom", err.Error())
	assert.ErrorIs(t, err, ErrConfig)
	assert.ErrorIs(t, err, cause)
}
