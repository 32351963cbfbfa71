package cliutil

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWritef(t *testing.T) {
	tests := []struct {
		name   string
		format string
		args   []any
		want   string
	}{
		{"no args", "Summary:\n", nil, "Summary:\n"},
		{"single arg", "Suggested bump: %s", []any{"minor"}, "Suggested bump: minor"},
		{"mixed args", "%s: %d entities, breaking=%v", []any{"Updated", 3, true}, "Updated: 3 entities, breaking=true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Writef(&buf, tt.format, tt.args...)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWritef_WriteError(t *testing.T) {
	assert.NotPanics(t, func() { Writef(failingWriter{}, "lost") })
}

func TestHeading(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{"renamed", 2, "Renamed Entities (2 changes):\n"},
		{"deleted", 1, "Deleted Entities (1 change):\n"},
		{"updated", 0, "Updated Entities (0 changes):\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Heading(&buf, tt.name, "Entities", tt.count)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
