// Package commands provides CLI command handlers for catalogdiff.
package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/catalogdiff"
	"github.com/erraggy/catalogdiff/catalog"
	"github.com/erraggy/catalogdiff/internal/cliutil"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ErrBreakingChanges is returned by commands that found breaking changes.
// The caller exits with status 1 without printing it.
var ErrBreakingChanges = errors.New("breaking changes found")

// Stdout and Stderr are the command output streams; tests replace them.
var (
	Stdout io.Writer = os.Stdout
	Stderr io.Writer = os.Stderr
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	Writef(w, "%s\n", strings.TrimRight(string(bytes), "\n"))
	return nil
}

// Writef writes formatted output to the writer.
func Writef(w io.Writer, format string, args ...any) {
	cliutil.Writef(w, format, args...)
}

// LoadFlags are the catalog decoding flags shared by diff and bump.
type LoadFlags struct {
	Root    string
	Flatten bool
	Verbose bool
}

// RootPath splits the --root flag on "/" into a key path. Slashes keep keys
// with dots in them addressable.
func (f *LoadFlags) RootPath() []string {
	if f.Root == "" {
		return nil
	}
	var keys []string
	for _, k := range strings.Split(f.Root, "/") {
		if k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// Logger returns a structured logger on Stderr, at debug level with --verbose.
func (f *LoadFlags) Logger() catalog.Logger {
	if !f.Verbose {
		return catalog.NopLogger{}
	}
	handler := slog.NewTextHandler(Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	return catalog.NewSlogAdapter(slog.New(handler))
}

// Load decodes the catalog file at path.
func (f *LoadFlags) Load(path string) (*catalog.Snapshot, error) {
	opts := []catalog.Option{
		catalog.WithFilePath(path),
		catalog.WithFlatten(f.Flatten),
		catalog.WithLogger(f.Logger()),
	}
	if root := f.RootPath(); len(root) > 0 {
		opts = append(opts, catalog.WithRoot(root...))
	}
	snap, err := catalog.ParseWithOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return snap, nil
}

// stringList is a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// OutputHeader writes the version and input summary of a report.
func OutputHeader(w io.Writer, original, updated *catalog.Snapshot) {
	Writef(w, "catalogdiff version: %s\n", catalogdiff.Version())
	Writef(w, "Original: %s (%d entities)\n", original.Source, original.Len())
	Writef(w, "Updated:  %s (%d entities)\n", updated.Source, updated.Len())
}
