package catalog

import (
	"fmt"
	"io"

	"github.com/erraggy/catalogdiff/internal/options"
)

// Option is a function that configures a parse operation
type Option func(*parseConfig) error

// parseConfig holds configuration for a parse operation
type parseConfig struct {
	// Input source (exactly one must be set)
	filePath *string
	reader   io.Reader
	bytes    []byte

	root        []string
	flatten     bool
	leafKey     string
	separator   string
	maxFileSize int64
	maxNodes    int
	logger      Logger

	sourceName *string
}

// ParseWithOptions loads a catalog snapshot using functional options.
//
// Example:
//
//	snap, err := catalog.ParseWithOptions(
//	    catalog.WithFilePath("tokens.json"),
//	    catalog.WithFlatten(true),
//	)
func ParseWithOptions(opts ...Option) (*Snapshot, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("catalog: invalid options: %w", err)
	}

	p := &Parser{
		Root:        cfg.root,
		Flatten:     cfg.flatten,
		LeafKey:     cfg.leafKey,
		Separator:   cfg.separator,
		MaxFileSize: cfg.maxFileSize,
		MaxNodes:    cfg.maxNodes,
		Logger:      cfg.logger,
	}

	var snap *Snapshot
	switch {
	case cfg.filePath != nil:
		snap, err = p.Parse(*cfg.filePath)
	case cfg.reader != nil:
		snap, err = p.ParseReader(cfg.reader)
	default:
		snap, err = p.ParseBytes(cfg.bytes)
	}
	if err != nil {
		return nil, err
	}

	if cfg.sourceName != nil {
		snap.Source = *cfg.sourceName
	}
	return snap, nil
}

// applyOptions applies option functions and validates configuration
func applyOptions(opts ...Option) (*parseConfig, error) {
	cfg := &parseConfig{
		leafKey:     DefaultLeafKey,
		separator:   DefaultSeparator,
		maxFileSize: DefaultMaxFileSize,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if err := options.ValidateSingleInputSource(
		"must specify an input source (use WithFilePath, WithReader, or WithBytes)",
		"must specify exactly one input source",
		cfg.filePath != nil, cfg.reader != nil, cfg.bytes != nil,
	); err != nil {
		return nil, err
	}
	if cfg.maxFileSize < 0 {
		return nil, fmt.Errorf("max file size must not be negative, got %d", cfg.maxFileSize)
	}
	return cfg, nil
}

// WithFilePath specifies a local file path as the input source
func WithFilePath(path string) Option {
	return func(cfg *parseConfig) error {
		cfg.filePath = &path
		return nil
	}
}

// WithReader specifies an io.Reader as the input source
func WithReader(r io.Reader) Option {
	return func(cfg *parseConfig) error {
		cfg.reader = r
		return nil
	}
}

// WithBytes specifies a byte slice as the input source
func WithBytes(data []byte) Option {
	return func(cfg *parseConfig) error {
		if data == nil {
			data = []byte{}
		}
		cfg.bytes = data
		return nil
	}
}

// WithRoot selects a nested object of the document as the entity map
func WithRoot(keys ...string) Option {
	return func(cfg *parseConfig) error {
		cfg.root = keys
		return nil
	}
}

// WithFlatten enables flattening of nested token groups into dotted names
// Default: false
func WithFlatten(enabled bool) Option {
	return func(cfg *parseConfig) error {
		cfg.flatten = enabled
		return nil
	}
}

// WithLeafKey sets the key that marks a token node when flattening
// Default: "$value"
func WithLeafKey(key string) Option {
	return func(cfg *parseConfig) error {
		if key == "" {
			return fmt.Errorf("leaf key must not be empty")
		}
		cfg.leafKey = key
		return nil
	}
}

// WithSeparator sets the separator used to join group names when flattening
// Default: "."
func WithSeparator(sep string) Option {
	return func(cfg *parseConfig) error {
		if sep == "" {
			return fmt.Errorf("separator must not be empty")
		}
		cfg.separator = sep
		return nil
	}
}

// WithMaxFileSize sets the maximum number of bytes read
// Default: 64 MiB
func WithMaxFileSize(n int64) Option {
	return func(cfg *parseConfig) error {
		cfg.maxFileSize = n
		return nil
	}
}

// WithMaxNodes caps the values built from a document, counting each alias
// expansion. A negative n disables the check.
// Default: 1,000,000
func WithMaxNodes(n int) Option {
	return func(cfg *parseConfig) error {
		cfg.maxNodes = n
		return nil
	}
}

// WithLogger sets a structured logger for debug output during parsing.
func WithLogger(l Logger) Option {
	return func(cfg *parseConfig) error {
		cfg.logger = l
		return nil
	}
}

// WithSourceName overrides the Source recorded on the snapshot
func WithSourceName(name string) Option {
	return func(cfg *parseConfig) error {
		cfg.sourceName = &name
		return nil
	}
}
