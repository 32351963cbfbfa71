package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v4"

	"github.com/erraggy/catalogdiff/catalogerrors"
	"github.com/erraggy/catalogdiff/internal/pathutil"
)

// DefaultMaxFileSize is the largest catalog file the parser reads (64 MiB).
const DefaultMaxFileSize int64 = 64 << 20

// DefaultMaxNodes is the largest number of values the parser builds from one
// document. Alias expansions count once per use.
const DefaultMaxNodes = 1_000_000

// DefaultLeafKey marks a token node when flattening nested token groups.
const DefaultLeafKey = "$value"

// DefaultSeparator joins group names when flattening.
const DefaultSeparator = "."

// SourceFormat represents the format of a catalog file
type SourceFormat string

const (
	// SourceFormatYAML indicates the source was in YAML format
	SourceFormatYAML SourceFormat = "yaml"
	// SourceFormatJSON indicates the source was in JSON format
	SourceFormatJSON SourceFormat = "json"
	// SourceFormatUnknown indicates the source format could not be determined
	SourceFormatUnknown SourceFormat = "unknown"
)

// Parser loads catalog snapshots from local JSON or YAML documents.
// Key order is preserved, so entity order in the snapshot matches the file.
type Parser struct {
	// Root selects a nested object as the entity map, e.g.
	// []string{"components", "schemas"}. Empty means the document root.
	Root []string
	// Flatten turns nested token groups into entities named by their joined
	// group path. A node is a token when it holds LeafKey.
	Flatten bool
	// LeafKey marks token nodes when Flatten is set. Default: "$value"
	LeafKey string
	// Separator joins group names when Flatten is set. Default: "."
	Separator string
	// MaxFileSize limits the bytes read. 0 uses DefaultMaxFileSize.
	MaxFileSize int64
	// MaxNodes limits the values built from a document, counting every alias
	// expansion. 0 uses DefaultMaxNodes; a negative value disables the check.
	MaxNodes int
	// Logger receives debug output. Nil disables logging.
	Logger Logger
}

// New creates a new Parser instance with default settings
func New() *Parser {
	return &Parser{
		LeafKey:     DefaultLeafKey,
		Separator:   DefaultSeparator,
		MaxFileSize: DefaultMaxFileSize,
	}
}

// log returns the configured logger, or a no-op logger if none is set.
func (p *Parser) log() Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return NopLogger{}
}

func (p *Parser) maxFileSize() int64 {
	if p.MaxFileSize > 0 {
		return p.MaxFileSize
	}
	return DefaultMaxFileSize
}

func (p *Parser) maxNodes() int {
	if p.MaxNodes != 0 {
		return p.MaxNodes
	}
	return DefaultMaxNodes
}

// Parse reads and parses the catalog file at path.
func (p *Parser) Parse(path string) (*Snapshot, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read file: %w", err)
	}
	if limit := p.maxFileSize(); info.Size() > limit {
		return nil, &catalogerrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Actual:       info.Size(),
			Message:      path,
		}
	}

	start := time.Now()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read file: %w", err)
	}
	p.log().Debug("read catalog file", "path", path, "bytes", len(data), "elapsed", time.Since(start))

	snap, err := p.parse(data, path)
	if err != nil {
		return nil, err
	}
	if format := detectFormatFromPath(path); format != SourceFormatUnknown {
		snap.Format = format
	}
	return snap, nil
}

// ParseReader parses a catalog from r.
func (p *Parser) ParseReader(r io.Reader) (*Snapshot, error) {
	limit := p.maxFileSize()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("catalog: failed to read data: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &catalogerrors.ResourceLimitError{ResourceType: "file_size", Limit: limit}
	}
	return p.ParseBytes(data)
}

// ParseBytes parses a catalog held in memory.
func (p *Parser) ParseBytes(data []byte) (*Snapshot, error) {
	if limit := p.maxFileSize(); int64(len(data)) > limit {
		return nil, &catalogerrors.ResourceLimitError{
			ResourceType: "file_size",
			Limit:        limit,
			Actual:       int64(len(data)),
		}
	}
	return p.parse(data, "")
}

func (p *Parser) parse(data []byte, source string) (*Snapshot, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &catalogerrors.ParseError{Path: source, Message: "invalid JSON or YAML", Cause: err}
	}

	var root any = NewObject(0)
	if doc.Kind != 0 {
		node := &doc
		if node.Kind == yaml.DocumentNode && len(node.Content) > 0 {
			node = node.Content[0]
		}
		dec := &decoder{source: source, limit: p.maxNodes()}
		v, err := dec.decode(node)
		if err != nil {
			return nil, err
		}
		if v != nil {
			root = v
		}
	}

	if len(p.Root) > 0 {
		sub, ok := Lookup(root, p.Root...)
		if !ok {
			return nil, &catalogerrors.ParseError{
				Path:    source,
				Message: fmt.Sprintf("root path %q not found", pathutil.Join(p.Root...)),
			}
		}
		root = sub
	}

	obj, ok := root.(*Object)
	if !ok {
		return nil, &catalogerrors.ParseError{
			Path:    source,
			Message: fmt.Sprintf("catalog root must be an object, got %s", KindOf(root)),
		}
	}

	if p.Flatten {
		flat, err := FlattenTokens(obj, p.leafKey(), p.separator())
		if err != nil {
			var pe *catalogerrors.ParseError
			if errors.As(err, &pe) && pe.Path == "" {
				pe.Path = source
			}
			return nil, err
		}
		obj = flat
	}

	snap := SnapshotFromObject(obj)
	snap.Source = source
	snap.Size = int64(len(data))
	snap.Format = detectFormatFromContent(data)
	p.log().Debug("parsed catalog", "source", source, "entities", snap.Len(), "format", snap.Format)
	return snap, nil
}

func (p *Parser) leafKey() string {
	if p.LeafKey != "" {
		return p.LeafKey
	}
	return DefaultLeafKey
}

func (p *Parser) separator() string {
	if p.Separator != "" {
		return p.Separator
	}
	return DefaultSeparator
}

// decoder converts YAML nodes into catalog values, preserving key order and
// rejecting duplicate keys. It counts every value it builds, so a document
// whose aliases expand past limit fails instead of exhausting memory.
type decoder struct {
	source string
	limit  int
	nodes  int
}

func (d *decoder) decode(node *yaml.Node) (any, error) {
	d.nodes++
	if d.limit > 0 && d.nodes > d.limit {
		return nil, &catalogerrors.ResourceLimitError{
			ResourceType: "node_count",
			Limit:        int64(d.limit),
			Actual:       int64(d.nodes),
			Message:      d.limitMessage(node),
		}
	}

	source := d.source
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		return d.decode(node.Alias)
	case yaml.MappingNode:
		obj := NewObject(len(node.Content) / 2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valueNode := node.Content[i], node.Content[i+1]
			key := keyNode.Value
			if obj.Has(key) {
				return nil, &catalogerrors.ParseError{
					Path:    source,
					Line:    keyNode.Line,
					Column:  keyNode.Column,
					Message: fmt.Sprintf("duplicate key %q", key),
				}
			}
			v, err := d.decode(valueNode)
			if err != nil {
				return nil, err
			}
			obj.Set(key, v)
		}
		return obj, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := d.decode(item)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, &catalogerrors.ParseError{
				Path:    source,
				Line:    node.Line,
				Column:  node.Column,
				Message: "invalid scalar",
				Cause:   err,
			}
		}
		return v, nil
	default:
		return nil, &catalogerrors.ParseError{
			Path:    source,
			Line:    node.Line,
			Column:  node.Column,
			Message: fmt.Sprintf("unsupported node kind %d", node.Kind),
		}
	}
}

// detectFormatFromPath detects the format from a file path extension
func detectFormatFromPath(path string) SourceFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return SourceFormatJSON
	case ".yaml", ".yml":
		return SourceFormatYAML
	default:
		return SourceFormatUnknown
	}
}

// detectFormatFromContent guesses the format from the first non-space byte
func detectFormatFromContent(data []byte) SourceFormat {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return SourceFormatUnknown
	}
	if trimmed[0] == '{' || trimmed[0] == '[' {
		return SourceFormatJSON
	}
	return SourceFormatYAML
}

func (d *decoder) limitMessage(node *yaml.Node) string {
	where := fmt.Sprintf("line %d", node.Line)
	if d.source != "" {
		where = d.source + ":" + where
	}
	return where + ": too many values, check for nested aliases"
}
