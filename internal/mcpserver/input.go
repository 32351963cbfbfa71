package mcpserver

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/erraggy/catalogdiff/catalog"
)

// snapshotInput represents the two ways a catalog can be provided to a tool.
// Exactly one of File or Content must be set.
type snapshotInput struct {
	File    string `json:"file,omitempty"    jsonschema:"Path to a catalog file on disk (JSON or YAML)"`
	Content string `json:"content,omitempty" jsonschema:"Inline catalog content (JSON or YAML)"`
}

// loadOptions control how a snapshot input is decoded. They take part in the
// cache key.
type loadOptions struct {
	Root    []string
	Flatten bool
}

func (o loadOptions) key() string {
	return strings.Join(o.Root, "\x00") + "|" + strconv.FormatBool(o.Flatten)
}

func (o loadOptions) parseOptions() []catalog.Option {
	opts := []catalog.Option{catalog.WithFlatten(o.Flatten)}
	if len(o.Root) > 0 {
		opts = append(opts, catalog.WithRoot(o.Root...))
	}
	return opts
}

// snapshotCache holds decoded snapshots for the session. File inputs are keyed
// by (absolutePath, modTime), content inputs by an xxhash of the content.
// Snapshots are shared read-only: the differ never mutates its inputs.
var snapshotCache = newSnapshotCache()

func newSnapshotCache() *expirable.LRU[string, *catalog.Snapshot] {
	return expirable.NewLRU[string, *catalog.Snapshot](cfg.CacheMaxSize, nil, cfg.CacheTTL)
}

// makeCacheKey creates a cache key for the given input, or "" when the input
// cannot be cached.
func makeCacheKey(s snapshotInput, o loadOptions) string {
	switch {
	case s.File != "":
		absPath, err := filepath.Abs(s.File)
		if err != nil {
			return ""
		}
		info, err := os.Stat(absPath)
		if err != nil {
			return ""
		}
		return fmt.Sprintf("file:%s:%d:%s", absPath, info.ModTime().UnixNano(), o.key())
	case s.Content != "":
		return fmt.Sprintf("content:%016x:%s", xxhash.Sum64String(s.Content), o.key())
	default:
		return ""
	}
}

// resolve decodes the snapshot from whichever input was provided, using the
// cache when enabled.
func (s snapshotInput) resolve(o loadOptions) (*catalog.Snapshot, error) {
	count := 0
	if s.File != "" {
		count++
	}
	if s.Content != "" {
		count++
	}
	if count != 1 {
		return nil, fmt.Errorf("exactly one of file or content must be provided (got %d)", count)
	}
	if s.Content != "" && int64(len(s.Content)) > cfg.MaxInlineSize {
		return nil, fmt.Errorf("inline content size %d bytes exceeds maximum %d bytes; use file input instead, or set CATALOGDIFF_MAX_INLINE_SIZE to increase",
			len(s.Content), cfg.MaxInlineSize)
	}

	var key string
	if cfg.CacheEnabled {
		key = makeCacheKey(s, o)
	}
	if key != "" {
		if cached, ok := snapshotCache.Get(key); ok {
			return cached, nil
		}
	}

	opts := o.parseOptions()
	if s.File != "" {
		opts = append(opts, catalog.WithFilePath(s.File))
	} else {
		opts = append(opts, catalog.WithBytes([]byte(s.Content)), catalog.WithSourceName("inline"))
	}
	snap, err := catalog.ParseWithOptions(opts...)
	if err != nil {
		return nil, err
	}

	if key != "" {
		snapshotCache.Add(key, snap)
	}
	return snap, nil
}
