// Package mcpserver serves catalog comparison to MCP (Model Context Protocol)
// clients over stdio. It registers two tools: diff compares whole snapshots,
// classify_entity judges a single pair of entity definitions.
package mcpserver

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/erraggy/catalogdiff"
	"github.com/erraggy/catalogdiff/catalog"
)

const serverInstructions = `catalogdiff MCP server: compares two snapshots of a design-token or component-schema catalog and classifies every change.

Configuration: All defaults are configurable via CATALOGDIFF_* environment variables set in your MCP client config.

Key settings:
- CATALOGDIFF_CACHE_ENABLED (default: true): disable snapshot caching entirely
- CATALOGDIFF_CACHE_MAX_SIZE (default: 16): number of decoded snapshots kept
- CATALOGDIFF_CACHE_TTL (default: 15m): lifetime of a cached snapshot
- CATALOGDIFF_MAX_NODES (default: 1000000): size guard per snapshot
- CATALOGDIFF_ID_KEY (default: id): entity field holding the stable identifier
- CATALOGDIFF_MAX_CHANGES (default: 500): cap on change descriptions returned by diff

Caching: Decoded snapshots are cached per session. File entries use path+mtime as key (auto-invalidated on change); inline content is keyed by its hash.`

// logger is the server's structured logger. Stdout carries the protocol, so
// it writes to stderr.
var logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Run starts the MCP server over stdio and blocks until the client disconnects
// or the context is cancelled.
func Run(ctx context.Context) error {
	server := mcp.NewServer(
		&mcp.Implementation{Name: "catalogdiff", Version: catalogdiff.Version()},
		&mcp.ServerOptions{
			Instructions: serverInstructions,
		},
	)
	registerAllTools(server)
	logger.Info("mcp server starting", "agent", catalogdiff.UserAgent(), "cache", cfg.CacheEnabled)
	return server.Run(ctx, &mcp.StdioTransport{})
}

func registerAllTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "diff",
		Description: "Compare two snapshots of a token or component catalog. Reports added, deleted, renamed (matched by stable identifier), deprecated, reverted and updated entities, with a breaking verdict and a human-readable description per change. Use root to select a nested entity map (e.g. [\"components\",\"schemas\"]) and flatten for nested token groups. Use breaking_only=true to list only breaking changes.",
	}, withCallLog("diff", handleDiff))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "classify_entity",
		Description: "Classify the change between two definitions of a single entity. Returns whether the change is breaking and the list of change descriptions. Omit original for a new entity or updated for a removed one.",
	}, withCallLog("classify_entity", handleClassifyEntity))
}

// withCallLog tags every call of a tool with a fresh call id and logs its
// outcome and duration.
func withCallLog[In, Out any](tool string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		log := logger.With("tool", tool, "call_id", uuid.NewString())
		start := time.Now()
		result, out, err := h(ctx, req, in)
		switch {
		case err != nil:
			log.Error("tool call failed", "error", err, "duration", time.Since(start))
		case result != nil && result.IsError:
			log.Warn("tool call rejected", "duration", time.Since(start))
		default:
			log.Info("tool call", "duration", time.Since(start))
		}
		return result, out, err
	}
}

// callLogger adapts the server logger for the differ.
func callLogger() catalog.Logger {
	return catalog.NewSlogAdapter(logger)
}

// makeSlice returns nil for n == 0 so empty lists are omitted from output.
func makeSlice[T any](n int) []T {
	if n == 0 {
		return nil
	}
	return make([]T, 0, n)
}

// sanitizeError replaces absolute paths in err with "<path>" before the
// message reaches a client.
var pathPattern = regexp.MustCompile(`(?:/(?:home|tmp|var|Users|etc|opt|usr|private|root|mnt|srv|run|snap|nix)[a-zA-Z0-9._/-]*)`)

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	return pathPattern.ReplaceAllString(err.Error(), "<path>")
}

// errResult reports err to the client as a tool error.
func errResult(err error) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		IsError: true,
		Content: []mcp.Content{&mcp.TextContent{Text: sanitizeError(err)}},
	}
}
