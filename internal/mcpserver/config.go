package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Snapshot cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheTTL     time.Duration

	// Diff defaults.
	MaxNodes      int
	IdentifierKey string
	MaxInlineSize int64
	MaxChanges    int
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from CATALOGDIFF_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:  envBool("CATALOGDIFF_CACHE_ENABLED", true),
		CacheMaxSize:  envInt("CATALOGDIFF_CACHE_MAX_SIZE", 16),
		CacheTTL:      envDuration("CATALOGDIFF_CACHE_TTL", 15*time.Minute),
		MaxNodes:      envInt("CATALOGDIFF_MAX_NODES", 1_000_000),
		IdentifierKey: envString("CATALOGDIFF_ID_KEY", "id"),
		MaxInlineSize: int64(envInt("CATALOGDIFF_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxChanges:    envInt("CATALOGDIFF_MAX_CHANGES", 500),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

// envString returns the trimmed value of key. Values containing the path
// separator are rejected, since identifier keys name a single field.
func envString(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	if strings.Contains(v, "/") {
		slog.Warn("invalid key env var, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return v
}
