package catalogdiff

import (
	"runtime/debug"
	"sync"
)

// version is set with -ldflags "-X github.com/erraggy/catalogdiff.version=..."
// by release builds.
var version = ""

var moduleVersion = sync.OnceValue(func() string {
	if version != "" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
})

// Version returns the release version, the module version recorded by
// go install, or "dev" for source builds.
func Version() string {
	return moduleVersion()
}

// UserAgent identifies catalogdiff in MCP handshakes and metrics.
func UserAgent() string {
	return "catalogdiff/" + Version()
}
