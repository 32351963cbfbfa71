package catalog

import "log/slog"

// Logger receives structured diagnostics from the loader and the differ.
// Attributes are alternating keys and values, as with log/slog:
//
//	logger.Debug("tree diff complete", "added", 3, "elapsed", d)
//
// Wrap a *slog.Logger with [NewSlogAdapter]; zap's SugaredLogger and similar
// loggers fit with a thin wrapper.
type Logger interface {
	Debug(msg string, attrs ...any)
	Info(msg string, attrs ...any)
	Warn(msg string, attrs ...any)
	Error(msg string, attrs ...any)
	// With returns a Logger that adds attrs to every record.
	With(attrs ...any) Logger
}

// NopLogger discards everything. It is used when no logger is configured.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any) {}
func (NopLogger) Warn(string, ...any) {}
func (NopLogger) Error(string, ...any) {}
func (n NopLogger) With(...any) Logger { return n }

// SlogAdapter is a Logger backed by a *slog.Logger. The leveled methods are
// those of the embedded logger.
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter wraps l, or slog.Default() when l is nil.
func NewSlogAdapter(l *slog.Logger) *SlogAdapter {
	if l == nil {
		l = slog.Default()
	}
	return &SlogAdapter{Logger: l}
}

// With shadows slog.Logger.With so the result stays a Logger.
func (s *SlogAdapter) With(attrs ...any) Logger {
	return &SlogAdapter{Logger: s.Logger.With(attrs...)}
}

var (
	_ Logger = NopLogger{}
	_ Logger = (*SlogAdapter)(nil)
)
