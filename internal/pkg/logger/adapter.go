package logger

import (
	"log/slog"

	"balance_reporter/internal/app/port"
)

// slogAdapter implements port.Logger on top of the global slog logger.
type slogAdapter struct {
	attrs []any
}

// NewSlogAdapter returns a port.Logger backed by the package logger.
func NewSlogAdapter() port.Logger {
	return &slogAdapter{}
}

func (a *slogAdapter) logger() *slog.Logger {
	ensureInitialized()
	if len(a.attrs) == 0 {
		return globalLogger
	}
	return globalLogger.With(a.attrs...)
}

func (a *slogAdapter) Debug(msg string, args ...any) {
	a.logger().Debug(msg, args...)
}

func (a *slogAdapter) Info(msg string, args ...any) {
	a.logger().Info(msg, args...)
}

func (a *slogAdapter) Warn(msg string, args ...any) {
	a.logger().Warn(msg, args...)
}

func (a *slogAdapter) Error(msg string, args ...any) {
	a.logger().Error(msg, args...)
}

// With returns an adapter carrying args on every record.
func (a *slogAdapter) With(args ...any) port.Logger {
	attrs := make([]any, 0, len(a.attrs)+len(args))
	attrs = append(attrs, a.attrs...)
	attrs = append(attrs, args...)
	return &slogAdapter{attrs: attrs}
}
