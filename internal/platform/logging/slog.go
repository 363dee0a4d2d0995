package logging

import (
	"log/slog"

	"go.uber.org/zap/exp/zapslog"
)

// Slog adapts the logger for callers that speak log/slog, such as the
// HTTP middleware. Both views write through the same zap core.
func (l *Logger) Slog() *slog.Logger {
	return slog.New(zapslog.NewHandler(l.Zap().Core()))
}
