package testhelpers

import (
	"io"
	"log/slog"
	"testing"

	"github.com/mulhim/planner/internal/logging"
)

// NewLogger creates a debug-level text logger writing to logSink, such as the one returned by NewWriter.
func NewLogger(logSink io.Writer) *slog.Logger {
	handler := logging.NewContextHandler(slog.NewTextHandler(logSink, &slog.HandlerOptions{
		AddSource:   false,
		Level:       slog.LevelDebug,
		ReplaceAttr: nil,
	}))
	return slog.New(handler)
}

// NewTestLogger is shorthand for NewLogger(NewWriter(t)).
func NewTestLogger(t *testing.T) *slog.Logger {
	t.Helper()
	return NewLogger(NewWriter(t))
}
