package telemetry

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// InitSlog installs the default process-wide slog handler. every log
// line emitted on behalf of a user session must carry a "session_id"
// attribute, otherwise concurrent sessions are unattributable.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
	slog.SetDefault(logger)
}

// SessionLogger returns a logger which stamps every record with the
// session it belongs to.
func SessionLogger(sessionId string) *slog.Logger {
	return slog.Default().With("session_id", sessionId)
}
