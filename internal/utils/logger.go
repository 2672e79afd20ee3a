package utils

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	// Logger is the process-wide structured logger.
	Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	logMu  sync.RWMutex
)

// InitLogger sets the level ("debug", "info", ...) and format ("json" or
// "console") of Logger. Unknown levels fall back to info.
func InitLogger(level, format string) {
	lvl, err := zerolog.ParseLevel(strings.TrimSpace(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	var out io.Writer = os.Stderr
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		out = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	logMu.Lock()
	defer logMu.Unlock()
	Logger = zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// SetLogOutput redirects Logger, used by tests to capture or silence output.
func SetLogOutput(w io.Writer) {
	logMu.Lock()
	defer logMu.Unlock()
	Logger = Logger.Output(w)
}

// L returns the current logger.
func L() *zerolog.Logger {
	logMu.RLock()
	defer logMu.RUnlock()
	l := Logger
	return &l
}

// LogEvent prints standardized log line with module/action/request_id.
// Avoid logging sensitive payload; message should be summarized.
func LogEvent(requestID, module, action, message string) {
	L().Info().
		Str("module", strings.ToLower(module)).
		Str("action", action).
		Str("request_id", strings.TrimSpace(requestID)).
		Msg(message)
}

// LogFailure is LogEvent at error level with the cause attached.
func LogFailure(requestID, module, action string, err error) {
	L().Error().
		Err(err).
		Str("module", strings.ToLower(module)).
		Str("action", action).
		Str("request_id", strings.TrimSpace(requestID)).
		Msg("failed")
}
