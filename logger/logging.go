package logger

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

var (
	enabled atomic.Bool // flip to false to nuke logs
	logger  atomic.Pointer[zerolog.Logger]
)

func init() {
	enabled.Store(true)
	Configure("info", false)
}

// Configure sets the level ("debug", "info", "warn", "error") and whether
// output is JSON instead of the console format.
func Configure(level string, json bool) {
	var out io.Writer = os.Stdout
	if !json {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	}
	SetOutput(out, level)
}

// SetOutput routes logs to w at the given level.
func SetOutput(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	logger.Store(&l)
}

func EnableLogging(b bool) {
	enabled.Store(b)
}

func Debug(msg string, v ...interface{}) {
	if !enabled.Load() {
		return
	}
	logger.Load().Debug().Msgf(msg, v...)
}

func Info(msg string, v ...interface{}) {
	if !enabled.Load() {
		return
	}
	logger.Load().Info().Msgf(msg, v...)
}

func Warn(msg string, v ...interface{}) {
	if !enabled.Load() {
		return
	}
	logger.Load().Warn().Msgf(msg, v...)
}

func Error(msg string, v ...interface{}) {
	if !enabled.Load() {
		return
	}
	logger.Load().Error().Msgf(msg, v...)
}
