package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger facade used across the portal backend.
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - backed by zerolog; LOG_FORMAT=console switches to the human-readable writer

var (
	mu     sync.RWMutex
	out    io.Writer = os.Stdout
	format           = "json"
	logger           = newLogger(os.Stdout, "json")
)

func newLogger(w io.Writer, f string) zerolog.Logger {
	if f == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	s := strings.ToLower(strings.TrimSpace(l))
	switch s {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "warn", "warning":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	case "fatal":
		zerolog.SetGlobalLevel(zerolog.FatalLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// SetFormat selects "json" (default) or "console" output.
func SetFormat(f string) {
	mu.Lock()
	defer mu.Unlock()
	format = strings.ToLower(strings.TrimSpace(f))
	logger = newLogger(out, format)
}

// SetOutput redirects log output; used by tests.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	logger = newLogger(out, format)
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := logger
	return &l
}

func Debugf(f string, v ...interface{}) { current().Debug().Msgf(f, v...) }

func Infof(f string, v ...interface{}) { current().Info().Msgf(f, v...) }

func Warnf(f string, v ...interface{}) { current().Warn().Msgf(f, v...) }

func Errorf(f string, v ...interface{}) { current().Error().Msgf(f, v...) }

// Fatalf logs regardless of level and exits the process.
func Fatalf(f string, v ...interface{}) {
	current().WithLevel(zerolog.FatalLevel).Msgf(f, v...)
	os.Exit(1)
}

// Println kept for brief messages (maps to Info)
func Println(v ...interface{}) {
	current().Info().Msg(strings.TrimSuffix(fmt.Sprintln(v...), "\n"))
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// Truncate shortens secrets (session tokens) for log lines.
func Truncate(s string) string {
	if len(s) <= 8 {
		return s
	}
	return s[:8] + "..."
}

// LevelString returns the current level as text.
func LevelString() string {
	switch zerolog.GlobalLevel() {
	case zerolog.DebugLevel, zerolog.TraceLevel:
		return "debug"
	case zerolog.WarnLevel:
		return "warn"
	case zerolog.ErrorLevel:
		return "error"
	case zerolog.FatalLevel, zerolog.PanicLevel:
		return "fatal"
	}
	return "info"
}
