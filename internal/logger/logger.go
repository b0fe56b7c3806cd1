// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.Mutex
	once   sync.Once
	logger *slog.Logger
)

// Config holds logger configuration.
type Config struct {
	Level     string // DEBUG, INFO, WARN, ERROR
	Format    string // json, text
	AddSource bool
}

// ParseLevel maps a level name to a slog level. Unknown names are INFO.
func ParseLevel(name string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New builds a logger writing to w without touching the global one.
func New(cfg Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     ParseLevel(cfg.Level),
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Init initializes the global logger. Logs go to stderr so stdout stays
// reserved for command output. Only the first call has an effect.
func Init(cfg Config) {
	once.Do(func() {
		l := New(cfg, os.Stderr)
		mu.Lock()
		logger = l
		mu.Unlock()
		slog.SetDefault(l)
	})
}

// Set replaces the global logger. Tests use it to capture output.
func Set(l *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l
}

// Get returns the global logger.
func Get() *slog.Logger {
	mu.Lock()
	l := logger
	mu.Unlock()
	if l == nil {
		// Default fallback if not initialized
		Init(Config{Level: "WARN", Format: "text"})
		mu.Lock()
		l = logger
		mu.Unlock()
	}
	if l == nil {
		return slog.Default()
	}
	return l
}

func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}
