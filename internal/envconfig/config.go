// Package envconfig reads tensorkit settings from the environment.
//
// Every setting is an accessor function evaluated on each call, so tests and
// long-running processes observe changes made with os.Setenv.
package envconfig

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
	"sync"
)

// Var returns an environment variable stripped of leading and trailing quotes or spaces.
func Var(key string) string {
	return strings.Trim(strings.TrimSpace(os.Getenv(key)), "\"'")
}

// BoolWithDefault returns a getter that parses key as a bool.
// Unparseable non-empty values count as true.
func BoolWithDefault(k string) func(defaultValue bool) bool {
	return func(defaultValue bool) bool {
		if s := Var(k); s != "" {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return true
			}
			return b
		}
		return defaultValue
	}
}

// Bool returns a getter for key defaulting to false.
func Bool(k string) func() bool {
	withDefault := BoolWithDefault(k)
	return func() bool {
		return withDefault(false)
	}
}

// Uint returns a getter for key, falling back to defaultValue when the
// variable is unset or invalid.
func Uint(key string, defaultValue uint) func() uint {
	return func() uint {
		if s := Var(key); s != "" {
			if n, err := strconv.ParseUint(s, 10, 64); err != nil {
				slog.Warn("invalid environment variable, using default", "key", key, "value", s, "default", defaultValue)
			} else {
				return uint(n)
			}
		}
		return defaultValue
	}
}

var (
	// Parallel enables multi-goroutine CPU kernels. Set via TENSORKIT_PARALLEL.
	Parallel = BoolWithDefault("TENSORKIT_PARALLEL")

	// MinChunk is the smallest number of elements handed to one goroutine.
	// Set via TENSORKIT_MIN_CHUNK.
	MinChunk = Uint("TENSORKIT_MIN_CHUNK", 4096)
)

// NumThreads returns the CPU worker count. Set via TENSORKIT_NUM_THREADS;
// zero or unset means runtime.GOMAXPROCS(0).
func NumThreads() int {
	if n := Uint("TENSORKIT_NUM_THREADS", 0)(); n > 0 {
		return int(n)
	}
	return runtime.GOMAXPROCS(0)
}

// LogLevel returns the log level. Set via TENSORKIT_DEBUG:
// 0/false = INFO (default), 1/true = DEBUG, other integers scale by -4.
func LogLevel() slog.Level {
	level := slog.LevelInfo
	if s := Var("TENSORKIT_DEBUG"); s != "" {
		if b, _ := strconv.ParseBool(s); b {
			level = slog.LevelDebug
		} else if i, _ := strconv.ParseInt(s, 10, 64); i != 0 {
			level = slog.Level(i * -4)
		}
	}
	return level
}

// NewLogger returns a text logger writing to w at LogLevel.
// Debug logging also records the source location.
func NewLogger(w io.Writer) *slog.Logger {
	level := LogLevel()
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}))
}

// Logger is the process-wide stderr logger, built from TENSORKIT_DEBUG on
// first use.
var Logger = sync.OnceValue(func() *slog.Logger {
	return NewLogger(os.Stderr)
})

// EnvVar describes one setting.
type EnvVar struct {
	Name        string
	Value       any
	Description string
}

// AsMap returns every setting with its current value.
func AsMap() map[string]EnvVar {
	return map[string]EnvVar{
		"TENSORKIT_DEBUG":       {"TENSORKIT_DEBUG", LogLevel(), "Show additional debug information (e.g. TENSORKIT_DEBUG=1)"},
		"TENSORKIT_MIN_CHUNK":   {"TENSORKIT_MIN_CHUNK", MinChunk(), "Minimum elements per CPU worker (default 4096)"},
		"TENSORKIT_NUM_THREADS": {"TENSORKIT_NUM_THREADS", NumThreads(), "Number of CPU worker goroutines (default GOMAXPROCS)"},
		"TENSORKIT_PARALLEL":    {"TENSORKIT_PARALLEL", Parallel(true), "Run CPU kernels on multiple goroutines (default true)"},
	}
}

// Values returns every setting formatted as a string.
func Values() map[string]string {
	vals := make(map[string]string)
	for k, v := range AsMap() {
		vals[k] = fmt.Sprintf("%v", v.Value)
	}
	return vals
}
