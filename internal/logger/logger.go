// Package logger wires zerolog into the handful of child-logger shapes this
// module's binaries and qc packages need: a root logger per process, a
// per-package logger for qc/simulator, qc/sampler and internal/httpapi, a
// per-HTTP-request logger, and a per-sampling-run logger.
package logger

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is a zerolog.Logger with this project's field naming baked in.
type Logger struct {
	zerolog.Logger
}

// LoggerOptions configures the root Logger for a process.
type LoggerOptions struct {
	Debug bool
	// Component names the binary emitting logs (e.g. "leaky-cli",
	// "leaky-server"), attached to every line the root Logger produces.
	// Leave empty for library code that never runs as its own process.
	Component string
}

type logLevel string

const (
	DebugLevel logLevel = "DEBUG"
	InfoLevel  logLevel = "INFO"
	WarnLevel  logLevel = "WARN"
	ErrorLevel logLevel = "ERROR"
)

// NewLogger builds the root Logger for a process: JSON lines to stdout
// under the T/L/M field names, at Info unless Debug is set.
func NewLogger(options LoggerOptions) *Logger {
	var output io.Writer = os.Stdout
	level := zerolog.InfoLevel
	if options.Debug {
		level = zerolog.DebugLevel
	}

	zerolog.TimestampFieldName = "T"
	zerolog.LevelFieldName = "L"
	zerolog.MessageFieldName = "M"
	zerolog.LevelDebugValue = string(DebugLevel)
	zerolog.LevelInfoValue = string(InfoLevel)
	zerolog.LevelWarnValue = string(WarnLevel)
	zerolog.LevelErrorValue = string(ErrorLevel)

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if options.Component != "" {
		ctx = ctx.Str("component", options.Component)
	}

	return &Logger{ctx.Logger()}
}

// SpawnForService tags a child logger with the qc package (simulator,
// sampler, itsu, httpapi, ...) writing through it.
func (l *Logger) SpawnForService(serviceName string) *Logger {
	return &Logger{l.With().Str("service", serviceName).Logger()}
}

// SpawnForContext tags a child logger with a per-HTTP-request correlation
// pair, the shape internal/httpapi's requestWrapper middleware attaches for
// the lifetime of one request.
func (l *Logger) SpawnForContext(reqCount string, reqID string) *Logger {
	return &Logger{l.With().Str("reqCount", reqCount).Str("reqID", reqID).Logger()}
}

// SpawnForRun tags a child logger with a Sampler.Sample run's correlation ID
// and requested shot count, so every log line a single sampling run
// produces across its worker goroutines can be grepped out together.
func (l *Logger) SpawnForRun(runID string, shots int) *Logger {
	return &Logger{l.With().Str("runID", runID).Int("shots", shots).Logger()}
}
