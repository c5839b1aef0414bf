// Package logging provides structured logging for the validator, scoped
// per phase so a long validation run's log stream can be filtered down to
// just schema, commitment, or logic-phase events.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger is the process-wide base logger.
var Logger zerolog.Logger

// Phase-scoped loggers, one per validation phase plus the store and the
// resolver boundary.
var (
	Schema     zerolog.Logger
	Commitment zerolog.Logger
	Logic      zerolog.Logger
	Store      zerolog.Logger
	Resolver   zerolog.Logger
)

func init() {
	Logger = NewConsoleLogger(os.Stdout, "info")
	initPhaseLoggers()
}

// Init reconfigures the base logger and re-derives the phase loggers.
// When jsonOutput is false, output is a colored console writer; otherwise
// structured JSON lines, suitable for piping into a log aggregator.
func Init(level string, jsonOutput bool, w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	if jsonOutput {
		Logger = NewJSONLogger(w, level)
	} else {
		Logger = NewConsoleLogger(w, level)
	}
	initPhaseLoggers()
}

// NewConsoleLogger builds a colored, human-readable logger.
func NewConsoleLogger(w io.Writer, level string) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: "15:04:05",
	}
	return zerolog.New(output).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

// NewJSONLogger builds a structured JSON logger.
func NewJSONLogger(w io.Writer, level string) zerolog.Logger {
	return zerolog.New(w).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

func initPhaseLoggers() {
	Schema = Logger.With().Str("phase", "schema").Logger()
	Commitment = Logger.With().Str("phase", "commitment").Logger()
	Logic = Logger.With().Str("phase", "logic").Logger()
	Store = Logger.With().Str("component", "store").Logger()
	Resolver = Logger.With().Str("component", "resolver").Logger()
}

// WithContract returns a logger tagged with a contract id, for following
// one contract's events across phases.
func WithContract(contractID string) zerolog.Logger {
	return Logger.With().Str("contract_id", contractID).Logger()
}
