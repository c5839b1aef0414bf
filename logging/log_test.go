package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevelKnownAndUnknown(t *testing.T) {
	cases := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v want %v", in, got, want)
		}
	}
}

func TestNewConsoleLoggerAppliesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLogger(&buf, "warn")
	if logger.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("got level %v", logger.GetLevel())
	}
}

func TestNewJSONLoggerWritesStructuredOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf, "info")
	logger.Info().Str("k", "v").Msg("hello")
	out := buf.String()
	if !strings.Contains(out, `"k":"v"`) || !strings.Contains(out, `"message":"hello"`) {
		t.Fatalf("got %q", out)
	}
}

func TestInitDerivesDistinctPhaseLoggers(t *testing.T) {
	var buf bytes.Buffer
	Init("debug", true, &buf)

	Schema.Info().Msg("schema-event")
	Commitment.Info().Msg("commitment-event")

	out := buf.String()
	if !strings.Contains(out, `"phase":"schema"`) {
		t.Fatalf("got %q", out)
	}
	if !strings.Contains(out, `"phase":"commitment"`) {
		t.Fatalf("got %q", out)
	}
}
