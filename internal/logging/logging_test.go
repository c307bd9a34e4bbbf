package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
	}{
		{name: "debug lower", input: "debug", want: slog.LevelDebug},
		{name: "info upper", input: "INFO", want: slog.LevelInfo},
		{name: "warn mixed", input: "WaRn", want: slog.LevelWarn},
		{name: "warning alias", input: "warning", want: slog.LevelWarn},
		{name: "error", input: "error", want: slog.LevelError},
		{name: "trim spaces", input: "  debug  ", want: slog.LevelDebug},
		{name: "unknown fallback", input: "verbose", want: slog.LevelInfo},
		{name: "empty fallback", input: "", want: slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNew_AddsComponent(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	Init(slog.LevelInfo, "json", &buf)
	New("querycache").Info("hello")

	assert.Contains(t, buf.String(), `"component":"querycache"`)
	assert.Contains(t, buf.String(), `"msg":"hello"`)
}
