package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "json")

	logger.InfoContext(context.Background(), "evaluation complete", "decision", "SAFE")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "evaluation complete", entry["msg"])
	assert.Equal(t, "SAFE", entry["decision"])
}

func TestNewLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "info", "text")

	logger.Info("stream blocked", "stream_id", "abc")
	assert.Contains(t, buf.String(), "stream blocked")
	assert.Contains(t, buf.String(), "stream_id=abc")
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		name      string
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{name: "debug passes everything", level: "debug", wantDebug: true, wantWarn: true},
		{name: "warn drops debug", level: "warn", wantDebug: false, wantWarn: true},
		{name: "error drops warn", level: "error", wantDebug: false, wantWarn: false},
		{name: "unknown falls back to info", level: "loud", wantDebug: false, wantWarn: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewLogger(&buf, tt.level, "text")

			assert.Equal(t, tt.wantDebug, logger.Enabled(context.Background(), slog.LevelDebug))
			assert.Equal(t, tt.wantWarn, logger.Enabled(context.Background(), slog.LevelWarn))
		})
	}
}

func TestTracerIsUsableWithoutProvider(t *testing.T) {
	tracer := Tracer()
	require.NotNil(t, tracer)

	_, span := tracer.Start(context.Background(), "guardrail.evaluate")
	span.End()
}
