package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{name: "default", cfg: DefaultLogConfig()},
		{name: "console stderr", cfg: LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{name: "empty level", cfg: LogConfig{}},
		{name: "invalid level", cfg: LogConfig{Level: "loud"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				assert.ErrorContains(t, err, `invalid log level "loud"`)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, logger)
		})
	}
}

func decodeEntries(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		if len(line) == 0 {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal(line, &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{Level: "info", Format: "json"}, &buf)
	require.NoError(t, err)

	logger.Debug("hidden")
	logger.With(String("media_type", "application/json")).Info("negotiated", Int("candidates", 2))
	require.NoError(t, logger.Sync())

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	entry := entries[0]
	assert.Equal(t, "negotiated", entry["message"])
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "application/json", entry["media_type"])
	assert.Equal(t, float64(2), entry["candidates"])
	assert.Contains(t, entry["caller"], "logging_test.go")
}

func TestLogger_Named(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{}, &buf)
	require.NoError(t, err)

	logger.Named("config").Named("watcher").Warn("reload rejected")

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "config.watcher", entries[0]["logger"])
	assert.Equal(t, "warn", entries[0]["level"])
}

func TestLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewLoggerWithWriter(LogConfig{Level: "info"}, &buf)
	require.NoError(t, err)

	tracer, _ := newRecordingTracer(t)
	ctx, span := tracer.StartSpan(ContextWithRequestID(context.Background(), "req-1"), "encode")
	defer span.End()

	logger.WithContext(ctx).Info("hello")

	entries := decodeEntries(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "req-1", entries[0]["request_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), entries[0]["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entries[0]["span_id"])
}

func TestLogger_WithContextEmpty(t *testing.T) {
	logger := NopLogger()
	assert.Same(t, logger, logger.WithContext(context.Background()))
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "abc")
	assert.Equal(t, "abc", RequestIDFromContext(ctx))
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	assert.NotPanics(t, func() {
		logger.Debug("d")
		logger.Info("i")
		logger.Warn("w")
		logger.Error("e")
		_ = logger.With(String("k", "v")).Named("n").Sync()
	})
}

func TestNewZapLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	logger := NewZapLogger(zap.New(core))

	ctx := ContextWithRequestID(context.Background(), "req-7")
	logger.WithContext(ctx).Debug("negotiated", String("media_type", "application/json"))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "negotiated", entry.Message)
	assert.Equal(t, "req-7", entry.ContextMap()["request_id"])
	assert.Equal(t, "application/json", entry.ContextMap()["media_type"])

	assert.NotNil(t, NewZapLogger(nil))
}
