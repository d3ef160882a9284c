package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/task-manager-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  slog.Level
		ok    bool
	}{
		{"debug", "debug", slog.LevelDebug, true},
		{"info", "info", slog.LevelInfo, true},
		{"warn", "warn", slog.LevelWarn, true},
		{"error", "error", slog.LevelError, true},
		{"mixed case", "DeBuG", slog.LevelDebug, true},
		{"unknown", "verbose", slog.LevelInfo, false},
		{"empty", "", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	t.Run("writes JSON at configured level", func(t *testing.T) {
		var out, warn bytes.Buffer

		l, err := setup(&out, &warn, config.ServerConfig{LogLevel: "warn"})
		require.NoError(t, err)
		require.NotNil(t, l)

		l.Info("dropped")
		l.Warn("kept", "key", "value")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
		assert.Equal(t, "kept", entry["msg"])
		assert.Equal(t, "WARN", entry["level"])
		assert.Equal(t, "value", entry["key"])
		assert.Empty(t, warn.String())
		assert.Same(t, l, slog.Default())
	})

	t.Run("invalid level falls back to info", func(t *testing.T) {
		var out, warn bytes.Buffer

		l, err := setup(&out, &warn, config.ServerConfig{LogLevel: "loud"})
		require.NoError(t, err)

		l.Debug("dropped")
		l.Info("kept")

		assert.Contains(t, warn.String(), "invalid log level configured")
		assert.NotContains(t, out.String(), "dropped")
		assert.Contains(t, out.String(), "kept")
	})
}

func TestContextLogger(t *testing.T) {
	l, buf := GetTestLogger(t)

	ctx := WithLogger(context.Background(), l)
	assert.Same(t, l, FromContext(ctx))
	assert.Same(t, l, FromContextOrDefault(ctx, nil))

	FromContextOrDefault(ctx, nil).Info("from context", "component", "test")
	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "test", entries[0]["component"])

	assert.Nil(t, FromContext(context.Background()))
	//nolint:staticcheck // nil context is tolerated
	assert.Nil(t, FromContext(nil))
	assert.Same(t, slog.Default(), FromContextOrDefault(context.Background(), nil))

	fallback, _ := GetTestLogger(t)
	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.Same(t, l, FromContextOrDefault(ctx, fallback))

	assert.Panics(t, func() { WithLogger(context.Background(), nil) })
}
