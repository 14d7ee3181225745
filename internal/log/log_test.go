package log

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restoreDefault(t *testing.T) {
	t.Helper()
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
}

func TestOptions_Level(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want slog.Level
	}{
		{"default", Options{}, slog.LevelInfo},
		{"verbose", Options{Verbose: true}, slog.LevelDebug},
		{"quiet", Options{Quiet: true}, slog.LevelWarn},
		{"quiet takes precedence", Options{Verbose: true, Quiet: true}, slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.opts.Level())
		})
	}
}

func TestSetup_DefaultLevel(t *testing.T) {
	restoreDefault(t)
	Setup(&bytes.Buffer{}, Options{})

	ctx := context.Background()
	handler := slog.Default().Handler()
	assert.True(t, handler.Enabled(ctx, slog.LevelInfo), "INFO should be enabled in default mode")
	assert.False(t, handler.Enabled(ctx, slog.LevelDebug), "DEBUG should not be enabled in default mode")
}

func TestSetup_Text(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Setup(&buf, Options{Verbose: true})

	slog.Debug("session created", "id", "abc")
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), `msg="session created" id=abc`)
}

func TestSetup_JSON(t *testing.T) {
	restoreDefault(t)
	var buf bytes.Buffer
	Setup(&buf, Options{JSON: true, Quiet: true})

	slog.Info("dropped")
	slog.Warn("slow render", "ms", 1200)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "slow render", rec["msg"])
	assert.InDelta(t, 1200, rec["ms"], 0)
}

func TestSetup_CalledMultipleTimes(t *testing.T) {
	restoreDefault(t)
	ctx := context.Background()

	Setup(&bytes.Buffer{}, Options{Verbose: true})
	assert.True(t, slog.Default().Handler().Enabled(ctx, slog.LevelDebug))

	Setup(&bytes.Buffer{}, Options{Quiet: true})
	assert.False(t, slog.Default().Handler().Enabled(ctx, slog.LevelDebug))
	assert.True(t, slog.Default().Handler().Enabled(ctx, slog.LevelWarn))
}
