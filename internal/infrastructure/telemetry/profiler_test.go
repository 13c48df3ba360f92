package telemetry

import (
	"context"
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseProfileTypes(t *testing.T) {
	types, err := ParseProfileTypes(nil)
	require.NoError(t, err)
	assert.Contains(t, types, pyroscope.ProfileCPU)

	types, err = ParseProfileTypes([]string{"CPU", " goroutines "})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileGoroutines}, types)

	_, err = ParseProfileTypes([]string{"wallclock"})
	assert.ErrorContains(t, err, "wallclock")
}

func TestDisabledProfilerAndLogs(t *testing.T) {
	ctx := context.Background()

	p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.NoError(t, p.Stop())
	assert.NoError(t, p.Stop())

	_, err = NewProfiler(ProfilerConfig{Enabled: true}, zap.NewNop())
	assert.Error(t, err)

	lp, err := NewLoggerProvider(ctx, LogsConfig{ServiceName: "fuelsync-test"}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, lp.IsEnabled())
	log := zap.NewNop()
	assert.Same(t, log, lp.Bridge(log, zapcore.InfoLevel))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestWithProfilingLabels_RunsCallback(t *testing.T) {
	calls := 0
	WithProfilingLabels(context.Background(), nil, func(context.Context) { calls++ })
	WithProfilingLabels(context.Background(), map[string]string{"job": "alert_rules"}, func(context.Context) { calls++ })
	assert.Equal(t, 2, calls)
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(&levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel})

	log.Info("dropped")
	log.With(zap.String("station", "s1")).Warn("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "kept", entry.Message)
	assert.Equal(t, "s1", entry.ContextMap()["station"])
}
