package editor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/agentgraph/pkg/agentgraph/canvas"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	agerr "github.com/randalmurphal/agentgraph/pkg/agentgraph/errors"
)

func TestSettingsFromConfig(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
editor:
  zoom:
    min: 0.25
    max: 2
  snap_grid: 20
  allow_parallel_edges: true
  save:
    max_attempts: 5
    initial_backoff: 50ms
    max_backoff: 1s
    jitter: 0
`))
	require.NoError(t, err)

	s := SettingsFromConfig(cfg.Sub("editor"))
	assert.Equal(t, 0.25, s.MinZoom)
	assert.Equal(t, 2.0, s.MaxZoom)
	assert.Equal(t, 20.0, s.SnapGrid)
	assert.True(t, s.AllowParallelEdges)
	assert.Equal(t, 5, s.SaveRetry.MaxAttempts)
	assert.Equal(t, 50*time.Millisecond, s.SaveRetry.InitialBackoff)
	assert.Equal(t, time.Second, s.SaveRetry.MaxBackoff)
	assert.Equal(t, agerr.DefaultRetry.BackoffFactor, s.SaveRetry.BackoffFactor)
	assert.Equal(t, 0.0, s.SaveRetry.Jitter)
}

func TestSettingsFromConfig_Defaults(t *testing.T) {
	s := SettingsFromConfig(config.New(nil))
	assert.Equal(t, canvas.DefaultMinZoom, s.MinZoom)
	assert.Equal(t, canvas.DefaultMaxZoom, s.MaxZoom)
	assert.Zero(t, s.SnapGrid)
	assert.False(t, s.AllowParallelEdges)
	assert.Equal(t, agerr.DefaultRetry.MaxAttempts, s.SaveRetry.MaxAttempts)

	inverted := SettingsFromConfig(config.New(map[string]any{
		"zoom": map[string]any{"min": 3.0, "max": 1.0},
	}))
	assert.Equal(t, canvas.DefaultMinZoom, inverted.MinZoom)
	assert.Equal(t, canvas.DefaultMaxZoom, inverted.MaxZoom)
}

func TestNew_AppliesZoomBounds(t *testing.T) {
	s := DefaultSettings()
	s.MinZoom, s.MaxZoom = 0.5, 2
	ed := New("g", WithSettings(s))

	ed.Viewport().ZoomAt(canvas.Point{}, 10)
	assert.Equal(t, 2.0, ed.Viewport().Transform().Zoom)
	ed.Viewport().ZoomAt(canvas.Point{}, 0.01)
	assert.Equal(t, 0.5, ed.Viewport().Transform().Zoom)
}
