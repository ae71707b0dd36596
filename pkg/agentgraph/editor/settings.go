package editor

import (
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/canvas"
	"github.com/randalmurphal/agentgraph/pkg/agentgraph/config"
	agerr "github.com/randalmurphal/agentgraph/pkg/agentgraph/errors"
)

// Settings tune an Editor.
type Settings struct {
	// MinZoom and MaxZoom bound the viewport zoom.
	MinZoom float64
	MaxZoom float64

	// SnapGrid rounds dropped nodes to a grid of this size in graph units.
	// Zero disables snapping.
	SnapGrid float64

	// AllowParallelEdges permits more than one edge between the same
	// handles of the same two nodes.
	AllowParallelEdges bool

	// SaveRetry is the retry policy for Save and Load.
	SaveRetry agerr.RetryConfig
}

// DefaultSettings returns the settings used when none are given.
func DefaultSettings() Settings {
	return Settings{
		MinZoom:   canvas.DefaultMinZoom,
		MaxZoom:   canvas.DefaultMaxZoom,
		SaveRetry: agerr.DefaultRetry,
	}
}

// SettingsFromConfig reads the editor section of a settings file:
//
//	editor:
//	  zoom:
//	    min: 0.25
//	    max: 2
//	  snap_grid: 20
//	  allow_parallel_edges: false
//	  save:
//	    max_attempts: 5
//	    initial_backoff: 100ms
//	    max_backoff: 1s
//	    backoff_factor: 2
//	    jitter: 0.1
//
// c is the editor section itself. Missing keys keep their defaults, and an
// inverted zoom range falls back to the defaults.
func SettingsFromConfig(c config.Config) Settings {
	s := DefaultSettings()

	zoom := c.Sub("zoom")
	s.MinZoom = zoom.Float("min", s.MinZoom)
	s.MaxZoom = zoom.Float("max", s.MaxZoom)
	if s.MinZoom <= 0 || s.MaxZoom < s.MinZoom {
		s.MinZoom, s.MaxZoom = canvas.DefaultMinZoom, canvas.DefaultMaxZoom
	}

	if grid := c.Float("snap_grid", 0); grid > 0 {
		s.SnapGrid = grid
	}
	s.AllowParallelEdges = c.Bool("allow_parallel_edges", false)

	save := c.Sub("save")
	s.SaveRetry = agerr.NewRetryConfig(
		agerr.WithMaxAttempts(save.Int("max_attempts", agerr.DefaultRetry.MaxAttempts)),
		agerr.WithInitialBackoff(save.Duration("initial_backoff", agerr.DefaultRetry.InitialBackoff)),
		agerr.WithMaxBackoff(save.Duration("max_backoff", agerr.DefaultRetry.MaxBackoff)),
		agerr.WithBackoffFactor(save.Float("backoff_factor", agerr.DefaultRetry.BackoffFactor)),
		agerr.WithJitter(save.Float("jitter", agerr.DefaultRetry.Jitter)),
	)
	return s
}
