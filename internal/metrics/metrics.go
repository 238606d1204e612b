// Package metrics exposes prometheus instruments for the game loop, the
// renderer and the SSH front end.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics with bounded cardinality (no per-session labels)
var (
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invaders_tick_duration_seconds",
		Help:    "Time spent simulating one tick, excluding the yield",
		Buckets: []float64{0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	})

	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invaders_frames_rendered_total",
		Help: "Frames consumed by renderers",
	})

	CellsWritten = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invaders_cells_written_total",
		Help: "Cells written to terminals after diffing",
	})

	RenderErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "invaders_render_errors_total",
		Help: "Terminal write failures during rendering",
	})

	GamesFinished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invaders_games_finished_total",
		Help: "Finished games by outcome",
	}, []string{"outcome"}) // Bounded: "quit", "win", "lose", "error"

	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "invaders_ssh_active_sessions",
		Help: "SSH sessions currently playing",
	})

	SessionsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invaders_ssh_sessions_rejected_total",
		Help: "SSH sessions refused before a game started",
	}, []string{"reason"}) // Bounded: "rate_limit", "no_pty", "too_small"
)
