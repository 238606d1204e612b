// Package loop runs a game: it owns the player and the fleet, ticks the
// simulation and hands finished frames to a renderer worker.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/metrics"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/render"
)

// Options configures a Game. Input and Surface are required.
type Options struct {
	Input   input.Source
	Surface render.Surface
	Audio   audio.Player  // nil plays nothing
	Logger  *log.Logger   // nil uses the default logger
	Bounds  object.Bounds // zero uses the standard board
	Fleet   *object.Fleet // nil uses the standard formation
}

// Game is one run from the first tick to a terminal outcome.
// Step and Frame must be called from a single goroutine.
type Game struct {
	player  *object.Player
	fleet   *object.Fleet
	bounds  object.Bounds
	input   input.Source
	surface render.Surface
	audio   audio.Player
	logger  *log.Logger
	outcome Outcome
}

// New creates a game with a fresh player and fleet.
func New(opts Options) *Game {
	b := opts.Bounds
	if b.Width <= 0 || b.Height <= 0 {
		b = object.Bounds{Width: config.BoardWidth, Height: config.BoardHeight}
	}
	fleet := opts.Fleet
	if fleet == nil {
		fleet = object.NewFleet(b)
	}
	sound := opts.Audio
	if sound == nil {
		sound = audio.Nop{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Game{
		player:  object.NewPlayer(b),
		fleet:   fleet,
		bounds:  b,
		input:   opts.Input,
		surface: opts.Surface,
		audio:   sound,
		logger:  logger,
	}
}

// Player returns the player's ship.
func (g *Game) Player() *object.Player {
	return g.player
}

// Fleet returns the invader fleet.
func (g *Game) Fleet() *object.Fleet {
	return g.fleet
}

// Outcome returns the current phase.
func (g *Game) Outcome() Outcome {
	return g.outcome
}

// Step advances the simulation by delta after applying keys in order.
// A quit key ends the game at once; the rest of the tick is skipped.
// Once a terminal outcome is reached further calls do nothing.
func (g *Game) Step(delta time.Duration, keys []input.Key) Outcome {
	if g.outcome != Running {
		return g.outcome
	}

	for _, k := range keys {
		switch k {
		case input.KeyLeft:
			g.player.MoveLeft()
		case input.KeyRight:
			g.player.MoveRight()
		case input.KeyFire:
			if g.player.Shoot() {
				g.audio.Play(audio.CuePew)
			}
		case input.KeyQuit:
			return g.finish(Quit, audio.CueLose)
		}
	}

	g.player.Update(delta)
	if g.fleet.Update(delta) {
		g.audio.Play(audio.CueMove)
	}
	if g.player.DetectHits(g.fleet) {
		g.audio.Play(audio.CueExplode)
	}

	switch {
	case g.fleet.AllKilled():
		return g.finish(Win, audio.CueWin)
	case g.fleet.ReachedBottom():
		return g.finish(Lose, audio.CueLose)
	}
	return Running
}

func (g *Game) finish(o Outcome, cue audio.Cue) Outcome {
	g.audio.Play(cue)
	g.outcome = o
	g.logger.Info("game over", "outcome", o, "invaders", g.fleet.Count())
	return o
}

// Frame composes a fresh frame: player first, then the fleet on top.
func (g *Game) Frame() *draw.Frame {
	f := draw.NewFrame(g.bounds.Width, g.bounds.Height)
	draw.Compose(f, g.player, g.fleet)
	return f
}

// Run plays the game until a terminal outcome, an input failure or ctx is
// done (treated as Quit). Frames go to a renderer goroutine through a
// buffered channel; a send blocks rather than drop a frame when the renderer
// lags. Run closes the channel and waits for the renderer before returning,
// so the terminal is quiet once it returns.
func (g *Game) Run(ctx context.Context) (Outcome, error) {
	frames := make(chan *draw.Frame, config.FrameQueueDepth)
	renderer := render.New(g.surface, g.bounds.Width, g.bounds.Height, g.logger)
	renderDone := make(chan error, 1)
	go func() {
		renderDone <- renderer.Run(frames)
	}()

	outcome, err := g.tick(ctx, frames)

	close(frames)
	if renderErr := <-renderDone; renderErr != nil && err == nil {
		err = fmt.Errorf("render: %w", renderErr)
	}

	label := outcome.String()
	if err != nil {
		label = "error"
	}
	metrics.GamesFinished.WithLabelValues(label).Inc()
	return outcome, err
}

// tick is the Input → Update → Draw cycle.
func (g *Game) tick(ctx context.Context, frames chan<- *draw.Frame) (Outcome, error) {
	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			g.outcome = Quit
			return Quit, nil
		default:
		}

		tickStart := time.Now()
		delta := tickStart.Sub(lastTime)
		lastTime = tickStart

		// ===== INPUT PHASE =====
		keys, err := g.input.Poll()
		if err != nil {
			g.outcome = Quit
			return Quit, fmt.Errorf("poll input: %w", err)
		}

		// ===== UPDATE PHASE =====
		outcome := g.Step(delta, keys)
		metrics.TickDuration.Observe(time.Since(tickStart).Seconds())
		if outcome != Running {
			return outcome, nil
		}

		// ===== DRAW PHASE =====
		frames <- g.Frame()

		time.Sleep(config.TickYield)
	}
}
