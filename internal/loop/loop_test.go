package loop

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/object"
)

// poll is one scripted result of Source.Poll.
type poll struct {
	keys []input.Key
	err  error
}

// scriptedSource returns its polls in order, then nothing forever.
type scriptedSource struct {
	polls []poll
	calls int
}

func (s *scriptedSource) Poll() ([]input.Key, error) {
	s.calls++
	if len(s.polls) == 0 {
		return nil, nil
	}
	p := s.polls[0]
	s.polls = s.polls[1:]
	return p.keys, p.err
}

// countingSurface counts cells per flush. Only the renderer goroutine touches it
// until Run returns.
type countingSurface struct {
	pending  int
	flushes  []int
	flushErr error
}

func (s *countingSurface) SetCell(int, int, rune) { s.pending++ }

func (s *countingSurface) Flush() error {
	s.flushes = append(s.flushes, s.pending)
	s.pending = 0
	return s.flushErr
}

// recordingAudio remembers every cue played.
type recordingAudio struct {
	cues []audio.Cue
}

func (a *recordingAudio) Play(c audio.Cue) { a.cues = append(a.cues, c) }

var board = object.Bounds{Width: config.BoardWidth, Height: config.BoardHeight}

func newTestGame(src input.Source, surface *countingSurface, fleet *object.Fleet) (*Game, *recordingAudio) {
	sound := &recordingAudio{}
	g := New(Options{
		Input:   src,
		Surface: surface,
		Audio:   sound,
		Logger:  log.New(io.Discard),
		Bounds:  board,
		Fleet:   fleet,
	})
	return g, sound
}

// TestStepQuitSkipsTick verifies quit plays the lose cue and skips the rest of the tick
func TestStepQuitSkipsTick(t *testing.T) {
	g, sound := newTestGame(&scriptedSource{}, &countingSurface{}, nil)
	g.Player().Shoot()
	sound.cues = nil

	got := g.Step(100*time.Millisecond, []input.Key{input.KeyRight, input.KeyQuit, input.KeyLeft})
	if got != Quit {
		t.Fatalf("outcome = %v, want quit", got)
	}
	if g.Player().X != board.Width/2+1 {
		t.Errorf("player x = %d, keys after quit must be ignored", g.Player().X)
	}
	if y := g.Player().Shot().Y; y != float64(board.Bottom()-1) {
		t.Errorf("shot moved to %v on a quit tick", y)
	}
	if !reflect.DeepEqual(sound.cues, []audio.Cue{audio.CueLose}) {
		t.Errorf("cues = %v, want [lose]", sound.cues)
	}

	if got := g.Step(time.Second, nil); got != Quit {
		t.Errorf("step after quit = %v", got)
	}
	if len(sound.cues) != 1 {
		t.Errorf("cues after game over = %v", sound.cues)
	}
}

// TestStepFireOnlyOnce verifies the pew cue plays only when a shot actually spawns
func TestStepFireOnlyOnce(t *testing.T) {
	g, sound := newTestGame(&scriptedSource{}, &countingSurface{}, nil)
	g.Step(time.Millisecond, []input.Key{input.KeyFire, input.KeyFire})
	if !reflect.DeepEqual(sound.cues, []audio.Cue{audio.CuePew}) {
		t.Errorf("cues = %v, want [pew]", sound.cues)
	}
}

// TestStepWin verifies shooting the last invader wins in the same tick
func TestStepWin(t *testing.T) {
	fleet := object.NewFleetAt(board, []object.Invader{{X: board.Width / 2, Y: board.Bottom() - 1}})
	g, sound := newTestGame(&scriptedSource{}, &countingSurface{}, fleet)

	got := g.Step(10*time.Millisecond, []input.Key{input.KeyFire})
	if got != Win {
		t.Fatalf("outcome = %v, want win", got)
	}
	want := []audio.Cue{audio.CuePew, audio.CueExplode, audio.CueWin}
	if !reflect.DeepEqual(sound.cues, want) {
		t.Errorf("cues = %v, want %v", sound.cues, want)
	}
}

// TestStepLose verifies a drop onto the bottom row loses
func TestStepLose(t *testing.T) {
	fleet := object.NewFleetAt(board, []object.Invader{{X: board.Width - 1, Y: board.Bottom() - 1}})
	g, sound := newTestGame(&scriptedSource{}, &countingSurface{}, fleet)

	if got := g.Step(config.FleetMoveInterval-time.Millisecond, nil); got != Running {
		t.Fatalf("outcome = %v before the interval elapsed", got)
	}
	if got := g.Step(time.Millisecond, nil); got != Lose {
		t.Fatalf("outcome = %v, want lose", got)
	}
	want := []audio.Cue{audio.CueMove, audio.CueLose}
	if !reflect.DeepEqual(sound.cues, want) {
		t.Errorf("cues = %v, want %v", sound.cues, want)
	}
}

// TestStepWinBeforeLose verifies win is checked before lose
func TestStepWinBeforeLose(t *testing.T) {
	fleet := object.NewFleetAt(board, nil)
	g, _ := newTestGame(&scriptedSource{}, &countingSurface{}, fleet)
	if got := g.Step(time.Millisecond, nil); got != Win {
		t.Errorf("empty fleet outcome = %v, want win", got)
	}
}

// TestFrameFleetDrawnLast verifies the fleet wins an overlap with the player
func TestFrameFleetDrawnLast(t *testing.T) {
	x, y := board.Width/2, board.Bottom()
	fleet := object.NewFleetAt(board, []object.Invader{{X: x, Y: y}, {X: 0, Y: 0}})
	g, _ := newTestGame(&scriptedSource{}, &countingSurface{}, fleet)

	f := g.Frame()
	if got := f.At(x, y); got != config.FleetGlyphA {
		t.Errorf("overlap cell = %q, want %q", got, config.FleetGlyphA)
	}
	if f.Width() != board.Width || f.Height() != board.Height {
		t.Errorf("frame is %dx%d", f.Width(), f.Height())
	}
}

// TestRunQuitRendersBaselineOnly verifies an immediate quit still joins the renderer
func TestRunQuitRendersBaselineOnly(t *testing.T) {
	surface := &countingSurface{}
	src := &scriptedSource{polls: []poll{{keys: []input.Key{input.KeyQuit}}}}
	g, _ := newTestGame(src, surface, nil)

	outcome, err := g.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Quit {
		t.Errorf("outcome = %v, want quit", outcome)
	}
	want := []int{board.Width * board.Height}
	if !reflect.DeepEqual(surface.flushes, want) {
		t.Errorf("flushes = %v, want %v", surface.flushes, want)
	}
}

// TestRunRendersEveryTick verifies one frame per running tick, drawn as a diff
func TestRunRendersEveryTick(t *testing.T) {
	surface := &countingSurface{}
	src := &scriptedSource{polls: []poll{{}, {}, {}, {keys: []input.Key{input.KeyQuit}}}}
	g, _ := newTestGame(src, surface, nil)

	if _, err := g.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	if len(surface.flushes) != 4 {
		t.Fatalf("flushes = %v, want baseline plus 3 frames", surface.flushes)
	}
	// Ship plus the standard 72-invader formation.
	if surface.flushes[1] != 73 {
		t.Errorf("first diff wrote %d cells, want 73", surface.flushes[1])
	}
	if src.calls != 4 {
		t.Errorf("polled %d times, want 4", src.calls)
	}
}

// TestRunInputErrorIsFatal verifies a failed poll ends the run with the error
func TestRunInputErrorIsFatal(t *testing.T) {
	boom := errors.New("boom")
	surface := &countingSurface{}
	src := &scriptedSource{polls: []poll{{}, {err: boom}}}
	g, _ := newTestGame(src, surface, nil)

	outcome, err := g.Run(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if outcome != Quit {
		t.Errorf("outcome = %v, want quit", outcome)
	}
	if len(surface.flushes) != 2 {
		t.Errorf("flushes = %d, want baseline plus 1 frame", len(surface.flushes))
	}
}

// TestRunClosedInput verifies a closed key stream is reported
func TestRunClosedInput(t *testing.T) {
	src := &scriptedSource{polls: []poll{{err: input.ErrClosed}}}
	g, _ := newTestGame(src, &countingSurface{}, nil)
	if _, err := g.Run(context.Background()); !errors.Is(err, input.ErrClosed) {
		t.Errorf("err = %v, want ErrClosed", err)
	}
}

// TestRunContextCancelled verifies cancellation ends the run as quit
func TestRunContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	surface := &countingSurface{}
	g, sound := newTestGame(&scriptedSource{}, surface, nil)

	outcome, err := g.Run(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if outcome != Quit || g.Outcome() != Quit {
		t.Errorf("outcome = %v, want quit", outcome)
	}
	if len(sound.cues) != 0 {
		t.Errorf("cues = %v, want none", sound.cues)
	}
	if len(surface.flushes) != 1 {
		t.Errorf("flushes = %d, want baseline only", len(surface.flushes))
	}
}

// TestRunReportsRenderError verifies a terminal write failure is returned after the join
func TestRunReportsRenderError(t *testing.T) {
	writeErr := errors.New("broken pipe")
	surface := &countingSurface{flushErr: writeErr}
	src := &scriptedSource{polls: []poll{{}, {keys: []input.Key{input.KeyQuit}}}}
	g, _ := newTestGame(src, surface, nil)

	outcome, err := g.Run(context.Background())
	if !errors.Is(err, writeErr) {
		t.Errorf("err = %v, want broken pipe", err)
	}
	if outcome != Quit {
		t.Errorf("outcome = %v, want quit", outcome)
	}
	if len(surface.flushes) != 2 {
		t.Errorf("flushes = %d, renderer must keep consuming after an error", len(surface.flushes))
	}
}

// TestOutcomeNames verifies outcome labels
func TestOutcomeNames(t *testing.T) {
	tests := map[Outcome]string{Running: "running", Quit: "quit", Win: "win", Lose: "lose", Outcome(9): "unknown"}
	for o, want := range tests {
		if got := o.String(); got != want {
			t.Errorf("Outcome(%d).String() = %q, want %q", o, got, want)
		}
	}
	if Running.Message() != "" || Win.Message() == "" {
		t.Error("only terminal outcomes carry a message")
	}
}
