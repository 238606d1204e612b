package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/tomz197/invaders/internal/audio"
	"github.com/tomz197/invaders/internal/config"
	"github.com/tomz197/invaders/internal/console"
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop"
)

func main() {
	os.Exit(run())
}

func run() int {
	config.LoadDotEnv()

	logger, closeLog, err := newLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	sound, closeSound := newSound(logger)
	sound.Play(audio.CueStartup)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	var outcome loop.Outcome
	switch backend := config.GetEnv("INVADERS_BACKEND", "ansi"); backend {
	case "ansi":
		outcome, err = playANSI(ctx, sound, logger)
	case "tcell":
		outcome, err = playTcell(ctx, sound, logger)
	default:
		err = fmt.Errorf("unknown backend %q (want ansi or tcell)", backend)
	}

	// Let the last cue finish before releasing the device.
	closeSound()

	if err != nil {
		logger.Error("game failed", "err", err)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		return 1
	}
	logger.Info("game finished", "outcome", outcome)
	fmt.Println(outcome.Message())
	return 0
}

// newLogger logs to INVADERS_LOG_FILE; stdout belongs to the game screen.
func newLogger() (*log.Logger, func(), error) {
	var out io.Writer = io.Discard
	closeLog := func() {}
	if path := config.GetEnv("INVADERS_LOG_FILE", ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeLog = func() { _ = f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "invaders",
	})
	if level, err := log.ParseLevel(config.GetEnv("LOG_LEVEL", "info")); err == nil {
		logger.SetLevel(level)
	}
	log.SetDefault(logger)
	return logger, closeLog, nil
}

// newSound opens the speaker. A missing audio device is not fatal: the game
// runs silently.
func newSound(logger *log.Logger) (audio.Player, func()) {
	if config.GetEnvBool("INVADERS_MUTE", false) {
		return audio.Nop{}, func() {}
	}

	cfg := audio.DefaultConfig()
	cfg.Dir = config.GetEnv("INVADERS_AUDIO_DIR", "")
	cfg.Volume = config.GetEnvFloat("INVADERS_VOLUME", cfg.Volume)
	cfg.SampleRate = config.GetEnvInt("INVADERS_SAMPLE_RATE", cfg.SampleRate)
	cfg.Buffer = config.GetEnvDuration("INVADERS_AUDIO_BUFFER", cfg.Buffer)

	board := audio.NewBoard(cfg, logger)
	if err := board.Open(); err != nil {
		logger.Warn("audio disabled", "err", err)
	}
	return board, board.Close
}

// playANSI runs the game on the controlling terminal with raw escape sequences.
// Every setup and teardown step that fails aborts the game.
func playANSI(ctx context.Context, sound audio.Player, logger *log.Logger) (outcome loop.Outcome, err error) {
	out := os.Stdout
	termW, termH, err := draw.DefaultTermSizeFunc()
	if err != nil {
		return loop.Quit, fmt.Errorf("get terminal size: %w", err)
	}
	offCol, offRow, err := draw.BoardOffset(termW, termH, config.BoardWidth, config.BoardHeight)
	if err != nil {
		return loop.Quit, err
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return loop.Quit, fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		if rerr := term.Restore(fd, oldState); rerr != nil {
			err = errors.Join(err, fmt.Errorf("restore terminal: %w", rerr))
		}
	}()

	if err := draw.EnterAltScreen(out); err != nil {
		return loop.Quit, fmt.Errorf("enter alternate screen: %w", err)
	}
	defer func() {
		if lerr := draw.LeaveAltScreen(out); lerr != nil {
			err = errors.Join(err, fmt.Errorf("leave alternate screen: %w", lerr))
		}
	}()

	if err := draw.HideCursor(out); err != nil {
		return loop.Quit, fmt.Errorf("hide cursor: %w", err)
	}
	defer func() {
		if serr := draw.ShowCursor(out); serr != nil {
			err = errors.Join(err, fmt.Errorf("show cursor: %w", serr))
		}
	}()

	if err := draw.ClearScreen(out); err != nil {
		return loop.Quit, fmt.Errorf("clear screen: %w", err)
	}

	game := loop.New(loop.Options{
		Input:   input.StartStream(bufio.NewReader(os.Stdin)),
		Surface: draw.NewChunkWriter(out, offCol, offRow),
		Audio:   sound,
		Logger:  logger,
	})
	return game.Run(ctx)
}

// playTcell runs the game on a tcell screen.
func playTcell(ctx context.Context, sound audio.Player, logger *log.Logger) (loop.Outcome, error) {
	screen, err := console.Open(config.BoardWidth, config.BoardHeight)
	if err != nil {
		return loop.Quit, err
	}
	defer screen.Close()

	game := loop.New(loop.Options{
		Input:   screen,
		Surface: screen,
		Audio:   sound,
		Logger:  logger,
	})
	return game.Run(ctx)
}
