package audio

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
	"github.com/gopxl/beep/wav"
)

// Config configures the sound board.
type Config struct {
	SampleRate int           // Output sample rate in Hz
	Buffer     time.Duration // Speaker buffer length; larger is safer, smaller is snappier
	Volume     float64       // Linear gain, 0 mutes
	Dir        string        // Optional directory of <cue>.wav overrides
}

// DefaultConfig returns the default audio configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate: 44100,
		Buffer:     100 * time.Millisecond,
		Volume:     0.3,
	}
}

// Board holds the decoded sound for every cue and plays them on the speaker.
// Create one per process: the speaker is a process-wide device.
type Board struct {
	mu      sync.Mutex
	cfg     Config
	format  beep.Format
	sounds  map[Cue]*beep.Buffer
	sources map[Cue]string // "synth" or the override file path
	open    bool
	pending sync.WaitGroup
	logger  *log.Logger
}

// NewBoard prepares every cue. Sounds come from <cue>.wav in cfg.Dir when
// present and decodable, otherwise they are synthesized.
// The speaker is not touched until Open.
func NewBoard(cfg Config, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultConfig().SampleRate
	}
	if cfg.Buffer <= 0 {
		cfg.Buffer = DefaultConfig().Buffer
	}

	b := &Board{
		cfg: cfg,
		format: beep.Format{
			SampleRate:  beep.SampleRate(cfg.SampleRate),
			NumChannels: 2,
			Precision:   2,
		},
		sounds:  make(map[Cue]*beep.Buffer, len(Cues)),
		sources: make(map[Cue]string, len(Cues)),
		logger:  logger,
	}

	for _, c := range Cues {
		buf := beep.NewBuffer(b.format)
		source := "synth"
		if cfg.Dir != "" {
			path := filepath.Join(cfg.Dir, c.String()+".wav")
			if err := b.loadFile(buf, path); err == nil {
				source = path
			} else if !errors.Is(err, os.ErrNotExist) {
				logger.Warn("audio override ignored", "cue", c, "path", path, "err", err)
			}
		}
		if source == "synth" {
			buf.Append(newVolume(synthesize(c, b.format.SampleRate), cfg.Volume))
		}
		b.sounds[c] = buf
		b.sources[c] = source
	}
	return b
}

// loadFile decodes a wav file into buf, resampling to the board's rate.
func (b *Board) loadFile(buf *beep.Buffer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decode %s: %w", path, err)
	}
	defer streamer.Close()

	var s beep.Streamer = streamer
	if format.SampleRate != b.format.SampleRate {
		s = beep.Resample(4, format.SampleRate, b.format.SampleRate, streamer)
	}
	buf.Append(newVolume(s, b.cfg.Volume))
	return streamer.Err()
}

// Open initializes the speaker. Until it succeeds Play is silent.
func (b *Board) Open() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.open {
		return nil
	}
	sr := b.format.SampleRate
	if err := speaker.Init(sr, sr.N(b.cfg.Buffer)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	b.open = true
	b.logger.Debug("speaker ready", "rate", int(sr), "buffer", b.cfg.Buffer)
	return nil
}

// Play starts a cue and returns immediately.
func (b *Board) Play(c Cue) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, ok := b.sounds[c]
	if !b.open || !ok || buf.Len() == 0 {
		return
	}
	b.pending.Add(1)
	speaker.Play(beep.Seq(
		buf.Streamer(0, buf.Len()),
		beep.Callback(b.pending.Done),
	))
}

// Wait blocks until every cue started so far has finished playing.
func (b *Board) Wait() {
	b.pending.Wait()
}

// Close waits for queued sounds and releases the speaker.
func (b *Board) Close() {
	b.Wait()

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.open {
		return
	}
	speaker.Close()
	b.open = false
}

// Source reports where a cue's sound came from: "synth" or a file path.
func (b *Board) Source(c Cue) string {
	return b.sources[c]
}

// Length returns the duration of a cue's sound.
func (b *Board) Length(c Cue) time.Duration {
	buf, ok := b.sounds[c]
	if !ok {
		return 0
	}
	return b.format.SampleRate.D(buf.Len())
}
