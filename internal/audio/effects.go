package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// WaveType defines oscillator wave shapes
type WaveType int

const (
	WaveSine WaveType = iota
	WaveSquare
	WaveSaw
	WaveNoise
)

// oscillator generates a raw wave whose frequency glides linearly from freq to freqEnd
type oscillator struct {
	freq     float64
	freqEnd  float64
	phase    float64
	duration int
	position int
	wave     WaveType
	rate     beep.SampleRate
}

// newOscillator creates a constant-pitch oscillator
func newOscillator(freq float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return newSweep(freq, freq, duration, wave, rate)
}

// newSweep creates an oscillator gliding from freq to freqEnd over duration
func newSweep(freq, freqEnd float64, duration time.Duration, wave WaveType, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		freqEnd:  freqEnd,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case WaveSine:
			val = math.Sin(2 * math.Pi * o.phase)
		case WaveSquare:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case WaveSaw:
			val = 2.0 * (o.phase - 0.5)
		case WaveNoise:
			val = rand.Float64()*2 - 1
		}

		samples[i][0] = val
		samples[i][1] = val

		t := float64(o.position) / float64(o.duration)
		freq := o.freq + (o.freqEnd-o.freq)*t
		o.phase += freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope applies attack/release shaping to a stream
type envelope struct {
	streamer       beep.Streamer
	position       int
	attackSamples  int
	releaseSamples int
	sustainSamples int
	totalSamples   int
}

// newEnvelope wraps s with a linear attack and release
func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	rel := rate.N(release)
	sus := max(total-att-rel, 0)

	return &envelope{
		streamer:       s,
		attackSamples:  att,
		releaseSamples: rel,
		sustainSamples: sus,
		totalSamples:   total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)

	for i := 0; i < n; i++ {
		if e.position >= e.totalSamples {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attackSamples && e.attackSamples > 0 {
			vol = float64(e.position) / float64(e.attackSamples)
		}
		releaseStart := e.attackSamples + e.sustainSamples
		if e.position >= releaseStart && e.releaseSamples > 0 {
			vol = max(float64(e.totalSamples-e.position)/float64(e.releaseSamples), 0)
		}

		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}

	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; math.Log2(0) is -Inf, so 0 means silent
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

// note is one shaped tone of a jingle
type note struct {
	freq     float64
	duration time.Duration
}

// jingle plays notes back to back with a short attack/release on each
func jingle(notes []note, wave WaveType, rate beep.SampleRate) beep.Streamer {
	parts := make([]beep.Streamer, 0, len(notes))
	for _, n := range notes {
		osc := newOscillator(n.freq, n.duration, wave, rate)
		parts = append(parts, newEnvelope(osc, n.duration, 5*time.Millisecond, n.duration/3, rate))
	}
	return beep.Seq(parts...)
}

// synthesize builds the built-in sound for a cue
func synthesize(c Cue, rate beep.SampleRate) beep.Streamer {
	switch c {
	case CueStartup:
		return jingle([]note{
			{523.25, 90 * time.Millisecond},  // C5
			{659.25, 90 * time.Millisecond},  // E5
			{783.99, 90 * time.Millisecond},  // G5
			{1046.5, 180 * time.Millisecond}, // C6
		}, WaveSquare, rate)
	case CueMove:
		d := 60 * time.Millisecond
		return newEnvelope(newOscillator(70, d, WaveSquare, rate), d, 2*time.Millisecond, 30*time.Millisecond, rate)
	case CuePew:
		d := 150 * time.Millisecond
		return newEnvelope(newSweep(1400, 300, d, WaveSaw, rate), d, 2*time.Millisecond, 80*time.Millisecond, rate)
	case CueExplode:
		d := 300 * time.Millisecond
		return newEnvelope(newOscillator(0, d, WaveNoise, rate), d, 2*time.Millisecond, 250*time.Millisecond, rate)
	case CueWin:
		return jingle([]note{
			{783.99, 110 * time.Millisecond}, // G5
			{1046.5, 110 * time.Millisecond}, // C6
			{1318.5, 110 * time.Millisecond}, // E6
			{1568.0, 330 * time.Millisecond}, // G6
		}, WaveSquare, rate)
	case CueLose:
		return jingle([]note{
			{329.63, 150 * time.Millisecond}, // E4
			{261.63, 150 * time.Millisecond}, // C4
			{220.00, 400 * time.Millisecond}, // A3
		}, WaveSaw, rate)
	default:
		return nil
	}
}

// synthDuration returns the length of the built-in sound for a cue
func synthDuration(c Cue) time.Duration {
	switch c {
	case CueStartup:
		return 450 * time.Millisecond
	case CueMove:
		return 60 * time.Millisecond
	case CuePew:
		return 150 * time.Millisecond
	case CueExplode:
		return 300 * time.Millisecond
	case CueWin:
		return 660 * time.Millisecond
	case CueLose:
		return 700 * time.Millisecond
	default:
		return 0
	}
}
