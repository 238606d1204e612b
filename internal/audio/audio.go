// Package audio plays the game's sound cues.
package audio

// Cue names a sound played at a game decision point.
type Cue int

const (
	CueStartup Cue = iota
	CueMove
	CuePew
	CueExplode
	CueWin
	CueLose
)

// Cues lists every cue in declaration order.
var Cues = []Cue{CueStartup, CueMove, CuePew, CueExplode, CueWin, CueLose}

// String returns the cue name, also used as the base name of override files.
func (c Cue) String() string {
	switch c {
	case CueStartup:
		return "startup"
	case CueMove:
		return "move"
	case CuePew:
		return "pew"
	case CueExplode:
		return "explode"
	case CueWin:
		return "win"
	case CueLose:
		return "lose"
	default:
		return "unknown"
	}
}

// Player plays cues without blocking the caller.
type Player interface {
	Play(c Cue)
}

// Nop is a Player that plays nothing.
type Nop struct{}

// Play does nothing.
func (Nop) Play(Cue) {}

// Ensure both players satisfy Player.
var (
	_ Player = Nop{}
	_ Player = (*Board)(nil)
)
