package loop

// Outcome is the phase a game is in. Every value other than Running is terminal.
type Outcome int

const (
	Running Outcome = iota // Ticking
	Quit                   // Player pressed Esc or q, or the session went away
	Win                    // Every invader was shot
	Lose                   // An invader reached the bottom row
)

// String returns the outcome name, also used as a metrics label.
func (o Outcome) String() string {
	switch o {
	case Running:
		return "running"
	case Quit:
		return "quit"
	case Win:
		return "win"
	case Lose:
		return "lose"
	default:
		return "unknown"
	}
}

// Message returns the line printed once the game is over.
func (o Outcome) Message() string {
	switch o {
	case Win:
		return "You win! Every invader is gone."
	case Lose:
		return "Game over. The invaders landed."
	case Quit:
		return "Bye."
	default:
		return ""
	}
}
