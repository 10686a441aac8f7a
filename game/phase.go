package game

// Phase is the session lifecycle state. Legal transitions:
// Lobby -> Countdown -> Active -> Finished, plus any phase -> Finished
// when the host stops the game.
type Phase int

const (
	PhaseLobby Phase = iota
	PhaseCountdown
	PhaseActive
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseLobby:
		return "lobby"
	case PhaseCountdown:
		return "countdown"
	case PhaseActive:
		return "active"
	case PhaseFinished:
		return "finished"
	}
	return "unknown"
}
