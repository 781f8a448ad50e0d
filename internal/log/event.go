package log

// EventType enumerates all observable game events.
type EventType int

const (
	EventSetup EventType = iota
	EventNewTurn
	EventPhaseChange
	EventReveal
	EventPurchase
	EventPlay
	EventReplace
	EventEvolve
	EventEffect
	EventCombatDamage
	EventPVChange
	EventElimination
	EventReshuffle
	EventMixing
	EventDiagnostic
	EventGameOver
)

func (e EventType) String() string {
	switch e {
	case EventSetup:
		return "Setup"
	case EventNewTurn:
		return "NewTurn"
	case EventPhaseChange:
		return "PhaseChange"
	case EventReveal:
		return "Reveal"
	case EventPurchase:
		return "Purchase"
	case EventPlay:
		return "Play"
	case EventReplace:
		return "Replace"
	case EventEvolve:
		return "Evolve"
	case EventEffect:
		return "Effect"
	case EventCombatDamage:
		return "CombatDamage"
	case EventPVChange:
		return "PVChange"
	case EventElimination:
		return "Elimination"
	case EventReshuffle:
		return "Reshuffle"
	case EventMixing:
		return "Mixing"
	case EventDiagnostic:
		return "Diagnostic"
	case EventGameOver:
		return "GameOver"
	default:
		return "Unknown"
	}
}

// GameEvent represents a single observable event in a game. The ordered
// event sequence is sufficient to reconstruct the full game for analysis.
type GameEvent struct {
	Seq     int       // monotonic sequence number
	Turn    int       // which turn (1-based, 0 during setup)
	Phase   string    // current phase name (e.g. "Buy Phase")
	Player  int       // acting player (-1 if not player-scoped)
	Type    EventType // event type
	Card    string    // card name (if applicable)
	Amount  int       // damage dealt, PV healed, PO spent, cards mixed...
	Details string    // human-readable detail string
}
