package log

import (
	"fmt"
	"io"
	"strings"
)

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	events []GameEvent
	seq    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *MemoryLogger) Events() []GameEvent {
	return l.events
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.events {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- Formatting ---

// playerName returns "P1", "P2", ... for display.
func playerName(p int) string {
	return fmt.Sprintf("P%d", p+1)
}

// FormatEvent formats a single event as a human-readable line. The
// formatting is deterministic: two games played from the same seed and
// the same action sequence produce byte-identical formatted logs.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	for len(phase) < 14 {
		phase += " "
	}
	return fmt.Sprintf("T%-2d %s| %s", e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}

// --- Helper constructors for common events ---

func NewTurnEvent(turn, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Buy Phase",
		Player:  player,
		Type:    EventNewTurn,
		Details: fmt.Sprintf("=== Turn %d (first: %s) ===", turn, playerName(player)),
	}
}

func NewPhaseChangeEvent(turn int, phase string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  -1,
		Type:    EventPhaseChange,
		Details: fmt.Sprintf("Phase → %s", phase),
	}
}

func NewRevealEvent(turn, tier int, card string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Buy Phase",
		Player:  -1,
		Type:    EventReveal,
		Card:    card,
		Details: fmt.Sprintf("Market reveals %s (tier %d)", card, tier),
	}
}

func NewPurchaseEvent(turn, player int, card string, cost int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Buy Phase",
		Player:  player,
		Type:    EventPurchase,
		Card:    card,
		Amount:  cost,
		Details: fmt.Sprintf("%s buys %s for %d PO", playerName(player), card, cost),
	}
}

func NewPlayEvent(turn, player int, card string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Play Phase",
		Player:  player,
		Type:    EventPlay,
		Card:    card,
		Details: fmt.Sprintf("%s plays %s", playerName(player), card),
	}
}

func NewReplaceEvent(turn, player int, in, out string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Play Phase",
		Player:  player,
		Type:    EventReplace,
		Card:    in,
		Details: fmt.Sprintf("%s replaces %s with %s", playerName(player), out, in),
	}
}

func NewEvolveEvent(turn, player int, card string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Evolution Check",
		Player:  player,
		Type:    EventEvolve,
		Card:    card,
		Details: fmt.Sprintf("%s evolves 3× %s", playerName(player), card),
	}
}

func NewEffectEvent(turn, player int, phase, card, detail string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventEffect,
		Card:    card,
		Details: detail,
	}
}

func NewCombatDamageEvent(turn, attacker, defender, damage int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Combat",
		Player:  attacker,
		Type:    EventCombatDamage,
		Amount:  damage,
		Details: fmt.Sprintf("%s deals %d to %s", playerName(attacker), damage, playerName(defender)),
	}
}

func NewPVChangeEvent(turn, player int, phase string, delta, pv int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   phase,
		Player:  player,
		Type:    EventPVChange,
		Amount:  delta,
		Details: fmt.Sprintf("%s PV %+d → %d", playerName(player), delta, pv),
	}
}

func NewEliminationEvent(turn, player int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Elimination",
		Player:  player,
		Type:    EventElimination,
		Details: fmt.Sprintf("%s is eliminated", playerName(player)),
	}
}

func NewReshuffleEvent(turn, tier, count int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Buy Phase",
		Player:  -1,
		Type:    EventReshuffle,
		Amount:  count,
		Details: fmt.Sprintf("Tier %d discard reshuffled (%d cards)", tier, count),
	}
}

func NewMixingEvent(turn, from, to, merged, removed int) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Mixing",
		Player:  -1,
		Type:    EventMixing,
		Amount:  merged + removed,
		Details: fmt.Sprintf("Tier %d mixed: %d → tier %d draw, %d removed", from, merged, to, removed),
	}
}

func NewDiagnosticEvent(turn int, detail string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "",
		Player:  -1,
		Type:    EventDiagnostic,
		Details: "! " + detail,
	}
}

func NewGameOverEvent(turn, winner int, result string) GameEvent {
	return GameEvent{
		Turn:    turn,
		Phase:   "Game Over",
		Player:  winner,
		Type:    EventGameOver,
		Details: result,
	}
}
