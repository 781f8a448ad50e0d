package game

import "fmt"

// MalformedCardDefinitionError is fatal at load time: the affected
// definition cannot be simulated.
type MalformedCardDefinitionError struct {
	Name   string
	Reason string
}

func (e *MalformedCardDefinitionError) Error() string {
	return fmt.Sprintf("malformed card definition %q: %s", e.Name, e.Reason)
}

// IllegalActionError is recoverable: the submitting agent must resubmit
// a legal action. Game state is never mutated before the action is
// confirmed legal, so rejection leaves the game intact.
type IllegalActionError struct {
	Player int
	Action string
	Reason string
}

func (e *IllegalActionError) Error() string {
	return fmt.Sprintf("illegal action by P%d (%s): %s", e.Player+1, e.Action, e.Reason)
}

// InvariantViolationError is fatal and indicates an engine bug, such as
// the 5-copies-per-definition count breaking or a board exceeding the
// limit without an active exemption.
type InvariantViolationError struct {
	Reason string
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s", e.Reason)
}

// DiagnosticSink receives non-fatal structured diagnostics: unparsed
// ability clauses and rejected actions. Batch simulation keeps running
// while these are surfaced.
type DiagnosticSink interface {
	UnparsedAbility(card, clause string)
	IllegalAction(player int, action, reason string)
}

// NopSink discards all diagnostics.
type NopSink struct{}

func (NopSink) UnparsedAbility(card, clause string)           {}
func (NopSink) IllegalAction(player int, action, reason string) {}
