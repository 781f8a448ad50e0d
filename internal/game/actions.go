package game

import (
	"context"
	"fmt"
)

// ActionType enumerates play-phase choices.
type ActionType int

const (
	ActionPass ActionType = iota
	ActionPlay
	ActionReplace
)

func (a ActionType) String() string {
	switch a {
	case ActionPass:
		return "Pass"
	case ActionPlay:
		return "Play"
	case ActionReplace:
		return "Replace"
	default:
		return "Unknown"
	}
}

// BoardAction is one player's play-phase decision: play one hand card,
// or replace one board card with one hand card. Pass is legal only when
// the hand is empty.
type BoardAction struct {
	Type    ActionType
	HandID  int // instance ID of the hand card (Play, Replace)
	BoardID int // instance ID of the board card being replaced (Replace)
}

func (a BoardAction) String() string {
	switch a.Type {
	case ActionPlay:
		return fmt.Sprintf("Play #%d", a.HandID)
	case ActionReplace:
		return fmt.Sprintf("Replace #%d with #%d", a.BoardID, a.HandID)
	default:
		return "Pass"
	}
}

// PlayerAgent is the turn-action interface consumed by external
// strategy and agent code. The engine hands it a read-only view of the
// state and validates whatever comes back; illegal submissions are
// rejected with an IllegalActionError and must be resubmitted — the
// engine never substitutes a legal action of its own.
type PlayerAgent interface {
	// ChoosePurchases returns the instance IDs of revealed cards to buy
	// this turn, in buying order, within the player's PO budget.
	ChoosePurchases(ctx context.Context, gs *GameState, player int) ([]int, error)

	// ChooseBoardAction returns the play-or-replace decision.
	ChooseBoardAction(ctx context.Context, gs *GameState, player int) (BoardAction, error)
}

// validatePurchases checks a whole purchase set against the current
// state without mutating it: every ID must name a distinct revealed
// level-1 card and the total cost must fit the player's remaining PO.
func (g *Game) validatePurchases(p *Player, ids []int) error {
	seen := make(map[int]bool)
	total := 0
	for _, id := range ids {
		if seen[id] {
			return &IllegalActionError{Player: p.ID, Action: "buy",
				Reason: fmt.Sprintf("instance #%d listed twice", id)}
		}
		seen[id] = true

		ci := g.State.Market.RevealedCard(id)
		if ci == nil {
			return &IllegalActionError{Player: p.ID, Action: "buy",
				Reason: fmt.Sprintf("instance #%d is not in a revealed slot", id)}
		}
		if ci.Def.Level != 1 {
			return &IllegalActionError{Player: p.ID, Action: "buy",
				Reason: fmt.Sprintf("%s is not a level-1 card", ci.Def.Name)}
		}
		total += ci.Def.Cost
	}
	if total > p.PO {
		return &IllegalActionError{Player: p.ID, Action: "buy",
			Reason: fmt.Sprintf("total cost %d exceeds %d PO", total, p.PO)}
	}
	return nil
}

// validateBoardAction checks a play-phase decision against the current
// state without mutating it.
func (g *Game) validateBoardAction(p *Player, a BoardAction) error {
	switch a.Type {
	case ActionPass:
		if len(p.Hand) > 0 {
			return &IllegalActionError{Player: p.ID, Action: "pass",
				Reason: "must play or replace while holding cards"}
		}
		return nil

	case ActionPlay:
		ci := p.HandCard(a.HandID)
		if ci == nil {
			return &IllegalActionError{Player: p.ID, Action: "play",
				Reason: fmt.Sprintf("instance #%d is not in hand", a.HandID)}
		}
		if !BoardFits(p, ci) {
			return &IllegalActionError{Player: p.ID, Action: "play",
				Reason: fmt.Sprintf("board limit reached and %s is not exempt", ci.Def.Name)}
		}
		return nil

	case ActionReplace:
		in := p.HandCard(a.HandID)
		if in == nil {
			return &IllegalActionError{Player: p.ID, Action: "replace",
				Reason: fmt.Sprintf("instance #%d is not in hand", a.HandID)}
		}
		out := p.BoardCard(a.BoardID)
		if out == nil {
			return &IllegalActionError{Player: p.ID, Action: "replace",
				Reason: fmt.Sprintf("instance #%d is not on the board", a.BoardID)}
		}
		if !BoardFitsReplacing(p, in, out) {
			return &IllegalActionError{Player: p.ID, Action: "replace",
				Reason: fmt.Sprintf("replacing %s with %s would exceed the board limit", out.Def.Name, in.Def.Name)}
		}
		return nil

	default:
		return &IllegalActionError{Player: p.ID, Action: "unknown",
			Reason: fmt.Sprintf("unknown action type %d", a.Type)}
	}
}
