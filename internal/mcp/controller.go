package mcp

import (
	"context"

	"github.com/mloncour/menagerie/internal/game"
)

// SeatController implements game.PlayerAgent by publishing the pending
// decision to the session and blocking until an MCP tool call responds.
type SeatController struct {
	player     int
	session    *GameSession
	responseCh chan any
}

// NewSeatController creates a controller for the given seat.
func NewSeatController(player int, session *GameSession) *SeatController {
	return &SeatController{
		player:     player,
		session:    session,
		responseCh: make(chan any),
	}
}

// PurchasesResponse answers a choose_purchases decision.
type PurchasesResponse struct {
	IDs []int
}

// BoardActionResponse answers a choose_board_action decision.
type BoardActionResponse struct {
	Action game.BoardAction
}

// ChoosePurchases implements game.PlayerAgent.
func (c *SeatController) ChoosePurchases(ctx context.Context, gs *game.GameState, player int) ([]int, error) {
	c.session.publish(&PendingDecision{
		Type:   DecisionChoosePurchases,
		Player: c.player,
		State:  game.BuildStateView(gs),
		PO:     gs.Players[player].PO,
	})

	select {
	case resp := <-c.responseCh:
		pr, ok := resp.(PurchasesResponse)
		if !ok {
			return nil, nil
		}
		return pr.IDs, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ChooseBoardAction implements game.PlayerAgent.
func (c *SeatController) ChooseBoardAction(ctx context.Context, gs *game.GameState, player int) (game.BoardAction, error) {
	c.session.publish(&PendingDecision{
		Type:   DecisionChooseBoardAction,
		Player: c.player,
		State:  game.BuildStateView(gs),
	})

	select {
	case resp := <-c.responseCh:
		br, ok := resp.(BoardActionResponse)
		if !ok {
			return game.BoardAction{Type: game.ActionPass}, nil
		}
		return br.Action, nil
	case <-ctx.Done():
		return game.BoardAction{}, ctx.Err()
	}
}
