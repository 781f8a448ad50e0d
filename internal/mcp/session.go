// Package mcp exposes one seat of a game over the Model Context
// Protocol: an external agent drives its purchases and plays through
// tool calls while bot agents fill the remaining seats.
package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/mloncour/menagerie/internal/game"
	"github.com/mloncour/menagerie/internal/log"
	"github.com/mloncour/menagerie/internal/sim"
)

// DecisionType identifies what kind of decision the engine is waiting for.
type DecisionType string

const (
	DecisionChoosePurchases   DecisionType = "choose_purchases"
	DecisionChooseBoardAction DecisionType = "choose_board_action"
	DecisionGameOver          DecisionType = "game_over"
)

// PendingDecision is a decision the engine is blocked on.
type PendingDecision struct {
	Type   DecisionType    `json:"type"`
	Player int             `json:"player"`
	State  *game.StateView `json:"state"`
	PO     int             `json:"po,omitempty"`
}

// ToolResponse is the JSON envelope returned by all game tools.
type ToolResponse struct {
	Events   []game.EventView `json:"events"`
	Pending  *PendingDecision `json:"pending,omitempty"`
	GameOver bool             `json:"game_over"`
	Winner   int              `json:"winner"`
	IsDraw   bool             `json:"is_draw,omitempty"`
	Result   string           `json:"result,omitempty"`
}

// sessionLogger is a thread-safe event logger: the game goroutine
// appends while tool handlers read.
type sessionLogger struct {
	mu     sync.Mutex
	seq    int
	events []log.GameEvent
}

func (l *sessionLogger) Log(event log.GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
}

func (l *sessionLogger) Events() []log.GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]log.GameEvent{}, l.events...)
}

// GameSession holds one running game with an MCP-driven seat.
type GameSession struct {
	g      *game.Game
	ctrl   *SeatController
	seat   int
	logger *sessionLogger

	pendingCh chan *PendingDecision
	current   *PendingDecision

	mu       sync.Mutex
	cursor   int // last event sequence already reported
	gameOver bool
	winner   int
	isDraw   bool
	result   string
	runErr   error
}

// NewGameSession starts a game with the MCP agent on the given seat and
// bots everywhere else, then blocks until the first decision is pending.
func NewGameSession(defs []*game.CardDef, players, seat int, seed int64, bots sim.AgentType) (*GameSession, error) {
	if players < 2 || players > 8 {
		return nil, fmt.Errorf("players must be 2..8, got %d", players)
	}
	if seat < 0 || seat >= players {
		return nil, fmt.Errorf("seat must be 0..%d, got %d", players-1, seat)
	}

	sess := &GameSession{
		seat:      seat,
		logger:    &sessionLogger{},
		pendingCh: make(chan *PendingDecision, 1),
		winner:    -1,
	}
	sess.ctrl = NewSeatController(seat, sess)

	seats := make([]game.PlayerAgent, players)
	for i := range seats {
		if i == seat {
			seats[i] = sess.ctrl
		} else {
			seats[i] = sim.NewAgent(bots, seed+int64(i)+1)
		}
	}

	g, err := game.NewGame(game.GameConfig{
		Defs:   defs,
		Agents: seats,
		Seed:   seed,
		Logger: sess.logger,
	})
	if err != nil {
		return nil, err
	}
	sess.g = g

	go func() {
		winner, runErr := g.Run(context.Background())
		sess.mu.Lock()
		sess.gameOver = true
		sess.winner = winner
		sess.isDraw = g.State.IsDraw
		sess.result = g.State.Result
		sess.runErr = runErr
		sess.mu.Unlock()
		sess.publish(&PendingDecision{
			Type:  DecisionGameOver,
			State: game.BuildStateView(g.State),
		})
	}()

	sess.waitPending()
	return sess, nil
}

// publish hands the next pending decision to the tool side.
func (s *GameSession) publish(p *PendingDecision) {
	s.pendingCh <- p
}

// waitPending blocks until the engine publishes its next decision.
func (s *GameSession) waitPending() *PendingDecision {
	p := <-s.pendingCh
	s.current = p
	return p
}

// respond delivers a tool answer to the blocked controller and waits
// for the game to reach its next decision point.
func (s *GameSession) respond(resp any) *PendingDecision {
	s.ctrl.responseCh <- resp
	return s.waitPending()
}

// response builds the tool envelope: events since the last report, the
// current pending decision and the final result once over.
func (s *GameSession) response() *ToolResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	tr := &ToolResponse{
		Events:   []game.EventView{},
		GameOver: s.gameOver,
		Winner:   s.winner,
		IsDraw:   s.isDraw,
		Result:   s.result,
	}
	if s.runErr != nil {
		tr.Result = fmt.Sprintf("game aborted: %v", s.runErr)
	}
	for _, e := range s.logger.Events() {
		if e.Seq > s.cursor {
			tr.Events = append(tr.Events, game.BuildEventView(e))
			s.cursor = e.Seq
		}
	}
	if s.current != nil && s.current.Type != DecisionGameOver {
		tr.Pending = s.current
	}
	return tr
}
