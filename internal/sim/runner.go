package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mloncour/menagerie/internal/game"
	"github.com/mloncour/menagerie/internal/log"
)

// GameResult holds the outcome of a single simulated game.
type GameResult struct {
	ID       string // unique run identifier
	Seed     int64
	Winner   int // seat index, -1 for draw or turn-limit stop
	IsDraw   bool
	Turns    int
	Events   int
	Error    string // non-empty when the game aborted fatally
	Duration time.Duration
}

// RunGame plays one full game with bot agents on every seat. A fatal
// error — an engine invariant breaking, or a panic — is captured into
// the result record instead of propagating, so a sweep of many games
// survives any single one.
func RunGame(defs []*game.CardDef, players int, seed int64, agents AgentType, diag game.DiagnosticSink) (result GameResult) {
	result = GameResult{
		ID:     uuid.NewString(),
		Seed:   seed,
		Winner: -1,
	}
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
		if r := recover(); r != nil {
			result.Error = fmt.Sprintf("panic: %v", r)
		}
	}()

	seats := make([]game.PlayerAgent, players)
	for i := range seats {
		// Each seat gets its own derived source; nothing is shared.
		seats[i] = NewAgent(agents, seed+int64(i)+1)
	}

	logger := log.NewMemoryLogger()
	g, err := game.NewGame(game.GameConfig{
		Defs:        defs,
		Agents:      seats,
		Seed:        seed,
		Logger:      logger,
		Diagnostics: diag,
	})
	if err != nil {
		result.Error = err.Error()
		return result
	}

	winner, err := g.Run(context.Background())
	result.Winner = winner
	result.IsDraw = g.State.IsDraw
	result.Turns = g.State.Turn
	result.Events = len(logger.Events())
	if err != nil {
		result.Error = err.Error()
	}
	return result
}
