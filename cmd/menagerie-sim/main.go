package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mloncour/menagerie/internal/cards"
	"github.com/mloncour/menagerie/internal/diag"
	"github.com/mloncour/menagerie/internal/game"
	"github.com/mloncour/menagerie/internal/log"
	"github.com/mloncour/menagerie/internal/sim"
)

func main() {
	cardsFile := flag.String("cards", "", "path to card set YAML (default: embedded set)")
	players := flag.Int("players", 2, "number of players (2-8)")
	games := flag.Int("games", 1, "number of games to simulate")
	seed := flag.Int64("seed", 1, "master random seed")
	workers := flag.Int("workers", 0, "worker goroutines (default: NumCPU)")
	agents := flag.String("agents", "greedy", "agent type: random or greedy")
	verbose := flag.Bool("verbose", false, "print the full event log (single game only)")
	flag.Parse()

	if err := run(*cardsFile, *players, *games, *seed, *workers, *agents, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cardsFile string, players, games int, seed int64, workers int, agents string, verbose bool) error {
	defs, err := loadSet(cardsFile)
	if err != nil {
		return err
	}

	agentType := sim.GreedyAgents
	switch agents {
	case "greedy":
	case "random":
		agentType = sim.RandomAgents
	default:
		return fmt.Errorf("unknown agent type %q (want random or greedy)", agents)
	}

	sink, err := diag.NewProduction()
	if err != nil {
		return fmt.Errorf("init diagnostics: %w", err)
	}
	defer sink.Sync()
	cards.ReportUnparsed(defs, sink)

	if verbose {
		if games != 1 {
			return fmt.Errorf("-verbose requires -games 1")
		}
		return runVerbose(defs, players, seed, agentType, sink)
	}

	stats := sim.RunBatch(sim.BatchConfig{
		Defs:    defs,
		Players: players,
		Games:   games,
		Seed:    seed,
		Workers: workers,
		Agents:  agentType,
		Diag:    sink,
	})
	printStats(stats)
	return nil
}

// runVerbose plays one game and streams every event to stdout.
func runVerbose(defs []*game.CardDef, players int, seed int64, agents sim.AgentType, sink game.DiagnosticSink) error {
	seats := make([]game.PlayerAgent, players)
	for i := range seats {
		seats[i] = sim.NewAgent(agents, seed+int64(i)+1)
	}

	g, err := game.NewGame(game.GameConfig{
		Defs:        defs,
		Agents:      seats,
		Seed:        seed,
		Logger:      log.NewTextLogger(os.Stdout),
		Diagnostics: sink,
	})
	if err != nil {
		return err
	}

	winner, err := g.Run(context.Background())
	if err != nil {
		return err
	}
	fmt.Println()
	if g.State.IsDraw {
		fmt.Println("Result: draw")
	} else if winner >= 0 {
		fmt.Printf("Result: P%d wins (%s)\n", winner+1, g.State.Result)
	} else {
		fmt.Printf("Result: %s\n", g.State.Result)
	}
	return nil
}

func printStats(stats sim.BatchStats) {
	fmt.Printf("Games:   %d (%d errors, %d draws)\n", stats.TotalGames, stats.Errors, stats.Draws)
	fmt.Printf("Turns:   avg %.1f, median %d\n", stats.AvgTurns, stats.MedianTurns)
	for seat, wins := range stats.WinsBySeat {
		rate := 0.0
		if stats.TotalGames > 0 {
			rate = 100 * float64(wins) / float64(stats.TotalGames)
		}
		fmt.Printf("Seat %d:  %d wins (%.1f%%)\n", seat, wins, rate)
	}
}

func loadSet(path string) ([]*game.CardDef, error) {
	if path == "" {
		return cards.DefaultSet()
	}
	return cards.LoadFile(path)
}
