package sim

import (
	"math/rand"
	"runtime"
	"sort"
	"sync"

	"github.com/mloncour/menagerie/internal/game"
)

// GameJob is a single simulation job.
type GameJob struct {
	SimID int
	Seed  int64
}

// BatchConfig describes a sweep of independent games.
type BatchConfig struct {
	Defs    []*game.CardDef
	Players int
	Games   int
	Seed    int64 // master seed; per-game seeds derive from it
	Workers int   // 0 = NumCPU
	Agents  AgentType
	Diag    game.DiagnosticSink // shared across games; may be nil
}

// BatchStats summarizes a sweep.
type BatchStats struct {
	TotalGames  int
	WinsBySeat  []int
	Draws       int
	Errors      int
	AvgTurns    float64
	MedianTurns int
}

// RunBatch executes a sweep over a worker pool. Each game owns its
// GameState, agents and random source exclusively, so cross-game
// execution needs no locking; per-game seeds are drawn up front from
// the master seed to keep the sweep reproducible regardless of worker
// count.
func RunBatch(cfg BatchConfig) BatchStats {
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	diag := cfg.Diag
	if diag == nil {
		diag = game.NopSink{}
	}

	jobs := make(chan GameJob, cfg.Games)
	results := make(chan GameResult, cfg.Games)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				results <- RunGame(cfg.Defs, cfg.Players, job.Seed, cfg.Agents, diag)
			}
		}()
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	for i := 0; i < cfg.Games; i++ {
		jobs <- GameJob{SimID: i, Seed: rng.Int63()}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	return aggregate(results, cfg.Players)
}

func aggregate(results <-chan GameResult, players int) BatchStats {
	stats := BatchStats{WinsBySeat: make([]int, players)}
	var turns []int
	totalTurns := 0

	for r := range results {
		stats.TotalGames++
		switch {
		case r.Error != "":
			stats.Errors++
		case r.Winner >= 0 && r.Winner < players:
			stats.WinsBySeat[r.Winner]++
		default:
			stats.Draws++
		}
		turns = append(turns, r.Turns)
		totalTurns += r.Turns
	}

	if stats.TotalGames > 0 {
		stats.AvgTurns = float64(totalTurns) / float64(stats.TotalGames)
		sort.Ints(turns)
		stats.MedianTurns = turns[len(turns)/2]
	}
	return stats
}
