package game

import (
	"fmt"
	"strings"
)

// GameState holds the complete state of one game. A game instance is a
// strictly sequential state machine: nothing outside the turn machinery
// mutates it, and independent games never share state or random sources.
type GameState struct {
	Players []*Player
	Market  *Market
	Defs    []*CardDef // full card set, level 1 and 2

	Turn  int // 1-based turn counter
	Phase Phase

	// Game result
	Winner int // winning player index, or -1
	Over   bool
	IsDraw bool // every remaining player eliminated simultaneously
	Result string

	// evolvedCount tracks, per level-1 name, how many instances left
	// the level-1 population by flipping to the Level-2 definition.
	// Part of the 5-copies accounting.
	evolvedCount  map[string]int
	nextPlayIndex int
}

// NewGameState creates a fresh game state for the given player count.
func NewGameState(defs []*CardDef, players int, market *Market) *GameState {
	gs := &GameState{
		Market:       market,
		Defs:         defs,
		Winner:       -1,
		evolvedCount: make(map[string]int),
	}
	for i := 0; i < players; i++ {
		gs.Players = append(gs.Players, &Player{ID: i, PV: StartingPV})
	}
	return gs
}

// NextPlayIndex hands out the next board arrival number. Unique per
// game, so board resolution order never ties.
func (gs *GameState) NextPlayIndex() int {
	gs.nextPlayIndex++
	return gs.nextPlayIndex
}

// RecordEvolved notes that one instance of a level-1 name flipped to
// its Level-2 counterpart.
func (gs *GameState) RecordEvolved(name string) {
	gs.evolvedCount[name]++
}

// EvolvedCount returns how many instances of a level-1 name have
// evolved away.
func (gs *GameState) EvolvedCount(name string) int {
	return gs.evolvedCount[name]
}

// AliveCount returns the number of non-eliminated players.
func (gs *GameState) AliveCount() int {
	n := 0
	for _, p := range gs.Players {
		if !p.Eliminated {
			n++
		}
	}
	return n
}

// AlivePlayers returns the non-eliminated players in seat order.
func (gs *GameState) AlivePlayers() []*Player {
	var alive []*Player
	for _, p := range gs.Players {
		if !p.Eliminated {
			alive = append(alive, p)
		}
	}
	return alive
}

// TurnOrder returns the players in acting order for a turn. The
// starting seat rotates every two turns; eliminated players keep their
// seat but are skipped by the phases.
func (gs *GameState) TurnOrder(turn int) []*Player {
	n := len(gs.Players)
	start := ((turn - 1) / 2) % n
	order := make([]*Player, 0, n)
	for i := 0; i < n; i++ {
		order = append(order, gs.Players[(start+i)%n])
	}
	return order
}

// CheckInvariants verifies the structural invariants after a turn:
// every level-1 definition still accounts for exactly CopiesPerDef
// instances across piles, slots, hands, boards, the removed pool and
// evolved-away flips, and no board exceeds the limit without an active
// exemption. A failure is an engine bug, reported as fatal.
func (gs *GameState) CheckInvariants() error {
	counts := make(map[*CardDef]int)
	tally := func(instances []*CardInstance) {
		for _, ci := range instances {
			counts[ci.Def]++
		}
	}
	tally(gs.Market.Instances())
	for _, p := range gs.Players {
		tally(p.Hand)
		tally(p.Board)
	}

	for _, def := range gs.Defs {
		if def.Level != 1 {
			continue
		}
		total := counts[def] + gs.evolvedCount[def.Name]
		if total != CopiesPerDef {
			return &InvariantViolationError{
				Reason: fmt.Sprintf("%s accounts for %d copies, want %d", def.Name, total, CopiesPerDef),
			}
		}
	}

	for _, p := range gs.Players {
		exempt := ExemptFamilies(p)
		counted := 0
		for _, ci := range p.Board {
			if !exempt[strings.ToLower(ci.Def.Family)] {
				counted++
			}
		}
		if counted > BoardLimit {
			return &InvariantViolationError{
				Reason: fmt.Sprintf("P%d board holds %d non-exempt cards, limit %d", p.ID+1, counted, BoardLimit),
			}
		}
	}
	return nil
}
