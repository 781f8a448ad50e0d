package game

import (
	"testing"

	"github.com/mloncour/menagerie/internal/log"
)

// pullToHand draws instances of a definition from the market into a
// player's hand, keeping the copy accounting intact.
func pullToHand(t *testing.T, gs *GameState, p *Player, def *CardDef, n int) []*CardInstance {
	t.Helper()
	var pulled []*CardInstance
	for _, ci := range gs.Market.Tiers[def.Cost].Draw {
		if ci.Def == def && len(pulled) < n {
			pulled = append(pulled, ci)
		}
	}
	if len(pulled) < n {
		t.Fatalf("only %d copies of %s in the draw pile, want %d", len(pulled), def.Name, n)
	}
	for _, ci := range pulled {
		pile := gs.Market.Tiers[def.Cost]
		for i, c := range pile.Draw {
			if c.ID == ci.ID {
				pile.Draw = append(pile.Draw[:i], pile.Draw[i+1:]...)
				break
			}
		}
		ci.Loc = LocHand
		ci.Owner = p.ID
		p.Hand = append(p.Hand, ci)
	}
	return pulled
}

func TestFindTripleBoardFirst(t *testing.T) {
	grunt := evoDef("Grunt", 1, 3, 2)
	g := newBareGame(t, withEvolved(grunt), 2)
	gs := g.State
	p := gs.Players[0]

	copies := pullToHand(t, gs, p, grunt, 3)
	// Move one copy to the board: scan order must put it first.
	boardCopy := copies[1]
	p.RemoveFromHand(boardCopy)
	boardCopy.Loc = LocBoard
	boardCopy.PlayIndex = gs.NextPlayIndex()
	p.Board = append(p.Board, boardCopy)

	name, trio := findTriple(p)
	if name != "Grunt" {
		t.Fatalf("findTriple = %q, want Grunt", name)
	}
	if trio[0] != boardCopy {
		t.Errorf("trio[0] = %s, want the board copy %s", trio[0], boardCopy)
	}
}

func TestFindTripleNeedsThree(t *testing.T) {
	grunt := evoDef("Grunt", 1, 3, 2)
	g := newBareGame(t, withEvolved(grunt), 2)
	p := g.State.Players[0]
	pullToHand(t, g.State, p, grunt, 2)

	if name, _ := findTriple(p); name != "" {
		t.Errorf("findTriple found %q with only two copies", name)
	}
}

// Level-2 instances never count toward a new triple.
func TestFindTripleIgnoresEvolved(t *testing.T) {
	grunt := evoDef("Grunt", 1, 3, 2)
	g := newBareGame(t, withEvolved(grunt), 2)
	gs := g.State
	p := gs.Players[0]

	copies := pullToHand(t, gs, p, grunt, 5)
	evolved := copies[0]
	evolved.Def = grunt.Evolved
	if name, _ := findTriple(p); name != "Grunt" {
		t.Fatalf("four level-1 copies should still form a triple")
	}
	p.RemoveFromHand(copies[1])
	gs.Market.DiscardConsumed(copies[1])
	p.RemoveFromHand(copies[2])
	gs.Market.DiscardConsumed(copies[2])

	// One level-2 and two level-1 copies remain: no triple.
	if name, _ := findTriple(p); name != "" {
		t.Errorf("findTriple counted a level-2 instance: %q", name)
	}
}

func TestEvolutionCheck(t *testing.T) {
	grunt := evoDef("Grunt", 1, 3, 2)
	g := newBareGame(t, withEvolved(grunt), 2)
	gs := g.State
	p := gs.Players[0]

	copies := pullToHand(t, gs, p, grunt, 3)
	keeper := copies[1]
	p.RemoveFromHand(keeper)
	keeper.Loc = LocBoard
	keeper.PlayIndex = gs.NextPlayIndex()
	p.Board = append(p.Board, keeper)

	g.evolutionCheck(p)

	// The board copy survived as the Level-2; the hand copies went to
	// the tier discard pile.
	if keeper.Def != grunt.Evolved {
		t.Errorf("keeper definition = %s, want the Level-2 counterpart", keeper.Def)
	}
	if keeper.Loc != LocBoard {
		t.Errorf("keeper moved to %v during evolution", keeper.Loc)
	}
	if len(p.Hand) != 0 {
		t.Errorf("hand still holds %d copies", len(p.Hand))
	}
	if got := len(gs.Market.Tiers[1].Discard); got != 2 {
		t.Errorf("tier discard holds %d, want the 2 consumed copies", got)
	}
	if gs.EvolvedCount("Grunt") != 1 {
		t.Errorf("EvolvedCount = %d, want 1", gs.EvolvedCount("Grunt"))
	}
	if err := gs.CheckInvariants(); err != nil {
		t.Errorf("invariants after evolution: %v", err)
	}

	evolves := g.Logger.(*log.MemoryLogger).EventsOfType(log.EventEvolve)
	if len(evolves) != 1 || evolves[0].Card != "Grunt" {
		t.Errorf("evolve events = %v, want one for Grunt", evolves)
	}
}

// A hand-only triple evolves in hand: the first copy stays put.
func TestEvolutionCheckInHand(t *testing.T) {
	grunt := evoDef("Grunt", 1, 3, 2)
	g := newBareGame(t, withEvolved(grunt), 2)
	gs := g.State
	p := gs.Players[0]

	copies := pullToHand(t, gs, p, grunt, 3)
	g.evolutionCheck(p)

	if len(p.Hand) != 1 || p.Hand[0] != copies[0] {
		t.Fatalf("hand = %v, want only the first copy", p.Hand)
	}
	if p.Hand[0].Def != grunt.Evolved {
		t.Errorf("survivor still level %d", p.Hand[0].Def.Level)
	}
	if p.Hand[0].Loc != LocHand {
		t.Errorf("survivor location = %v, want Hand", p.Hand[0].Loc)
	}
}

// On-evolve effects fire once, at evolution time, from the Level-2 text.
func TestEvolutionTriggersOnEvolve(t *testing.T) {
	drake := abilityDef("Drake", 3, 5, 5, "Dragon", "Beast",
		"", "When evolved: deal 10 damage to each opponent.")
	g := newBareGame(t, withEvolved(drake), 2)
	gs := g.State
	p := gs.Players[0]

	pullToHand(t, gs, p, drake, 3)
	g.evolutionCheck(p)

	if got := gs.Players[1].PV; got != StartingPV-10 {
		t.Errorf("opponent PV = %d, want %d", got, StartingPV-10)
	}
}

// Five copies at once collapse into one Level-2 and a leftover pair:
// the check loops but never consumes a partial triple.
func TestEvolutionCheckLoops(t *testing.T) {
	grunt := evoDef("Grunt", 1, 3, 2)
	g := newBareGame(t, withEvolved(grunt), 2)
	gs := g.State
	p := gs.Players[0]

	pullToHand(t, gs, p, grunt, 5)
	g.evolutionCheck(p)

	if len(p.Hand) != 3 {
		t.Fatalf("hand holds %d, want 1 evolved + 2 leftover", len(p.Hand))
	}
	if gs.EvolvedCount("Grunt") != 1 {
		t.Errorf("EvolvedCount = %d, want 1", gs.EvolvedCount("Grunt"))
	}
	if err := gs.CheckInvariants(); err != nil {
		t.Errorf("invariants after evolution: %v", err)
	}
}
