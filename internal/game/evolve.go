package game

import "github.com/mloncour/menagerie/internal/log"

// Evolution: whenever three instances sharing a level-1 name co-locate
// across one player's hand and board, two are consumed to the tier
// discard pile and the third flips to the Level-2 definition, staying
// where it was. The check runs after every play/replace action and again
// in the dedicated phase, and loops until no triple remains.

// findTriple scans board (oldest-played first) then hand and returns the
// first level-1 name with three or more co-located instances, with its
// candidates in scan order.
func findTriple(p *Player) (string, []*CardInstance) {
	byName := make(map[string][]*CardInstance)
	var order []string

	note := func(ci *CardInstance) {
		if ci.Def.Level != 1 || ci.Def.Evolved == nil {
			return
		}
		if _, seen := byName[ci.Def.Name]; !seen {
			order = append(order, ci.Def.Name)
		}
		byName[ci.Def.Name] = append(byName[ci.Def.Name], ci)
	}
	for _, ci := range p.Board {
		note(ci)
	}
	for _, ci := range p.Hand {
		note(ci)
	}

	for _, name := range order {
		if len(byName[name]) >= 3 {
			return name, byName[name][:3]
		}
	}
	return "", nil
}

// evolutionCheck applies evolution for one player until no triple
// remains. The surviving instance is the oldest board copy when any of
// the trio is on the board, otherwise the first hand copy.
func (g *Game) evolutionCheck(p *Player) {
	gs := g.State
	for {
		name, trio := findTriple(p)
		if name == "" {
			return
		}

		// Scan order puts board copies first, so trio[0] is the oldest
		// board instance whenever one exists.
		keeper := trio[0]
		for _, ci := range trio[1:] {
			if ci.Loc == LocBoard {
				p.RemoveFromBoard(ci)
			} else {
				p.RemoveFromHand(ci)
			}
			gs.Market.DiscardConsumed(ci)
		}

		gs.RecordEvolved(name)
		keeper.Def = keeper.Def.Evolved

		g.log(log.NewEvolveEvent(gs.Turn, p.ID, name))
		g.resolveOnEvolve(p, keeper)
	}
}
