package sim

import (
	"context"
	"math/rand"

	"github.com/mloncour/menagerie/internal/game"
)

// AgentType selects which bot fills the seats of a simulated game.
type AgentType int

const (
	RandomAgents AgentType = iota
	GreedyAgents
)

func (t AgentType) String() string {
	switch t {
	case GreedyAgents:
		return "greedy"
	default:
		return "random"
	}
}

// NewAgent builds one bot agent with its own random source. Agents
// never share a source with the engine or with each other, keeping
// runs reproducible per seed.
func NewAgent(t AgentType, seed int64) game.PlayerAgent {
	switch t {
	case GreedyAgents:
		return &GreedyAgent{rng: rand.New(rand.NewSource(seed))}
	default:
		return &RandomAgent{rng: rand.New(rand.NewSource(seed))}
	}
}

// --- RandomAgent: uniformly random legal choices ---

type RandomAgent struct {
	rng *rand.Rand
}

func (a *RandomAgent) ChoosePurchases(ctx context.Context, gs *game.GameState, player int) ([]int, error) {
	p := gs.Players[player]
	budget := p.PO

	candidates := make([]*game.CardInstance, 0, len(gs.Market.Revealed))
	for _, ci := range gs.Market.Revealed {
		if ci.Def.Level == 1 {
			candidates = append(candidates, ci)
		}
	}
	a.rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})

	var ids []int
	for _, ci := range candidates {
		if ci.Def.Cost > budget {
			continue
		}
		budget -= ci.Def.Cost
		ids = append(ids, ci.ID)
	}
	return ids, nil
}

func (a *RandomAgent) ChooseBoardAction(ctx context.Context, gs *game.GameState, player int) (game.BoardAction, error) {
	p := gs.Players[player]
	if len(p.Hand) == 0 {
		return game.BoardAction{Type: game.ActionPass}, nil
	}

	var playable []*game.CardInstance
	for _, ci := range p.Hand {
		if game.BoardFits(p, ci) {
			playable = append(playable, ci)
		}
	}
	if len(playable) > 0 {
		pick := playable[a.rng.Intn(len(playable))]
		return game.BoardAction{Type: game.ActionPlay, HandID: pick.ID}, nil
	}

	// Board is full of non-exempt cards: replace a random legal pair.
	in := p.Hand[a.rng.Intn(len(p.Hand))]
	var outs []*game.CardInstance
	for _, ci := range p.Board {
		if game.BoardFitsReplacing(p, in, ci) {
			outs = append(outs, ci)
		}
	}
	if len(outs) == 0 {
		// Nothing legal for this hand card; any one-for-one non-exempt
		// swap works, so search the whole cross product.
		for _, hc := range p.Hand {
			for _, bc := range p.Board {
				if game.BoardFitsReplacing(p, hc, bc) {
					return game.BoardAction{Type: game.ActionReplace, HandID: hc.ID, BoardID: bc.ID}, nil
				}
			}
		}
		return game.BoardAction{Type: game.ActionPass}, nil
	}
	out := outs[a.rng.Intn(len(outs))]
	return game.BoardAction{Type: game.ActionReplace, HandID: in.ID, BoardID: out.ID}, nil
}

// --- GreedyAgent: chases triples, then raw attack ---

type GreedyAgent struct {
	rng *rand.Rand
}

// heldCopies counts a player's hand+board copies per level-1 name.
func heldCopies(p *game.Player) map[string]int {
	held := make(map[string]int)
	for _, ci := range p.Hand {
		if ci.Def.Level == 1 {
			held[ci.Def.Name]++
		}
	}
	for _, ci := range p.Board {
		if ci.Def.Level == 1 {
			held[ci.Def.Name]++
		}
	}
	return held
}

func (a *GreedyAgent) ChoosePurchases(ctx context.Context, gs *game.GameState, player int) ([]int, error) {
	p := gs.Players[player]
	budget := p.PO
	held := heldCopies(p)

	remaining := make([]*game.CardInstance, 0, len(gs.Market.Revealed))
	for _, ci := range gs.Market.Revealed {
		if ci.Def.Level == 1 {
			remaining = append(remaining, ci)
		}
	}

	var ids []int
	// Pass 1: duplicates of names already held, working toward triples.
	// Pass 2: most expensive affordable cards.
	for pass := 0; pass < 2; pass++ {
		for i := 0; i < len(remaining); i++ {
			best := -1
			for j, ci := range remaining {
				if ci == nil || ci.Def.Cost > budget {
					continue
				}
				if pass == 0 && held[ci.Def.Name] == 0 {
					continue
				}
				if best == -1 || ci.Def.Cost > remaining[best].Def.Cost {
					best = j
				}
			}
			if best == -1 {
				break
			}
			ci := remaining[best]
			remaining[best] = nil
			budget -= ci.Def.Cost
			held[ci.Def.Name]++
			ids = append(ids, ci.ID)
		}
	}
	return ids, nil
}

func (a *GreedyAgent) ChooseBoardAction(ctx context.Context, gs *game.GameState, player int) (game.BoardAction, error) {
	p := gs.Players[player]
	if len(p.Hand) == 0 {
		return game.BoardAction{Type: game.ActionPass}, nil
	}

	held := heldCopies(p)
	var best *game.CardInstance
	for _, ci := range p.Hand {
		if !game.BoardFits(p, ci) {
			continue
		}
		if best == nil {
			best = ci
			continue
		}
		// A third copy beats anything; otherwise take the bigger hitter.
		if tripleScore(held, ci) > tripleScore(held, best) {
			best = ci
		} else if tripleScore(held, ci) == tripleScore(held, best) && ci.Def.Attack > best.Def.Attack {
			best = ci
		}
	}
	if best != nil {
		return game.BoardAction{Type: game.ActionPlay, HandID: best.ID}, nil
	}

	// No legal play: swap the weakest replaceable board card for the
	// strongest hand card.
	in := p.Hand[0]
	for _, ci := range p.Hand[1:] {
		if ci.Def.Attack > in.Def.Attack {
			in = ci
		}
	}
	var out *game.CardInstance
	for _, ci := range p.Board {
		if !game.BoardFitsReplacing(p, in, ci) {
			continue
		}
		if out == nil || ci.Def.Attack < out.Def.Attack {
			out = ci
		}
	}
	if out == nil {
		return game.BoardAction{Type: game.ActionPass}, nil
	}
	return game.BoardAction{Type: game.ActionReplace, HandID: in.ID, BoardID: out.ID}, nil
}

func tripleScore(held map[string]int, ci *game.CardInstance) int {
	if ci.Def.Level == 1 && held[ci.Def.Name] >= 3 {
		return 1
	}
	return 0
}
