package game

import "math/rand"

// TierPile is one cost tier's draw and discard piles. Top of the draw
// pile is the last element (pop from end).
type TierPile struct {
	Draw    []*CardInstance
	Discard []*CardInstance
}

// Market owns the five cost-tier piles, the shared revealed slots and
// the pool of instances permanently removed by mixing. All location
// transitions of market-side instances go through it; players interact
// only via reveal/buy/fetch operations.
type Market struct {
	Tiers    [TierCount + 1]*TierPile // 1-indexed by cost tier
	Revealed []*CardInstance
	Removed  []*CardInstance

	rng *rand.Rand
}

// NewMarket builds the tier piles from the level-1 definitions:
// CopiesPerDef instances of each definition enter the draw pile of its
// cost tier. Level-2 definitions never enter circulation; they exist
// only as evolution targets. Instance IDs are assigned here and stay
// unique for the rest of the game.
func NewMarket(defs []*CardDef, rng *rand.Rand, shuffle bool) *Market {
	m := &Market{rng: rng}
	for t := 1; t <= TierCount; t++ {
		m.Tiers[t] = &TierPile{}
	}

	id := 0
	for _, def := range defs {
		if def.Level != 1 {
			continue
		}
		for i := 0; i < CopiesPerDef; i++ {
			id++
			ci := &CardInstance{
				Def:   def,
				ID:    id,
				Loc:   LocDraw,
				Tier:  def.Cost,
				Owner: -1,
			}
			m.Tiers[def.Cost].Draw = append(m.Tiers[def.Cost].Draw, ci)
		}
	}

	if shuffle {
		for t := 1; t <= TierCount; t++ {
			m.shuffle(m.Tiers[t].Draw)
		}
	}
	return m
}

func (m *Market) shuffle(pile []*CardInstance) {
	m.rng.Shuffle(len(pile), func(i, j int) {
		pile[i], pile[j] = pile[j], pile[i]
	})
}

// draw pops the top card of a tier's draw pile. When the draw pile is
// empty its discard pile is reshuffled into a new draw pile (the
// standard reshuffle, independent of scheduled mixing). The second
// return is the number of cards reshuffled, 0 if none.
func (m *Market) draw(tier int) (*CardInstance, int) {
	pile := m.Tiers[tier]
	reshuffled := 0
	if len(pile.Draw) == 0 && len(pile.Discard) > 0 {
		pile.Draw = pile.Discard
		pile.Discard = nil
		m.shuffle(pile.Draw)
		reshuffled = len(pile.Draw)
		for _, ci := range pile.Draw {
			ci.Loc = LocDraw
		}
	}
	if len(pile.Draw) == 0 {
		return nil, reshuffled
	}
	ci := pile.Draw[len(pile.Draw)-1]
	pile.Draw = pile.Draw[:len(pile.Draw)-1]
	return ci, reshuffled
}

// RevealedCount returns how many revealed slots hold cards of a tier.
func (m *Market) RevealedCount(tier int) int {
	n := 0
	for _, ci := range m.Revealed {
		if ci.Tier == tier {
			n++
		}
	}
	return n
}

// RevealFill refills the revealed slots for the given tier up to
// MarketSlotCount. Unbought revealed cards of older tiers stay visible
// until their mixing event sweeps them. Returns the newly revealed
// instances and the total number of cards reshuffled along the way.
func (m *Market) RevealFill(tier int) (revealed []*CardInstance, reshuffled int) {
	for m.RevealedCount(tier) < MarketSlotCount {
		ci, r := m.draw(tier)
		reshuffled += r
		if ci == nil {
			break
		}
		ci.Loc = LocRevealed
		m.Revealed = append(m.Revealed, ci)
		revealed = append(revealed, ci)
	}
	return revealed, reshuffled
}

// RevealedCard returns the revealed instance with the given ID, or nil.
func (m *Market) RevealedCard(id int) *CardInstance {
	for _, ci := range m.Revealed {
		if ci.ID == id {
			return ci
		}
	}
	return nil
}

func (m *Market) removeRevealed(ci *CardInstance) {
	for i, c := range m.Revealed {
		if c.ID == ci.ID {
			m.Revealed = append(m.Revealed[:i], m.Revealed[i+1:]...)
			return
		}
	}
}

// Buy moves a revealed instance into the buyer's hand. Legality (cost,
// remaining PO, card level) is validated by the turn state machine
// before this is called.
func (m *Market) Buy(ci *CardInstance, owner int) {
	m.removeRevealed(ci)
	ci.Loc = LocHand
	ci.Owner = owner
}

// FetchRevealed takes the oldest revealed level-1 instance into the
// given player's hand at no cost, for fetch effects. Returns nil when
// nothing is available.
func (m *Market) FetchRevealed(owner int) *CardInstance {
	for _, ci := range m.Revealed {
		if ci.Def.Level == 1 {
			m.Buy(ci, owner)
			return ci
		}
	}
	return nil
}

// DiscardConsumed returns an instance consumed by evolution to its
// tier's discard pile.
func (m *Market) DiscardConsumed(ci *CardInstance) {
	ci.Owner = -1
	ci.Loc = LocDiscard
	m.Tiers[ci.Tier].Discard = append(m.Tiers[ci.Tier].Discard, ci)
}

// Mix performs the scheduled mixing of a tier: every instance still in
// its draw pile, discard pile or unbought revealed slots is pooled,
// shuffled and split at an independent random cut point. One part merges
// into the next tier's draw pile; the remainder is permanently removed
// from circulation (still tracked for copy accounting).
func (m *Market) Mix(from int) (merged, removed int) {
	if from >= TierCount {
		return 0, 0
	}
	pile := m.Tiers[from]

	pool := append([]*CardInstance{}, pile.Draw...)
	pool = append(pool, pile.Discard...)
	pile.Draw = nil
	pile.Discard = nil

	kept := m.Revealed[:0]
	for _, ci := range m.Revealed {
		if ci.Tier == from {
			pool = append(pool, ci)
		} else {
			kept = append(kept, ci)
		}
	}
	m.Revealed = kept

	m.shuffle(pool)
	cut := m.rng.Intn(len(pool) + 1)

	next := m.Tiers[from+1]
	for _, ci := range pool[:cut] {
		ci.Tier = from + 1
		ci.Loc = LocDraw
		next.Draw = append(next.Draw, ci)
	}
	for _, ci := range pool[cut:] {
		ci.Loc = LocRemoved
		m.Removed = append(m.Removed, ci)
	}
	return cut, len(pool) - cut
}

// Instances returns every instance currently on the market side: tier
// piles, revealed slots and the removed pool.
func (m *Market) Instances() []*CardInstance {
	var all []*CardInstance
	for t := 1; t <= TierCount; t++ {
		all = append(all, m.Tiers[t].Draw...)
		all = append(all, m.Tiers[t].Discard...)
	}
	all = append(all, m.Revealed...)
	all = append(all, m.Removed...)
	return all
}
