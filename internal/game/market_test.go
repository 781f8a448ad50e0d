package game

import (
	"math/rand"
	"testing"
)

func testMarket(defs []*CardDef, seed int64, shuffle bool) *Market {
	return NewMarket(defs, rand.New(rand.NewSource(seed)), shuffle)
}

func TestNewMarketPopulation(t *testing.T) {
	defs := withEvolved(
		evoDef("Grunt", 1, 3, 2),
		evoDef("Brute", 3, 7, 6),
	)
	m := testMarket(defs, 1, false)

	if got := len(m.Tiers[1].Draw); got != CopiesPerDef {
		t.Errorf("tier 1 draw pile holds %d cards, want %d", got, CopiesPerDef)
	}
	if got := len(m.Tiers[3].Draw); got != CopiesPerDef {
		t.Errorf("tier 3 draw pile holds %d cards, want %d", got, CopiesPerDef)
	}
	if got := len(m.Tiers[2].Draw); got != 0 {
		t.Errorf("tier 2 draw pile holds %d cards, want 0", got)
	}

	// Level-2 definitions never enter circulation.
	for _, ci := range m.Instances() {
		if ci.Def.Level != 1 {
			t.Errorf("level-%d instance %s in circulation", ci.Def.Level, ci)
		}
	}

	// Instance IDs are unique.
	seen := make(map[int]bool)
	for _, ci := range m.Instances() {
		if seen[ci.ID] {
			t.Errorf("duplicate instance ID %d", ci.ID)
		}
		seen[ci.ID] = true
	}
}

func TestRevealFill(t *testing.T) {
	defs := withEvolved(evoDef("Grunt", 1, 3, 2), evoDef("Scamp", 1, 2, 3))
	m := testMarket(defs, 1, false)

	revealed, reshuffled := m.RevealFill(1)
	if len(revealed) != MarketSlotCount {
		t.Fatalf("revealed %d cards, want %d", len(revealed), MarketSlotCount)
	}
	if reshuffled != 0 {
		t.Errorf("reshuffled %d cards on a fresh pile", reshuffled)
	}
	if m.RevealedCount(1) != MarketSlotCount {
		t.Errorf("RevealedCount(1) = %d, want %d", m.RevealedCount(1), MarketSlotCount)
	}
	for _, ci := range revealed {
		if ci.Loc != LocRevealed {
			t.Errorf("%s location = %v, want Revealed", ci, ci.Loc)
		}
	}

	// Refilling an already full tier reveals nothing more.
	again, _ := m.RevealFill(1)
	if len(again) != 0 {
		t.Errorf("second fill revealed %d cards, want 0", len(again))
	}
}

func TestBuyAndRevealedCard(t *testing.T) {
	defs := withEvolved(evoDef("Grunt", 1, 3, 2))
	m := testMarket(defs, 1, false)
	m.RevealFill(1)

	ci := m.Revealed[0]
	if m.RevealedCard(ci.ID) != ci {
		t.Fatalf("RevealedCard(%d) did not find the revealed instance", ci.ID)
	}

	m.Buy(ci, 0)
	if ci.Loc != LocHand || ci.Owner != 0 {
		t.Errorf("bought card = loc %v owner %d, want Hand/0", ci.Loc, ci.Owner)
	}
	if m.RevealedCard(ci.ID) != nil {
		t.Error("bought card still in a revealed slot")
	}
}

// Drawing from an exhausted pile reshuffles the discard pile back in.
func TestDrawReshufflesDiscard(t *testing.T) {
	defs := withEvolved(evoDef("Grunt", 1, 3, 2))
	m := testMarket(defs, 1, false)

	revealed, _ := m.RevealFill(1)
	for _, ci := range revealed {
		m.Buy(ci, 0)
	}
	// Pile empty, slots empty: consume three copies back to the discard.
	for _, ci := range revealed[:3] {
		m.DiscardConsumed(ci)
	}
	if len(m.Tiers[1].Draw) != 0 || len(m.Tiers[1].Discard) != 3 {
		t.Fatalf("piles = %d draw / %d discard, want 0/3",
			len(m.Tiers[1].Draw), len(m.Tiers[1].Discard))
	}

	again, reshuffled := m.RevealFill(1)
	if reshuffled != 3 {
		t.Errorf("reshuffled %d cards, want 3", reshuffled)
	}
	if len(again) != 3 {
		t.Errorf("revealed %d cards after reshuffle, want 3", len(again))
	}
	if len(m.Tiers[1].Discard) != 0 {
		t.Errorf("discard pile still holds %d cards", len(m.Tiers[1].Discard))
	}
}

func TestFetchRevealedTakesOldestLevel1(t *testing.T) {
	defs := withEvolved(evoDef("Grunt", 1, 3, 2))
	m := testMarket(defs, 1, false)
	m.RevealFill(1)

	oldest := m.Revealed[0]
	fetched := m.FetchRevealed(2)
	if fetched != oldest {
		t.Errorf("fetched %s, want oldest revealed %s", fetched, oldest)
	}
	if fetched.Owner != 2 || fetched.Loc != LocHand {
		t.Errorf("fetched card = loc %v owner %d, want Hand/2", fetched.Loc, fetched.Owner)
	}
}

func TestFetchRevealedEmpty(t *testing.T) {
	defs := withEvolved(evoDef("Grunt", 1, 3, 2))
	m := testMarket(defs, 1, false)
	if fetched := m.FetchRevealed(0); fetched != nil {
		t.Errorf("fetched %s from an empty market", fetched)
	}
}

// Mixing conserves instances: everything pooled from the source tier
// ends up either in the next tier's draw pile or the removed pool.
func TestMixConservation(t *testing.T) {
	defs := withEvolved(
		evoDef("Grunt", 1, 3, 2),
		evoDef("Scamp", 1, 2, 3),
		evoDef("Brute", 2, 5, 4),
	)
	m := testMarket(defs, 7, true)
	m.RevealFill(1)

	// Spread tier 1 across draw, discard and revealed slots.
	bought := m.Revealed[0]
	m.Buy(bought, 0)
	m.RevealFill(1)
	for _, ci := range []*CardInstance{m.Revealed[0], m.Revealed[1]} {
		m.Buy(ci, 0)
		m.DiscardConsumed(ci)
	}
	m.RevealFill(1)

	poolSize := len(m.Tiers[1].Draw) + len(m.Tiers[1].Discard) + m.RevealedCount(1)
	tier2Before := len(m.Tiers[2].Draw)

	merged, removed := m.Mix(1)
	if merged+removed != poolSize {
		t.Errorf("Mix split %d+%d, want total %d", merged, removed, poolSize)
	}
	if len(m.Tiers[1].Draw) != 0 || len(m.Tiers[1].Discard) != 0 || m.RevealedCount(1) != 0 {
		t.Error("tier 1 not fully swept by mixing")
	}
	if got := len(m.Tiers[2].Draw) - tier2Before; got != merged {
		t.Errorf("tier 2 draw pile grew by %d, want %d", got, merged)
	}
	if len(m.Removed) != removed {
		t.Errorf("removed pool holds %d, want %d", len(m.Removed), removed)
	}

	// Merged instances now report the destination tier; the bought copy
	// stayed with its owner.
	for _, ci := range m.Tiers[2].Draw {
		if ci.Tier != 2 {
			t.Errorf("%s in tier 2 draw with Tier=%d", ci, ci.Tier)
		}
	}
	if bought.Loc != LocHand {
		t.Errorf("owned copy swept by mixing: loc %v", bought.Loc)
	}
}

// Mixing a tier leaves revealed cards of other tiers alone.
func TestMixLeavesOtherTiers(t *testing.T) {
	defs := withEvolved(
		evoDef("Grunt", 1, 3, 2),
		evoDef("Brute", 2, 5, 4),
	)
	m := testMarket(defs, 3, true)
	m.RevealFill(1)
	m.RevealFill(2)

	m.Mix(1)
	if m.RevealedCount(1) != 0 {
		t.Errorf("tier-1 revealed count %d after mixing, want 0", m.RevealedCount(1))
	}
	if m.RevealedCount(2) != MarketSlotCount {
		t.Errorf("tier-2 revealed count %d after mixing tier 1, want %d",
			m.RevealedCount(2), MarketSlotCount)
	}
}

// The top tier has nowhere to merge into, so mixing it is a no-op.
func TestMixTopTier(t *testing.T) {
	defs := withEvolved(evoDef("Titan", 5, 20, 20))
	m := testMarket(defs, 1, false)
	merged, removed := m.Mix(TierCount)
	if merged != 0 || removed != 0 {
		t.Errorf("Mix(%d) = %d/%d, want 0/0", TierCount, merged, removed)
	}
	if got := len(m.Tiers[TierCount].Draw); got != CopiesPerDef {
		t.Errorf("top tier draw pile holds %d after no-op mix, want %d", got, CopiesPerDef)
	}
}
