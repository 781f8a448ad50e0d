package game

import "github.com/mloncour/menagerie/internal/log"

// JSON snapshot views consumed by the web viewer and the MCP seat.
// Views are plain data copied from the state; handing one to an
// external agent can never mutate the game.

type InstanceView struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Level  int    `json:"level"`
	Cost   int    `json:"cost"`
	Attack int    `json:"attack"`
	Health int    `json:"health"`
	Family string `json:"family"`
	Class  string `json:"class"`
}

type PlayerView struct {
	ID         int            `json:"id"`
	PV         int            `json:"pv"`
	PO         int            `json:"po"`
	Eliminated bool           `json:"eliminated"`
	Hand       []InstanceView `json:"hand"`
	Board      []InstanceView `json:"board"`
}

type TierView struct {
	Tier         int `json:"tier"`
	DrawCount    int `json:"drawCount"`
	DiscardCount int `json:"discardCount"`
}

type MarketView struct {
	Revealed     []InstanceView `json:"revealed"`
	Tiers        []TierView     `json:"tiers"`
	RemovedCount int            `json:"removedCount"`
}

type StateView struct {
	Turn    int          `json:"turn"`
	Phase   string       `json:"phase"`
	Tier    int          `json:"tier"`
	Players []PlayerView `json:"players"`
	Market  MarketView   `json:"market"`
	Over    bool         `json:"over"`
	Winner  int          `json:"winner"`
	IsDraw  bool         `json:"isDraw"`
	Result  string       `json:"result,omitempty"`
}

type EventView struct {
	Seq     int    `json:"seq"`
	Turn    int    `json:"turn"`
	Phase   string `json:"phase"`
	Player  int    `json:"player"`
	Type    string `json:"type"`
	Card    string `json:"card,omitempty"`
	Amount  int    `json:"amount,omitempty"`
	Details string `json:"details"`
}

// BuildEventView converts a logged event for transport.
func BuildEventView(e log.GameEvent) EventView {
	return EventView{
		Seq:     e.Seq,
		Turn:    e.Turn,
		Phase:   e.Phase,
		Player:  e.Player,
		Type:    e.Type.String(),
		Card:    e.Card,
		Amount:  e.Amount,
		Details: e.Details,
	}
}

// buildInstanceView renders an instance. Board instances show effective
// stats (passives included); everything else shows base stats.
func buildInstanceView(owner *Player, ci *CardInstance) InstanceView {
	v := InstanceView{
		ID:     ci.ID,
		Name:   ci.Def.Name,
		Level:  ci.Def.Level,
		Cost:   ci.Def.Cost,
		Attack: ci.BaseAttack(),
		Health: ci.BaseHealth(),
		Family: ci.Def.Family,
		Class:  ci.Def.Class,
	}
	if owner != nil && ci.Loc == LocBoard {
		v.Attack = EffectiveAttack(owner, ci)
		v.Health = EffectiveHealth(owner, ci)
	}
	return v
}

// BuildStateView snapshots the full game state for external consumers.
func BuildStateView(gs *GameState) *StateView {
	sv := &StateView{
		Turn:   gs.Turn,
		Phase:  gs.Phase.String(),
		Tier:   CostTier(gs.Turn),
		Over:   gs.Over,
		Winner: gs.Winner,
		IsDraw: gs.IsDraw,
		Result: gs.Result,
	}

	for _, p := range gs.Players {
		pv := PlayerView{
			ID:         p.ID,
			PV:         p.PV,
			PO:         p.PO,
			Eliminated: p.Eliminated,
			Hand:       []InstanceView{},
			Board:      []InstanceView{},
		}
		for _, ci := range p.Hand {
			pv.Hand = append(pv.Hand, buildInstanceView(p, ci))
		}
		for _, ci := range p.Board {
			pv.Board = append(pv.Board, buildInstanceView(p, ci))
		}
		sv.Players = append(sv.Players, pv)
	}

	sv.Market.Revealed = []InstanceView{}
	for _, ci := range gs.Market.Revealed {
		sv.Market.Revealed = append(sv.Market.Revealed, buildInstanceView(nil, ci))
	}
	for t := 1; t <= TierCount; t++ {
		sv.Market.Tiers = append(sv.Market.Tiers, TierView{
			Tier:         t,
			DrawCount:    len(gs.Market.Tiers[t].Draw),
			DiscardCount: len(gs.Market.Tiers[t].Discard),
		})
	}
	sv.Market.RemovedCount = len(gs.Market.Removed)
	return sv
}
