package game

import (
	"context"
	"fmt"
	"testing"

	"github.com/mloncour/menagerie/internal/log"
)

// ScriptedAgent is a PlayerAgent that follows a predefined script.
// Purchases are scripted by card name, one entry per buy phase; board
// actions by name, one entry per play phase. When the script runs out
// it falls back to a safe legal default: buy nothing, play the first
// hand card that fits, otherwise replace the oldest board card.
type ScriptedAgent struct {
	t    *testing.T
	name string

	buys   [][]string
	buyPos int

	actions []scriptedBoardAction
	actPos  int
}

type scriptedBoardAction struct {
	typ     ActionType
	inName  string // hand card (Play, Replace)
	outName string // board card being swapped out (Replace)
}

func NewScriptedAgent(t *testing.T, name string) *ScriptedAgent {
	return &ScriptedAgent{t: t, name: name}
}

// AddBuy scripts the next buy phase: buy one revealed copy of each
// named card, in order. An empty call scripts buying nothing.
func (sa *ScriptedAgent) AddBuy(names ...string) *ScriptedAgent {
	sa.buys = append(sa.buys, names)
	return sa
}

func (sa *ScriptedAgent) AddPlay(name string) *ScriptedAgent {
	sa.actions = append(sa.actions, scriptedBoardAction{typ: ActionPlay, inName: name})
	return sa
}

func (sa *ScriptedAgent) AddReplace(in, out string) *ScriptedAgent {
	sa.actions = append(sa.actions, scriptedBoardAction{typ: ActionReplace, inName: in, outName: out})
	return sa
}

func (sa *ScriptedAgent) AddPass() *ScriptedAgent {
	sa.actions = append(sa.actions, scriptedBoardAction{typ: ActionPass})
	return sa
}

func (sa *ScriptedAgent) ChoosePurchases(ctx context.Context, gs *GameState, player int) ([]int, error) {
	if sa.buyPos >= len(sa.buys) {
		return nil, nil
	}
	names := sa.buys[sa.buyPos]
	sa.buyPos++

	var ids []int
	taken := make(map[int]bool)
	for _, name := range names {
		found := false
		for _, ci := range gs.Market.Revealed {
			if ci.Def.Name == name && ci.Def.Level == 1 && !taken[ci.ID] {
				ids = append(ids, ci.ID)
				taken[ci.ID] = true
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("[%s] buy script: no revealed copy of %q available", sa.name, name)
		}
	}
	return ids, nil
}

func (sa *ScriptedAgent) ChooseBoardAction(ctx context.Context, gs *GameState, player int) (BoardAction, error) {
	p := gs.Players[player]

	if sa.actPos < len(sa.actions) {
		scripted := sa.actions[sa.actPos]
		sa.actPos++
		switch scripted.typ {
		case ActionPass:
			return BoardAction{Type: ActionPass}, nil
		case ActionPlay:
			ci := handByName(p, scripted.inName)
			if ci == nil {
				return BoardAction{}, fmt.Errorf("[%s] play script: %q not in hand", sa.name, scripted.inName)
			}
			return BoardAction{Type: ActionPlay, HandID: ci.ID}, nil
		case ActionReplace:
			in := handByName(p, scripted.inName)
			out := boardByName(p, scripted.outName)
			if in == nil || out == nil {
				return BoardAction{}, fmt.Errorf("[%s] replace script: %q/%q not found", sa.name, scripted.inName, scripted.outName)
			}
			return BoardAction{Type: ActionReplace, HandID: in.ID, BoardID: out.ID}, nil
		}
	}

	// Script exhausted: fall back to a legal default.
	if len(p.Hand) == 0 {
		return BoardAction{Type: ActionPass}, nil
	}
	for _, ci := range p.Hand {
		if BoardFits(p, ci) {
			return BoardAction{Type: ActionPlay, HandID: ci.ID}, nil
		}
	}
	return BoardAction{Type: ActionReplace, HandID: p.Hand[0].ID, BoardID: p.Board[0].ID}, nil
}

func handByName(p *Player, name string) *CardInstance {
	for _, ci := range p.Hand {
		if ci.Def.Name == name {
			return ci
		}
	}
	return nil
}

func boardByName(p *Player, name string) *CardInstance {
	for _, ci := range p.Board {
		if ci.Def.Name == name {
			return ci
		}
	}
	return nil
}

// --- Test definition helpers ---

// evoDef builds a level-1 definition with a linked Level-2 counterpart
// at doubled stats and no abilities.
func evoDef(name string, cost, atk, hp int) *CardDef {
	return abilityDef(name, cost, atk, hp, "Goblin", "Warrior", "", "")
}

// abilityDef is evoDef with family, class and ability text for both
// levels. Ability text is parsed exactly as the set loader would.
func abilityDef(name string, cost, atk, hp int, family, class, ability, evolvedAbility string) *CardDef {
	l2 := &CardDef{
		ID:      fmt.Sprintf("%s-2", name),
		Name:    name,
		Cost:    cost,
		Attack:  atk * 2,
		Health:  hp * 2,
		Level:   2,
		Family:  family,
		Class:   class,
		Ability: evolvedAbility,
		Effects: ParseAbility(evolvedAbility),
	}
	return &CardDef{
		ID:      fmt.Sprintf("%s-1", name),
		Name:    name,
		Cost:    cost,
		Attack:  atk,
		Health:  hp,
		Level:   1,
		Family:  family,
		Class:   class,
		Ability: ability,
		Effects: ParseAbility(ability),
		Evolved: l2,
	}
}

// withEvolved flattens level-1 definitions and their counterparts into
// a set slice as the loader would produce.
func withEvolved(defs ...*CardDef) []*CardDef {
	var all []*CardDef
	for _, def := range defs {
		all = append(all, def)
		if def.Evolved != nil {
			all = append(all, def.Evolved)
		}
	}
	return all
}

// newBareGame builds a game fixture for tests that drive phases
// directly and never consult the agents.
func newBareGame(t *testing.T, defs []*CardDef, players int) *Game {
	t.Helper()
	g, err := NewGame(GameConfig{
		Defs:      defs,
		Agents:    make([]PlayerAgent, players),
		Seed:      1,
		NoShuffle: true,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	return g
}

// placeOnBoard fabricates a board instance outside market accounting,
// for phase-level tests that skip CheckInvariants.
func placeOnBoard(gs *GameState, p *Player, def *CardDef) *CardInstance {
	ci := &CardInstance{
		Def:       def,
		ID:        1000 + gs.NextPlayIndex(),
		Loc:       LocBoard,
		Tier:      def.Cost,
		Owner:     p.ID,
		PlayIndex: gs.NextPlayIndex(),
	}
	p.Board = append(p.Board, ci)
	return ci
}

// runToCompletion plays a full game with the given agents and returns
// the memory logger for event assertions.
func runToCompletion(t *testing.T, cfg GameConfig) (*Game, *log.MemoryLogger) {
	t.Helper()
	logger := log.NewMemoryLogger()
	cfg.Logger = logger
	g, err := NewGame(cfg)
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := g.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return g, logger
}
