package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/mloncour/menagerie/internal/log"
)

// actionRetryLimit bounds how often an agent may resubmit after an
// illegal action before the engine moves on without one. The rejected
// attempts never touch game state.
const actionRetryLimit = 3

// GameConfig holds configuration for creating a new game.
type GameConfig struct {
	Defs      []*CardDef    // full card set (level 1 and 2 definitions)
	Agents    []PlayerAgent // one per seat, at least 2
	Seed      int64         // RNG seed (0 for time-based)
	NoShuffle bool          // skip pile shuffles (for deterministic tests)
	MaxTurns  int           // stop after this many turns (0 = default 100)

	Logger      log.EventLogger
	Diagnostics DiagnosticSink
}

// Game orchestrates an entire game: it drives the per-turn phases,
// delegates purchases and mixing to the market, and applies effects
// through the resolution engine. One Game owns its state and random
// source exclusively; independent games are embarrassingly parallel.
type Game struct {
	State  *GameState
	Agents []PlayerAgent
	Logger log.EventLogger
	Diag   DiagnosticSink

	ctx      context.Context
	maxTurns int
}

// NewGame creates a game from the given config.
func NewGame(cfg GameConfig) (*Game, error) {
	if len(cfg.Agents) < 2 {
		return nil, fmt.Errorf("need at least 2 agents, got %d", len(cfg.Agents))
	}
	hasLevel1 := false
	for _, def := range cfg.Defs {
		if def.Level == 1 {
			hasLevel1 = true
			break
		}
	}
	if !hasLevel1 {
		return nil, fmt.Errorf("card set has no level-1 definitions")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	logger := cfg.Logger
	if logger == nil {
		logger = log.NewMemoryLogger()
	}
	diag := cfg.Diagnostics
	if diag == nil {
		diag = NopSink{}
	}
	maxTurns := cfg.MaxTurns
	if maxTurns == 0 {
		maxTurns = 100
	}

	market := NewMarket(cfg.Defs, rng, !cfg.NoShuffle)
	gs := NewGameState(cfg.Defs, len(cfg.Agents), market)

	return &Game{
		State:    gs,
		Agents:   cfg.Agents,
		Logger:   logger,
		Diag:     diag,
		ctx:      context.Background(),
		maxTurns: maxTurns,
	}, nil
}

func (g *Game) log(e log.GameEvent) {
	g.Logger.Log(e)
}

// Run executes the game to completion. Returns the winner's seat index,
// or -1 for a draw or turn-limit stop. A returned error is fatal for
// this game only (engine bug or cancelled context); per-turn illegal
// actions are handled inside and never abort the run.
func (g *Game) Run(ctx context.Context) (int, error) {
	g.ctx = ctx
	gs := g.State

	// Setup: players start at full PV with empty hands and boards; the
	// market piles were built at construction. Seed the cost-1 revealed
	// slots so turn 1 has something to buy.
	gs.Phase = PhaseSetup
	g.log(log.GameEvent{
		Turn: 0, Phase: gs.Phase.String(), Player: -1, Type: log.EventSetup,
		Details: fmt.Sprintf("Game start: %d players, %d PV each", len(gs.Players), StartingPV),
	})
	revealed, _ := gs.Market.RevealFill(1)
	for _, ci := range revealed {
		g.log(log.NewRevealEvent(0, ci.Tier, ci.Def.Name))
	}

	for !gs.Over {
		if gs.Turn >= g.maxTurns {
			gs.Over = true
			gs.Winner = -1
			gs.Result = fmt.Sprintf("Turn limit reached (%d turns)", g.maxTurns)
			g.log(log.NewGameOverEvent(gs.Turn, -1, gs.Result))
			break
		}
		if err := g.runTurn(); err != nil {
			return gs.Winner, err
		}
		if err := g.ctx.Err(); err != nil {
			return -1, err
		}
	}
	return gs.Winner, nil
}

// runTurn executes one full turn: buy, play-or-replace, evolution
// check, simultaneous combat, elimination check, and on even turns the
// scheduled market mixing.
func (g *Game) runTurn() error {
	gs := g.State
	gs.Turn++
	order := gs.TurnOrder(gs.Turn)
	g.log(log.NewTurnEvent(gs.Turn, order[0].ID))

	if err := g.buyPhase(order); err != nil {
		return err
	}
	if err := g.playPhase(order); err != nil {
		return err
	}
	if gs.Over {
		return nil
	}
	g.evolutionPhase(order)
	g.combatPhase()
	g.eliminationPhase()

	if err := gs.CheckInvariants(); err != nil {
		return err
	}

	if !gs.Over && gs.Turn%2 == 0 && gs.Turn/2 < TierCount {
		g.mixingStep()
	}
	return nil
}

func (g *Game) buyPhase(order []*Player) error {
	gs := g.State
	gs.Phase = PhaseBuy
	g.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	tier := CostTier(gs.Turn)
	revealed, reshuffled := gs.Market.RevealFill(tier)
	if reshuffled > 0 {
		g.log(log.NewReshuffleEvent(gs.Turn, tier, reshuffled))
	}
	for _, ci := range revealed {
		g.log(log.NewRevealEvent(gs.Turn, ci.Tier, ci.Def.Name))
	}

	for _, p := range order {
		if p.Eliminated {
			continue
		}
		p.PO = TurnPO(gs.Turn)
		if err := g.buyFor(p); err != nil {
			return err
		}
	}
	return nil
}

// buyFor asks one player's agent for its purchase set, validating the
// whole set before any of it is applied. An illegal set is rejected and
// re-requested; after actionRetryLimit rejections the player buys
// nothing this turn.
func (g *Game) buyFor(p *Player) error {
	gs := g.State
	for attempt := 0; attempt < actionRetryLimit; attempt++ {
		ids, err := g.Agents[p.ID].ChoosePurchases(g.ctx, gs, p.ID)
		if err != nil {
			return err
		}
		if verr := g.validatePurchases(p, ids); verr != nil {
			g.rejectAction(p, "buy", verr)
			continue
		}
		for _, id := range ids {
			ci := gs.Market.RevealedCard(id)
			gs.Market.Buy(ci, p.ID)
			p.PO -= ci.Def.Cost
			g.log(log.NewPurchaseEvent(gs.Turn, p.ID, ci.Def.Name, ci.Def.Cost))
		}
		return nil
	}
	g.log(log.NewDiagnosticEvent(gs.Turn,
		fmt.Sprintf("P%d exhausted buy retries; buying nothing", p.ID+1)))
	return nil
}

func (g *Game) playPhase(order []*Player) error {
	gs := g.State
	gs.Phase = PhasePlay
	g.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	for _, p := range order {
		if p.Eliminated {
			continue
		}
		if err := g.playFor(p); err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) playFor(p *Player) error {
	gs := g.State
	for attempt := 0; attempt < actionRetryLimit; attempt++ {
		a, err := g.Agents[p.ID].ChooseBoardAction(g.ctx, gs, p.ID)
		if err != nil {
			return err
		}
		if verr := g.validateBoardAction(p, a); verr != nil {
			g.rejectAction(p, a.Type.String(), verr)
			continue
		}
		g.applyBoardAction(p, a)
		return nil
	}
	g.log(log.NewDiagnosticEvent(gs.Turn,
		fmt.Sprintf("P%d exhausted play retries; skipping action", p.ID+1)))
	return nil
}

// applyBoardAction mutates state for a validated play-phase action.
// Evolution is rechecked immediately afterwards, not just at the
// dedicated phase.
func (g *Game) applyBoardAction(p *Player, a BoardAction) {
	gs := g.State
	switch a.Type {
	case ActionPlay:
		ci := p.HandCard(a.HandID)
		p.RemoveFromHand(ci)
		ci.Loc = LocBoard
		ci.PlayIndex = gs.NextPlayIndex()
		p.Board = append(p.Board, ci)
		g.log(log.NewPlayEvent(gs.Turn, p.ID, ci.Def.Name))
		g.resolveOnPlay(p, ci)
		g.evolutionCheck(p)

	case ActionReplace:
		in := p.HandCard(a.HandID)
		out := p.BoardCard(a.BoardID)
		p.RemoveFromBoard(out)
		out.Loc = LocHand
		out.PlayIndex = 0
		p.Hand = append(p.Hand, out)
		p.RemoveFromHand(in)
		in.Loc = LocBoard
		in.PlayIndex = gs.NextPlayIndex()
		p.Board = append(p.Board, in)
		g.log(log.NewReplaceEvent(gs.Turn, p.ID, in.Def.Name, out.Def.Name))
		g.resolveOnPlay(p, in)
		g.evolutionCheck(p)
	}
}

func (g *Game) evolutionPhase(order []*Player) {
	gs := g.State
	gs.Phase = PhaseEvolution
	g.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))
	for _, p := range order {
		if p.Eliminated {
			continue
		}
		g.evolutionCheck(p)
	}
}

// combatPhase resolves logically simultaneous combat: attack and
// defense totals are snapshotted for every surviving player, combat
// conditional effects adjust them, then all pairwise damages are
// computed from that single snapshot and applied at once. Cards are
// never removed from a board by combat.
func (g *Game) combatPhase() {
	gs := g.State
	gs.Phase = PhaseCombat
	g.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	alive := gs.AlivePlayers()
	if len(alive) < 2 {
		return
	}

	attack := make(map[int]int, len(alive))
	defense := make(map[int]int, len(alive))
	for _, p := range alive {
		atkBonus, defBonus := CombatBonuses(p)
		attack[p.ID] = BoardAttack(p) + atkBonus
		defense[p.ID] = BoardDefense(p) + defBonus
	}

	incoming := make(map[int]int, len(alive))
	for _, p := range alive {
		for _, o := range alive {
			if o.ID == p.ID {
				continue
			}
			dmg := attack[p.ID] - defense[o.ID]
			if dmg <= 0 {
				continue
			}
			incoming[o.ID] += dmg
			g.log(log.NewCombatDamageEvent(gs.Turn, p.ID, o.ID, dmg))
		}
	}

	for _, o := range alive {
		if dmg := incoming[o.ID]; dmg > 0 {
			o.PV -= dmg
			g.log(log.NewPVChangeEvent(gs.Turn, o.ID, gs.Phase.String(), -dmg, o.PV))
		}
	}
}

func (g *Game) eliminationPhase() {
	gs := g.State
	gs.Phase = PhaseElimination
	g.log(log.NewPhaseChangeEvent(gs.Turn, gs.Phase.String()))

	for _, p := range gs.Players {
		if !p.Eliminated && p.PV <= 0 {
			p.Eliminated = true
			g.log(log.NewEliminationEvent(gs.Turn, p.ID))
		}
	}

	switch gs.AliveCount() {
	case 0:
		// Everyone fell in the same combat step: a draw, not an error.
		gs.Over = true
		gs.IsDraw = true
		gs.Winner = -1
		gs.Result = "Draw — all remaining players eliminated simultaneously"
		g.log(log.NewGameOverEvent(gs.Turn, -1, gs.Result))
	case 1:
		winner := gs.AlivePlayers()[0]
		gs.Over = true
		gs.Winner = winner.ID
		gs.Result = fmt.Sprintf("P%d wins — last player standing", winner.ID+1)
		g.log(log.NewGameOverEvent(gs.Turn, winner.ID, gs.Result))
	}
}

func (g *Game) mixingStep() {
	gs := g.State
	gs.Phase = PhaseMixing
	from := gs.Turn / 2
	merged, removed := gs.Market.Mix(from)
	g.log(log.NewMixingEvent(gs.Turn, from, from+1, merged, removed))
}

// rejectAction surfaces an illegal action as a diagnostic without
// touching game state.
func (g *Game) rejectAction(p *Player, action string, verr error) {
	var ia *IllegalActionError
	reason := verr.Error()
	if errors.As(verr, &ia) {
		reason = ia.Reason
	}
	g.Diag.IllegalAction(p.ID, action, reason)
	g.log(log.NewDiagnosticEvent(g.State.Turn,
		fmt.Sprintf("illegal %s by P%d: %s", action, p.ID+1, reason)))
}
