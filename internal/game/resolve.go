package game

import (
	"fmt"
	"strings"

	"github.com/mloncour/menagerie/internal/log"
)

// This file is the resolution engine: it interprets parsed effect
// sequences at their trigger timings and produces the only sanctioned
// mutations of player PV, stat aggregates and board-limit exemptions.
// Passive effects are never one-shot; they are recomputed from the
// current board every time an aggregate is needed, scanning boards
// oldest-played first.

func familyEq(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ExemptFamilies returns the families currently exempt from the board
// limit for a player, lowercased, derived from active BoardSlotException
// effects on their board. Exemptions are data carried by effects, never
// a special case in the turn machine.
func ExemptFamilies(p *Player) map[string]bool {
	exempt := make(map[string]bool)
	for _, ci := range p.Board {
		for _, e := range ci.Def.Effects {
			if e.Kind == EffectBoardException && e.Timing == TimingPassive {
				exempt[strings.ToLower(e.Family)] = true
			}
		}
	}
	return exempt
}

// BoardFits reports whether the candidate card may be placed on the
// player's board. The limit counts only non-exempt instances; the
// candidate's own exemption effects are active for the check, so the
// first card of an exempt family can land on a full board.
func BoardFits(p *Player, candidate *CardInstance) bool {
	exempt := ExemptFamilies(p)
	for _, e := range candidate.Def.Effects {
		if e.Kind == EffectBoardException && e.Timing == TimingPassive {
			exempt[strings.ToLower(e.Family)] = true
		}
	}

	counted := 0
	for _, ci := range p.Board {
		if !exempt[strings.ToLower(ci.Def.Family)] {
			counted++
		}
	}
	if !exempt[strings.ToLower(candidate.Def.Family)] {
		counted++
	}
	return counted <= BoardLimit
}

// BoardFitsReplacing checks the limit for a replace action: the
// resulting board is the current one with out swapped for in, and
// exemptions are recomputed from that resulting board. Swapping out an
// exemption source can fail even when a plain one-for-one swap fits.
func BoardFitsReplacing(p *Player, in, out *CardInstance) bool {
	exempt := make(map[string]bool)
	after := make([]*CardInstance, 0, len(p.Board))
	for _, ci := range p.Board {
		if ci.ID != out.ID {
			after = append(after, ci)
		}
	}
	after = append(after, in)

	for _, ci := range after {
		for _, e := range ci.Def.Effects {
			if e.Kind == EffectBoardException && e.Timing == TimingPassive {
				exempt[strings.ToLower(e.Family)] = true
			}
		}
	}
	counted := 0
	for _, ci := range after {
		if !exempt[strings.ToLower(ci.Def.Family)] {
			counted++
		}
	}
	return counted <= BoardLimit
}

// covers reports whether a passive stat effect on source applies to
// target, both on the same board.
func covers(e Effect, source, target *CardInstance) bool {
	switch e.Scope {
	case ScopeSelf:
		return source.ID == target.ID
	case ScopeAllies:
		return true
	case ScopeAlliedFamily:
		return familyEq(target.Def.Family, e.Family)
	default:
		return false
	}
}

// EffectiveAttack returns an instance's attack including every active
// passive modifier on its owner's board.
func EffectiveAttack(p *Player, target *CardInstance) int {
	atk := target.BaseAttack()
	for _, source := range p.Board {
		for _, e := range source.Def.Effects {
			if e.Kind == EffectStatModify && e.Timing == TimingPassive && covers(e, source, target) {
				atk += e.Attack
			}
		}
	}
	if atk < 0 {
		atk = 0
	}
	return atk
}

// EffectiveHealth returns an instance's health including every active
// passive modifier on its owner's board.
func EffectiveHealth(p *Player, target *CardInstance) int {
	hp := target.BaseHealth()
	for _, source := range p.Board {
		for _, e := range source.Def.Effects {
			if e.Kind == EffectStatModify && e.Timing == TimingPassive && covers(e, source, target) {
				hp += e.Health
			}
		}
	}
	if hp < 0 {
		hp = 0
	}
	return hp
}

// BoardAttack sums effective attack across a player's board.
func BoardAttack(p *Player) int {
	total := 0
	for _, ci := range p.Board {
		total += EffectiveAttack(p, ci)
	}
	return total
}

// BoardDefense sums effective health across a player's board.
func BoardDefense(p *Player) int {
	total := 0
	for _, ci := range p.Board {
		total += EffectiveHealth(p, ci)
	}
	return total
}

// CombatBonuses evaluates the combat-phase conditional effects on a
// player's board against the pre-combat snapshot and returns the attack
// and defense adjustments to apply after base totals are computed.
func CombatBonuses(p *Player) (attack, defense int) {
	for _, source := range p.Board {
		for _, e := range source.Def.Effects {
			if e.Kind != EffectConditionalBuff || e.Timing != TimingCombat {
				continue
			}
			switch e.Cond.Kind {
			case CondAnotherOf:
				for _, other := range p.Board {
					if other.ID != source.ID && familyEq(other.Def.Family, e.Cond.Family) {
						attack += e.Attack
						defense += e.Health
						break
					}
				}
			case CondPerAllied:
				n := 0
				for _, other := range p.Board {
					if familyEq(other.Def.Family, e.Cond.Family) {
						n++
					}
				}
				attack += e.Attack * n
				defense += e.Health * n
			}
		}
	}
	return attack, defense
}

// resolveOnPlay fires a card's OnPlay effects, in parse order, exactly
// once at the moment it reaches the board.
func (g *Game) resolveOnPlay(p *Player, ci *CardInstance) {
	for _, e := range ci.Def.Effects {
		if e.Timing == TimingOnPlay {
			g.applyOneShot(p, ci, e)
		}
	}
}

// resolveOnEvolve fires the Level-2 definition's OnEvolve effects, in
// parse order, exactly once at evolution time.
func (g *Game) resolveOnEvolve(p *Player, ci *CardInstance) {
	for _, e := range ci.Def.Effects {
		if e.Timing == TimingOnEvolve {
			g.applyOneShot(p, ci, e)
		}
	}
}

// applyOneShot interprets a single one-shot effect. Resolving an
// Unparsed effect is a no-op that emits a diagnostic instead of failing
// the game: the card behaves as if unauthored until the text is fixed.
func (g *Game) applyOneShot(p *Player, ci *CardInstance, e Effect) {
	gs := g.State
	phase := gs.Phase.String()

	switch e.Kind {
	case EffectHeal:
		p.PV += e.Amount
		g.log(log.NewEffectEvent(gs.Turn, p.ID, phase, ci.Def.Name,
			fmt.Sprintf("%s restores %d PV", ci.Def.Name, e.Amount)))
		g.log(log.NewPVChangeEvent(gs.Turn, p.ID, phase, e.Amount, p.PV))

	case EffectDamage:
		for _, o := range gs.Players {
			if o.ID == p.ID || o.Eliminated {
				continue
			}
			o.PV -= e.Amount
			g.log(log.NewEffectEvent(gs.Turn, p.ID, phase, ci.Def.Name,
				fmt.Sprintf("%s deals %d to P%d", ci.Def.Name, e.Amount, o.ID+1)))
			g.log(log.NewPVChangeEvent(gs.Turn, o.ID, phase, -e.Amount, o.PV))
		}

	case EffectFetch:
		fetched := gs.Market.FetchRevealed(p.ID)
		if fetched == nil {
			g.log(log.NewEffectEvent(gs.Turn, p.ID, phase, ci.Def.Name,
				fmt.Sprintf("%s fetches nothing (market empty)", ci.Def.Name)))
			return
		}
		g.log(log.NewEffectEvent(gs.Turn, p.ID, phase, ci.Def.Name,
			fmt.Sprintf("%s fetches %s from the market", ci.Def.Name, fetched.Def.Name)))

	case EffectEvolveBoost:
		ci.BonusAttack += e.Attack
		ci.BonusHealth += e.Health
		g.log(log.NewEffectEvent(gs.Turn, p.ID, phase, ci.Def.Name,
			fmt.Sprintf("%s gains +%d/+%d", ci.Def.Name, e.Attack, e.Health)))

	case EffectUnparsed:
		g.Diag.UnparsedAbility(ci.Def.Name, e.Raw)
		g.log(log.NewDiagnosticEvent(gs.Turn,
			fmt.Sprintf("unparsed ability on %s: %q", ci.Def.Name, e.Raw)))
	}
}
