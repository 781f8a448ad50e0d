package game

import "fmt"

// Timing identifies when an effect fires.
type Timing int

const (
	TimingOnPlay   Timing = iota // once, when the card moves from hand to board
	TimingPassive                // recomputed whenever board aggregates are needed
	TimingOnEvolve               // once, when three copies evolve into the Level-2
	TimingCombat                 // during combat, after totals, before damage
)

func (t Timing) String() string {
	switch t {
	case TimingOnPlay:
		return "OnPlay"
	case TimingPassive:
		return "Passive"
	case TimingOnEvolve:
		return "OnEvolve"
	case TimingCombat:
		return "Combat"
	default:
		return "Unknown"
	}
}

// EffectKind is the tag of the effect variant.
type EffectKind int

const (
	EffectUnparsed EffectKind = iota // unrecognized clause, kept verbatim
	EffectStatModify
	EffectHeal
	EffectDamage
	EffectFetch
	EffectBoardException
	EffectConditionalBuff
	EffectEvolveBoost
)

func (k EffectKind) String() string {
	switch k {
	case EffectUnparsed:
		return "Unparsed"
	case EffectStatModify:
		return "StatModify"
	case EffectHeal:
		return "Heal"
	case EffectDamage:
		return "Damage"
	case EffectFetch:
		return "Fetch"
	case EffectBoardException:
		return "BoardSlotException"
	case EffectConditionalBuff:
		return "ConditionalBuff"
	case EffectEvolveBoost:
		return "EvolveBoost"
	default:
		return "Unknown"
	}
}

// TargetScope selects which instances a stat-modifying effect covers.
type TargetScope int

const (
	ScopeNone TargetScope = iota
	ScopeSelf
	ScopeAllies       // every instance on the owner's board
	ScopeAlliedFamily // owner's board instances of Effect.Family
	ScopeOpponents    // every non-eliminated other player
	ScopeOwner        // the owning player (heals)
)

// CondKind is the condition attached to a combat-phase buff.
type CondKind int

const (
	CondNone      CondKind = iota
	CondAnotherOf          // at least one other allied instance of Family
	CondPerAllied          // magnitude scales per allied instance of Family
)

// Condition gates or scales a conditional combat buff.
type Condition struct {
	Kind   CondKind
	Family string
}

// Effect is one parsed card ability clause. Effects are immutable data:
// the resolution engine interprets them, they carry no behavior of their
// own. The zero value is an Unparsed effect with empty text.
type Effect struct {
	Kind   EffectKind
	Timing Timing
	Scope  TargetScope

	Attack int // attack magnitude (StatModify, ConditionalBuff, EvolveBoost)
	Health int // health magnitude
	Amount int // heal / damage magnitude

	Family string // target or condition family tag
	Cond   Condition

	Raw string // original clause text (always set, sole payload of Unparsed)
}

func (e Effect) String() string {
	if e.Kind == EffectUnparsed {
		return fmt.Sprintf("Unparsed(%q)", e.Raw)
	}
	return fmt.Sprintf("%s/%s(%q)", e.Kind, e.Timing, e.Raw)
}

// HasUnparsed reports whether any effect in the sequence is an
// Unparsed marker. Callers use this to escalate authoring gaps.
func HasUnparsed(effects []Effect) bool {
	for _, e := range effects {
		if e.Kind == EffectUnparsed {
			return true
		}
	}
	return false
}
