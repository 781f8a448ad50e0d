package game

import (
	"regexp"
	"strconv"
	"strings"
)

// The ability parser is a registry of (pattern, constructor) pairs tried
// in order against each clause of a card's ability text. The first match
// wins, so more specific phrasings are registered before more general
// ones. A clause no pattern recognizes becomes an Unparsed marker rather
// than being dropped; the resolution engine treats those as no-ops and
// surfaces a diagnostic.

type abilityPattern struct {
	re    *regexp.Regexp
	build func(m []string) Effect
}

var abilityPatterns = []abilityPattern{
	// Board-limit exemption: "Your Swarm cards ignore the board limit"
	{
		re: regexp.MustCompile(`(?i)^your ([a-z]+) cards ignore the board limit$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectBoardException, Timing: TimingPassive, Family: m[1]}
		},
	},

	// On-play one-shots.
	{
		re: regexp.MustCompile(`(?i)^when played: restore (\d+) pv$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectHeal, Timing: TimingOnPlay, Scope: ScopeOwner, Amount: num(m[1])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^when played: deal (\d+) damage to each opponent$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectDamage, Timing: TimingOnPlay, Scope: ScopeOpponents, Amount: num(m[1])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^when played: fetch a card from the market$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectFetch, Timing: TimingOnPlay, Scope: ScopeOwner, Amount: 1}
		},
	},

	// On-evolve one-shots.
	{
		re: regexp.MustCompile(`(?i)^when evolved: restore (\d+) pv$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectHeal, Timing: TimingOnEvolve, Scope: ScopeOwner, Amount: num(m[1])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^when evolved: deal (\d+) damage to each opponent$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectDamage, Timing: TimingOnEvolve, Scope: ScopeOpponents, Amount: num(m[1])}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^when evolved: gains \+(\d+) attack(?: and \+(\d+) health)?$`),
		build: func(m []string) Effect {
			return Effect{Kind: EffectEvolveBoost, Timing: TimingOnEvolve, Scope: ScopeSelf, Attack: num(m[1]), Health: num(m[2])}
		},
	},

	// Combat-phase conditional buffs. Registered before the passive
	// "gain" patterns so the conditional tail is not lost.
	{
		re: regexp.MustCompile(`(?i)^during combat: \+(\d+) attack if you control another ([a-z]+)$`),
		build: func(m []string) Effect {
			return Effect{
				Kind: EffectConditionalBuff, Timing: TimingCombat,
				Attack: num(m[1]),
				Cond:   Condition{Kind: CondAnotherOf, Family: m[2]},
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^during combat: \+(\d+) health if you control another ([a-z]+)$`),
		build: func(m []string) Effect {
			return Effect{
				Kind: EffectConditionalBuff, Timing: TimingCombat,
				Health: num(m[1]),
				Cond:   Condition{Kind: CondAnotherOf, Family: m[2]},
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^during combat: \+(\d+) attack for each allied ([a-z]+)$`),
		build: func(m []string) Effect {
			return Effect{
				Kind: EffectConditionalBuff, Timing: TimingCombat,
				Attack: num(m[1]),
				Cond:   Condition{Kind: CondPerAllied, Family: m[2]},
			}
		},
	},

	// Passive board auras, family-scoped before the general form.
	{
		re: regexp.MustCompile(`(?i)^allied ([a-z]+) cards gain \+(\d+) attack(?: and \+(\d+) health)?$`),
		build: func(m []string) Effect {
			return Effect{
				Kind: EffectStatModify, Timing: TimingPassive, Scope: ScopeAlliedFamily,
				Family: m[1], Attack: num(m[2]), Health: num(m[3]),
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^allied cards gain \+(\d+) attack(?: and \+(\d+) health)?$`),
		build: func(m []string) Effect {
			return Effect{
				Kind: EffectStatModify, Timing: TimingPassive, Scope: ScopeAllies,
				Attack: num(m[1]), Health: num(m[2]),
			}
		},
	},
	{
		re: regexp.MustCompile(`(?i)^gains \+(\d+) attack(?: and \+(\d+) health)? while on the board$`),
		build: func(m []string) Effect {
			return Effect{
				Kind: EffectStatModify, Timing: TimingPassive, Scope: ScopeSelf,
				Attack: num(m[1]), Health: num(m[2]),
			}
		},
	},
}

// num converts a captured digit group, treating an absent group as 0.
func num(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// SplitClauses splits raw ability text into independent clauses in
// left-to-right reading order. Clauses are separated by periods.
func SplitClauses(text string) []string {
	var clauses []string
	for _, part := range strings.Split(text, ".") {
		part = strings.TrimSpace(part)
		if part != "" {
			clauses = append(clauses, part)
		}
	}
	return clauses
}

// ParseAbility converts raw ability text into its effect sequence. Each
// clause is matched independently; results concatenate in reading order.
// Parsing is deterministic and idempotent, so it runs once at card-load
// time and is cached on the definition.
func ParseAbility(text string) []Effect {
	var effects []Effect
	for _, clause := range SplitClauses(text) {
		effects = append(effects, parseClause(clause))
	}
	return effects
}

func parseClause(clause string) Effect {
	for _, p := range abilityPatterns {
		if m := p.re.FindStringSubmatch(clause); m != nil {
			e := p.build(m)
			e.Raw = clause
			return e
		}
	}
	return Effect{Kind: EffectUnparsed, Raw: clause}
}
