package game

import "fmt"

const (
	StartingPV      = 400 // each player's starting health
	Turn1PO         = 4   // documented exception to the PO formula
	MarketSlotCount = 5   // revealed slots filled per tier
	BoardLimit      = 8   // board size cap, subject to exemptions
	CopiesPerDef    = 5   // physical copies of every definition
	TierCount       = 5   // cost tiers 1..5
)

// --- Enums ---

type Phase int

const (
	PhaseSetup Phase = iota
	PhaseBuy
	PhasePlay
	PhaseEvolution
	PhaseCombat
	PhaseElimination
	PhaseMixing
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseSetup:
		return "Setup"
	case PhaseBuy:
		return "Buy Phase"
	case PhasePlay:
		return "Play Phase"
	case PhaseEvolution:
		return "Evolution Check"
	case PhaseCombat:
		return "Combat"
	case PhaseElimination:
		return "Elimination"
	case PhaseMixing:
		return "Mixing"
	case PhaseGameOver:
		return "Game Over"
	default:
		return "None"
	}
}

// Location tracks where a card instance currently sits.
type Location int

const (
	LocDraw Location = iota
	LocRevealed
	LocHand
	LocBoard
	LocDiscard
	LocRemoved // permanently out of circulation after a mixing event
)

func (l Location) String() string {
	switch l {
	case LocDraw:
		return "Draw Pile"
	case LocRevealed:
		return "Revealed"
	case LocHand:
		return "Hand"
	case LocBoard:
		return "Board"
	case LocDiscard:
		return "Discard Pile"
	case LocRemoved:
		return "Removed"
	default:
		return "Unknown"
	}
}

// --- Card definition (static, from the card set loader) ---

// CardDef is an immutable card definition. One exists per unique
// name+level; CopiesPerDef physical instances of each level-1 definition
// circulate through the market.
type CardDef struct {
	ID      string
	Name    string
	Cost    int
	Attack  int
	Health  int
	Level   int // 1 or 2
	Family  string
	Class   string
	Ability string   // raw ability text
	Effects []Effect // parsed once at load time

	// Evolved points at the Level-2 counterpart on level-1 definitions.
	Evolved *CardDef
}

func (c *CardDef) String() string {
	return fmt.Sprintf("%s (L%d %d/%d)", c.Name, c.Level, c.Attack, c.Health)
}

// --- CardInstance (runtime card circulating through the game) ---

// CardInstance is one physical copy of a definition. Its location is
// mutated only by the market manager; evolution swaps the Def reference
// to the Level-2 counterpart.
type CardInstance struct {
	Def *CardDef
	ID  int // unique instance ID within a game

	Loc   Location
	Tier  int // cost-tier pile it last belonged to (1..TierCount)
	Owner int // player index once in a hand/board, -1 otherwise

	// PlayIndex orders board instances oldest-played first. Unique per
	// game, assigned when the instance is moved to a board.
	PlayIndex int

	// Permanent stat bonuses granted at evolution time.
	BonusAttack int
	BonusHealth int
}

func (ci *CardInstance) String() string {
	if ci == nil {
		return "(empty)"
	}
	return fmt.Sprintf("%s#%d", ci.Def.Name, ci.ID)
}

// BaseAttack returns the instance's printed attack plus permanent bonuses.
func (ci *CardInstance) BaseAttack() int {
	return ci.Def.Attack + ci.BonusAttack
}

// BaseHealth returns the instance's printed health plus permanent bonuses.
func (ci *CardInstance) BaseHealth() int {
	return ci.Def.Health + ci.BonusHealth
}

// --- Player ---

// Player holds one player's entire state. Owned by the turn state
// machine; PV is mutated only by effect and combat resolution.
type Player struct {
	ID         int
	PV         int
	PO         int // remaining gold for the current turn
	Hand       []*CardInstance
	Board      []*CardInstance // oldest-played first
	Eliminated bool
}

// HandCard returns the hand instance with the given ID, or nil.
func (p *Player) HandCard(id int) *CardInstance {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// BoardCard returns the board instance with the given ID, or nil.
func (p *Player) BoardCard(id int) *CardInstance {
	for _, c := range p.Board {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// RemoveFromHand removes a card from the hand by instance ID.
func (p *Player) RemoveFromHand(card *CardInstance) {
	for i, c := range p.Hand {
		if c.ID == card.ID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return
		}
	}
}

// RemoveFromBoard removes a card from the board by instance ID,
// preserving play order of the rest.
func (p *Player) RemoveFromBoard(card *CardInstance) {
	for i, c := range p.Board {
		if c.ID == card.ID {
			p.Board = append(p.Board[:i], p.Board[i+1:]...)
			return
		}
	}
}

// --- Cost tier and PO schedule ---

// CostTier returns the active cost tier for a turn: tiers advance every
// two turns and cap at TierCount. Turn 1 is tier 1, turns 2-3 tier 2,
// turns 4-5 tier 3, and so on.
func CostTier(turn int) int {
	tier := turn/2 + 1
	if tier > TierCount {
		tier = TierCount
	}
	return tier
}

// TurnPO returns the gold granted to each player on a turn. Turn 1 is
// fixed at Turn1PO as a documented exception to the formula.
func TurnPO(turn int) int {
	if turn == 1 {
		return Turn1PO
	}
	return CostTier(turn)*2 + 1
}
