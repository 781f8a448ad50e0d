// Package cards loads card definition records and turns them into the
// engine's immutable CardDef set: structural validation, ability
// parsing (once, cached on the definition) and level-2 counterpart
// linking all happen here.
package cards

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mloncour/menagerie/internal/game"
)

//go:embed set.yaml
var defaultSet []byte

// SetFile is the top-level YAML structure.
type SetFile struct {
	Cards []CardEntry `yaml:"cards"`
}

// CardEntry is one card definition record as authored.
type CardEntry struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Cost    int    `yaml:"cost"`
	Attack  int    `yaml:"attack"`
	Health  int    `yaml:"health"`
	Level   int    `yaml:"level"`
	Family  string `yaml:"family"`
	Class   string `yaml:"class"`
	Ability string `yaml:"ability"`
}

// LoadFile loads a card set from a YAML file.
func LoadFile(path string) ([]*game.CardDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Load(data)
}

// DefaultSet loads the embedded card set.
func DefaultSet() ([]*game.CardDef, error) {
	return Load(defaultSet)
}

// Load parses and validates a card set. Structural problems are fatal
// here (MalformedCardDefinition): a broken definition cannot be
// simulated. Unrecognized ability text is NOT fatal — it parses to
// Unparsed markers that the engine reports at resolution time; use
// ReportUnparsed to escalate them at load time as well.
func Load(data []byte) ([]*game.CardDef, error) {
	var sf SetFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("parse card set YAML: %w", err)
	}
	if len(sf.Cards) == 0 {
		return nil, fmt.Errorf("card set is empty")
	}

	byKey := make(map[string]*game.CardDef)
	var defs []*game.CardDef
	for _, entry := range sf.Cards {
		def, err := buildDef(entry)
		if err != nil {
			return nil, err
		}
		key := defKey(def.Name, def.Level)
		if byKey[key] != nil {
			return nil, &game.MalformedCardDefinitionError{
				Name: def.Name, Reason: fmt.Sprintf("duplicate definition at level %d", def.Level),
			}
		}
		byKey[key] = def
		defs = append(defs, def)
	}

	// Link evolution counterparts: every level-1 definition needs its
	// Level-2, and no Level-2 may exist without its base.
	for _, def := range defs {
		switch def.Level {
		case 1:
			l2 := byKey[defKey(def.Name, 2)]
			if l2 == nil {
				return nil, &game.MalformedCardDefinitionError{
					Name: def.Name, Reason: "no level-2 counterpart",
				}
			}
			def.Evolved = l2
		case 2:
			if byKey[defKey(def.Name, 1)] == nil {
				return nil, &game.MalformedCardDefinitionError{
					Name: def.Name, Reason: "level-2 definition without a level-1 base",
				}
			}
		}
	}
	return defs, nil
}

func buildDef(entry CardEntry) (*game.CardDef, error) {
	fail := func(reason string) error {
		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		return &game.MalformedCardDefinitionError{Name: name, Reason: reason}
	}

	if entry.Name == "" {
		return nil, fail("missing name")
	}
	if entry.ID == "" {
		return nil, fail("missing id")
	}
	if entry.Level != 1 && entry.Level != 2 {
		return nil, fail(fmt.Sprintf("level must be 1 or 2, got %d", entry.Level))
	}
	if entry.Cost < 1 || entry.Cost > game.TierCount {
		return nil, fail(fmt.Sprintf("cost must be 1..%d, got %d", game.TierCount, entry.Cost))
	}
	if entry.Attack < 0 {
		return nil, fail(fmt.Sprintf("negative attack %d", entry.Attack))
	}
	if entry.Health < 1 {
		return nil, fail(fmt.Sprintf("health must be positive, got %d", entry.Health))
	}
	if entry.Family == "" {
		return nil, fail("missing family")
	}
	if entry.Class == "" {
		return nil, fail("missing class")
	}

	return &game.CardDef{
		ID:      entry.ID,
		Name:    entry.Name,
		Cost:    entry.Cost,
		Attack:  entry.Attack,
		Health:  entry.Health,
		Level:   entry.Level,
		Family:  entry.Family,
		Class:   entry.Class,
		Ability: entry.Ability,
		Effects: game.ParseAbility(entry.Ability),
	}, nil
}

func defKey(name string, level int) string {
	return fmt.Sprintf("%s#%d", name, level)
}

// ReportUnparsed pushes every Unparsed marker in the set to the sink,
// so authoring gaps show up once at load time instead of only when the
// card is first resolved.
func ReportUnparsed(defs []*game.CardDef, sink game.DiagnosticSink) int {
	n := 0
	for _, def := range defs {
		for _, e := range def.Effects {
			if e.Kind == game.EffectUnparsed {
				sink.UnparsedAbility(def.Name, e.Raw)
				n++
			}
		}
	}
	return n
}
