package importer

import (
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

// Bundle is the common intermediate form produced by every Source: catalog
// records plus the characters that reference them.
type Bundle struct {
	Races      []*ruleset.Race
	Weapons    []*inventory.Weapon
	Armors     []*inventory.Armor
	Characters []*CharacterSpec
}

// CharacterSpec is a character as written in content YAML. Race, items, and
// skills are referenced by ID; Class and skill keys may also be display names.
type CharacterSpec struct {
	FirstName       string                  `yaml:"first_name"`
	LastName        string                  `yaml:"last_name"`
	Alias           string                  `yaml:"alias"`
	Description     string                  `yaml:"description"`
	Race            string                  `yaml:"race"`
	Class           string                  `yaml:"class"`
	Secondary       string                  `yaml:"secondary"`
	Attributes      ruleset.AttributeScores `yaml:"attributes"`
	MaxHealth       int                     `yaml:"max_health"`
	MaxSecondary    int                     `yaml:"max_secondary"`
	Notoriety       int                     `yaml:"notoriety"`
	AttributePoints int                     `yaml:"attribute_points"`
	Skills          map[string]int          `yaml:"skills"`
	Equipment       EquipmentSpec           `yaml:"equipment"`
}

// EquipmentSpec names the item equipped in each slot by catalog ID.
type EquipmentSpec struct {
	Head      string   `yaml:"head"`
	Body      string   `yaml:"body"`
	LeftHand  string   `yaml:"left_hand"`
	RightHand string   `yaml:"right_hand"`
	Misc      []string `yaml:"misc"`
}

// slotted returns the non-empty slot assignments in slot order.
func (e EquipmentSpec) slotted() []slotAssignment {
	var out []slotAssignment
	for _, sa := range []slotAssignment{
		{inventory.SlotHead, e.Head},
		{inventory.SlotBody, e.Body},
		{inventory.SlotLeftHand, e.LeftHand},
		{inventory.SlotRightHand, e.RightHand},
	} {
		if sa.itemID != "" {
			out = append(out, sa)
		}
	}
	return out
}

type slotAssignment struct {
	slot   inventory.Slot
	itemID string
}

// Source loads content from a format-specific location.
//
// Postcondition: returns a Bundle whose catalog records all pass Validate, or a non-nil error.
type Source interface {
	Load() (*Bundle, error)
}
