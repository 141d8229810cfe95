// Package character defines the character domain model, its skill ranks,
// and the pure stat derivations that read them.
package character

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

// BaseArmorClass is the armor class of an unarmored character with zero dexterity.
const BaseArmorClass = 10

// Character represents a character's persistent state.
//
// ID is set by the persistence layer; zero indicates an unsaved character.
// RaceID and ClassID are empty when no race or class is assigned.
type Character struct {
	ID int64

	FirstName   string
	LastName    string
	Alias       string
	Description string

	RaceID    string
	ClassID   string
	Secondary ruleset.SecondaryResource

	Attributes ruleset.AttributeScores

	MaxHealth       int
	MaxSecondary    int
	Notoriety       int
	AttributePoints int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns the alias when set, otherwise the joined first and last name.
func (c *Character) DisplayName() string {
	if c.Alias != "" {
		return c.Alias
	}
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Limit returns the advisory ceiling for attribute a given the character's race.
// A nil race yields 10 for every attribute.
//
// Precondition: a.Valid(); race, when non-nil, is the race named by c.RaceID.
func (c *Character) Limit(race *ruleset.Race, a ruleset.Attribute) int {
	return ruleset.LimitFor(race, a)
}

// ArmorClass returns 10 + dexterity + the equipment armor modifier.
// A nil eq contributes nothing.
func (c *Character) ArmorClass(eq *inventory.Equipment) int {
	return BaseArmorClass + c.Attributes.Dexterity + eq.ACModifier()
}

// Validate reports every violated Character invariant.
//
// Postcondition: Returns nil iff all counters are non-negative and Secondary is a known resource.
func (c *Character) Validate() error {
	var errs []error
	if !c.Secondary.Valid() {
		errs = append(errs, fmt.Errorf("secondary resource %q must be MA, CH, or SY", c.Secondary))
	}
	if err := c.Attributes.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("attributes: %w", err))
	}
	if c.MaxHealth < 0 {
		errs = append(errs, errors.New("max_health must be >= 0"))
	}
	if c.MaxSecondary < 0 {
		errs = append(errs, errors.New("max_secondary must be >= 0"))
	}
	if c.Notoriety < 0 {
		errs = append(errs, errors.New("notoriety must be >= 0"))
	}
	if c.AttributePoints < 0 {
		errs = append(errs, errors.New("attribute_points must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("character validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// Clone returns a copy of c.
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}
