// Package rules derives combat numbers from character, race, equipment, and
// skill records, and resolves weapon damage rolls.
package rules

import (
	"context"

	"go.uber.org/zap"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/dice"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

// Sheet is the derived read-side projection of a character.
type Sheet struct {
	CharacterID int64
	Name        string
	ArmorClass  int
	// Skills holds the modified value of all 28 skills.
	Skills map[character.SkillName]int
	// Limits holds the advisory ceiling for each attribute.
	Limits map[ruleset.Attribute]int
	// Headroom is limit minus current value. Negative when a value exceeds its limit.
	Headroom map[ruleset.Attribute]int
}

// Engine computes derived stats and rolls weapon damage.
// It is safe for concurrent use when its roller's Source is.
type Engine struct {
	store  Store
	roller *dice.Roller
	logger *zap.Logger
}

// NewEngine creates an Engine.
//
// Precondition: roller and logger must be non-nil; store may be nil when SheetByID is not used.
func NewEngine(store Store, roller *dice.Roller, logger *zap.Logger) *Engine {
	return &Engine{store: store, roller: roller, logger: logger}
}

// ComputeArmorClass returns 10 + dexterity + the armor bonus of everything in eq.
func (e *Engine) ComputeArmorClass(c *character.Character, eq *inventory.Equipment) int {
	return c.ArmorClass(eq)
}

// ComputeSkillValue returns the modified value of skill name.
//
// Postcondition: Returns an error wrapping character.ErrInvalidSkillName for unknown names.
func (e *Engine) ComputeSkillValue(c *character.Character, skills *character.Skills, name character.SkillName) (int, error) {
	return character.ModifiedSkill(c, skills, name)
}

// ComputeAttributeLimit returns the race base value for a plus 10, or 10 when race is nil.
//
// Precondition: a.Valid().
func (e *Engine) ComputeAttributeLimit(race *ruleset.Race, a ruleset.Attribute) int {
	return ruleset.LimitFor(race, a)
}

// RollWeaponDamage rolls w's damage dice plus modifier, subtracting a d6 on
// disadvantage and adding a d6 on advantage. The result is not clamped.
//
// Precondition: w must have passed Validate.
// Postcondition: Total() is the damage dealt; the roll is logged at debug level.
func (e *Engine) RollWeaponDamage(w *inventory.Weapon, modifier int, advantage, disadvantage bool) dice.RollResult {
	result := w.RollDamage(e.roller.Source(), modifier, advantage, disadvantage)
	return e.roller.Record(result,
		zap.String("weapon", w.ID),
		zap.Bool("advantage", advantage),
		zap.Bool("disadvantage", disadvantage),
	)
}

// ComputeWeaponRangeMeters returns w's range in whole meters.
func (e *Engine) ComputeWeaponRangeMeters(w *inventory.Weapon) int {
	return w.RangeMeters()
}

// Sheet projects snap into a Sheet. Missing race, equipment, or skills
// contribute zero.
//
// Precondition: snap and snap.Character must be non-nil.
func (e *Engine) Sheet(snap *Snapshot) Sheet {
	c := snap.Character
	s := Sheet{
		CharacterID: c.ID,
		Name:        c.DisplayName(),
		ArmorClass:  e.ComputeArmorClass(c, snap.Equipment),
		Skills:      make(map[character.SkillName]int, 28),
		Limits:      make(map[ruleset.Attribute]int, 8),
		Headroom:    make(map[ruleset.Attribute]int, 8),
	}
	for _, name := range character.SkillNames() {
		// names come from the closed set, so this cannot fail
		v, _ := e.ComputeSkillValue(c, snap.Skills, name)
		s.Skills[name] = v
	}
	for _, a := range ruleset.Attributes() {
		limit := e.ComputeAttributeLimit(snap.Race, a)
		s.Limits[a] = limit
		s.Headroom[a] = limit - c.Attributes.Get(a)
	}
	return s
}

// SheetByID loads character id from the store and projects its Sheet.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the character does not exist.
func (e *Engine) SheetByID(ctx context.Context, id int64) (Sheet, error) {
	snap, err := loadSnapshot(ctx, e.store, id)
	if err != nil {
		return Sheet{}, err
	}
	sheet := e.Sheet(snap)
	e.logger.Debug("sheet derived",
		zap.Int64("character_id", id),
		zap.Int("armor_class", sheet.ArmorClass),
	)
	return sheet, nil
}
