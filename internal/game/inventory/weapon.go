// Package inventory provides catalog definitions, loaders, and the damage and
// armor rules for weapons, armor, and crafting gear.
package inventory

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/l8nite/internal/game/dice"
)

// FeetToMeters is the divisor used to convert catalog ranges from feet to meters.
// Catalog data was authored against this exact value; do not replace it with 3.28084.
const FeetToMeters = 3.281

// WeaponClass categorizes a weapon.
type WeaponClass string

const (
	SmallArms   WeaponClass = "SA"
	BigArms     WeaponClass = "BA"
	Melee       WeaponClass = "ME"
	Demolitions WeaponClass = "DE"
)

var weaponClassNames = map[WeaponClass]string{
	SmallArms:   "Small Arms",
	BigArms:     "Big Arms",
	Melee:       "Melee",
	Demolitions: "Demolitions",
}

// Valid reports whether c is a known weapon class.
func (c WeaponClass) Valid() bool {
	_, ok := weaponClassNames[c]
	return ok
}

// DisplayName returns the human-readable class name.
func (c WeaponClass) DisplayName() string {
	if n, ok := weaponClassNames[c]; ok {
		return n
	}
	return string(c)
}

// RangeUnit is the unit a weapon's range is stored in.
type RangeUnit string

const (
	Feet   RangeUnit = "FT"
	Meters RangeUnit = "ME"
)

// Valid reports whether u is a known range unit.
func (u RangeUnit) Valid() bool {
	return u == Feet || u == Meters
}

// ArmWeaponStats holds the extra stats of firearm-style weapons.
type ArmWeaponStats struct {
	Ammo         int `yaml:"ammo"`
	Attachments  int `yaml:"attachments"`
	Enchantments int `yaml:"enchantments"`
}

// Weapon is catalog data for a weapon. Characters reference weapons by ID.
type Weapon struct {
	ID                  string          `yaml:"id"`
	Name                string          `yaml:"name"`
	Class               WeaponClass     `yaml:"class"`
	DamageDieMultiplier int             `yaml:"damage_die_multiplier"`
	DamageDie           dice.DieType    `yaml:"damage_die"`
	Range               int             `yaml:"range"`
	RangeUnit           RangeUnit       `yaml:"range_unit"`
	Cost                int             `yaml:"cost"`
	Arm                 *ArmWeaponStats `yaml:"arm"` // nil for weapons without ammo or mounts
}

// Validate checks that the Weapon satisfies its invariants.
// Precondition: w is non-nil.
// Postcondition: returns nil iff all fields are valid; die-type violations wrap dice.ErrInvalidDieType.
func (w *Weapon) Validate() error {
	var errs []error
	if w.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if w.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if !w.Class.Valid() {
		errs = append(errs, fmt.Errorf("class %q is not a valid weapon class", w.Class))
	}
	if w.DamageDieMultiplier < 0 {
		errs = append(errs, errors.New("damage_die_multiplier must be >= 0"))
	}
	if !w.DamageDie.Valid() {
		errs = append(errs, fmt.Errorf("damage_die: %w: %q", dice.ErrInvalidDieType, w.DamageDie))
	}
	if w.Range < 0 {
		errs = append(errs, errors.New("range must be >= 0"))
	}
	if !w.RangeUnit.Valid() {
		errs = append(errs, fmt.Errorf("range_unit %q must be FT or ME", w.RangeUnit))
	}
	if w.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	if w.Arm != nil && (w.Arm.Ammo < 0 || w.Arm.Attachments < 0 || w.Arm.Enchantments < 0) {
		errs = append(errs, errors.New("arm stats must be >= 0"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("weapon validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// DamageExpression returns the weapon's damage dice plus modifier as an Expression.
//
// Precondition: w passes Validate.
func (w *Weapon) DamageExpression(modifier int) dice.Expression {
	return dice.NewExpression(w.DamageDieMultiplier, w.DamageDie, modifier)
}

// RollDamage rolls DamageDieMultiplier independent dice of the weapon's die
// type, adds modifier, subtracts a d6 on disadvantage, then adds a d6 on
// advantage. Both flags may be set together. The total is not clamped and may
// be negative.
//
// Precondition: w passes Validate; src must be non-nil.
// Postcondition: result.Total() is the damage dealt.
func (w *Weapon) RollDamage(src dice.Source, modifier int, advantage, disadvantage bool) dice.RollResult {
	return dice.RollAdjusted(w.DamageExpression(modifier), src, advantage, disadvantage)
}

// RangeMeters returns the weapon's range in whole meters. Ranges stored in feet
// are converted as floor(feet / FeetToMeters).
func (w *Weapon) RangeMeters() int {
	if w.RangeUnit == Meters {
		return w.Range
	}
	return int(math.Floor(float64(w.Range) / FeetToMeters))
}

// LoadWeapons reads all *.yaml files from dir, parses each as a Weapon,
// validates it, and returns the collected slice. Omitted multipliers default
// to 1 and omitted range units to feet.
// Precondition: dir is a readable directory path.
// Postcondition: returns all valid Weapons or the first encountered error.
func LoadWeapons(dir string) ([]*Weapon, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadWeapons: cannot read directory %q: %w", dir, err)
	}

	weapons := []*Weapon{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot read file %q: %w", path, err)
		}
		w := Weapon{DamageDieMultiplier: 1, RangeUnit: Feet}
		if err := yaml.Unmarshal(data, &w); err != nil {
			return nil, fmt.Errorf("LoadWeapons: cannot parse file %q: %w", path, err)
		}
		if err := w.Validate(); err != nil {
			return nil, fmt.Errorf("LoadWeapons: invalid weapon in %q: %w", path, err)
		}
		weapons = append(weapons, &w)
	}
	return weapons, nil
}
