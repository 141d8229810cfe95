package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrArmorTierRequired is returned when a head or body armor has no tier.
var ErrArmorTierRequired = errors.New("non-shield armor requires an armor tier")

// ArmorType is where an armor piece is worn.
type ArmorType string

const (
	Head   ArmorType = "HE"
	Body   ArmorType = "BO"
	Shield ArmorType = "SH"
)

// Valid reports whether t is a known armor type.
func (t ArmorType) Valid() bool {
	return t == Head || t == Body || t == Shield
}

// ArmorTier is the weight class of classed (non-shield) armor.
type ArmorTier string

const (
	HeavyArmor  ArmorTier = "HA"
	MediumArmor ArmorTier = "MA"
	LightArmor  ArmorTier = "LA"
)

// Valid reports whether t is a known armor tier.
func (t ArmorTier) Valid() bool {
	return t == HeavyArmor || t == MediumArmor || t == LightArmor
}

// Armor is catalog data for an armor piece.
//
// Invariant: Type != Shield implies Tier != "".
type Armor struct {
	ID                   string    `yaml:"id"`
	Name                 string    `yaml:"name"`
	Bonus                int       `yaml:"armor_bonus"`
	HardinessRequirement int       `yaml:"hardiness_requirement"`
	Cost                 int       `yaml:"cost"`
	Type                 ArmorType `yaml:"type"`
	Tier                 ArmorTier `yaml:"tier"`         // empty for untiered shields
	Enchantments         int       `yaml:"enchantments"` // mounts on classed armor
}

// Classed reports whether the armor carries a tier.
func (a *Armor) Classed() bool {
	return a.Tier != ""
}

// Validate reports an error if the Armor is missing required fields or contains illegal values.
// Precondition: a is non-nil.
// Postcondition: Returns nil iff the armor is well-formed; a missing tier on
// head or body armor wraps ErrArmorTierRequired.
func (a *Armor) Validate() error {
	var errs []error
	if a.ID == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if a.Name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if a.Bonus < 0 {
		errs = append(errs, errors.New("armor_bonus must be >= 0"))
	}
	if a.HardinessRequirement < 0 {
		errs = append(errs, errors.New("hardiness_requirement must be >= 0"))
	}
	if a.Cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	if a.Enchantments < 0 {
		errs = append(errs, errors.New("enchantments must be >= 0"))
	}
	if !a.Type.Valid() {
		errs = append(errs, fmt.Errorf("type %q is not a valid armor type", a.Type))
	}
	switch {
	case a.Tier != "" && !a.Tier.Valid():
		errs = append(errs, fmt.Errorf("tier %q is not a valid armor tier", a.Tier))
	case a.Type != Shield && a.Tier == "":
		errs = append(errs, fmt.Errorf("%w: type %s", ErrArmorTierRequired, a.Type))
	}
	if len(errs) > 0 {
		return fmt.Errorf("armor validation failed: %w", errors.Join(errs...))
	}
	return nil
}

// LoadArmors reads all .yaml files in dir and returns parsed Armor slice.
// Omitted types default to Shield; classed armor without an explicit
// enchantments value gets one mount.
// Precondition: dir must be a readable directory.
// Postcondition: Returns non-nil slice and nil error on success; all returned armor passes Validate.
func LoadArmors(dir string) ([]*Armor, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("LoadArmors: cannot read directory %q: %w", dir, err)
	}

	armors := []*Armor{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("LoadArmors: cannot read file %q: %w", path, err)
		}
		a := Armor{Type: Shield, Enchantments: -1}
		if err := yaml.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("LoadArmors: cannot parse file %q: %w", path, err)
		}
		if a.Enchantments == -1 {
			a.Enchantments = 0
			if a.Classed() {
				a.Enchantments = 1
			}
		}
		if err := a.Validate(); err != nil {
			return nil, fmt.Errorf("LoadArmors: invalid armor in %q: %w", path, err)
		}
		armors = append(armors, &a)
	}
	return armors, nil
}
