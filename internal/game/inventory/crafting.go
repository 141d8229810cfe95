package inventory

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Attachment is a mountable weapon add-on.
type Attachment struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Cost        int    `yaml:"cost"`
	Description string `yaml:"description"`
}

// EnchantmentTarget is the kind of gear an enchantment applies to.
type EnchantmentTarget string

const (
	EnchantWeapon EnchantmentTarget = "WE"
	EnchantArmor  EnchantmentTarget = "AR"
)

// CraftingSkill is the discipline used to craft an enchantment.
type CraftingSkill string

const (
	CraftTechnology CraftingSkill = "TE"
	CraftMagic      CraftingSkill = "MA"
)

// Enchantment is a crafted upgrade for a weapon or armor mount.
type Enchantment struct {
	ID               string            `yaml:"id"`
	Name             string            `yaml:"name"`
	Cost             int               `yaml:"cost"`
	Description      string            `yaml:"description"`
	Target           EnchantmentTarget `yaml:"target"`
	CraftingSkill    CraftingSkill     `yaml:"crafting_skill"`
	SkillRequirement int               `yaml:"skill_requirement"`
}

// Validate reports every violated Attachment invariant.
func (a *Attachment) Validate() error {
	return validateCrafting(a.ID, a.Name, a.Cost)
}

// Validate reports every violated Enchantment invariant.
func (e *Enchantment) Validate() error {
	errs := []error{validateCrafting(e.ID, e.Name, e.Cost)}
	if e.Target != EnchantWeapon && e.Target != EnchantArmor {
		errs = append(errs, fmt.Errorf("target %q must be WE or AR", e.Target))
	}
	if e.CraftingSkill != CraftTechnology && e.CraftingSkill != CraftMagic {
		errs = append(errs, fmt.Errorf("crafting_skill %q must be TE or MA", e.CraftingSkill))
	}
	if e.SkillRequirement < 0 {
		errs = append(errs, errors.New("skill_requirement must be >= 0"))
	}
	return errors.Join(errs...)
}

func validateCrafting(id, name string, cost int) error {
	var errs []error
	if id == "" {
		errs = append(errs, errors.New("id must not be empty"))
	}
	if name == "" {
		errs = append(errs, errors.New("name must not be empty"))
	}
	if cost < 0 {
		errs = append(errs, errors.New("cost must be >= 0"))
	}
	return errors.Join(errs...)
}

// LoadAttachments reads every .yaml file in dir as an Attachment.
//
// Precondition: dir must be a readable directory.
// Postcondition: all returned attachments pass Validate.
func LoadAttachments(dir string) ([]*Attachment, error) {
	out := []*Attachment{}
	err := readYAMLDir(dir, func(path string, data []byte) error {
		var a Attachment
		if err := yaml.Unmarshal(data, &a); err != nil {
			return fmt.Errorf("cannot parse file %q: %w", path, err)
		}
		if err := a.Validate(); err != nil {
			return fmt.Errorf("invalid attachment in %q: %w", path, err)
		}
		out = append(out, &a)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadAttachments: %w", err)
	}
	return out, nil
}

// LoadEnchantments reads every .yaml file in dir as an Enchantment.
//
// Precondition: dir must be a readable directory.
// Postcondition: all returned enchantments pass Validate.
func LoadEnchantments(dir string) ([]*Enchantment, error) {
	out := []*Enchantment{}
	err := readYAMLDir(dir, func(path string, data []byte) error {
		var e Enchantment
		if err := yaml.Unmarshal(data, &e); err != nil {
			return fmt.Errorf("cannot parse file %q: %w", path, err)
		}
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid enchantment in %q: %w", path, err)
		}
		out = append(out, &e)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("LoadEnchantments: %w", err)
	}
	return out, nil
}

func readYAMLDir(dir string, fn func(path string, data []byte) error) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("cannot read directory %q: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".yaml" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("cannot read file %q: %w", path, err)
		}
		if err := fn(path, data); err != nil {
			return err
		}
	}
	return nil
}
