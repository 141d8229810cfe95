// Package ruleset defines the closed reference data of the l8nite ruleset:
// attributes, races, classes, and secondary resources.
package ruleset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidAttribute is returned when an attribute name is not one of the eight core attributes.
var ErrInvalidAttribute = errors.New("invalid attribute")

// Attribute names one of the eight core character attributes.
type Attribute string

const (
	Hardiness    Attribute = "hardiness"
	Strength     Attribute = "strength"
	Dexterity    Attribute = "dexterity"
	Arcana       Attribute = "arcana"
	Logic        Attribute = "logic"
	Acuity       Attribute = "acuity"
	Charisma     Attribute = "charisma"
	Intelligence Attribute = "intelligence"
)

var attributes = []Attribute{Hardiness, Strength, Dexterity, Arcana, Logic, Acuity, Charisma, Intelligence}

var shortNames = map[Attribute]string{
	Hardiness:    "har",
	Strength:     "str",
	Dexterity:    "dex",
	Arcana:       "arc",
	Logic:        "log",
	Acuity:       "acu",
	Charisma:     "cha",
	Intelligence: "int",
}

// Attributes returns all eight attributes in sheet order.
func Attributes() []Attribute {
	out := make([]Attribute, len(attributes))
	copy(out, attributes)
	return out
}

// Valid reports whether a is one of the eight core attributes.
func (a Attribute) Valid() bool {
	_, ok := shortNames[a]
	return ok
}

// Short returns the three-letter abbreviation for a, e.g. "dex".
//
// Precondition: a.Valid().
func (a Attribute) Short() string {
	s, ok := shortNames[a]
	if !ok {
		panic(fmt.Sprintf("ruleset: Short called on invalid attribute %q", string(a)))
	}
	return s
}

// ParseAttribute accepts either the full name ("dexterity") or the
// abbreviation ("dex"), case-insensitively.
//
// Postcondition: Returns a valid Attribute or an error wrapping ErrInvalidAttribute.
func ParseAttribute(s string) (Attribute, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if a := Attribute(s); a.Valid() {
		return a, nil
	}
	for a, short := range shortNames {
		if short == s {
			return a, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAttribute, s)
}

// AttributeScores holds one value per core attribute.
type AttributeScores struct {
	Hardiness    int `yaml:"hardiness"`
	Strength     int `yaml:"strength"`
	Dexterity    int `yaml:"dexterity"`
	Arcana       int `yaml:"arcana"`
	Logic        int `yaml:"logic"`
	Acuity       int `yaml:"acuity"`
	Charisma     int `yaml:"charisma"`
	Intelligence int `yaml:"intelligence"`
}

// field returns a pointer to the score for a, or nil if a is invalid.
func (s *AttributeScores) field(a Attribute) *int {
	switch a {
	case Hardiness:
		return &s.Hardiness
	case Strength:
		return &s.Strength
	case Dexterity:
		return &s.Dexterity
	case Arcana:
		return &s.Arcana
	case Logic:
		return &s.Logic
	case Acuity:
		return &s.Acuity
	case Charisma:
		return &s.Charisma
	case Intelligence:
		return &s.Intelligence
	}
	return nil
}

// Get returns the score for a.
//
// Precondition: a.Valid(); an invalid attribute is a caller bug and panics.
func (s AttributeScores) Get(a Attribute) int {
	p := s.field(a)
	if p == nil {
		panic(fmt.Sprintf("ruleset: AttributeScores.Get called with invalid attribute %q", string(a)))
	}
	return *p
}

// Set assigns v to the score for a.
//
// Precondition: a.Valid().
func (s *AttributeScores) Set(a Attribute, v int) {
	p := s.field(a)
	if p == nil {
		panic(fmt.Sprintf("ruleset: AttributeScores.Set called with invalid attribute %q", string(a)))
	}
	*p = v
}

// Validate reports an error naming every negative score.
func (s AttributeScores) Validate() error {
	var errs []error
	for _, a := range attributes {
		if v := s.Get(a); v < 0 {
			errs = append(errs, fmt.Errorf("%s must be >= 0, got %d", a, v))
		}
	}
	return errors.Join(errs...)
}
