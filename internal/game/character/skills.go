package character

import (
	"errors"
	"fmt"

	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

// ErrInvalidSkillName is returned when a skill name is outside the fixed skill set.
var ErrInvalidSkillName = errors.New("invalid skill name")

// SkillName names one of the 28 character skills.
type SkillName string

const (
	SmallArms   SkillName = "small_arms"
	BigArms     SkillName = "big_arms"
	Melee       SkillName = "melee"
	Demolitions SkillName = "demolitions"

	Sneak        SkillName = "sneak"
	Athletics    SkillName = "athletics"
	SlightOfHand SkillName = "slight_of_hand"
	Disguise     SkillName = "disguise"

	Attack    SkillName = "attack"
	Support   SkillName = "support"
	Healing   SkillName = "healing"
	Summoning SkillName = "summoning"

	Piloting SkillName = "piloting"
	Hacking  SkillName = "hacking"
	Security SkillName = "security"
	Kinetic  SkillName = "kinetic"

	Survival      SkillName = "survival"
	Perception    SkillName = "perception"
	Insight       SkillName = "insight"
	Investigation SkillName = "investigation"

	Deception    SkillName = "deception"
	Intimidation SkillName = "intimidation"
	Persuasion   SkillName = "persuasion"
	Performance  SkillName = "performance"

	Medicine   SkillName = "medicine"
	Magic      SkillName = "magic"
	History    SkillName = "history"
	Technology SkillName = "technology"
)

var skillNames = []SkillName{
	SmallArms, BigArms, Melee, Demolitions,
	Sneak, Athletics, SlightOfHand, Disguise,
	Attack, Support, Healing, Summoning,
	Piloting, Hacking, Security, Kinetic,
	Survival, Perception, Insight, Investigation,
	Deception, Intimidation, Persuasion, Performance,
	Medicine, Magic, History, Technology,
}

var governing = map[SkillName]ruleset.Attribute{
	SmallArms: ruleset.Strength, BigArms: ruleset.Strength, Melee: ruleset.Strength, Demolitions: ruleset.Strength,
	Sneak: ruleset.Dexterity, Athletics: ruleset.Dexterity, SlightOfHand: ruleset.Dexterity, Disguise: ruleset.Dexterity,
	Attack: ruleset.Arcana, Support: ruleset.Arcana, Healing: ruleset.Arcana, Summoning: ruleset.Arcana,
	Piloting: ruleset.Logic, Hacking: ruleset.Logic, Security: ruleset.Logic, Kinetic: ruleset.Logic,
	Survival: ruleset.Acuity, Perception: ruleset.Acuity, Insight: ruleset.Acuity, Investigation: ruleset.Acuity,
	Deception: ruleset.Charisma, Intimidation: ruleset.Charisma, Persuasion: ruleset.Charisma, Performance: ruleset.Charisma,
	Medicine: ruleset.Intelligence, Magic: ruleset.Intelligence, History: ruleset.Intelligence, Technology: ruleset.Intelligence,
}

// SkillNames returns all 28 skills in sheet order.
func SkillNames() []SkillName {
	out := make([]SkillName, len(skillNames))
	copy(out, skillNames)
	return out
}

// Valid reports whether s is one of the 28 skills.
func (s SkillName) Valid() bool {
	_, ok := governing[s]
	return ok
}

// Governing returns the attribute s is tied to.
//
// Precondition: s.Valid().
func (s SkillName) Governing() ruleset.Attribute {
	a, ok := governing[s]
	if !ok {
		panic(fmt.Sprintf("character: Governing called on invalid skill %q", string(s)))
	}
	return a
}

// ParseSkillName validates a skill name.
//
// Postcondition: Returns a valid SkillName or an error wrapping ErrInvalidSkillName.
func ParseSkillName(s string) (SkillName, error) {
	if n := SkillName(s); n.Valid() {
		return n, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSkillName, s)
}

// SkillsGovernedBy returns the skills tied to a, in sheet order.
func SkillsGovernedBy(a ruleset.Attribute) []SkillName {
	var out []SkillName
	for _, s := range skillNames {
		if governing[s] == a {
			out = append(out, s)
		}
	}
	return out
}

// Skills holds a character's raw skill ranks. Unset skills have rank 0.
type Skills struct {
	CharacterID int64
	ranks       map[SkillName]int
}

// NewSkills returns an all-zero Skills record for the given character.
func NewSkills(characterID int64) *Skills {
	return &Skills{CharacterID: characterID, ranks: make(map[SkillName]int)}
}

// Rank returns the raw rank for name.
//
// Postcondition: Returns ErrInvalidSkillName for names outside the skill set.
func (s *Skills) Rank(name SkillName) (int, error) {
	if !name.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSkillName, name)
	}
	if s == nil {
		return 0, nil
	}
	return s.ranks[name], nil
}

// Set assigns rank to name.
//
// Precondition: rank >= 0.
// Postcondition: Returns ErrInvalidSkillName for names outside the skill set.
func (s *Skills) Set(name SkillName, rank int) error {
	if !name.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidSkillName, name)
	}
	if rank < 0 {
		return fmt.Errorf("skill %s: rank must be >= 0, got %d", name, rank)
	}
	if s.ranks == nil {
		s.ranks = make(map[SkillName]int)
	}
	s.ranks[name] = rank
	return nil
}

// Ranks returns a copy of every non-zero rank.
func (s *Skills) Ranks() map[SkillName]int {
	out := make(map[SkillName]int)
	if s == nil {
		return out
	}
	for k, v := range s.ranks {
		if v != 0 {
			out[k] = v
		}
	}
	return out
}

// Clone returns a deep copy of s.
func (s *Skills) Clone() *Skills {
	if s == nil {
		return nil
	}
	out := NewSkills(s.CharacterID)
	for k, v := range s.ranks {
		out.ranks[k] = v
	}
	return out
}

// ModifiedSkill returns the effective value of skill name for character c.
// The value is currently the raw rank; c is accepted so the governing
// attribute can be folded in once a modifier formula is adopted.
//
// Postcondition: Returns ErrInvalidSkillName for names outside the skill set.
func ModifiedSkill(c *Character, s *Skills, name SkillName) (int, error) {
	return s.Rank(name)
}

