package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

func TestSkillNames_TwentyEightUnique(t *testing.T) {
	names := character.SkillNames()
	require.Len(t, names, 28)
	seen := map[character.SkillName]bool{}
	for _, n := range names {
		assert.False(t, seen[n], "duplicate %s", n)
		seen[n] = true
		assert.True(t, n.Valid())
	}
}

func TestSkillNames_GoverningGroups(t *testing.T) {
	assert.Empty(t, character.SkillsGovernedBy(ruleset.Hardiness))
	for _, a := range ruleset.Attributes()[1:] {
		assert.Len(t, character.SkillsGovernedBy(a), 4, "attribute %s", a)
	}
	assert.Equal(t, ruleset.Strength, character.SmallArms.Governing())
	assert.Equal(t, ruleset.Dexterity, character.SlightOfHand.Governing())
	assert.Equal(t, ruleset.Arcana, character.Summoning.Governing())
	assert.Equal(t, ruleset.Logic, character.Kinetic.Governing())
	assert.Equal(t, ruleset.Acuity, character.Investigation.Governing())
	assert.Equal(t, ruleset.Charisma, character.Performance.Governing())
	assert.Equal(t, ruleset.Intelligence, character.Technology.Governing())
}

func TestSkillName_GoverningPanicsOnUnknown(t *testing.T) {
	assert.Panics(t, func() { character.SkillName("juggling").Governing() })
}

func TestParseSkillName(t *testing.T) {
	n, err := character.ParseSkillName("hacking")
	require.NoError(t, err)
	assert.Equal(t, character.Hacking, n)

	_, err = character.ParseSkillName("juggling")
	assert.ErrorIs(t, err, character.ErrInvalidSkillName)
}

func TestSkills_SetAndRank(t *testing.T) {
	s := character.NewSkills(9)
	r, err := s.Rank(character.Melee)
	require.NoError(t, err)
	assert.Equal(t, 0, r)

	require.NoError(t, s.Set(character.Melee, 4))
	r, err = s.Rank(character.Melee)
	require.NoError(t, err)
	assert.Equal(t, 4, r)
	assert.Equal(t, map[character.SkillName]int{character.Melee: 4}, s.Ranks())

	assert.ErrorIs(t, s.Set("juggling", 1), character.ErrInvalidSkillName)
	assert.Error(t, s.Set(character.Melee, -1))
	_, err = s.Rank("juggling")
	assert.ErrorIs(t, err, character.ErrInvalidSkillName)
}

func TestSkills_ZeroValueAndNil(t *testing.T) {
	var s character.Skills
	require.NoError(t, s.Set(character.Magic, 2))
	r, _ := s.Rank(character.Magic)
	assert.Equal(t, 2, r)

	var nilSkills *character.Skills
	r, err := nilSkills.Rank(character.Magic)
	require.NoError(t, err)
	assert.Equal(t, 0, r)
	assert.Empty(t, nilSkills.Ranks())
}

func TestSkills_Clone(t *testing.T) {
	s := character.NewSkills(1)
	require.NoError(t, s.Set(character.History, 3))
	cp := s.Clone()
	require.NoError(t, cp.Set(character.History, 5))
	r, _ := s.Rank(character.History)
	assert.Equal(t, 3, r)
}

func TestModifiedSkill_PassThrough_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := &character.Character{}
		for _, a := range ruleset.Attributes() {
			c.Attributes.Set(a, rapid.IntRange(0, 20).Draw(rt, string(a)))
		}
		s := character.NewSkills(0)
		ranks := map[character.SkillName]int{}
		for _, n := range character.SkillNames() {
			ranks[n] = rapid.IntRange(0, 10).Draw(rt, string(n))
			require.NoError(rt, s.Set(n, ranks[n]))
		}
		for _, n := range character.SkillNames() {
			v, err := character.ModifiedSkill(c, s, n)
			require.NoError(rt, err)
			assert.Equal(rt, ranks[n], v)
		}
	})
}

func TestModifiedSkill_InvalidName(t *testing.T) {
	_, err := character.ModifiedSkill(&character.Character{}, character.NewSkills(0), "juggling")
	assert.ErrorIs(t, err, character.ErrInvalidSkillName)
}
