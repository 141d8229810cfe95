package character_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

func TestCharacter_ArmorClass_Scenario(t *testing.T) {
	c := &character.Character{Secondary: ruleset.Mana}
	c.Attributes.Dexterity = 3
	eq := inventory.NewEquipment(0)
	assert.Equal(t, 13, c.ArmorClass(eq))

	body := &inventory.Armor{ID: "vest", Name: "Vest", Bonus: 4, Type: inventory.Body, Tier: inventory.MediumArmor}
	_, err := eq.Equip(inventory.SlotBody, inventory.ArmorItem(body))
	require.NoError(t, err)
	assert.Equal(t, 17, c.ArmorClass(eq))
}

func TestCharacter_ArmorClass_NilEquipment(t *testing.T) {
	c := &character.Character{}
	c.Attributes.Dexterity = 5
	assert.Equal(t, 15, c.ArmorClass(nil))
}

func TestCharacter_ArmorClass_Property(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := &character.Character{}
		c.Attributes.Dexterity = rapid.IntRange(0, 30).Draw(rt, "dex")
		eq := inventory.NewEquipment(1)
		before := c.ArmorClass(eq)
		n := rapid.IntRange(0, 12).Draw(rt, "bonus")
		eq.AddMisc(&inventory.EquippedItem{ArmorBonus: n})
		assert.Equal(rt, before+n, c.ArmorClass(eq))
		assert.Equal(rt, 10+c.Attributes.Dexterity+n, c.ArmorClass(eq))
	})
}

func TestCharacter_Limit(t *testing.T) {
	c := &character.Character{}
	race := makeRace(ruleset.AttributeScores{Strength: 3, Hardiness: 5})
	assert.Equal(t, 13, c.Limit(race, ruleset.Strength))
	assert.Equal(t, 15, c.Limit(race, ruleset.Hardiness))
	assert.Equal(t, 10, c.Limit(race, ruleset.Charisma))
	for _, a := range ruleset.Attributes() {
		assert.Equal(t, 10, c.Limit(nil, a))
	}
}

func TestCharacter_Limit_IgnoresCurrentValue(t *testing.T) {
	c := &character.Character{}
	c.Attributes.Strength = 40
	assert.Equal(t, 10, c.Limit(nil, ruleset.Strength), "limits are advisory")
	assert.NoError(t, (&character.Character{Secondary: ruleset.Mana, Attributes: c.Attributes}).Validate())
}

func TestCharacter_Validate(t *testing.T) {
	c := &character.Character{Secondary: ruleset.Synergy}
	assert.NoError(t, c.Validate())

	c.Attributes.Arcana = -1
	c.MaxHealth = -2
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "arcana")
	assert.ErrorContains(t, err, "max_health")
}

func TestCharacter_DisplayName(t *testing.T) {
	assert.Equal(t, "Ann", (&character.Character{FirstName: "Ann"}).DisplayName())
	assert.Equal(t, "Kade", (&character.Character{FirstName: "Ann", Alias: "Kade"}).DisplayName())
	assert.Equal(t, "", (&character.Character{}).DisplayName())
}

func TestCharacter_Clone(t *testing.T) {
	c := &character.Character{ID: 4, FirstName: "A"}
	cp := c.Clone()
	cp.FirstName = "B"
	assert.Equal(t, "A", c.FirstName)
	assert.Nil(t, (*character.Character)(nil).Clone())
}
