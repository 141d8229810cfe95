package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/l8nite/internal/game/inventory"
)

func TestEquipment_New_Empty(t *testing.T) {
	e := inventory.NewEquipment(7)
	assert.Equal(t, int64(7), e.CharacterID)
	assert.NotNil(t, e.Slots)
	assert.Empty(t, e.Slots)
	assert.Empty(t, e.Misc)
	assert.Equal(t, 0, e.ACModifier())
}

func TestEquipment_NilACModifierIsZero(t *testing.T) {
	var e *inventory.Equipment
	assert.Equal(t, 0, e.ACModifier())
}

func TestEquipment_SlotValues(t *testing.T) {
	want := []string{"head", "body", "left_hand", "right_hand"}
	got := inventory.Slots()
	require.Len(t, got, 4)
	for i, s := range got {
		assert.Equal(t, want[i], string(s))
	}
}

func TestParseSlot(t *testing.T) {
	s, err := inventory.ParseSlot("left_hand")
	require.NoError(t, err)
	assert.Equal(t, inventory.SlotLeftHand, s)
	_, err = inventory.ParseSlot(inventory.SlotMisc)
	assert.ErrorIs(t, err, inventory.ErrInvalidSlot)
}

func TestEquipment_EquipAddsBonus(t *testing.T) {
	e := inventory.NewEquipment(1)
	body := &inventory.Armor{ID: "vest", Name: "Vest", Bonus: 4, Type: inventory.Body, Tier: inventory.LightArmor}
	prev, err := e.Equip(inventory.SlotBody, inventory.ArmorItem(body))
	require.NoError(t, err)
	assert.Nil(t, prev)
	assert.Equal(t, 4, e.ACModifier())
}

func TestEquipment_EquipReplaces(t *testing.T) {
	e := inventory.NewEquipment(1)
	first := &inventory.EquippedItem{Kind: inventory.KindArmor, ItemID: "a", ArmorBonus: 1}
	second := &inventory.EquippedItem{Kind: inventory.KindArmor, ItemID: "b", ArmorBonus: 3}
	_, err := e.Equip(inventory.SlotHead, first)
	require.NoError(t, err)
	prev, err := e.Equip(inventory.SlotHead, second)
	require.NoError(t, err)
	assert.Same(t, first, prev)
	assert.Equal(t, 3, e.ACModifier())
}

func TestEquipment_EquipInvalidSlot(t *testing.T) {
	e := inventory.NewEquipment(1)
	_, err := e.Equip("tail", &inventory.EquippedItem{})
	assert.ErrorIs(t, err, inventory.ErrInvalidSlot)
}

func TestEquipment_EquipOnZeroValue(t *testing.T) {
	var e inventory.Equipment
	_, err := e.Equip(inventory.SlotRightHand, &inventory.EquippedItem{ArmorBonus: 2})
	require.NoError(t, err)
	assert.Equal(t, 2, e.ACModifier())
}

func TestEquipment_WeaponInHandAddsNothing(t *testing.T) {
	e := inventory.NewEquipment(1)
	_, err := e.Equip(inventory.SlotRightHand, inventory.WeaponItem(twoD6()))
	require.NoError(t, err)
	assert.Equal(t, 0, e.ACModifier())
}

func TestEquipment_UnequipAndMisc(t *testing.T) {
	e := inventory.NewEquipment(1)
	_, _ = e.Equip(inventory.SlotLeftHand, &inventory.EquippedItem{ItemID: "shield", ArmorBonus: 2})
	e.AddMisc(&inventory.EquippedItem{ItemID: "ring", ArmorBonus: 1})
	e.AddMisc(&inventory.EquippedItem{ItemID: "amulet", ArmorBonus: 1})
	assert.Equal(t, 4, e.ACModifier())

	removed := e.Unequip(inventory.SlotLeftHand)
	require.NotNil(t, removed)
	assert.Equal(t, "shield", removed.ItemID)
	assert.Nil(t, e.Unequip(inventory.SlotLeftHand))

	assert.True(t, e.RemoveMisc("ring"))
	assert.False(t, e.RemoveMisc("ring"))
	assert.Equal(t, 1, e.ACModifier())
}

func TestEquipment_Clone_Independent(t *testing.T) {
	e := inventory.NewEquipment(3)
	_, _ = e.Equip(inventory.SlotHead, &inventory.EquippedItem{ItemID: "helm", ArmorBonus: 1})
	e.AddMisc(&inventory.EquippedItem{ItemID: "ring", ArmorBonus: 2})

	c := e.Clone()
	c.Slots[inventory.SlotHead].ArmorBonus = 9
	c.AddMisc(&inventory.EquippedItem{ArmorBonus: 5})
	assert.Equal(t, 3, e.ACModifier())
	assert.Equal(t, 16, c.ACModifier())
	assert.Nil(t, (*inventory.Equipment)(nil).Clone())
}

func TestEquipment_ACModifier_Property_SumOfBonuses(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := inventory.NewEquipment(1)
		want := 0
		for _, s := range inventory.Slots() {
			if rapid.Bool().Draw(rt, "filled_"+string(s)) {
				b := rapid.IntRange(0, 10).Draw(rt, "bonus_"+string(s))
				_, err := e.Equip(s, &inventory.EquippedItem{ArmorBonus: b})
				require.NoError(rt, err)
				want += b
			}
		}
		for _, b := range rapid.SliceOfN(rapid.IntRange(0, 5), 0, 6).Draw(rt, "misc") {
			e.AddMisc(&inventory.EquippedItem{ArmorBonus: b})
			want += b
		}
		assert.Equal(rt, want, e.ACModifier())
	})
}
