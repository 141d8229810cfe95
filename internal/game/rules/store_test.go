package rules_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/dice"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	rulesmock "github.com/cory-johannsen/l8nite/internal/game/rules/mock"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

func TestSheetByID_LoadsInOrder(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := rulesmock.NewMockStore(ctrl)
	ctx := context.Background()

	c := &character.Character{ID: 3, Alias: "Latch", RaceID: "goblin", Secondary: ruleset.Chi}
	c.Attributes.Dexterity = 6
	race := &ruleset.Race{ID: "goblin", Code: ruleset.Goblin, Base: ruleset.AttributeScores{Dexterity: 3}}
	eq := inventory.NewEquipment(3)
	_, err := eq.Equip(inventory.SlotBody, &inventory.EquippedItem{Kind: inventory.KindArmor, ItemID: "vest", ArmorBonus: 4})
	require.NoError(t, err)
	skills := character.NewSkills(3)
	require.NoError(t, skills.Set(character.Sneak, 2))

	gomock.InOrder(
		store.EXPECT().LoadCharacter(ctx, int64(3)).Return(c, nil),
		store.EXPECT().LoadRace(ctx, "goblin").Return(race, nil),
		store.EXPECT().LoadEquippedItems(ctx, int64(3)).Return(eq, nil),
		store.EXPECT().LoadSkills(ctx, int64(3)).Return(skills, nil),
	)

	sheet, err := newEngine(store, dice.NewCryptoSource()).SheetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Latch", sheet.Name)
	assert.Equal(t, 20, sheet.ArmorClass)
	assert.Equal(t, 2, sheet.Skills[character.Sneak])
	assert.Equal(t, 13, sheet.Limits[ruleset.Dexterity])
	assert.Equal(t, 7, sheet.Headroom[ruleset.Dexterity])
}

func TestSheetByID_NoRaceSkipsRaceLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := rulesmock.NewMockStore(ctrl)
	ctx := context.Background()

	c := &character.Character{ID: 4, FirstName: "Ada", Secondary: ruleset.Mana}
	store.EXPECT().LoadCharacter(ctx, int64(4)).Return(c, nil)
	store.EXPECT().LoadRace(gomock.Any(), gomock.Any()).Times(0)
	store.EXPECT().LoadEquippedItems(ctx, int64(4)).Return(inventory.NewEquipment(4), nil)
	store.EXPECT().LoadSkills(ctx, int64(4)).Return(character.NewSkills(4), nil)

	sheet, err := newEngine(store, dice.NewCryptoSource()).SheetByID(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, 10, sheet.ArmorClass)
	for _, a := range ruleset.Attributes() {
		assert.Equal(t, 10, sheet.Limits[a])
	}
}

func TestSheetByID_StopsAtFirstError(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := rulesmock.NewMockStore(ctrl)
	ctx := context.Background()
	boom := errors.New("connection reset")

	c := &character.Character{ID: 5, Alias: "Brick", Secondary: ruleset.Mana}
	store.EXPECT().LoadCharacter(ctx, int64(5)).Return(c, nil)
	store.EXPECT().LoadEquippedItems(ctx, int64(5)).Return(nil, boom)
	store.EXPECT().LoadSkills(gomock.Any(), gomock.Any()).Times(0)

	_, err := newEngine(store, dice.NewCryptoSource()).SheetByID(ctx, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "loading equipment for character 5")
}

func TestSheetByID_DanglingRace(t *testing.T) {
	ctrl := gomock.NewController(t)
	store := rulesmock.NewMockStore(ctrl)
	ctx := context.Background()

	c := &character.Character{ID: 6, Alias: "Ghost", RaceID: "elf", Secondary: ruleset.Mana}
	store.EXPECT().LoadCharacter(ctx, int64(6)).Return(c, nil)
	store.EXPECT().LoadRace(ctx, "elf").Return(nil, storage.ErrNotFound)

	_, err := newEngine(store, dice.NewCryptoSource()).SheetByID(ctx, 6)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
