package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
	"github.com/cory-johannsen/l8nite/internal/storage/sqlite"
	"github.com/cory-johannsen/l8nite/internal/storage/storetest"
)

func openStore(t *testing.T, path string) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(path)
	require.NoError(t, err)
	return s
}

func TestStore_Contract(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storage.Store {
		return openStore(t, filepath.Join(t.TempDir(), "l8nite.db"))
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	assert.Error(t, err)
}

func TestOpen_ReopenKeepsRecords(t *testing.T) {
	path := filepath.Join(t.TempDir(), "l8nite.db")
	ctx := context.Background()

	s := openStore(t, path)
	storetest.Seed(t, s)
	created, err := s.CreateCharacter(ctx, &character.Character{Alias: "Wren", RaceID: "dwarf", Secondary: ruleset.Synergy})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s = openStore(t, path)
	defer s.Close()
	got, err := s.LoadCharacter(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Wren", got.Alias)
	assert.Equal(t, ruleset.Synergy, got.Secondary)
	assert.Equal(t, created.CreatedAt, got.CreatedAt)
	r, err := s.LoadRace(ctx, "dwarf")
	require.NoError(t, err)
	assert.Equal(t, storetest.Dwarf(), r)
}

func TestStore_EquipmentFollowsCatalog(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "l8nite.db"))
	defer s.Close()
	storetest.Seed(t, s)
	ctx := context.Background()

	created, err := s.CreateCharacter(ctx, &character.Character{Alias: "Wren", Secondary: ruleset.Mana})
	require.NoError(t, err)
	eq := inventory.NewEquipment(created.ID)
	_, err = eq.Equip(inventory.SlotBody, inventory.ArmorItem(storetest.Vest()))
	require.NoError(t, err)
	require.NoError(t, s.SaveEquipment(ctx, eq))

	v := storetest.Vest()
	v.Bonus = 7
	require.NoError(t, s.SaveArmor(ctx, v))

	got, err := s.LoadEquippedItems(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.ACModifier())
	assert.Equal(t, "Ballistic Vest", got.Slots[inventory.SlotBody].Name)
}

func TestStore_EquipmentRejectsUnknownWeapon(t *testing.T) {
	s := openStore(t, filepath.Join(t.TempDir(), "l8nite.db"))
	defer s.Close()
	storetest.Seed(t, s)
	ctx := context.Background()

	created, err := s.CreateCharacter(ctx, &character.Character{Alias: "Wren", Secondary: ruleset.Mana})
	require.NoError(t, err)
	eq := inventory.NewEquipment(created.ID)
	_, err = eq.Equip(inventory.SlotLeftHand, &inventory.EquippedItem{Kind: inventory.KindWeapon, ItemID: "bow"})
	require.NoError(t, err)
	assert.ErrorIs(t, s.SaveEquipment(ctx, eq), storage.ErrNotFound)

	got, err := s.LoadEquippedItems(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Slots)
}
