package postgres_test

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
	"github.com/cory-johannsen/l8nite/internal/storage/postgres"
	"github.com/cory-johannsen/l8nite/internal/storage/storetest"
	"github.com/cory-johannsen/l8nite/internal/testutil"
)

var shared *testutil.PostgresContainer

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		os.Exit(m.Run())
	}
	ctx := context.Background()
	pc, err := testutil.StartPostgres(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "postgres tests will be skipped: %v\n", err)
		os.Exit(m.Run())
	}
	shared = pc
	code := m.Run()
	pc.Terminate(ctx)
	os.Exit(code)
}

func startPostgres(t *testing.T) *testutil.PostgresContainer {
	t.Helper()
	if shared == nil {
		t.Skip("postgres container unavailable")
	}
	return shared
}

func newStore(t *testing.T, pc *testutil.PostgresContainer) *postgres.Store {
	t.Helper()
	pc.Truncate(t)
	pool, err := postgres.NewPool(context.Background(), pc.Config)
	require.NoError(t, err)
	return postgres.NewStore(pool)
}

func TestStore_Contract(t *testing.T) {
	pc := startPostgres(t)
	storetest.Run(t, func(t *testing.T) storage.Store {
		return newStore(t, pc)
	})
}

func TestStore_EquipmentFollowsCatalog(t *testing.T) {
	pc := startPostgres(t)
	s := newStore(t, pc)
	defer s.Close()
	storetest.Seed(t, s)
	ctx := context.Background()

	created, err := s.CreateCharacter(ctx, &character.Character{FirstName: "Ada", RaceID: "dwarf", Secondary: ruleset.Mana})
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
}

func TestStore_DeletingRaceClearsReference(t *testing.T) {
	pc := startPostgres(t)
	s := newStore(t, pc)
	defer s.Close()
	storetest.Seed(t, s)
	ctx := context.Background()

	created, err := s.CreateCharacter(ctx, &character.Character{FirstName: "Ada", RaceID: "dwarf", Secondary: ruleset.Mana})
	require.NoError(t, err)
	_, err = pc.RawPool.Exec(ctx, `DELETE FROM races WHERE id = 'dwarf'`)
	require.NoError(t, err)

	got, err := s.LoadCharacter(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, got.RaceID)
}

func TestStore_ClosedSlotsAreUnique(t *testing.T) {
	pc := startPostgres(t)
	s := newStore(t, pc)
	defer s.Close()
	storetest.Seed(t, s)
	ctx := context.Background()

	created, err := s.CreateCharacter(ctx, &character.Character{FirstName: "Ada", Secondary: ruleset.Mana})
	require.NoError(t, err)
	_, err = pc.RawPool.Exec(ctx, `
		INSERT INTO character_equipment (character_id, slot, armor_id) VALUES ($1, 'body', 'vest'), ($1, 'body', 'vest')`,
		created.ID)
	assert.Error(t, err)
}
