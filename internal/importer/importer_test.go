package importer_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/l8nite/internal/config"
	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/importer"
	"github.com/cory-johannsen/l8nite/internal/storage"
	"github.com/cory-johannsen/l8nite/internal/storage/memory"
)

// tb is satisfied by both *testing.T and *rapid.T.
type tb interface {
	require.TestingT
	Helper()
}

func write(t tb, path, s string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(s), 0644))
}

// buildTree writes a minimal catalog under a fresh directory.
func buildTree(t tb, dir string) {
	write(t, filepath.Join(dir, "races", "dwarf.yaml"), `
id: dwarf
code: DW
speed: 25
base:
  hardiness: 4
  strength: 2
traits:
  - Darkvision
`)
	write(t, filepath.Join(dir, "weapons", "pistol.yaml"), `
id: pistol
name: Pistol
class: SA
damage_die_multiplier: 2
damage_die: D6
range: 100
cost: 250
`)
	write(t, filepath.Join(dir, "armor", "vest.yaml"), `
id: vest
name: Ballistic Vest
armor_bonus: 4
type: BO
tier: MA
cost: 400
`)
	write(t, filepath.Join(dir, "armor", "ring.yaml"), `
id: ring
name: Ring of Warding
armor_bonus: 1
cost: 250
`)
}

const wren = `
first_name: Ada
last_name: Kell
alias: Wren
race: dwarf
class: Street Samurai
secondary: Chi
attributes:
  dexterity: 3
  hardiness: 6
max_health: 20
attribute_points: 2
skills:
  Small Arms: 3
  hacking: 1
equipment:
  body: vest
  right_hand: pistol
  misc: [ring, ring]
`

func newImporter(s storage.Store, dir string) *importer.Importer {
	return importer.New(importer.NewDirSource(dir), s, zap.NewNop())
}

func TestImporter_Run_CatalogOnly(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	s := memory.New()
	sum, err := newImporter(s, dir).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Races)
	assert.Equal(t, 1, sum.Weapons)
	assert.Equal(t, 2, sum.Armors)
	assert.Equal(t, 0, sum.Characters)

	a, err := s.LoadArmor(context.Background(), "ring")
	require.NoError(t, err)
	assert.Equal(t, inventory.Shield, a.Type)
}

func TestImporter_Run_Characters(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "wren.yaml"), wren)
	s := memory.New()
	ctx := context.Background()

	sum, err := newImporter(s, dir).Run(ctx)
	require.NoError(t, err)
	require.Len(t, sum.CharacterIDs, 1)

	snap, err := s.LoadSnapshot(ctx, sum.CharacterIDs[0])
	require.NoError(t, err)
	c := snap.Character
	assert.Equal(t, "Wren", c.DisplayName())
	assert.Equal(t, "dwarf", c.RaceID)
	assert.Equal(t, "street_samurai", c.ClassID)
	assert.Equal(t, ruleset.Chi, c.Secondary)
	assert.Equal(t, 2, c.AttributePoints)
	assert.Equal(t, 19, c.ArmorClass(snap.Equipment), "10 + dex 3 + vest 4 + two rings")

	r, err := snap.Skills.Rank(character.SmallArms)
	require.NoError(t, err)
	assert.Equal(t, 3, r)
	r, err = snap.Skills.Rank(character.Hacking)
	require.NoError(t, err)
	assert.Equal(t, 1, r)
	assert.Equal(t, inventory.KindWeapon, snap.Equipment.Slots[inventory.SlotRightHand].Kind)
}

func TestImporter_Run_UnknownItem(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "bad.yaml"), "alias: Bad\nequipment:\n  head: crown\n")
	s := memory.New()
	_, err := newImporter(s, dir).Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	chars, err := s.ListCharacters(context.Background())
	require.NoError(t, err)
	assert.Empty(t, chars)
}

// equipmentFailStore rejects every SaveEquipment call.
type equipmentFailStore struct {
	storage.Store
}

var errEquipmentRejected = errors.New("equipment rejected")

func (equipmentFailStore) SaveEquipment(context.Context, *inventory.Equipment) error {
	return errEquipmentRejected
}

func TestImporter_Run_SaveFailureRemovesCharacter(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "wren.yaml"), wren)
	s := memory.New()
	ctx := context.Background()

	_, err := newImporter(equipmentFailStore{Store: s}, dir).Run(ctx)
	require.ErrorIs(t, err, errEquipmentRejected)

	chars, err := s.ListCharacters(ctx)
	require.NoError(t, err)
	assert.Empty(t, chars)
}

func TestImporter_Run_TwiceUpdatesInPlace(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	path := filepath.Join(dir, "characters", "wren.yaml")
	write(t, path, wren)
	s := memory.New()
	ctx := context.Background()

	first, err := newImporter(s, dir).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Updated)

	write(t, path, strings.Replace(wren, "dexterity: 3", "dexterity: 5", 1))
	second, err := newImporter(s, dir).Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, second.Characters)
	assert.Equal(t, 1, second.Updated)
	assert.Equal(t, first.CharacterIDs, second.CharacterIDs)

	chars, err := s.ListCharacters(ctx)
	require.NoError(t, err)
	require.Len(t, chars, 1)

	snap, err := s.LoadSnapshot(ctx, first.CharacterIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 5, snap.Character.Attributes.Dexterity)
	assert.Len(t, snap.Equipment.Misc, 2)
	assert.Equal(t, 21, snap.Character.ArmorClass(snap.Equipment))
}

func TestImporter_Run_TwiceWithFailureKeepsExisting(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	path := filepath.Join(dir, "characters", "wren.yaml")
	write(t, path, wren)
	s := memory.New()
	ctx := context.Background()

	first, err := newImporter(s, dir).Run(ctx)
	require.NoError(t, err)

	write(t, path, strings.Replace(wren, "misc: [ring, ring]", "misc: [crown]", 1))
	_, err = newImporter(s, dir).Run(ctx)
	require.ErrorIs(t, err, storage.ErrNotFound)

	chars, err := s.ListCharacters(ctx)
	require.NoError(t, err)
	require.Len(t, chars, 1)
	snap, err := s.LoadSnapshot(ctx, first.CharacterIDs[0])
	require.NoError(t, err)
	assert.Equal(t, 19, snap.Character.ArmorClass(snap.Equipment))
}

func TestImporter_Run_UnknownRace(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "bad.yaml"), "alias: Bad\nrace: elf\n")
	_, err := newImporter(memory.New(), dir).Run(context.Background())
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestImporter_Run_UnknownSkill(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "bad.yaml"), "alias: Bad\nskills:\n  juggling: 2\n")
	_, err := newImporter(memory.New(), dir).Run(context.Background())
	assert.ErrorIs(t, err, character.ErrInvalidSkillName)
}

func TestImporter_Run_NamelessCharacter(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "bad.yaml"), "race: dwarf\n")
	_, err := newImporter(memory.New(), dir).Run(context.Background())
	assert.Error(t, err)
}

func TestImporter_Run_InvalidSourceDir(t *testing.T) {
	_, err := newImporter(memory.New(), "/nonexistent/dir").Run(context.Background())
	require.Error(t, err)
}

func TestImporter_Run_InvalidArmor(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "armor", "helm.yaml"), "id: helm\nname: Helm\ntype: HE\narmor_bonus: 1\n")
	_, err := newImporter(memory.New(), dir).Run(context.Background())
	assert.ErrorIs(t, err, inventory.ErrArmorTierRequired)
}

// TestImporter_Run_NCharactersProducesNRecords verifies that N character
// files import as exactly N stored characters.
func TestImporter_Run_NCharactersProducesNRecords(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 5).Draw(rt, "numCharacters")
		dir := t.TempDir()
		buildTree(rt, dir)
		for i := 0; i < n; i++ {
			write(rt, filepath.Join(dir, "characters", fmt.Sprintf("c%d.yaml", i)),
				fmt.Sprintf("alias: Runner %d\nrace: dwarf\n", i))
		}

		s := memory.New()
		sum, err := newImporter(s, dir).Run(context.Background())
		if err != nil {
			rt.Fatal(err)
		}
		list, err := s.ListCharacters(context.Background())
		if err != nil {
			rt.Fatal(err)
		}
		assert.Equal(rt, n, sum.Characters)
		assert.Len(rt, list, n)
	})
}

func TestConfigSource_SkipsEmptyCharactersDir(t *testing.T) {
	dir := t.TempDir()
	buildTree(t, dir)
	write(t, filepath.Join(dir, "characters", "wren.yaml"), wren)

	src := importer.ConfigSource(config.ContentConfig{
		RacesDir:   filepath.Join(dir, "races"),
		WeaponsDir: filepath.Join(dir, "weapons"),
		ArmorDir:   filepath.Join(dir, "armor"),
	})
	b, err := src.Load()
	require.NoError(t, err)
	assert.Len(t, b.Races, 1)
	assert.Empty(t, b.Characters)

	src.CharactersDir = filepath.Join(dir, "characters")
	b, err = src.Load()
	require.NoError(t, err)
	require.Len(t, b.Characters, 1)
	assert.Equal(t, "Street Samurai", b.Characters[0].Class)
	assert.Equal(t, []string{"ring", "ring"}, b.Characters[0].Equipment.Misc)
}
