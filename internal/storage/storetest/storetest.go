// Package storetest holds a behavioural test suite every storage.Store backend must pass.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/dice"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/rules"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

// Factory returns an empty store. The suite closes it.
type Factory func(t *testing.T) storage.Store

// Dwarf is the race fixture seeded by Seed.
func Dwarf() *ruleset.Race {
	return &ruleset.Race{
		ID: "dwarf", Code: ruleset.Dwarf, Speed: 25,
		Base:   ruleset.AttributeScores{Hardiness: 4, Strength: 2},
		Traits: []string{"Darkvision", "Stonecunning"},
	}
}

// Rifle is the weapon fixture seeded by Seed.
func Rifle() *inventory.Weapon {
	return &inventory.Weapon{
		ID: "rifle", Name: "Rifle", Class: inventory.BigArms,
		DamageDieMultiplier: 3, DamageDie: dice.D8, Range: 300, RangeUnit: inventory.Feet, Cost: 900,
		Arm: &inventory.ArmWeaponStats{Ammo: 30, Attachments: 2, Enchantments: 1},
	}
}

// Vest is the body armor fixture seeded by Seed.
func Vest() *inventory.Armor {
	return &inventory.Armor{
		ID: "vest", Name: "Ballistic Vest", Bonus: 4, HardinessRequirement: 2, Cost: 400,
		Type: inventory.Body, Tier: inventory.MediumArmor, Enchantments: 1,
	}
}

// Ring is the misc armor fixture seeded by Seed.
func Ring() *inventory.Armor {
	return &inventory.Armor{ID: "ring", Name: "Ring of Warding", Bonus: 1, Cost: 250, Type: inventory.Shield}
}

// Seed saves every catalog fixture into s.
func Seed(t *testing.T, s storage.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, s.SaveRace(ctx, Dwarf()))
	require.NoError(t, s.SaveWeapon(ctx, Rifle()))
	require.NoError(t, s.SaveArmor(ctx, Vest()))
	require.NoError(t, s.SaveArmor(ctx, Ring()))
}

func newCharacter() *character.Character {
	c := &character.Character{
		FirstName: "Ada", LastName: "Kell", Alias: "Wren", Description: "scout",
		RaceID: "dwarf", ClassID: "ranger", Secondary: ruleset.Chi,
		MaxHealth: 20, MaxSecondary: 8, Notoriety: 3, AttributePoints: 5,
	}
	c.Attributes.Dexterity = 3
	c.Attributes.Hardiness = 6
	return c
}

func open(t *testing.T, f Factory) storage.Store {
	t.Helper()
	s := f(t)
	t.Cleanup(func() { _ = s.Close() })
	Seed(t, s)
	return s
}

// Run exercises f's store against the storage.Store contract.
func Run(t *testing.T, f Factory) {
	t.Run("catalog round trip", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()

		r, err := s.LoadRace(ctx, "dwarf")
		require.NoError(t, err)
		assert.Equal(t, Dwarf(), r)

		w, err := s.LoadWeapon(ctx, "rifle")
		require.NoError(t, err)
		assert.Equal(t, Rifle(), w)

		a, err := s.LoadArmor(ctx, "vest")
		require.NoError(t, err)
		assert.Equal(t, Vest(), a)
	})

	t.Run("catalog upsert replaces", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		v := Vest()
		v.Bonus = 6
		require.NoError(t, s.SaveArmor(ctx, v))
		a, err := s.LoadArmor(ctx, "vest")
		require.NoError(t, err)
		assert.Equal(t, 6, a.Bonus)
	})

	t.Run("catalog rejects invalid records", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		bad := Vest()
		bad.ID, bad.Tier = "untiered", ""
		assert.ErrorIs(t, s.SaveArmor(ctx, bad), inventory.ErrArmorTierRequired)
		w := Rifle()
		w.DamageDie = "D7"
		assert.ErrorIs(t, s.SaveWeapon(ctx, w), dice.ErrInvalidDieType)
	})

	t.Run("missing records are not found", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		_, err := s.LoadRace(ctx, "elf")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.LoadWeapon(ctx, "bow")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.LoadArmor(ctx, "cape")
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.LoadCharacter(ctx, 404)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.LoadSnapshot(ctx, 404)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.DeleteCharacter(ctx, 404), storage.ErrNotFound)
	})

	t.Run("create and load character", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		assert.Greater(t, created.ID, int64(0))
		assert.False(t, created.CreatedAt.IsZero())

		got, err := s.LoadCharacter(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Wren", got.Alias)
		assert.Equal(t, "dwarf", got.RaceID)
		assert.Equal(t, ruleset.Chi, got.Secondary)
		assert.Equal(t, 3, got.Attributes.Dexterity)
		assert.Equal(t, 6, got.Attributes.Hardiness)
		assert.Equal(t, 20, got.MaxHealth)
		assert.Equal(t, 5, got.AttributePoints)

		sk, err := s.LoadSkills(ctx, created.ID)
		require.NoError(t, err)
		assert.Empty(t, sk.Ranks())
		eq, err := s.LoadEquippedItems(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, eq.ACModifier())
	})

	t.Run("character without race", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		c := newCharacter()
		c.RaceID = ""
		created, err := s.CreateCharacter(ctx, c)
		require.NoError(t, err)
		snap, err := s.LoadSnapshot(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, snap.Race)
	})

	t.Run("create rejects unknown race", func(t *testing.T) {
		s := open(t, f)
		c := newCharacter()
		c.RaceID = "elf"
		_, err := s.CreateCharacter(context.Background(), c)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("update character", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		created.Attributes.Dexterity = 7
		created.Notoriety = 9
		require.NoError(t, s.UpdateCharacter(ctx, created))
		got, err := s.LoadCharacter(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 7, got.Attributes.Dexterity)
		assert.Equal(t, 9, got.Notoriety)

		created.ID = 9999
		assert.ErrorIs(t, s.UpdateCharacter(ctx, created), storage.ErrNotFound)
	})

	t.Run("list characters", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		a, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		b, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		list, err := s.ListCharacters(ctx)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, a.ID, list[0].ID)
		assert.Equal(t, b.ID, list[1].ID)
	})

	t.Run("skills round trip", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		sk := character.NewSkills(created.ID)
		require.NoError(t, sk.Set(character.Hacking, 4))
		require.NoError(t, sk.Set(character.Melee, 2))
		require.NoError(t, s.SaveSkills(ctx, sk))

		got, err := s.LoadSkills(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, map[character.SkillName]int{character.Hacking: 4, character.Melee: 2}, got.Ranks())

		require.NoError(t, sk.Set(character.Melee, 0))
		require.NoError(t, s.SaveSkills(ctx, sk))
		got, err = s.LoadSkills(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, map[character.SkillName]int{character.Hacking: 4}, got.Ranks())
	})

	t.Run("equipment round trip resolves bonuses", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)

		eq := inventory.NewEquipment(created.ID)
		_, err = eq.Equip(inventory.SlotBody, inventory.ArmorItem(Vest()))
		require.NoError(t, err)
		_, err = eq.Equip(inventory.SlotRightHand, inventory.WeaponItem(Rifle()))
		require.NoError(t, err)
		eq.AddMisc(inventory.ArmorItem(Ring()))
		eq.AddMisc(inventory.ArmorItem(Ring()))
		require.NoError(t, s.SaveEquipment(ctx, eq))

		got, err := s.LoadEquippedItems(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 6, got.ACModifier())
		require.NotNil(t, got.Slots[inventory.SlotBody])
		assert.Equal(t, "vest", got.Slots[inventory.SlotBody].ItemID)
		assert.Equal(t, inventory.KindWeapon, got.Slots[inventory.SlotRightHand].Kind)
		assert.Len(t, got.Misc, 2)

		eq.Unequip(inventory.SlotBody)
		require.NoError(t, s.SaveEquipment(ctx, eq))
		got, err = s.LoadEquippedItems(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.ACModifier())
	})

	t.Run("equipment rejects unknown items", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		eq := inventory.NewEquipment(created.ID)
		eq.AddMisc(&inventory.EquippedItem{Kind: inventory.KindArmor, ItemID: "cape"})
		assert.ErrorIs(t, s.SaveEquipment(ctx, eq), storage.ErrNotFound)
	})

	t.Run("snapshot", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		eq := inventory.NewEquipment(created.ID)
		_, err = eq.Equip(inventory.SlotBody, inventory.ArmorItem(Vest()))
		require.NoError(t, err)
		require.NoError(t, s.SaveEquipment(ctx, eq))
		sk := character.NewSkills(created.ID)
		require.NoError(t, sk.Set(character.Sneak, 3))
		require.NoError(t, s.SaveSkills(ctx, sk))

		snap, err := s.LoadSnapshot(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, snap.Character.ID)
		require.NotNil(t, snap.Race)
		assert.Equal(t, 4, snap.Race.Base.Hardiness)
		assert.Equal(t, 17, snap.Character.ArmorClass(snap.Equipment))
		r, _ := snap.Skills.Rank(character.Sneak)
		assert.Equal(t, 3, r)
	})

	t.Run("delete cascades", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		eq := inventory.NewEquipment(created.ID)
		eq.AddMisc(inventory.ArmorItem(Ring()))
		require.NoError(t, s.SaveEquipment(ctx, eq))

		require.NoError(t, s.DeleteCharacter(ctx, created.ID))
		_, err = s.LoadCharacter(ctx, created.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.ErrorIs(t, s.SaveSkills(ctx, character.NewSkills(created.ID)), storage.ErrNotFound)
		assert.ErrorIs(t, s.SaveEquipment(ctx, inventory.NewEquipment(created.ID)), storage.ErrNotFound)
	})

	t.Run("concurrent snapshots during updates", func(t *testing.T) {
		s := open(t, f)
		ctx := context.Background()
		created, err := s.CreateCharacter(ctx, newCharacter())
		require.NoError(t, err)
		engine := rules.NewEngine(s, dice.NewLoggedRoller(dice.NewSeededSource(1), zap.NewNop()), zap.NewNop())

		// before: dex 3, nothing equipped, AC 13.
		// after: dex 3, vest plus ring, AC 18.
		bare := inventory.NewEquipment(created.ID)
		kitted := inventory.NewEquipment(created.ID)
		_, err = kitted.Equip(inventory.SlotBody, inventory.ArmorItem(Vest()))
		require.NoError(t, err)
		kitted.AddMisc(inventory.ArmorItem(Ring()))
		require.NoError(t, s.SaveEquipment(ctx, bare))

		const rounds = 20
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				eq := bare
				if i%2 == 0 {
					eq = kitted
				}
				assert.NoError(t, s.SaveEquipment(ctx, eq))
			}
		}()
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				c := created.Clone()
				c.Notoriety = i
				c.Description = fmt.Sprintf("scout %d", i)
				assert.NoError(t, s.UpdateCharacter(ctx, c))
			}
		}()
		for r := 0; r < 4; r++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				for i := 0; i < rounds; i++ {
					snap, err := s.LoadSnapshot(ctx, created.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Contains(t, []int{13, 18}, snap.Character.ArmorClass(snap.Equipment))
					assert.Equal(t, 3, snap.Character.Attributes.Dexterity)
					if snap.Character.Description != "scout" {
						assert.Equal(t, fmt.Sprintf("scout %d", snap.Character.Notoriety), snap.Character.Description)
					}
				}
			}()
			go func() {
				defer wg.Done()
				for i := 0; i < rounds; i++ {
					sheet, err := engine.SheetByID(ctx, created.ID)
					if !assert.NoError(t, err) {
						return
					}
					assert.Contains(t, []int{13, 18}, sheet.ArmorClass)
				}
			}()
		}
		wg.Wait()

		sheet, err := engine.SheetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, 13, sheet.ArmorClass)
	})
}
