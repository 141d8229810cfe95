package storage

import (
	"context"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/rules"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

// CatalogStore persists shared reference data.
type CatalogStore interface {
	SaveRace(ctx context.Context, r *ruleset.Race) error
	SaveWeapon(ctx context.Context, w *inventory.Weapon) error
	SaveArmor(ctx context.Context, a *inventory.Armor) error
	LoadRace(ctx context.Context, id string) (*ruleset.Race, error)
	LoadWeapon(ctx context.Context, id string) (*inventory.Weapon, error)
	LoadArmor(ctx context.Context, id string) (*inventory.Armor, error)
}

// CharacterStore persists characters and the skills and equipment they own.
// Deleting a character deletes its skills and equipment.
type CharacterStore interface {
	CreateCharacter(ctx context.Context, c *character.Character) (*character.Character, error)
	UpdateCharacter(ctx context.Context, c *character.Character) error
	DeleteCharacter(ctx context.Context, id int64) error
	ListCharacters(ctx context.Context) ([]*character.Character, error)
	SaveSkills(ctx context.Context, s *character.Skills) error
	SaveEquipment(ctx context.Context, eq *inventory.Equipment) error
}

// Store is implemented by every record store backend.
type Store interface {
	rules.Store
	rules.SnapshotLoader
	CatalogStore
	CharacterStore
	Close() error
}
