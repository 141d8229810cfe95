package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/rules"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store adapts the catalog and character repositories to storage.Store.
type Store struct {
	*CatalogRepository
	chars *CharacterRepository
	pool  *Pool
}

// NewStore creates a Store over pool. Close closes the pool.
//
// Precondition: pool must be connected and migrated.
func NewStore(pool *Pool) *Store {
	return &Store{
		CatalogRepository: NewCatalogRepository(pool.DB()),
		chars:             NewCharacterRepository(pool.DB()),
		pool:              pool,
	}
}

// Close releases the pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// CreateCharacter inserts c.
func (s *Store) CreateCharacter(ctx context.Context, c *character.Character) (*character.Character, error) {
	return s.chars.Create(ctx, c)
}

// UpdateCharacter updates c.
func (s *Store) UpdateCharacter(ctx context.Context, c *character.Character) error {
	return s.chars.Update(ctx, c)
}

// DeleteCharacter deletes a character and everything it owns.
func (s *Store) DeleteCharacter(ctx context.Context, id int64) error {
	return s.chars.Delete(ctx, id)
}

// ListCharacters lists every character.
func (s *Store) ListCharacters(ctx context.Context) ([]*character.Character, error) {
	return s.chars.List(ctx)
}

// LoadCharacter loads a character.
func (s *Store) LoadCharacter(ctx context.Context, id int64) (*character.Character, error) {
	return s.chars.GetByID(ctx, id)
}

// SaveSkills replaces a character's skills.
func (s *Store) SaveSkills(ctx context.Context, sk *character.Skills) error {
	return s.chars.SaveSkills(ctx, sk)
}

// LoadSkills loads a character's skills.
func (s *Store) LoadSkills(ctx context.Context, characterID int64) (*character.Skills, error) {
	return s.chars.LoadSkills(ctx, characterID)
}

// SaveEquipment replaces a character's equipment.
func (s *Store) SaveEquipment(ctx context.Context, eq *inventory.Equipment) error {
	return s.chars.SaveEquipment(ctx, eq)
}

// LoadEquippedItems loads a character's equipment.
func (s *Store) LoadEquippedItems(ctx context.Context, characterID int64) (*inventory.Equipment, error) {
	return s.chars.LoadEquippedItems(ctx, characterID)
}

// LoadSnapshot reads a character with its race, skills, and equipment inside
// one read-only repeatable-read transaction.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the character does not exist.
func (s *Store) LoadSnapshot(ctx context.Context, characterID int64) (*rules.Snapshot, error) {
	tx, err := s.pool.DB().BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.RepeatableRead,
		AccessMode: pgx.ReadOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("beginning snapshot: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	c, err := getCharacter(ctx, tx, characterID)
	if err != nil {
		return nil, err
	}
	snap := &rules.Snapshot{Character: c}
	if c.RaceID != "" {
		if snap.Race, err = loadRace(ctx, tx, c.RaceID); err != nil {
			return nil, err
		}
	}
	if snap.Skills, err = loadSkills(ctx, tx, characterID); err != nil {
		return nil, err
	}
	if snap.Equipment, err = loadEquipment(ctx, tx, characterID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing snapshot: %w", err)
	}
	return snap, nil
}
