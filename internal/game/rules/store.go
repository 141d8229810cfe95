package rules

import (
	"context"
	"fmt"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
)

//go:generate mockgen -destination=mock/mock_store.go -package=rulesmock github.com/cory-johannsen/l8nite/internal/game/rules Store

// Store is the record-storage collaborator the engine reads from.
// Implementations return an error wrapping storage.ErrNotFound for missing records.
type Store interface {
	LoadCharacter(ctx context.Context, id int64) (*character.Character, error)
	LoadRace(ctx context.Context, id string) (*ruleset.Race, error)
	LoadEquippedItems(ctx context.Context, characterID int64) (*inventory.Equipment, error)
	LoadSkills(ctx context.Context, characterID int64) (*character.Skills, error)
}

// SnapshotLoader is implemented by stores that can read a character and
// everything it owns in one consistent view.
type SnapshotLoader interface {
	LoadSnapshot(ctx context.Context, characterID int64) (*Snapshot, error)
}

// Snapshot is everything needed to derive one character's sheet.
// Race is nil for a character without a race.
type Snapshot struct {
	Character *character.Character
	Race      *ruleset.Race
	Equipment *inventory.Equipment
	Skills    *character.Skills
}

// loadSnapshot reads a Snapshot from s, using its SnapshotLoader when available.
func loadSnapshot(ctx context.Context, s Store, id int64) (*Snapshot, error) {
	if sl, ok := s.(SnapshotLoader); ok {
		return sl.LoadSnapshot(ctx, id)
	}
	c, err := s.LoadCharacter(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading character %d: %w", id, err)
	}
	snap := &Snapshot{Character: c}
	if c.RaceID != "" {
		if snap.Race, err = s.LoadRace(ctx, c.RaceID); err != nil {
			return nil, fmt.Errorf("loading race %q for character %d: %w", c.RaceID, id, err)
		}
	}
	if snap.Equipment, err = s.LoadEquippedItems(ctx, id); err != nil {
		return nil, fmt.Errorf("loading equipment for character %d: %w", id, err)
	}
	if snap.Skills, err = s.LoadSkills(ctx, id); err != nil {
		return nil, fmt.Errorf("loading skills for character %d: %w", id, err)
	}
	return snap, nil
}
