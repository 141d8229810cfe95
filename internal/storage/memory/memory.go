// Package memory provides an in-process record store guarded by a RWMutex.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/rules"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

type itemRef struct {
	kind inventory.ItemKind
	id   string
}

type equipmentRefs struct {
	slots map[inventory.Slot]itemRef
	misc  []itemRef
}

var _ storage.Store = (*Store)(nil)

// Store implements storage.Store in memory. Every read returns a copy, so
// callers never observe a later write through a value they already hold.
type Store struct {
	mu sync.RWMutex

	races   map[string]*ruleset.Race
	weapons map[string]*inventory.Weapon
	armors  map[string]*inventory.Armor

	nextID     int64
	characters map[int64]*character.Character
	skills     map[int64]*character.Skills
	equipment  map[int64]*equipmentRefs

	now func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		races:      make(map[string]*ruleset.Race),
		weapons:    make(map[string]*inventory.Weapon),
		armors:     make(map[string]*inventory.Armor),
		nextID:     1,
		characters: make(map[int64]*character.Character),
		skills:     make(map[int64]*character.Skills),
		equipment:  make(map[int64]*equipmentRefs),
		now:        time.Now,
	}
}

// Close is a no-op.
func (s *Store) Close() error { return nil }

// SaveRace inserts or replaces r.
func (s *Store) SaveRace(_ context.Context, r *ruleset.Race) error {
	if err := r.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.races[r.ID] = copyRace(r)
	return nil
}

// SaveWeapon inserts or replaces w.
func (s *Store) SaveWeapon(_ context.Context, w *inventory.Weapon) error {
	if err := w.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weapons[w.ID] = copyWeapon(w)
	return nil
}

// SaveArmor inserts or replaces a.
func (s *Store) SaveArmor(_ context.Context, a *inventory.Armor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.armors[a.ID] = &cp
	return nil
}

// LoadRace returns the race with the given ID.
func (s *Store) LoadRace(_ context.Context, id string) (*ruleset.Race, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.races[id]
	if !ok {
		return nil, fmt.Errorf("race %q: %w", id, storage.ErrNotFound)
	}
	return copyRace(r), nil
}

// LoadWeapon returns the weapon with the given ID.
func (s *Store) LoadWeapon(_ context.Context, id string) (*inventory.Weapon, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.weapons[id]
	if !ok {
		return nil, fmt.Errorf("weapon %q: %w", id, storage.ErrNotFound)
	}
	return copyWeapon(w), nil
}

// LoadArmor returns the armor with the given ID.
func (s *Store) LoadArmor(_ context.Context, id string) (*inventory.Armor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.armors[id]
	if !ok {
		return nil, fmt.Errorf("armor %q: %w", id, storage.ErrNotFound)
	}
	cp := *a
	return &cp, nil
}

// CreateCharacter stores c under a new ID with empty skills and equipment.
//
// Precondition: c.RaceID, when set, names a saved race.
// Postcondition: Returns a copy with ID and timestamps set.
func (s *Store) CreateCharacter(_ context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkRaceLocked(c.RaceID); err != nil {
		return nil, err
	}
	out := c.Clone()
	out.ID = s.nextID
	s.nextID++
	out.CreatedAt = s.now()
	out.UpdatedAt = out.CreatedAt
	s.characters[out.ID] = out
	s.skills[out.ID] = character.NewSkills(out.ID)
	s.equipment[out.ID] = &equipmentRefs{slots: make(map[inventory.Slot]itemRef)}
	return out.Clone(), nil
}

// UpdateCharacter replaces the stored fields of c.ID.
func (s *Store) UpdateCharacter(_ context.Context, c *character.Character) error {
	if err := c.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.characters[c.ID]
	if !ok {
		return fmt.Errorf("character %d: %w", c.ID, storage.ErrNotFound)
	}
	if err := s.checkRaceLocked(c.RaceID); err != nil {
		return err
	}
	out := c.Clone()
	out.CreatedAt = prev.CreatedAt
	out.UpdatedAt = s.now()
	s.characters[c.ID] = out
	return nil
}

// DeleteCharacter removes the character with its skills and equipment.
func (s *Store) DeleteCharacter(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characters[id]; !ok {
		return fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
	}
	delete(s.characters, id)
	delete(s.skills, id)
	delete(s.equipment, id)
	return nil
}

// ListCharacters returns every character ordered by ID.
func (s *Store) ListCharacters(_ context.Context) ([]*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*character.Character, 0, len(s.characters))
	for _, c := range s.characters {
		out = append(out, c.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// LoadCharacter returns the character with the given ID.
func (s *Store) LoadCharacter(_ context.Context, id int64) (*character.Character, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.characters[id]
	if !ok {
		return nil, fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
	}
	return c.Clone(), nil
}

// SaveSkills replaces the skill ranks of sk.CharacterID.
func (s *Store) SaveSkills(_ context.Context, sk *character.Skills) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characters[sk.CharacterID]; !ok {
		return fmt.Errorf("character %d: %w", sk.CharacterID, storage.ErrNotFound)
	}
	s.skills[sk.CharacterID] = sk.Clone()
	return nil
}

// LoadSkills returns the skill ranks of the given character.
func (s *Store) LoadSkills(_ context.Context, characterID int64) (*character.Skills, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadSkillsLocked(characterID)
}

// SaveEquipment replaces the equipped items of eq.CharacterID.
//
// Precondition: every item references a saved armor or weapon.
func (s *Store) SaveEquipment(_ context.Context, eq *inventory.Equipment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.characters[eq.CharacterID]; !ok {
		return fmt.Errorf("character %d: %w", eq.CharacterID, storage.ErrNotFound)
	}
	refs := &equipmentRefs{slots: make(map[inventory.Slot]itemRef)}
	for slot, it := range eq.Slots {
		if it == nil {
			continue
		}
		if !slot.Valid() {
			return fmt.Errorf("%w: %q", inventory.ErrInvalidSlot, slot)
		}
		if err := s.checkItemLocked(it); err != nil {
			return err
		}
		refs.slots[slot] = itemRef{kind: it.Kind, id: it.ItemID}
	}
	for _, it := range eq.Misc {
		if it == nil {
			continue
		}
		if err := s.checkItemLocked(it); err != nil {
			return err
		}
		refs.misc = append(refs.misc, itemRef{kind: it.Kind, id: it.ItemID})
	}
	s.equipment[eq.CharacterID] = refs
	return nil
}

// LoadEquippedItems returns the equipment of the given character with armor
// bonuses taken from the current catalog.
func (s *Store) LoadEquippedItems(_ context.Context, characterID int64) (*inventory.Equipment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadEquipmentLocked(characterID)
}

// LoadSnapshot reads a character with its race, skills, and equipment under a single read lock.
func (s *Store) LoadSnapshot(_ context.Context, characterID int64) (*rules.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.characters[characterID]
	if !ok {
		return nil, fmt.Errorf("character %d: %w", characterID, storage.ErrNotFound)
	}
	snap := &rules.Snapshot{Character: c.Clone()}
	if c.RaceID != "" {
		r, ok := s.races[c.RaceID]
		if !ok {
			return nil, fmt.Errorf("race %q: %w", c.RaceID, storage.ErrNotFound)
		}
		snap.Race = copyRace(r)
	}
	var err error
	if snap.Skills, err = s.loadSkillsLocked(characterID); err != nil {
		return nil, err
	}
	if snap.Equipment, err = s.loadEquipmentLocked(characterID); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadSkillsLocked(characterID int64) (*character.Skills, error) {
	sk, ok := s.skills[characterID]
	if !ok {
		return nil, fmt.Errorf("skills for character %d: %w", characterID, storage.ErrNotFound)
	}
	return sk.Clone(), nil
}

func (s *Store) loadEquipmentLocked(characterID int64) (*inventory.Equipment, error) {
	refs, ok := s.equipment[characterID]
	if !ok {
		return nil, fmt.Errorf("equipment for character %d: %w", characterID, storage.ErrNotFound)
	}
	eq := inventory.NewEquipment(characterID)
	for slot, ref := range refs.slots {
		if it := s.resolveLocked(ref); it != nil {
			eq.Slots[slot] = it
		}
	}
	for _, ref := range refs.misc {
		if it := s.resolveLocked(ref); it != nil {
			eq.Misc = append(eq.Misc, it)
		}
	}
	return eq, nil
}

// resolveLocked returns nil for references whose catalog record is gone.
func (s *Store) resolveLocked(ref itemRef) *inventory.EquippedItem {
	switch ref.kind {
	case inventory.KindArmor:
		if a, ok := s.armors[ref.id]; ok {
			return inventory.ArmorItem(a)
		}
	case inventory.KindWeapon:
		if w, ok := s.weapons[ref.id]; ok {
			return inventory.WeaponItem(w)
		}
	}
	return nil
}

func (s *Store) checkItemLocked(it *inventory.EquippedItem) error {
	if s.resolveLocked(itemRef{kind: it.Kind, id: it.ItemID}) == nil {
		return fmt.Errorf("%s %q: %w", it.Kind, it.ItemID, storage.ErrNotFound)
	}
	return nil
}

func (s *Store) checkRaceLocked(raceID string) error {
	if raceID == "" {
		return nil
	}
	if _, ok := s.races[raceID]; !ok {
		return fmt.Errorf("race %q: %w", raceID, storage.ErrNotFound)
	}
	return nil
}

func copyRace(r *ruleset.Race) *ruleset.Race {
	cp := *r
	cp.Traits = append([]string(nil), r.Traits...)
	return &cp
}

func copyWeapon(w *inventory.Weapon) *inventory.Weapon {
	cp := *w
	if w.Arm != nil {
		arm := *w.Arm
		cp.Arm = &arm
	}
	return &cp
}
