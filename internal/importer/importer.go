package importer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

// Summary counts the records an import wrote.
type Summary struct {
	Races      int
	Weapons    int
	Armors     int
	Characters int
	// Updated counts the characters that matched an existing record by display name.
	Updated int
	// CharacterIDs holds the ID assigned to each imported character, in import order.
	CharacterIDs []int64
}

// Importer orchestrates content import from a Source into a record store.
type Importer struct {
	source Source
	store  storage.Store
	logger *zap.Logger
}

// New constructs an Importer backed by the given Source and store.
//
// Precondition: source, store, and logger must be non-nil.
// Postcondition: returns a non-nil Importer.
func New(source Source, store storage.Store, logger *zap.Logger) *Importer {
	return &Importer{source: source, store: store, logger: logger}
}

// Run loads the source bundle and saves it: races, weapons, and armor
// first, then each character with its skills and equipment. A character
// whose display name matches a stored character replaces that record, so
// importing the same bundle twice leaves one copy of each character.
//
// Postcondition: every record is saved, or the first error is returned.
// Catalog records saved before the error stay saved. A character that
// fails to import leaves no partial record behind.
func (imp *Importer) Run(ctx context.Context) (*Summary, error) {
	overall := time.Now()

	bundle, err := imp.source.Load()
	if err != nil {
		return nil, fmt.Errorf("loading source: %w", err)
	}
	imp.logger.Info("content loaded",
		zap.Int("races", len(bundle.Races)),
		zap.Int("weapons", len(bundle.Weapons)),
		zap.Int("armor", len(bundle.Armors)),
		zap.Int("characters", len(bundle.Characters)),
	)

	sum := &Summary{}
	for _, r := range bundle.Races {
		if err := imp.store.SaveRace(ctx, r); err != nil {
			return sum, fmt.Errorf("saving race %q: %w", r.ID, err)
		}
		sum.Races++
	}
	for _, w := range bundle.Weapons {
		if err := imp.store.SaveWeapon(ctx, w); err != nil {
			return sum, fmt.Errorf("saving weapon %q: %w", w.ID, err)
		}
		sum.Weapons++
	}
	for _, a := range bundle.Armors {
		if err := imp.store.SaveArmor(ctx, a); err != nil {
			return sum, fmt.Errorf("saving armor %q: %w", a.ID, err)
		}
		sum.Armors++
	}
	existing, err := imp.characterIndex(ctx)
	if err != nil {
		return sum, err
	}
	for _, spec := range bundle.Characters {
		id, updated, err := imp.importCharacter(ctx, spec, existing)
		if err != nil {
			return sum, fmt.Errorf("importing character %q: %w", spec.displayName(), err)
		}
		sum.Characters++
		if updated {
			sum.Updated++
		}
		sum.CharacterIDs = append(sum.CharacterIDs, id)
	}

	imp.logger.Info("content imported",
		zap.Int("races", sum.Races),
		zap.Int("weapons", sum.Weapons),
		zap.Int("armor", sum.Armors),
		zap.Int("characters", sum.Characters),
		zap.Int("updated", sum.Updated),
		zap.Duration("elapsed", time.Since(overall)),
	)
	return sum, nil
}

func (spec *CharacterSpec) displayName() string {
	c := character.Character{FirstName: spec.FirstName, LastName: spec.LastName, Alias: spec.Alias}
	return c.DisplayName()
}

// characterIndex maps the display name of every stored character to its ID.
func (imp *Importer) characterIndex(ctx context.Context) (map[string]int64, error) {
	chars, err := imp.store.ListCharacters(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	index := make(map[string]int64, len(chars))
	for _, c := range chars {
		if _, dup := index[c.DisplayName()]; !dup {
			index[c.DisplayName()] = c.ID
		}
	}
	return index, nil
}

// importCharacter saves spec as a new character, or over the character
// named in existing. Every reference is resolved before the first write.
//
// Postcondition: on error no character created by this call remains stored.
func (imp *Importer) importCharacter(ctx context.Context, spec *CharacterSpec, existing map[string]int64) (int64, bool, error) {
	c, skills, eq, err := imp.prepareCharacter(ctx, spec)
	if err != nil {
		return 0, false, err
	}
	name := c.DisplayName()

	if id, ok := existing[name]; ok {
		c.ID = id
		if err := imp.store.UpdateCharacter(ctx, c); err != nil {
			return 0, false, err
		}
		if err := imp.saveLoadout(ctx, id, skills, eq); err != nil {
			return 0, false, err
		}
		imp.logger.Debug("character updated",
			zap.Int64("character_id", id),
			zap.String("name", name),
		)
		return id, true, nil
	}

	created, err := imp.store.CreateCharacter(ctx, c)
	if err != nil {
		return 0, false, err
	}
	if err := imp.saveLoadout(ctx, created.ID, skills, eq); err != nil {
		if derr := imp.store.DeleteCharacter(ctx, created.ID); derr != nil {
			return 0, false, errors.Join(err, fmt.Errorf("removing character %d: %w", created.ID, derr))
		}
		return 0, false, err
	}
	existing[name] = created.ID

	imp.logger.Debug("character imported",
		zap.Int64("character_id", created.ID),
		zap.String("name", name),
	)
	return created.ID, false, nil
}

func (imp *Importer) saveLoadout(ctx context.Context, id int64, skills *character.Skills, eq *inventory.Equipment) error {
	skills.CharacterID = id
	if err := imp.store.SaveSkills(ctx, skills); err != nil {
		return err
	}
	eq.CharacterID = id
	return imp.store.SaveEquipment(ctx, eq)
}

// prepareCharacter builds the character, skills, and equipment described by
// spec without writing anything.
func (imp *Importer) prepareCharacter(ctx context.Context, spec *CharacterSpec) (*character.Character, *character.Skills, *inventory.Equipment, error) {
	var race *ruleset.Race
	if spec.Race != "" {
		r, err := imp.store.LoadRace(ctx, spec.Race)
		if err != nil {
			return nil, nil, nil, err
		}
		race = r
	}
	var secondary ruleset.SecondaryResource
	if spec.Secondary != "" {
		s, err := ruleset.ParseSecondaryResource(spec.Secondary)
		if err != nil {
			return nil, nil, nil, err
		}
		secondary = s
	}
	c, err := character.Build(character.Options{
		FirstName:       spec.FirstName,
		LastName:        spec.LastName,
		Alias:           spec.Alias,
		Description:     spec.Description,
		Race:            race,
		ClassID:         NameToID(spec.Class),
		Secondary:       secondary,
		AttributePoints: spec.AttributePoints,
		MaxHealth:       spec.MaxHealth,
		MaxSecondary:    spec.MaxSecondary,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	c.Attributes = spec.Attributes
	c.Notoriety = spec.Notoriety

	skills, err := spec.skills()
	if err != nil {
		return nil, nil, nil, err
	}

	eq := inventory.NewEquipment(0)
	for _, sa := range spec.Equipment.slotted() {
		item, err := imp.resolveItem(ctx, sa.itemID)
		if err != nil {
			return nil, nil, nil, err
		}
		if _, err := eq.Equip(sa.slot, item); err != nil {
			return nil, nil, nil, err
		}
	}
	for _, id := range spec.Equipment.Misc {
		item, err := imp.resolveItem(ctx, id)
		if err != nil {
			return nil, nil, nil, err
		}
		eq.AddMisc(item)
	}
	return c, skills, eq, nil
}

// skills converts the character file's skill map. Keys may be IDs or display names.
func (spec *CharacterSpec) skills() (*character.Skills, error) {
	out := character.NewSkills(0)
	for key, rank := range spec.Skills {
		name, err := character.ParseSkillName(NameToID(key))
		if err != nil {
			return nil, err
		}
		if err := out.Set(name, rank); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// resolveItem looks id up as armor first, then as a weapon.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when neither catalog holds id.
func (imp *Importer) resolveItem(ctx context.Context, id string) (*inventory.EquippedItem, error) {
	a, err := imp.store.LoadArmor(ctx, id)
	if err == nil {
		return inventory.ArmorItem(a), nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}
	w, err := imp.store.LoadWeapon(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("item %q: %w", id, err)
	}
	return inventory.WeaponItem(w), nil
}
