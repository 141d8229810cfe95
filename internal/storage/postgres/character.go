package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

const characterColumns = `id, first_name, last_name, alias, description, race_id, class_id, secondary,
       max_health, max_secondary,
       hardiness, strength, dexterity, arcana, logic, acuity, charisma, intelligence,
       notoriety, attribute_points, created_at, updated_at`

// CharacterRepository provides character persistence operations, including
// the skills and equipment each character owns.
type CharacterRepository struct {
	db *pgxpool.Pool
}

// NewCharacterRepository creates a CharacterRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCharacterRepository(db *pgxpool.Pool) *CharacterRepository {
	return &CharacterRepository{db: db}
}

func scanCharacter(row pgx.Row) (*character.Character, error) {
	var c character.Character
	var raceID *string
	var secondary string
	a := &c.Attributes
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Alias, &c.Description, &raceID, &c.ClassID, &secondary,
		&c.MaxHealth, &c.MaxSecondary,
		&a.Hardiness, &a.Strength, &a.Dexterity, &a.Arcana, &a.Logic, &a.Acuity, &a.Charisma, &a.Intelligence,
		&c.Notoriety, &c.AttributePoints, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if raceID != nil {
		c.RaceID = *raceID
	}
	c.Secondary = ruleset.SecondaryResource(secondary)
	return &c, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Create inserts a new character and returns it with ID and timestamps set.
//
// Precondition: c passes Validate; c.RaceID is empty or references a saved race.
// Postcondition: Returns the created character, or an error wrapping
// storage.ErrNotFound when the race does not exist.
func (r *CharacterRepository) Create(ctx context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	a := c.Attributes
	out, err := scanCharacter(r.db.QueryRow(ctx, `
		INSERT INTO characters
			(first_name, last_name, alias, description, race_id, class_id, secondary,
			 max_health, max_secondary,
			 hardiness, strength, dexterity, arcana, logic, acuity, charisma, intelligence,
			 notoriety, attribute_points)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)
		RETURNING `+characterColumns,
		c.FirstName, c.LastName, c.Alias, c.Description, nullable(c.RaceID), c.ClassID, string(c.Secondary),
		c.MaxHealth, c.MaxSecondary,
		a.Hardiness, a.Strength, a.Dexterity, a.Arcana, a.Logic, a.Acuity, a.Charisma, a.Intelligence,
		c.Notoriety, c.AttributePoints,
	))
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("race %q: %w", c.RaceID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("inserting character: %w", err)
	}
	return out, nil
}

// Update replaces the stored fields of c.ID.
//
// Postcondition: Returns nil on success, or an error wrapping storage.ErrNotFound
// when the character or its race does not exist.
func (r *CharacterRepository) Update(ctx context.Context, c *character.Character) error {
	if err := c.Validate(); err != nil {
		return err
	}
	a := c.Attributes
	tag, err := r.db.Exec(ctx, `
		UPDATE characters SET
			first_name = $2, last_name = $3, alias = $4, description = $5,
			race_id = $6, class_id = $7, secondary = $8,
			max_health = $9, max_secondary = $10,
			hardiness = $11, strength = $12, dexterity = $13, arcana = $14,
			logic = $15, acuity = $16, charisma = $17, intelligence = $18,
			notoriety = $19, attribute_points = $20, updated_at = NOW()
		WHERE id = $1`,
		c.ID, c.FirstName, c.LastName, c.Alias, c.Description,
		nullable(c.RaceID), c.ClassID, string(c.Secondary),
		c.MaxHealth, c.MaxSecondary,
		a.Hardiness, a.Strength, a.Dexterity, a.Arcana, a.Logic, a.Acuity, a.Charisma, a.Intelligence,
		c.Notoriety, c.AttributePoints,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("race %q: %w", c.RaceID, storage.ErrNotFound)
		}
		return fmt.Errorf("updating character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %d: %w", c.ID, storage.ErrNotFound)
	}
	return nil
}

// Delete removes a character; its skills and equipment rows cascade.
func (r *CharacterRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM characters WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting character: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// List returns all characters ordered by ID.
//
// Postcondition: Returns a slice (may be empty) or a non-nil error.
func (r *CharacterRepository) List(ctx context.Context) ([]*character.Character, error) {
	rows, err := r.db.Query(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning character row: %w", err)
		}
		chars = append(chars, c)
	}
	return chars, rows.Err()
}

// GetByID retrieves a character by its primary key.
//
// Postcondition: Returns the Character or an error wrapping storage.ErrNotFound.
func (r *CharacterRepository) GetByID(ctx context.Context, id int64) (*character.Character, error) {
	return getCharacter(ctx, r.db, id)
}

func getCharacter(ctx context.Context, q querier, id int64) (*character.Character, error) {
	c, err := scanCharacter(q.QueryRow(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("querying character: %w", err)
	}
	return c, nil
}

// SaveSkills replaces every skill rank of s.CharacterID.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the character does not exist.
func (r *CharacterRepository) SaveSkills(ctx context.Context, s *character.Skills) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockCharacter(ctx, tx, s.CharacterID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM character_skills WHERE character_id = $1`, s.CharacterID); err != nil {
			return fmt.Errorf("clearing skills: %w", err)
		}
		for name, rank := range s.Ranks() {
			if _, err := tx.Exec(ctx,
				`INSERT INTO character_skills (character_id, skill, rank) VALUES ($1,$2,$3)`,
				s.CharacterID, string(name), rank,
			); err != nil {
				return fmt.Errorf("inserting skill %s: %w", name, err)
			}
		}
		return nil
	})
}

// LoadSkills returns the skill ranks of a character.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the character does not exist.
func (r *CharacterRepository) LoadSkills(ctx context.Context, characterID int64) (*character.Skills, error) {
	if err := characterExists(ctx, r.db, characterID); err != nil {
		return nil, err
	}
	return loadSkills(ctx, r.db, characterID)
}

func loadSkills(ctx context.Context, q querier, characterID int64) (*character.Skills, error) {
	rows, err := q.Query(ctx,
		`SELECT skill, rank FROM character_skills WHERE character_id = $1`, characterID)
	if err != nil {
		return nil, fmt.Errorf("querying skills: %w", err)
	}
	defer rows.Close()

	s := character.NewSkills(characterID)
	for rows.Next() {
		var name string
		var rank int
		if err := rows.Scan(&name, &rank); err != nil {
			return nil, fmt.Errorf("scanning skill row: %w", err)
		}
		if err := s.Set(character.SkillName(name), rank); err != nil {
			return nil, fmt.Errorf("stored skill: %w", err)
		}
	}
	return s, rows.Err()
}

// SaveEquipment replaces every equipped item of eq.CharacterID.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the
// character or any referenced item does not exist.
func (r *CharacterRepository) SaveEquipment(ctx context.Context, eq *inventory.Equipment) error {
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := lockCharacter(ctx, tx, eq.CharacterID); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM character_equipment WHERE character_id = $1`, eq.CharacterID); err != nil {
			return fmt.Errorf("clearing equipment: %w", err)
		}
		insert := func(slot string, it *inventory.EquippedItem) error {
			var armorID, weaponID *string
			switch it.Kind {
			case inventory.KindArmor:
				armorID = &it.ItemID
			case inventory.KindWeapon:
				weaponID = &it.ItemID
			default:
				return fmt.Errorf("%s %q: %w", it.Kind, it.ItemID, storage.ErrNotFound)
			}
			_, err := tx.Exec(ctx, `
				INSERT INTO character_equipment (character_id, slot, armor_id, weapon_id)
				VALUES ($1,$2,$3,$4)`,
				eq.CharacterID, slot, armorID, weaponID,
			)
			if err != nil {
				if isForeignKeyError(err) {
					return fmt.Errorf("%s %q: %w", it.Kind, it.ItemID, storage.ErrNotFound)
				}
				return fmt.Errorf("inserting equipment: %w", err)
			}
			return nil
		}
		for _, slot := range inventory.Slots() {
			if it := eq.Slots[slot]; it != nil {
				if err := insert(string(slot), it); err != nil {
					return err
				}
			}
		}
		for _, it := range eq.Misc {
			if it != nil {
				if err := insert(inventory.SlotMisc, it); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// LoadEquippedItems returns a character's equipment with armor bonuses from the catalog.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the character does not exist.
func (r *CharacterRepository) LoadEquippedItems(ctx context.Context, characterID int64) (*inventory.Equipment, error) {
	if err := characterExists(ctx, r.db, characterID); err != nil {
		return nil, err
	}
	return loadEquipment(ctx, r.db, characterID)
}

func loadEquipment(ctx context.Context, q querier, characterID int64) (*inventory.Equipment, error) {
	rows, err := q.Query(ctx, `
		SELECT e.slot,
		       CASE WHEN e.armor_id IS NOT NULL THEN 'armor' ELSE 'weapon' END,
		       COALESCE(e.armor_id, e.weapon_id),
		       COALESCE(a.name, w.name),
		       COALESCE(a.armor_bonus, 0)
		FROM character_equipment e
		LEFT JOIN armors a ON a.id = e.armor_id
		LEFT JOIN weapons w ON w.id = e.weapon_id
		WHERE e.character_id = $1
		ORDER BY e.id`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying equipment: %w", err)
	}
	defer rows.Close()

	eq := inventory.NewEquipment(characterID)
	for rows.Next() {
		var slot, kind string
		it := &inventory.EquippedItem{}
		if err := rows.Scan(&slot, &kind, &it.ItemID, &it.Name, &it.ArmorBonus); err != nil {
			return nil, fmt.Errorf("scanning equipment row: %w", err)
		}
		it.Kind = inventory.ItemKind(kind)
		if slot == inventory.SlotMisc {
			eq.AddMisc(it)
			continue
		}
		if _, err := eq.Equip(inventory.Slot(slot), it); err != nil {
			return nil, fmt.Errorf("stored equipment: %w", err)
		}
	}
	return eq, rows.Err()
}

func characterExists(ctx context.Context, q querier, id int64) error {
	var exists bool
	if err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM characters WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("checking character: %w", err)
	}
	if !exists {
		return fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// lockCharacter takes a row lock so concurrent replacements of owned rows serialize.
func lockCharacter(ctx context.Context, tx pgx.Tx, id int64) error {
	var got int64
	err := tx.QueryRow(ctx, `SELECT id FROM characters WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
		}
		return fmt.Errorf("locking character: %w", err)
	}
	return nil
}
