package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cory-johannsen/l8nite/internal/game/character"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

const characterColumns = `id, first_name, last_name, alias, description, race_id, class_id, secondary,
       max_health, max_secondary,
       hardiness, strength, dexterity, arcana, logic, acuity, charisma, intelligence,
       notoriety, attribute_points, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCharacter(row rowScanner) (*character.Character, error) {
	var c character.Character
	var raceID sql.NullString
	var secondary string
	var createdAt, updatedAt int64
	a := &c.Attributes
	err := row.Scan(
		&c.ID, &c.FirstName, &c.LastName, &c.Alias, &c.Description, &raceID, &c.ClassID, &secondary,
		&c.MaxHealth, &c.MaxSecondary,
		&a.Hardiness, &a.Strength, &a.Dexterity, &a.Arcana, &a.Logic, &a.Acuity, &a.Charisma, &a.Intelligence,
		&c.Notoriety, &c.AttributePoints, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	c.RaceID = raceID.String
	c.Secondary = ruleset.SecondaryResource(secondary)
	c.CreatedAt = fromMillis(createdAt)
	c.UpdatedAt = fromMillis(updatedAt)
	return &c, nil
}

// CreateCharacter inserts c and returns the stored copy with ID and timestamps set.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when c.RaceID names no race.
func (s *Store) CreateCharacter(ctx context.Context, c *character.Character) (*character.Character, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	now := toMillis(s.now())
	a := c.Attributes
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO characters
			(first_name, last_name, alias, description, race_id, class_id, secondary,
			 max_health, max_secondary,
			 hardiness, strength, dexterity, arcana, logic, acuity, charisma, intelligence,
			 notoriety, attribute_points, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.FirstName, c.LastName, c.Alias, c.Description, nullString(c.RaceID), c.ClassID, string(c.Secondary),
		c.MaxHealth, c.MaxSecondary,
		a.Hardiness, a.Strength, a.Dexterity, a.Arcana, a.Logic, a.Acuity, a.Charisma, a.Intelligence,
		c.Notoriety, c.AttributePoints, now, now,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return nil, fmt.Errorf("race %q: %w", c.RaceID, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("insert character: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("read character id: %w", err)
	}
	return getCharacter(ctx, s.db, id)
}

// UpdateCharacter replaces the stored fields of c.ID.
func (s *Store) UpdateCharacter(ctx context.Context, c *character.Character) error {
	if err := c.Validate(); err != nil {
		return err
	}
	a := c.Attributes
	res, err := s.db.ExecContext(ctx, `
		UPDATE characters SET
			first_name = ?, last_name = ?, alias = ?, description = ?,
			race_id = ?, class_id = ?, secondary = ?,
			max_health = ?, max_secondary = ?,
			hardiness = ?, strength = ?, dexterity = ?, arcana = ?,
			logic = ?, acuity = ?, charisma = ?, intelligence = ?,
			notoriety = ?, attribute_points = ?, updated_at = ?
		WHERE id = ?`,
		c.FirstName, c.LastName, c.Alias, c.Description,
		nullString(c.RaceID), c.ClassID, string(c.Secondary),
		c.MaxHealth, c.MaxSecondary,
		a.Hardiness, a.Strength, a.Dexterity, a.Arcana, a.Logic, a.Acuity, a.Charisma, a.Intelligence,
		c.Notoriety, c.AttributePoints, toMillis(s.now()), c.ID,
	)
	if err != nil {
		if isForeignKeyError(err) {
			return fmt.Errorf("race %q: %w", c.RaceID, storage.ErrNotFound)
		}
		return fmt.Errorf("update character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update character rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("character %d: %w", c.ID, storage.ErrNotFound)
	}
	return nil
}

// DeleteCharacter removes a character; its skills and equipment rows cascade.
func (s *Store) DeleteCharacter(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM characters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete character: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete character rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// ListCharacters returns all characters ordered by ID.
func (s *Store) ListCharacters(ctx context.Context) ([]*character.Character, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+characterColumns+` FROM characters ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list characters: %w", err)
	}
	defer rows.Close()

	chars := make([]*character.Character, 0)
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, fmt.Errorf("scan character: %w", err)
		}
		chars = append(chars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate characters: %w", err)
	}
	return chars, nil
}

// LoadCharacter retrieves a character by ID.
func (s *Store) LoadCharacter(ctx context.Context, id int64) (*character.Character, error) {
	return getCharacter(ctx, s.db, id)
}

func getCharacter(ctx context.Context, q querier, id int64) (*character.Character, error) {
	c, err := scanCharacter(q.QueryRowContext(ctx, `SELECT `+characterColumns+` FROM characters WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query character: %w", err)
	}
	return c, nil
}

func characterExists(ctx context.Context, q querier, id int64) error {
	var n int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM characters WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("check character: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("character %d: %w", id, storage.ErrNotFound)
	}
	return nil
}

// SaveSkills replaces every skill rank of sk.CharacterID.
func (s *Store) SaveSkills(ctx context.Context, sk *character.Skills) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := characterExists(ctx, tx, sk.CharacterID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM character_skills WHERE character_id = ?`, sk.CharacterID); err != nil {
			return fmt.Errorf("clear skills: %w", err)
		}
		for name, rank := range sk.Ranks() {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO character_skills (character_id, skill, rank) VALUES (?, ?, ?)`,
				sk.CharacterID, string(name), rank,
			); err != nil {
				return fmt.Errorf("insert skill %s: %w", name, err)
			}
		}
		return nil
	})
}

// LoadSkills returns the skill ranks of a character.
func (s *Store) LoadSkills(ctx context.Context, characterID int64) (*character.Skills, error) {
	if err := characterExists(ctx, s.db, characterID); err != nil {
		return nil, err
	}
	return loadSkills(ctx, s.db, characterID)
}

func loadSkills(ctx context.Context, q querier, characterID int64) (*character.Skills, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT skill, rank FROM character_skills WHERE character_id = ?`, characterID)
	if err != nil {
		return nil, fmt.Errorf("query skills: %w", err)
	}
	defer rows.Close()

	sk := character.NewSkills(characterID)
	for rows.Next() {
		var name string
		var rank int
		if err := rows.Scan(&name, &rank); err != nil {
			return nil, fmt.Errorf("scan skill: %w", err)
		}
		if err := sk.Set(character.SkillName(name), rank); err != nil {
			return nil, fmt.Errorf("stored skill: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate skills: %w", err)
	}
	return sk, nil
}

// SaveEquipment replaces every equipped item of eq.CharacterID.
//
// Postcondition: Returns an error wrapping storage.ErrNotFound when the
// character or any referenced item does not exist.
func (s *Store) SaveEquipment(ctx context.Context, eq *inventory.Equipment) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if err := characterExists(ctx, tx, eq.CharacterID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM character_equipment WHERE character_id = ?`, eq.CharacterID); err != nil {
			return fmt.Errorf("clear equipment: %w", err)
		}
		insert := func(slot string, it *inventory.EquippedItem) error {
			var armorID, weaponID sql.NullString
			switch it.Kind {
			case inventory.KindArmor:
				armorID = nullString(it.ItemID)
			case inventory.KindWeapon:
				weaponID = nullString(it.ItemID)
			}
			if !armorID.Valid && !weaponID.Valid {
				return fmt.Errorf("%s %q: %w", it.Kind, it.ItemID, storage.ErrNotFound)
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO character_equipment (character_id, slot, armor_id, weapon_id) VALUES (?, ?, ?, ?)`,
				eq.CharacterID, slot, armorID, weaponID,
			)
			if err != nil {
				if isForeignKeyError(err) {
					return fmt.Errorf("%s %q: %w", it.Kind, it.ItemID, storage.ErrNotFound)
				}
				return fmt.Errorf("insert equipment: %w", err)
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
func (s *Store) LoadEquippedItems(ctx context.Context, characterID int64) (*inventory.Equipment, error) {
	if err := characterExists(ctx, s.db, characterID); err != nil {
		return nil, err
	}
	return loadEquipment(ctx, s.db, characterID)
}

func loadEquipment(ctx context.Context, q querier, characterID int64) (*inventory.Equipment, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT e.slot,
		       CASE WHEN e.armor_id IS NOT NULL THEN 'armor' ELSE 'weapon' END,
		       COALESCE(e.armor_id, e.weapon_id),
		       COALESCE(a.name, w.name, ''),
		       COALESCE(a.armor_bonus, 0)
		FROM character_equipment e
		LEFT JOIN armors a ON a.id = e.armor_id
		LEFT JOIN weapons w ON w.id = e.weapon_id
		WHERE e.character_id = ?
		ORDER BY e.id`,
		characterID,
	)
	if err != nil {
		return nil, fmt.Errorf("query equipment: %w", err)
	}
	defer rows.Close()

	eq := inventory.NewEquipment(characterID)
	for rows.Next() {
		var slot, kind string
		it := &inventory.EquippedItem{}
		if err := rows.Scan(&slot, &kind, &it.ItemID, &it.Name, &it.ArmorBonus); err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
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
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate equipment: %w", err)
	}
	return eq, nil
}
