package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/cory-johannsen/l8nite/internal/game/dice"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

// SaveRace inserts or replaces a race and its traits.
func (s *Store) SaveRace(ctx context.Context, race *ruleset.Race) error {
	if err := race.Validate(); err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		b := race.Base
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO races (id, code, speed, base_har, base_str, base_dex, base_arc,
			                   base_log, base_acu, base_cha, base_int)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (id) DO UPDATE SET
				code = excluded.code, speed = excluded.speed,
				base_har = excluded.base_har, base_str = excluded.base_str,
				base_dex = excluded.base_dex, base_arc = excluded.base_arc,
				base_log = excluded.base_log, base_acu = excluded.base_acu,
				base_cha = excluded.base_cha, base_int = excluded.base_int`,
			race.ID, string(race.Code), race.Speed,
			b.Hardiness, b.Strength, b.Dexterity, b.Arcana,
			b.Logic, b.Acuity, b.Charisma, b.Intelligence,
		); err != nil {
			return fmt.Errorf("upsert race %q: %w", race.ID, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM racial_traits WHERE race_id = ?`, race.ID); err != nil {
			return fmt.Errorf("clear traits for race %q: %w", race.ID, err)
		}
		for i, t := range race.Traits {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO racial_traits (race_id, position, description) VALUES (?, ?, ?)`,
				race.ID, i, t,
			); err != nil {
				return fmt.Errorf("insert trait for race %q: %w", race.ID, err)
			}
		}
		return nil
	})
}

// LoadRace retrieves a race with its traits.
func (s *Store) LoadRace(ctx context.Context, id string) (*ruleset.Race, error) {
	return loadRace(ctx, s.db, id)
}

func loadRace(ctx context.Context, q querier, id string) (*ruleset.Race, error) {
	var race ruleset.Race
	var code string
	b := &race.Base
	err := q.QueryRowContext(ctx, `
		SELECT id, code, speed, base_har, base_str, base_dex, base_arc,
		       base_log, base_acu, base_cha, base_int
		FROM races WHERE id = ?`,
		id,
	).Scan(&race.ID, &code, &race.Speed,
		&b.Hardiness, &b.Strength, &b.Dexterity, &b.Arcana,
		&b.Logic, &b.Acuity, &b.Charisma, &b.Intelligence,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("race %q: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query race: %w", err)
	}
	race.Code = ruleset.RaceCode(code)

	rows, err := q.QueryContext(ctx,
		`SELECT description FROM racial_traits WHERE race_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("query traits: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan trait: %w", err)
		}
		race.Traits = append(race.Traits, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate traits: %w", err)
	}
	return &race, nil
}

// SaveWeapon inserts or replaces a weapon.
func (s *Store) SaveWeapon(ctx context.Context, w *inventory.Weapon) error {
	if err := w.Validate(); err != nil {
		return err
	}
	var ammo, attachments, enchantments sql.NullInt64
	if w.Arm != nil {
		ammo = sql.NullInt64{Int64: int64(w.Arm.Ammo), Valid: true}
		attachments = sql.NullInt64{Int64: int64(w.Arm.Attachments), Valid: true}
		enchantments = sql.NullInt64{Int64: int64(w.Arm.Enchantments), Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO weapons (id, name, class, damage_die_multiplier, damage_die,
		                     range_value, range_unit, cost, ammo, attachments, enchantments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, class = excluded.class,
			damage_die_multiplier = excluded.damage_die_multiplier,
			damage_die = excluded.damage_die, range_value = excluded.range_value,
			range_unit = excluded.range_unit, cost = excluded.cost,
			ammo = excluded.ammo, attachments = excluded.attachments,
			enchantments = excluded.enchantments`,
		w.ID, w.Name, string(w.Class), w.DamageDieMultiplier, string(w.DamageDie),
		w.Range, string(w.RangeUnit), w.Cost, ammo, attachments, enchantments,
	)
	if err != nil {
		return fmt.Errorf("upsert weapon %q: %w", w.ID, err)
	}
	return nil
}

// LoadWeapon retrieves a weapon.
func (s *Store) LoadWeapon(ctx context.Context, id string) (*inventory.Weapon, error) {
	var w inventory.Weapon
	var class, die, unit string
	var ammo, attachments, enchantments sql.NullInt64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, class, damage_die_multiplier, damage_die,
		       range_value, range_unit, cost, ammo, attachments, enchantments
		FROM weapons WHERE id = ?`,
		id,
	).Scan(&w.ID, &w.Name, &class, &w.DamageDieMultiplier, &die,
		&w.Range, &unit, &w.Cost, &ammo, &attachments, &enchantments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("weapon %q: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query weapon: %w", err)
	}
	w.Class = inventory.WeaponClass(class)
	w.DamageDie = dice.DieType(die)
	w.RangeUnit = inventory.RangeUnit(unit)
	if ammo.Valid {
		w.Arm = &inventory.ArmWeaponStats{
			Ammo:         int(ammo.Int64),
			Attachments:  int(attachments.Int64),
			Enchantments: int(enchantments.Int64),
		}
	}
	return &w, nil
}

// SaveArmor inserts or replaces an armor piece.
func (s *Store) SaveArmor(ctx context.Context, a *inventory.Armor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO armors (id, name, armor_bonus, hardiness_requirement, cost,
		                    armor_type, tier, enchantments)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name, armor_bonus = excluded.armor_bonus,
			hardiness_requirement = excluded.hardiness_requirement, cost = excluded.cost,
			armor_type = excluded.armor_type, tier = excluded.tier,
			enchantments = excluded.enchantments`,
		a.ID, a.Name, a.Bonus, a.HardinessRequirement, a.Cost,
		string(a.Type), nullString(string(a.Tier)), a.Enchantments,
	)
	if err != nil {
		return fmt.Errorf("upsert armor %q: %w", a.ID, err)
	}
	return nil
}

// LoadArmor retrieves an armor piece.
func (s *Store) LoadArmor(ctx context.Context, id string) (*inventory.Armor, error) {
	var a inventory.Armor
	var typ string
	var tier sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, armor_bonus, hardiness_requirement, cost, armor_type, tier, enchantments
		FROM armors WHERE id = ?`,
		id,
	).Scan(&a.ID, &a.Name, &a.Bonus, &a.HardinessRequirement, &a.Cost, &typ, &tier, &a.Enchantments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("armor %q: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("query armor: %w", err)
	}
	a.Type = inventory.ArmorType(typ)
	a.Tier = inventory.ArmorTier(tier.String)
	return &a, nil
}
