package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/l8nite/internal/game/dice"
	"github.com/cory-johannsen/l8nite/internal/game/inventory"
	"github.com/cory-johannsen/l8nite/internal/game/ruleset"
	"github.com/cory-johannsen/l8nite/internal/storage"
)

// CatalogRepository persists races, weapons, and armor.
type CatalogRepository struct {
	db *pgxpool.Pool
}

// NewCatalogRepository creates a CatalogRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewCatalogRepository(db *pgxpool.Pool) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// SaveRace inserts or replaces a race and its traits.
//
// Precondition: r passes Validate.
func (r *CatalogRepository) SaveRace(ctx context.Context, race *ruleset.Race) error {
	if err := race.Validate(); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		b := race.Base
		if _, err := tx.Exec(ctx, `
			INSERT INTO races (id, code, speed, base_har, base_str, base_dex, base_arc,
			                   base_log, base_acu, base_cha, base_int)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
			ON CONFLICT (id) DO UPDATE SET
				code = EXCLUDED.code, speed = EXCLUDED.speed,
				base_har = EXCLUDED.base_har, base_str = EXCLUDED.base_str,
				base_dex = EXCLUDED.base_dex, base_arc = EXCLUDED.base_arc,
				base_log = EXCLUDED.base_log, base_acu = EXCLUDED.base_acu,
				base_cha = EXCLUDED.base_cha, base_int = EXCLUDED.base_int`,
			race.ID, string(race.Code), race.Speed,
			b.Hardiness, b.Strength, b.Dexterity, b.Arcana,
			b.Logic, b.Acuity, b.Charisma, b.Intelligence,
		); err != nil {
			return fmt.Errorf("upserting race %q: %w", race.ID, err)
		}
		if _, err := tx.Exec(ctx, `DELETE FROM racial_traits WHERE race_id = $1`, race.ID); err != nil {
			return fmt.Errorf("clearing traits for race %q: %w", race.ID, err)
		}
		for i, t := range race.Traits {
			if _, err := tx.Exec(ctx,
				`INSERT INTO racial_traits (race_id, position, description) VALUES ($1,$2,$3)`,
				race.ID, i, t,
			); err != nil {
				return fmt.Errorf("inserting trait for race %q: %w", race.ID, err)
			}
		}
		return nil
	})
}

// LoadRace retrieves a race with its traits.
//
// Postcondition: Returns the Race or an error wrapping storage.ErrNotFound.
func (r *CatalogRepository) LoadRace(ctx context.Context, id string) (*ruleset.Race, error) {
	return loadRace(ctx, r.db, id)
}

func loadRace(ctx context.Context, q querier, id string) (*ruleset.Race, error) {
	var race ruleset.Race
	var code string
	b := &race.Base
	err := q.QueryRow(ctx, `
		SELECT id, code, speed, base_har, base_str, base_dex, base_arc,
		       base_log, base_acu, base_cha, base_int
		FROM races WHERE id = $1`,
		id,
	).Scan(&race.ID, &code, &race.Speed,
		&b.Hardiness, &b.Strength, &b.Dexterity, &b.Arcana,
		&b.Logic, &b.Acuity, &b.Charisma, &b.Intelligence,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("race %q: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("querying race: %w", err)
	}
	race.Code = ruleset.RaceCode(code)

	rows, err := q.Query(ctx,
		`SELECT description FROM racial_traits WHERE race_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying traits: %w", err)
	}
	traits, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scanning traits: %w", err)
	}
	if len(traits) > 0 {
		race.Traits = traits
	}
	return &race, nil
}

// SaveWeapon inserts or replaces a weapon.
//
// Precondition: w passes Validate.
func (r *CatalogRepository) SaveWeapon(ctx context.Context, w *inventory.Weapon) error {
	if err := w.Validate(); err != nil {
		return err
	}
	var ammo, attachments, enchantments *int
	if w.Arm != nil {
		ammo, attachments, enchantments = &w.Arm.Ammo, &w.Arm.Attachments, &w.Arm.Enchantments
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO weapons (id, name, class, damage_die_multiplier, damage_die,
		                     range_value, range_unit, cost, ammo, attachments, enchantments)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, class = EXCLUDED.class,
			damage_die_multiplier = EXCLUDED.damage_die_multiplier,
			damage_die = EXCLUDED.damage_die, range_value = EXCLUDED.range_value,
			range_unit = EXCLUDED.range_unit, cost = EXCLUDED.cost,
			ammo = EXCLUDED.ammo, attachments = EXCLUDED.attachments,
			enchantments = EXCLUDED.enchantments`,
		w.ID, w.Name, string(w.Class), w.DamageDieMultiplier, string(w.DamageDie),
		w.Range, string(w.RangeUnit), w.Cost, ammo, attachments, enchantments,
	)
	if err != nil {
		return fmt.Errorf("upserting weapon %q: %w", w.ID, err)
	}
	return nil
}

// LoadWeapon retrieves a weapon.
//
// Postcondition: Returns the Weapon or an error wrapping storage.ErrNotFound.
func (r *CatalogRepository) LoadWeapon(ctx context.Context, id string) (*inventory.Weapon, error) {
	var w inventory.Weapon
	var class, die, unit string
	var ammo, attachments, enchantments *int
	err := r.db.QueryRow(ctx, `
		SELECT id, name, class, damage_die_multiplier, damage_die,
		       range_value, range_unit, cost, ammo, attachments, enchantments
		FROM weapons WHERE id = $1`,
		id,
	).Scan(&w.ID, &w.Name, &class, &w.DamageDieMultiplier, &die,
		&w.Range, &unit, &w.Cost, &ammo, &attachments, &enchantments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("weapon %q: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("querying weapon: %w", err)
	}
	w.Class = inventory.WeaponClass(class)
	w.DamageDie = dice.DieType(die)
	w.RangeUnit = inventory.RangeUnit(unit)
	if ammo != nil {
		w.Arm = &inventory.ArmWeaponStats{Ammo: *ammo, Attachments: deref(attachments), Enchantments: deref(enchantments)}
	}
	return &w, nil
}

// SaveArmor inserts or replaces an armor piece.
//
// Precondition: a passes Validate.
func (r *CatalogRepository) SaveArmor(ctx context.Context, a *inventory.Armor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	var tier *string
	if a.Tier != "" {
		t := string(a.Tier)
		tier = &t
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO armors (id, name, armor_bonus, hardiness_requirement, cost,
		                    armor_type, tier, enchantments)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, armor_bonus = EXCLUDED.armor_bonus,
			hardiness_requirement = EXCLUDED.hardiness_requirement, cost = EXCLUDED.cost,
			armor_type = EXCLUDED.armor_type, tier = EXCLUDED.tier,
			enchantments = EXCLUDED.enchantments`,
		a.ID, a.Name, a.Bonus, a.HardinessRequirement, a.Cost, string(a.Type), tier, a.Enchantments,
	)
	if err != nil {
		return fmt.Errorf("upserting armor %q: %w", a.ID, err)
	}
	return nil
}

// LoadArmor retrieves an armor piece.
//
// Postcondition: Returns the Armor or an error wrapping storage.ErrNotFound.
func (r *CatalogRepository) LoadArmor(ctx context.Context, id string) (*inventory.Armor, error) {
	var a inventory.Armor
	var typ string
	var tier *string
	err := r.db.QueryRow(ctx, `
		SELECT id, name, armor_bonus, hardiness_requirement, cost, armor_type, tier, enchantments
		FROM armors WHERE id = $1`,
		id,
	).Scan(&a.ID, &a.Name, &a.Bonus, &a.HardinessRequirement, &a.Cost, &typ, &tier, &a.Enchantments)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("armor %q: %w", id, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("querying armor: %w", err)
	}
	a.Type = inventory.ArmorType(typ)
	if tier != nil {
		a.Tier = inventory.ArmorTier(*tier)
	}
	return &a, nil
}

func deref(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
