package inventory

import (
	"fmt"
	"sort"
)

// Registry holds all loaded weapon, armor, attachment, and enchantment definitions indexed by ID.
//
// A Registry is populated once at startup and read-only afterwards; concurrent
// reads are safe once registration is complete.
type Registry struct {
	weapons      map[string]*Weapon
	armors       map[string]*Armor
	attachments  map[string]*Attachment
	enchantments map[string]*Enchantment
}

// NewRegistry returns an empty Registry.
//
// Postcondition: all internal maps are initialised.
func NewRegistry() *Registry {
	return &Registry{
		weapons:      make(map[string]*Weapon),
		armors:       make(map[string]*Armor),
		attachments:  make(map[string]*Attachment),
		enchantments: make(map[string]*Enchantment),
	}
}

// RegisterWeapon adds w to the registry.
//
// Precondition:  w must not be nil.
// Postcondition: Weapon(w.ID) returns w; returns error if w.ID already registered.
func (r *Registry) RegisterWeapon(w *Weapon) error {
	if _, exists := r.weapons[w.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterWeapon: weapon ID %q already registered", w.ID)
	}
	r.weapons[w.ID] = w
	return nil
}

// RegisterArmor adds a to the registry.
//
// Precondition:  a must not be nil.
// Postcondition: Armor(a.ID) returns a; returns error if a.ID already registered.
func (r *Registry) RegisterArmor(a *Armor) error {
	if _, exists := r.armors[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterArmor: armor ID %q already registered", a.ID)
	}
	r.armors[a.ID] = a
	return nil
}

// RegisterAttachment adds a to the registry.
func (r *Registry) RegisterAttachment(a *Attachment) error {
	if _, exists := r.attachments[a.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterAttachment: attachment ID %q already registered", a.ID)
	}
	r.attachments[a.ID] = a
	return nil
}

// RegisterEnchantment adds e to the registry.
func (r *Registry) RegisterEnchantment(e *Enchantment) error {
	if _, exists := r.enchantments[e.ID]; exists {
		return fmt.Errorf("inventory: Registry.RegisterEnchantment: enchantment ID %q already registered", e.ID)
	}
	r.enchantments[e.ID] = e
	return nil
}

// Weapon returns the Weapon for the given id and whether it was found.
func (r *Registry) Weapon(id string) (*Weapon, bool) {
	w, ok := r.weapons[id]
	return w, ok
}

// Armor returns the Armor for the given id and whether it was found.
func (r *Registry) Armor(id string) (*Armor, bool) {
	a, ok := r.armors[id]
	return a, ok
}

// Attachment returns the Attachment for the given id and whether it was found.
func (r *Registry) Attachment(id string) (*Attachment, bool) {
	a, ok := r.attachments[id]
	return a, ok
}

// Enchantment returns the Enchantment for the given id and whether it was found.
func (r *Registry) Enchantment(id string) (*Enchantment, bool) {
	e, ok := r.enchantments[id]
	return e, ok
}

// Item resolves a catalog reference to its equipped form.
//
// Postcondition: ok is false when kind is unknown or id is not registered.
func (r *Registry) Item(kind ItemKind, id string) (*EquippedItem, bool) {
	switch kind {
	case KindArmor:
		if a, ok := r.armors[id]; ok {
			return ArmorItem(a), true
		}
	case KindWeapon:
		if w, ok := r.weapons[id]; ok {
			return WeaponItem(w), true
		}
	}
	return nil, false
}

// AllWeapons returns all registered Weapons sorted by ID.
func (r *Registry) AllWeapons() []*Weapon {
	out := make([]*Weapon, 0, len(r.weapons))
	for _, w := range r.weapons {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllAttachments returns all registered Attachments sorted by ID.
func (r *Registry) AllAttachments() []*Attachment {
	out := make([]*Attachment, 0, len(r.attachments))
	for _, a := range r.attachments {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllEnchantments returns all registered Enchantments sorted by ID.
func (r *Registry) AllEnchantments() []*Enchantment {
	out := make([]*Enchantment, 0, len(r.enchantments))
	for _, e := range r.enchantments {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllArmors returns all registered Armor sorted by ID.
func (r *Registry) AllArmors() []*Armor {
	out := make([]*Armor, 0, len(r.armors))
	for _, a := range r.armors {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// LoadRegistry loads weapons from weaponsDir and armor from armorDir into a new Registry.
//
// Postcondition: Returns a populated Registry or the first load/registration error.
func LoadRegistry(weaponsDir, armorDir string) (*Registry, error) {
	reg := NewRegistry()
	weapons, err := LoadWeapons(weaponsDir)
	if err != nil {
		return nil, err
	}
	for _, w := range weapons {
		if err := reg.RegisterWeapon(w); err != nil {
			return nil, err
		}
	}
	armors, err := LoadArmors(armorDir)
	if err != nil {
		return nil, err
	}
	for _, a := range armors {
		if err := reg.RegisterArmor(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LoadCrafting adds attachments from attachmentsDir and enchantments from
// enchantmentsDir to r. An empty directory argument is skipped.
//
// Postcondition: Returns the first load or registration error.
func (r *Registry) LoadCrafting(attachmentsDir, enchantmentsDir string) error {
	if attachmentsDir != "" {
		attachments, err := LoadAttachments(attachmentsDir)
		if err != nil {
			return err
		}
		for _, a := range attachments {
			if err := r.RegisterAttachment(a); err != nil {
				return err
			}
		}
	}
	if enchantmentsDir != "" {
		enchantments, err := LoadEnchantments(enchantmentsDir)
		if err != nil {
			return err
		}
		for _, e := range enchantments {
			if err := r.RegisterEnchantment(e); err != nil {
				return err
			}
		}
	}
	return nil
}
