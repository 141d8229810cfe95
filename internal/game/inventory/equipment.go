package inventory

import (
	"errors"
	"fmt"
)

// ErrInvalidSlot is returned when an equipment slot name is not recognised.
var ErrInvalidSlot = errors.New("invalid equipment slot")

// Slot identifies a single-item equipment slot.
type Slot string

const (
	SlotHead      Slot = "head"
	SlotBody      Slot = "body"
	SlotLeftHand  Slot = "left_hand"
	SlotRightHand Slot = "right_hand"
)

// SlotMisc is the storage tag for items in the miscellaneous collection.
// It is not a Slot; any number of misc items may be equipped.
const SlotMisc = "misc"

var slots = []Slot{SlotHead, SlotBody, SlotLeftHand, SlotRightHand}

// Slots returns the four single-item slots in display order.
func Slots() []Slot {
	out := make([]Slot, len(slots))
	copy(out, slots)
	return out
}

// Valid reports whether s is one of the four single-item slots.
func (s Slot) Valid() bool {
	for _, v := range slots {
		if s == v {
			return true
		}
	}
	return false
}

// ParseSlot validates a slot name.
func ParseSlot(s string) (Slot, error) {
	if slot := Slot(s); slot.Valid() {
		return slot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidSlot, s)
}

// ItemKind says which catalog an equipped item comes from.
type ItemKind string

const (
	KindArmor  ItemKind = "armor"
	KindWeapon ItemKind = "weapon"
)

// EquippedItem records an item occupying a slot or the misc collection.
type EquippedItem struct {
	Kind       ItemKind
	ItemID     string
	Name       string
	ArmorBonus int
}

// ArmorItem returns the equipped form of a.
func ArmorItem(a *Armor) *EquippedItem {
	return &EquippedItem{Kind: KindArmor, ItemID: a.ID, Name: a.Name, ArmorBonus: a.Bonus}
}

// WeaponItem returns the equipped form of w. Weapons carry no armor bonus.
func WeaponItem(w *Weapon) *EquippedItem {
	return &EquippedItem{Kind: KindWeapon, ItemID: w.ID, Name: w.Name}
}

// Equipment is a character's equipped gear: four single-item slots plus any
// number of miscellaneous items such as rings and amulets.
type Equipment struct {
	CharacterID int64
	// Slots maps each Slot to the item equipped there; absent means empty.
	Slots map[Slot]*EquippedItem
	Misc  []*EquippedItem
}

// NewEquipment returns empty Equipment for the given character.
//
// Postcondition: Slots is a non-nil, empty map; Misc is empty.
func NewEquipment(characterID int64) *Equipment {
	return &Equipment{
		CharacterID: characterID,
		Slots:       make(map[Slot]*EquippedItem),
	}
}

// Equip places item in slot, replacing and returning any previous occupant.
//
// Precondition: item must be non-nil.
// Postcondition: Slots[slot] == item, or ErrInvalidSlot.
func (e *Equipment) Equip(slot Slot, item *EquippedItem) (*EquippedItem, error) {
	if !slot.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSlot, slot)
	}
	if e.Slots == nil {
		e.Slots = make(map[Slot]*EquippedItem)
	}
	prev := e.Slots[slot]
	e.Slots[slot] = item
	return prev, nil
}

// Unequip empties slot and returns what was there, or nil.
func (e *Equipment) Unequip(slot Slot) *EquippedItem {
	prev := e.Slots[slot]
	delete(e.Slots, slot)
	return prev
}

// AddMisc appends item to the miscellaneous collection.
func (e *Equipment) AddMisc(item *EquippedItem) {
	e.Misc = append(e.Misc, item)
}

// RemoveMisc removes the first misc item with the given ID and reports whether one was found.
func (e *Equipment) RemoveMisc(itemID string) bool {
	for i, it := range e.Misc {
		if it.ItemID == itemID {
			e.Misc = append(e.Misc[:i], e.Misc[i+1:]...)
			return true
		}
	}
	return false
}

// ACModifier sums the armor bonus of every slotted and miscellaneous item.
// Empty slots contribute 0; a nil Equipment contributes 0.
func (e *Equipment) ACModifier() int {
	if e == nil {
		return 0
	}
	total := 0
	for _, s := range slots {
		if it := e.Slots[s]; it != nil {
			total += it.ArmorBonus
		}
	}
	for _, it := range e.Misc {
		if it != nil {
			total += it.ArmorBonus
		}
	}
	return total
}

// Clone returns a deep copy of e.
func (e *Equipment) Clone() *Equipment {
	if e == nil {
		return nil
	}
	out := NewEquipment(e.CharacterID)
	for s, it := range e.Slots {
		if it != nil {
			cp := *it
			out.Slots[s] = &cp
		}
	}
	for _, it := range e.Misc {
		if it != nil {
			cp := *it
			out.Misc = append(out.Misc, &cp)
		}
	}
	return out
}
