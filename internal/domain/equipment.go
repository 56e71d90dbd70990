package domain

import "encoding/json"

// Equipment holds one optional item per category
type Equipment struct {
	Weapon *Item `json:"weapon"`
	Armor  *Item `json:"armor"`
	Potion *Item `json:"potion"`
}

// Slot returns the item equipped for category c, or nil
func (e Equipment) Slot(c Category) *Item {
	switch c {
	case CategoryWeapon:
		return e.Weapon
	case CategoryArmor:
		return e.Armor
	case CategoryPotion:
		return e.Potion
	}
	return nil
}

// Set equips item in the slot matching its category, replacing what was there
func (e *Equipment) Set(item Item) {
	v := item
	switch item.Type {
	case CategoryWeapon:
		e.Weapon = &v
	case CategoryArmor:
		e.Armor = &v
	case CategoryPotion:
		e.Potion = &v
	}
}

// Clear empties the slot for category c
func (e *Equipment) Clear(c Category) {
	switch c {
	case CategoryWeapon:
		e.Weapon = nil
	case CategoryArmor:
		e.Armor = nil
	case CategoryPotion:
		e.Potion = nil
	}
}

// IsEquipped reports whether the slot for item's category holds an item with the same name
func (e Equipment) IsEquipped(item Item) bool {
	slot := e.Slot(item.Type)
	return slot != nil && slot.Name == item.Name
}

// Items returns the equipped items in slot order, skipping empty slots
func (e Equipment) Items() []Item {
	var out []Item
	for _, c := range Categories {
		if slot := e.Slot(c); slot != nil {
			out = append(out, *slot)
		}
	}
	return out
}

// Clone returns a copy that shares no pointers with e
func (e Equipment) Clone() Equipment {
	var out Equipment
	for _, c := range Categories {
		if slot := e.Slot(c); slot != nil {
			out.Set(*slot)
		}
	}
	return out
}

// UnmarshalJSON decodes the slot object. Missing, null and unknown slots are
// left empty, as is a slot holding an item that cannot take its category.
// An untagged dice item takes the category of its slot.
func (e *Equipment) UnmarshalJSON(data []byte) error {
	var slots map[string]*Item
	if err := json.Unmarshal(data, &slots); err != nil {
		return err
	}

	*e = Equipment{}
	for _, c := range Categories {
		item := slots[string(c)]
		if item == nil {
			continue
		}
		if retagged, ok := item.As(c); ok {
			e.Set(retagged)
		}
	}
	return nil
}
