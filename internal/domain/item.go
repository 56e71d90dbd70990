package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/osse101/armorsmith/internal/dice"
)

// Category identifies which equipment slot an item belongs to
type Category string

const (
	CategoryWeapon Category = "weapon"
	CategoryArmor  Category = "armor"
	CategoryPotion Category = "potion"
)

// Categories lists every category in catalog order
var Categories = []Category{CategoryWeapon, CategoryArmor, CategoryPotion}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	switch c {
	case CategoryWeapon, CategoryArmor, CategoryPotion:
		return true
	}
	return false
}

// Item is an immutable item value. Type selects which stat field is meaningful:
// HitDice for weapons, DamageReduction for armor, HealDice for potions.
type Item struct {
	Type            Category `json:"type"`
	Name            string   `json:"name"`
	Cost            int      `json:"cost"`
	HitDice         string   `json:"hit_dice,omitempty"`
	DamageReduction int      `json:"damage_reduction,omitempty"`
	HealDice        string   `json:"heal_dice,omitempty"`
}

// NewWeapon creates a weapon item
func NewWeapon(name string, cost int, hitDice string) (Item, error) {
	item := Item{Type: CategoryWeapon, Name: name, Cost: cost, HitDice: hitDice}
	return item, item.Validate()
}

// NewArmor creates an armor item
func NewArmor(name string, cost, damageReduction int) (Item, error) {
	item := Item{Type: CategoryArmor, Name: name, Cost: cost, DamageReduction: damageReduction}
	return item, item.Validate()
}

// NewPotion creates a healing potion item
func NewPotion(name string, cost int, healDice string) (Item, error) {
	item := Item{Type: CategoryPotion, Name: name, Cost: cost, HealDice: healDice}
	return item, item.Validate()
}

// Validate checks the item's common fields and its category-specific stat
func (i Item) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidItem)
	}
	if i.Cost < 0 {
		return fmt.Errorf("%w: '%s' has negative cost", ErrInvalidItem, i.Name)
	}

	switch i.Type {
	case CategoryWeapon:
		if _, err := dice.Parse(i.HitDice); err != nil {
			return fmt.Errorf("%w: weapon '%s': %v", ErrInvalidItem, i.Name, err)
		}
	case CategoryArmor:
		if i.DamageReduction < 0 {
			return fmt.Errorf("%w: armor '%s' has negative damage_reduction", ErrInvalidItem, i.Name)
		}
	case CategoryPotion:
		if _, err := dice.Parse(i.HealDice); err != nil {
			return fmt.Errorf("%w: potion '%s': %v", ErrInvalidItem, i.Name, err)
		}
	default:
		return fmt.Errorf("%w: '%s' has unknown type %q", ErrInvalidItem, i.Name, i.Type)
	}
	return nil
}

// SameKind reports whether two items share name and category
func (i Item) SameKind(other Item) bool {
	return i.Name == other.Name && i.Type == other.Type
}

// DamageRoll rolls the weapon's hit dice
func (i Item) DamageRoll(r dice.Roller) (int, error) {
	if i.Type != CategoryWeapon {
		return 0, fmt.Errorf("%w: '%s' is not a weapon", ErrInvalidItem, i.Name)
	}
	expr, err := dice.Parse(i.HitDice)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	return expr.Roll(r), nil
}

// BlockDamage applies the armor's damage reduction. The result is never negative.
func (i Item) BlockDamage(damage int) int {
	if i.Type != CategoryArmor {
		return damage
	}
	return max(damage-i.DamageReduction, 0)
}

// HealingRoll rolls the potion's heal dice
func (i Item) HealingRoll(r dice.Roller) (int, error) {
	if i.Type != CategoryPotion {
		return 0, fmt.Errorf("%w: '%s' is not a potion", ErrInvalidItem, i.Name)
	}
	expr, err := dice.Parse(i.HealDice)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidItem, err)
	}
	return expr.Roll(r), nil
}

// Stat returns the category-specific stat formatted for display
func (i Item) Stat() string {
	switch i.Type {
	case CategoryWeapon:
		return "hit_dice: " + i.HitDice
	case CategoryArmor:
		return fmt.Sprintf("damage_reduction: %d", i.DamageReduction)
	case CategoryPotion:
		return "heal_dice: " + i.HealDice
	}
	return ""
}

func (i Item) String() string {
	return i.Name
}

// itemObject is the tagged wire form, without Item's decoder
type itemObject Item

// UnmarshalJSON accepts the tagged object form and the untagged
// [name, cost, stat] array written by the first inventory files. An integer
// stat is armor damage reduction; a dice stat is a potion when the name says
// so and a weapon otherwise. Equipment slots re-tag by slot.
func (i *Item) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '[' {
		return json.Unmarshal(data, (*itemObject)(i))
	}

	var fields []json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if len(fields) != 3 {
		return fmt.Errorf("%w: expected [name, cost, stat], got %d fields", ErrInvalidItem, len(fields))
	}

	var out Item
	if err := json.Unmarshal(fields[0], &out.Name); err != nil {
		return fmt.Errorf("%w: name: %v", ErrInvalidItem, err)
	}
	cost, err := legacyInt(fields[1])
	if err != nil {
		return fmt.Errorf("%w: '%s' cost: %v", ErrInvalidItem, out.Name, err)
	}
	out.Cost = cost

	if reduction, err := legacyInt(fields[2]); err == nil {
		out.Type = CategoryArmor
		out.DamageReduction = reduction
	} else {
		var expr string
		if err := json.Unmarshal(fields[2], &expr); err != nil {
			return fmt.Errorf("%w: '%s' stat: %v", ErrInvalidItem, out.Name, err)
		}
		out.Type = CategoryWeapon
		out.HitDice = expr
		if strings.Contains(strings.ToLower(out.Name), string(CategoryPotion)) {
			out, _ = out.As(CategoryPotion)
		}
	}

	*i = out
	return nil
}

// legacyInt reads a JSON number or a quoted integer
func legacyInt(raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(s))
}

// As re-tags a dice item between weapon and potion. It reports false for
// any other conversion.
func (i Item) As(c Category) (Item, bool) {
	if i.Type == c {
		return i, true
	}
	switch {
	case i.Type == CategoryWeapon && c == CategoryPotion:
		i.HealDice, i.HitDice = i.HitDice, ""
	case i.Type == CategoryPotion && c == CategoryWeapon:
		i.HitDice, i.HealDice = i.HealDice, ""
	default:
		return i, false
	}
	i.Type = c
	return i, true
}
