package item

import (
	"fmt"

	"golang.org/x/text/cases"

	"github.com/osse101/armorsmith/internal/domain"
)

// Catalog is the read-only set of purchasable items, kept in source order
// per category
type Catalog struct {
	byCategory map[domain.Category][]domain.Item
}

// NewCatalog builds a catalog from a validated config
func NewCatalog(config *Config) (*Catalog, error) {
	if config == nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidCatalog, ErrMsgConfigNil)
	}

	c := &Catalog{
		byCategory: make(map[domain.Category][]domain.Item, len(domain.Categories)),
	}
	for _, category := range domain.Categories {
		items, err := config.items(category)
		if err != nil {
			return nil, err
		}
		c.byCategory[category] = items
	}
	return c, nil
}

// Lookup finds an item by exact, case-sensitive name, searching weapons,
// then armor, then potions
func (c *Catalog) Lookup(name string) (domain.Item, error) {
	for _, category := range domain.Categories {
		for _, item := range c.byCategory[category] {
			if item.Name == name {
				return item, nil
			}
		}
	}
	return domain.Item{}, fmt.Errorf("%w: '%s'", domain.ErrItemNotFound, name)
}

// Suggest returns the names equal to name under Unicode case folding, for
// "did you mean" replies after a failed Lookup
func (c *Catalog) Suggest(name string) []string {
	// a Caser holds state, so each call gets its own
	folder := cases.Fold()
	want := folder.String(name)
	var out []string
	for _, item := range c.All() {
		if folder.String(item.Name) == want {
			out = append(out, item.Name)
		}
	}
	return out
}

// Weapons returns the weapons in source order
func (c *Catalog) Weapons() []domain.Item { return c.Category(domain.CategoryWeapon) }

// Armor returns the armor in source order
func (c *Catalog) Armor() []domain.Item { return c.Category(domain.CategoryArmor) }

// Potions returns the potions in source order
func (c *Catalog) Potions() []domain.Item { return c.Category(domain.CategoryPotion) }

// Category returns a copy of one category's items
func (c *Catalog) Category(category domain.Category) []domain.Item {
	items := c.byCategory[category]
	out := make([]domain.Item, len(items))
	copy(out, items)
	return out
}

// All returns every item, weapons first
func (c *Catalog) All() []domain.Item {
	var out []domain.Item
	for _, category := range domain.Categories {
		out = append(out, c.byCategory[category]...)
	}
	return out
}

// Len returns the number of items in the catalog
func (c *Catalog) Len() int {
	n := 0
	for _, items := range c.byCategory {
		n += len(items)
	}
	return n
}

// LoadCatalog loads the catalog at path, or the embedded default when path
// is empty, and validates it
func LoadCatalog(path string) (*Catalog, error) {
	loader, err := NewLoader()
	if err != nil {
		return nil, err
	}

	var config *Config
	if path == "" {
		config, err = loader.LoadDefault()
	} else {
		config, err = loader.Load(path)
	}
	if err != nil {
		return nil, err
	}

	if err := loader.Validate(config); err != nil {
		return nil, err
	}
	return NewCatalog(config)
}
