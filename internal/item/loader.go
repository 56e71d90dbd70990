package item

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/osse101/armorsmith/internal/domain"
	"github.com/osse101/armorsmith/internal/validation"
)

// ErrInvalidCatalog wraps every catalog validation failure
var ErrInvalidCatalog = errors.New("invalid item catalog")

//go:embed catalog.schema.json
var catalogSchema []byte

//go:embed items.json
var defaultCatalog []byte

// Config is the catalog source document: three ordered lists of definitions
type Config struct {
	Weapons []Def `json:"weapons_list" yaml:"weapons_list"`
	Armor   []Def `json:"armor_list" yaml:"armor_list"`
	Potions []Def `json:"potion_list" yaml:"potion_list"`
}

// Def is one catalog entry. Only the stat matching its list is read.
type Def struct {
	Name            string `json:"name" yaml:"name"`
	Cost            int    `json:"cost" yaml:"cost"`
	HitDice         string `json:"hit_dice,omitempty" yaml:"hit_dice,omitempty"`
	DamageReduction int    `json:"damage_reduction,omitempty" yaml:"damage_reduction,omitempty"`
	HealDice        string `json:"heal_dice,omitempty" yaml:"heal_dice,omitempty"`
}

// Loader reads and validates catalog documents
type Loader interface {
	Load(path string) (*Config, error)
	LoadDefault() (*Config, error)
	Parse(data []byte, format, source string) (*Config, error)
	Validate(config *Config) error
}

type catalogLoader struct {
	schemaValidator validation.SchemaValidator
}

// NewLoader creates a new Loader instance
func NewLoader() (Loader, error) {
	v := validation.NewSchemaValidator()
	if err := v.AddSchema(SchemaName, catalogSchema); err != nil {
		return nil, fmt.Errorf(ErrMsgSchemaSetupFailed, err)
	}
	return &catalogLoader{schemaValidator: v}, nil
}

// Load reads a catalog file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func (l *catalogLoader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadCatalogFailed, path, err)
	}

	format := "json"
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		format = "yaml"
	}
	return l.Parse(data, format, path)
}

// LoadDefault parses the catalog compiled into the binary
func (l *catalogLoader) LoadDefault() (*Config, error) {
	return l.Parse(defaultCatalog, "json", DefaultSourceName)
}

// Parse decodes data in the given format ("json" or "yaml"). JSON input is
// checked against the catalog schema before decoding.
func (l *catalogLoader) Parse(data []byte, format, source string) (*Config, error) {
	var config Config
	switch format {
	case "yaml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf(ErrMsgParseCatalogFailed, source, err)
		}
	default:
		if err := l.schemaValidator.ValidateBytes(data, SchemaName); err != nil {
			return nil, fmt.Errorf(ErrMsgSchemaFailed, source, errors.Join(ErrInvalidCatalog, err))
		}
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf(ErrMsgParseCatalogFailed, source, err)
		}
	}
	return &config, nil
}

// Validate checks every definition: names present and unique per category,
// non-negative cost, valid category stat
func (l *catalogLoader) Validate(config *Config) error {
	if config == nil {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, ErrMsgConfigNil)
	}
	if len(config.Weapons)+len(config.Armor)+len(config.Potions) == 0 {
		return fmt.Errorf("%w: %s", ErrInvalidCatalog, ErrMsgNoItemsDefine)
	}

	for _, c := range domain.Categories {
		if _, err := config.items(c); err != nil {
			return err
		}
	}
	return nil
}

// items converts the definitions of one category to domain items
func (c *Config) items(category domain.Category) ([]domain.Item, error) {
	defs := c.defs(category)
	out := make([]domain.Item, 0, len(defs))
	seen := make(map[string]bool, len(defs))

	for i, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf(ErrFmtEmptyName, ErrInvalidCatalog, category, i)
		}
		if seen[def.Name] {
			return nil, fmt.Errorf(ErrFmtDuplicateName, ErrInvalidCatalog, category, def.Name)
		}
		seen[def.Name] = true

		item, err := def.toItem(category)
		if err != nil {
			return nil, fmt.Errorf(ErrFmtInvalidItemDef, ErrInvalidCatalog, category, def.Name, err)
		}
		out = append(out, item)
	}
	return out, nil
}

func (c *Config) defs(category domain.Category) []Def {
	switch category {
	case domain.CategoryWeapon:
		return c.Weapons
	case domain.CategoryArmor:
		return c.Armor
	case domain.CategoryPotion:
		return c.Potions
	}
	return nil
}

func (d Def) toItem(category domain.Category) (domain.Item, error) {
	switch category {
	case domain.CategoryWeapon:
		return domain.NewWeapon(d.Name, d.Cost, d.HitDice)
	case domain.CategoryArmor:
		return domain.NewArmor(d.Name, d.Cost, d.DamageReduction)
	default:
		return domain.NewPotion(d.Name, d.Cost, d.HealDice)
	}
}
