package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	EnvSchemaVersion string `env:"ENV_SCHEMA_VERSION"`
	Environment      string `env:"ENVIRONMENT" envDefault:"dev" validate:"oneof=dev staging prod test"`
	Version          string `env:"VERSION" envDefault:"dev"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogDir    string `env:"LOG_DIR" envDefault:"logs" validate:"required"`

	StoreDriver   string `env:"STORE_DRIVER" envDefault:"json" validate:"oneof=json postgres sqlite"`
	InventoryPath string `env:"INVENTORY_PATH" envDefault:"data/inventory.json" validate:"required_if=StoreDriver json"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"data/armorsmith.db" validate:"required_if=StoreDriver sqlite"`
	ItemsPath     string `env:"ITEMS_PATH"`

	DBUser            string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword        string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost            string        `env:"DB_HOST" envDefault:"localhost" validate:"required_if=StoreDriver postgres"`
	DBPort            string        `env:"DB_PORT" envDefault:"5432" validate:"numeric"`
	DBName            string        `env:"DB_NAME" envDefault:"armorsmith" validate:"required_if=StoreDriver postgres"`
	DBMaxConns        int           `env:"DB_MAX_CONNS" envDefault:"10" validate:"min=1"`
	DBMaxConnIdle     time.Duration `env:"DB_MAX_CONN_IDLE" envDefault:"5m"`
	DBMaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	DuelStartingHP  int    `env:"DUEL_STARTING_HP" envDefault:"50" validate:"min=1"`
	DuelMaxRounds   int    `env:"DUEL_MAX_ROUNDS" envDefault:"1000" validate:"min=1"`
	DuelTermination string `env:"DUEL_TERMINATION" envDefault:"both_down" validate:"oneof=knockout both_down"`
	DuelSeed        int64  `env:"DUEL_SEED"` // 0 picks a random seed

	BackupDir       string        `env:"BACKUP_DIR" envDefault:"backups" validate:"required"`
	KnownRealms     []string      `env:"KNOWN_REALMS" envSeparator:","`
	RealmCacheSize  int           `env:"REALM_CACHE_SIZE" envDefault:"128" validate:"min=1"`
	RealmCacheTTL   time.Duration `env:"REALM_CACHE_TTL" envDefault:"5m"`
	MetricsTextfile string        `env:"METRICS_TEXTFILE"`
}

// Load reads an optional .env file, then the process environment
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()
	return Parse(nil)
}

// Parse builds a config from environ, or from the process environment when
// environ is nil, and validates it
func Parse(environ map[string]string) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseEnv, err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) normalize() {
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	c.StoreDriver = strings.ToLower(strings.TrimSpace(c.StoreDriver))

	realms := c.KnownRealms[:0]
	for _, r := range c.KnownRealms {
		if r = strings.TrimSpace(r); r != "" {
			realms = append(realms, r)
		}
	}
	c.KnownRealms = realms
}

// Validate checks field constraints and the env schema version
func (c *Config) Validate() error {
	if c.EnvSchemaVersion != "" && c.EnvSchemaVersion != ExpectedEnvSchemaVersion {
		return fmt.Errorf(ErrMsgSchemaMismatchFmt, ExpectedEnvSchemaVersion, c.EnvSchemaVersion)
	}
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("%s: %s", ErrMsgInvalidConfig, formatValidationError(err))
	}
	return nil
}

// formatValidationError lists the failing env fields without leaking struct internals
func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s failed '%s' (got %v)", fe.Field(), fe.Tag(), fe.Value()))
	}
	return strings.Join(parts, "; ")
}

// DBConnString returns the PostgreSQL connection string
func (c *Config) DBConnString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}
