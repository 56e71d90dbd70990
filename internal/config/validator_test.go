package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWarnings_ExamplePassword(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"ENV_SCHEMA_VERSION": ExpectedEnvSchemaVersion,
		"STORE_DRIVER":       "postgres",
		"DB_PASSWORD":        ExampleDBPassword,
	})
	require.NoError(t, err)

	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "DB_PASSWORD")
}

func TestWarnings_DefaultPasswordInProd(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"ENV_SCHEMA_VERSION": ExpectedEnvSchemaVersion,
		"STORE_DRIVER":       "postgres",
		"ENVIRONMENT":        "prod",
	})
	require.NoError(t, err)
	assert.Len(t, cfg.Warnings(), 1)
}

func TestWarnings_JSONStoreIgnoresDBPassword(t *testing.T) {
	cfg, err := Parse(map[string]string{
		"ENV_SCHEMA_VERSION": ExpectedEnvSchemaVersion,
		"DB_PASSWORD":        ExampleDBPassword,
	})
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings())
}

func TestWarnings_MissingSchemaVersion(t *testing.T) {
	cfg, err := Parse(map[string]string{})
	require.NoError(t, err)

	warnings := cfg.Warnings()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "ENV_SCHEMA_VERSION")
}
