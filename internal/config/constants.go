package config

// Store drivers accepted by STORE_DRIVER
const (
	StoreDriverJSON     = "json"
	StoreDriverPostgres = "postgres"
	StoreDriverSQLite   = "sqlite"
)

// ExpectedEnvSchemaVersion is the .env schema version this build understands
const ExpectedEnvSchemaVersion = "1.0"

// Example values from .env.example that should never reach a real deployment
const (
	ExampleDBPassword = "change_this_secure_password"
	DefaultDBPassword = "postgres"
)

// Error messages
const (
	ErrMsgParseEnv          = "failed to parse environment"
	ErrMsgInvalidConfig     = "invalid configuration"
	ErrMsgSchemaMismatchFmt = "ENV_SCHEMA_VERSION mismatch: expected %s, got %s - your .env file may be outdated"
)
