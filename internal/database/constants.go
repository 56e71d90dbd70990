package database

// Database Connection Pool Constants
const (
	// DefaultMinConnections is the minimum number of connections to maintain in the pool
	DefaultMinConnections = 1
)

// Registry document table
const (
	// RegistryDocumentName is the row holding the account registry
	RegistryDocumentName = "registry"
)

// Error Messages - Database Operations
const (
	ErrMsgFailedToParseConnString = "failed to parse connection string"
	ErrMsgFailedToCreatePool      = "failed to create connection pool"
	ErrMsgFailedToPingDatabase    = "failed to ping database"
	ErrMsgFailedToMigrate         = "failed to apply migrations"
	ErrMsgUnknownDialect          = "unknown migration dialect"
	ErrMsgFailedToLoadDocument    = "failed to load registry document"
	ErrMsgFailedToSaveDocument    = "failed to save registry document"
)

// Log Messages
const (
	LogMsgSuccessfullyConnectedToDatabase = "Successfully connected to the database"
	LogMsgAppliedMigration                = "Applied migration"
)
