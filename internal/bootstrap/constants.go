package bootstrap

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionCount is the number of older log files kept next to the new session file
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingArmorsmith  = "Starting armorsmith"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgConfigWarning       = "Configuration warning"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file"
)

// =============================================================================
// Storage
// =============================================================================

const (
	LogMsgStoreOpened       = "Registry store opened"
	LogMsgMigrationsSkipped = "JSON file store has no schema, nothing to migrate"
	ErrMsgUnknownDriver     = "unknown store driver"
	ErrMsgOpenStore         = "failed to open registry store"
	ErrMsgLoadCatalog       = "failed to load item catalog"
	ErrMsgCreateRegistry    = "failed to create registry"
	ErrMsgCreateDuelEngine  = "failed to create duel engine"
	ErrMsgCreateRoller      = "failed to seed dice roller"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDown         = "Shutting down..."
	LogMsgMetricsWritten       = "Metrics textfile written"
	LogMsgMetricsWriteFailed   = "Failed to write metrics textfile"
	LogMsgStoreCloseFailed     = "Failed to close registry store"
	LogMsgShutdownComplete     = "Shutdown complete"
	LogMsgLogFileCloseFailed   = "Failed to close log file"
	LogMsgRealmResolverEnabled = "Realm allow-list enabled"
)
