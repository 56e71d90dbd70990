package item

// ==================== Configuration ====================

const (
	// SchemaName is the name the embedded catalog schema is registered under
	SchemaName = "catalog.schema.json"

	// DefaultSourceName labels the embedded default catalog in errors and logs
	DefaultSourceName = "embedded items.json"
)

// ==================== Error Messages ====================

// File operation error messages
const (
	ErrMsgReadCatalogFailed  = "failed to read item catalog %s: %w"
	ErrMsgParseCatalogFailed = "failed to parse item catalog %s: %w"
	ErrMsgSchemaFailed       = "schema validation failed for %s: %w"
	ErrMsgSchemaSetupFailed  = "failed to load catalog schema: %w"
)

// Validation error messages (fragments used with error wrapping)
const (
	ErrMsgConfigNil     = "catalog config is nil"
	ErrMsgNoItemsDefine = "no items defined"
)

// ==================== Format Strings for Error Construction ====================

const (
	ErrFmtEmptyName      = "%w: %s entry at index %d has empty name"
	ErrFmtDuplicateName  = "%w: duplicate %s '%s'"
	ErrFmtInvalidItemDef = "%w: %s entry '%s': %v"
)

// ==================== Log Messages ====================

const (
	LogMsgCatalogLoaded = "Item catalog loaded"
)
