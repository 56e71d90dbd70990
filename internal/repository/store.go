package repository

import "context"

// Store defines the interface for registry persistence. Load returns the
// whole document and Save replaces it; there are no partial writes.
type Store interface {
	Load(ctx context.Context) (*Document, error)
	Save(ctx context.Context, doc *Document) error
}
