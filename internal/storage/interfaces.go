package storage

import "context"

// Backend defines the two operation shapes the engine depends on from any
// store: insert a document, find by selector with sort and limit.
type Backend interface {
	// Insert appends a record to the store
	Insert(ctx context.Context, rec Record) error

	// Find returns records matching the filter, newest-first, capped at limit
	Find(ctx context.Context, filter Filter, limit int) ([]Record, error)
}
