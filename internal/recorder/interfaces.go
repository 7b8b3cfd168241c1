package recorder

import (
	"context"

	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
)

// EventRecorder defines the write and read surface of the event recorder
type EventRecorder interface {
	// Record persists a record. It never fails: a durable-store error is
	// absorbed and the record lands in the fallback store instead.
	Record(ctx context.Context, rec storage.Record)

	// Query returns records matching the filter, newest-first, capped at
	// MaxQueryResults
	Query(ctx context.Context, filter storage.Filter) []storage.Record

	// Mode reports the storage mode decided at construction time
	Mode() Mode
}
