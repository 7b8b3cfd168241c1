package recorder

import (
	"context"

	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/config"
	"github.com/Jimfarnum/spiralshops-sub003/internal/metrics"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage/cloudant"
)

// Mode is the storage mode the process runs in. It is decided exactly once,
// at construction time, and never re-probed.
type Mode string

const (
	ModeDurable      Mode = "durable"
	ModeFallbackOnly Mode = "fallback-only"
)

// MaxQueryResults caps reads on both stores
const MaxQueryResults = 1000

// Recorder persists campaign codes and lifecycle events. Writes never raise to
// the caller: when the durable backend rejects a write the record is kept in
// the process-local fallback store, which does not survive a restart.
type Recorder struct {
	durable  storage.Backend
	fallback *storage.MemoryStore
	mode     Mode
	log      *zap.Logger
}

// New decides the storage mode and constructs the recorder. Durable mode is
// chosen only when Cloudant credentials are present and the client can be
// built and pinged; any startup failure means the whole process lifetime runs
// fallback-only.
func New(ctx context.Context, cfg *config.Cloudant, log *zap.Logger) *Recorder {
	r := &Recorder{
		fallback: storage.NewMemoryStore(),
		mode:     ModeFallbackOnly,
		log:      log,
	}

	if !cfg.Configured() {
		log.Warn("Cloudant not configured, using fallback storage only")
		return r
	}

	client, err := cloudant.NewClient(ctx, cfg, log)
	if err != nil {
		log.Warn("Cloudant unavailable at startup, using fallback storage only",
			zap.Error(err))
		return r
	}

	r.durable = cloudant.NewBackend(client, log)
	r.mode = ModeDurable
	log.Info("Recorder running in durable mode",
		zap.String("database", cfg.Database))

	return r
}

// NewWithBackend constructs a recorder over an explicit durable backend. A nil
// backend yields a fallback-only recorder.
func NewWithBackend(durable storage.Backend, log *zap.Logger) *Recorder {
	mode := ModeDurable
	if durable == nil {
		mode = ModeFallbackOnly
	}
	return &Recorder{
		durable:  durable,
		fallback: storage.NewMemoryStore(),
		mode:     mode,
		log:      log,
	}
}

// Mode reports the storage mode decided at construction time
func (r *Recorder) Mode() Mode {
	return r.mode
}

// Record persists a record, absorbing every durable-store failure
func (r *Recorder) Record(ctx context.Context, rec storage.Record) {
	if err := rec.Validate(); err != nil {
		r.log.Error("Dropping malformed record", zap.Error(err))
		return
	}

	if r.mode == ModeDurable {
		err := r.durable.Insert(ctx, rec)
		if err == nil {
			return
		}
		r.log.Warn("Durable write failed, degrading to fallback storage",
			zap.String("kind", string(rec.Kind)),
			zap.String("campaign_code_id", rec.CampaignCodeID()),
			zap.Error(err))
		metrics.StorageDegraded.WithLabelValues("write").Inc()
	}

	if err := r.fallback.Insert(ctx, rec); err != nil {
		// Validate already passed, so this cannot happen; log rather than raise
		r.log.Error("Fallback write failed", zap.Error(err))
	}
}

// Query reads records matching the filter, newest-first. In durable mode a
// failed read degrades to whatever has accumulated in the fallback store for
// this process, so results may be partial.
func (r *Recorder) Query(ctx context.Context, filter storage.Filter) []storage.Record {
	if r.mode == ModeDurable {
		records, err := r.durable.Find(ctx, filter, MaxQueryResults)
		if err == nil {
			return records
		}
		r.log.Warn("Durable read failed, serving fallback contents",
			zap.String("kind", string(filter.Kind)),
			zap.Error(err))
		metrics.StorageDegraded.WithLabelValues("read").Inc()
	}

	records, _ := r.fallback.Find(ctx, filter, MaxQueryResults)
	return records
}
