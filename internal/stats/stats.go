package stats

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/recorder"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
)

// recentLimit is how many of the newest events of each kind a stats result
// carries
const recentLimit = 10

// Aggregator computes campaign and owner statistics on demand from the
// recorder's query surface. It treats query results as a homogeneous log, no
// matter which store they came from.
type Aggregator struct {
	recorder recorder.EventRecorder
	log      *zap.Logger
}

// NewAggregator creates a new attribution aggregator
func NewAggregator(rec recorder.EventRecorder, log *zap.Logger) *Aggregator {
	return &Aggregator{
		recorder: rec,
		log:      log,
	}
}

// StatsFilter restricts a stats computation to an owner and/or campaign code
type StatsFilter struct {
	OwnerType      string
	OwnerID        string
	CampaignCodeID string
}

// ComputeStats counts generation and scan events matching the filter
func (a *Aggregator) ComputeStats(ctx context.Context, filter StatsFilter) *domain.CampaignStats {
	generations := a.recorder.Query(ctx, storage.Filter{
		Kind:           storage.KindGeneration,
		OwnerType:      filter.OwnerType,
		OwnerID:        filter.OwnerID,
		CampaignCodeID: filter.CampaignCodeID,
	})
	scans := a.recorder.Query(ctx, storage.Filter{
		Kind:           storage.KindScan,
		OwnerType:      filter.OwnerType,
		OwnerID:        filter.OwnerID,
		CampaignCodeID: filter.CampaignCodeID,
	})

	result := &domain.CampaignStats{
		GeneratedCount:  len(generations),
		ScannedCount:    len(scans),
		ScanRatePercent: scanRate(len(scans), len(generations)),
		RecentGenerated: make([]domain.GenerationEvent, 0, recentLimit),
		RecentScanned:   make([]domain.ScanEvent, 0, recentLimit),
	}

	for _, rec := range generations {
		if len(result.RecentGenerated) == recentLimit {
			break
		}
		result.RecentGenerated = append(result.RecentGenerated, *rec.Generation)
	}
	for _, rec := range scans {
		if len(result.RecentScanned) == recentLimit {
			break
		}
		result.RecentScanned = append(result.RecentScanned, *rec.Scan)
	}

	a.log.Info("Computed campaign stats",
		zap.String("owner_type", filter.OwnerType),
		zap.String("owner_id", filter.OwnerID),
		zap.String("campaign_code_id", filter.CampaignCodeID),
		zap.Int("generated", result.GeneratedCount),
		zap.Int("scanned", result.ScannedCount))

	return result
}

// ComputeOwnerStats restricts ComputeStats to one owner
func (a *Aggregator) ComputeOwnerStats(ctx context.Context, ownerType, ownerID string) *domain.CampaignStats {
	return a.ComputeStats(ctx, StatsFilter{OwnerType: ownerType, OwnerID: ownerID})
}

// ComputeCampaignStats restricts ComputeStats to one campaign code
func (a *Aggregator) ComputeCampaignStats(ctx context.Context, campaignCodeID string) *domain.CampaignStats {
	return a.ComputeStats(ctx, StatsFilter{CampaignCodeID: campaignCodeID})
}

// scanRate returns scanned/generated as a percentage rounded to one decimal.
// Scans may legitimately exceed generations. Zero generations yields zero.
func scanRate(scanned, generated int) float64 {
	if generated == 0 {
		return 0
	}
	return math.Round(float64(scanned)/float64(generated)*1000) / 10
}
