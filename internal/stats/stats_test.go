package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/recorder"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
)

func newTestRecorder() *recorder.Recorder {
	return recorder.NewWithBackend(nil, zap.NewNop())
}

func recordGeneration(rec *recorder.Recorder, codeID, ownerType, ownerID string) {
	rec.Record(context.Background(), storage.NewGenerationRecord(&domain.GenerationEvent{
		CampaignCodeID: codeID,
		OwnerType:      ownerType,
		OwnerID:        ownerID,
		Timestamp:      time.Now(),
	}))
}

func recordScan(rec *recorder.Recorder, codeID, ownerType, ownerID string) {
	rec.Record(context.Background(), storage.NewScanRecord(&domain.ScanEvent{
		CampaignCodeID: codeID,
		OwnerType:      ownerType,
		OwnerID:        ownerID,
		Timestamp:      time.Now(),
	}))
}

func TestAggregator_EmptyDataYieldsZeroes(t *testing.T) {
	agg := NewAggregator(newTestRecorder(), zap.NewNop())

	result := agg.ComputeCampaignStats(context.Background(), "missing")

	assert.Equal(t, 0, result.GeneratedCount)
	assert.Equal(t, 0, result.ScannedCount)
	assert.Equal(t, 0.0, result.ScanRatePercent)
	assert.Empty(t, result.RecentGenerated)
	assert.Empty(t, result.RecentScanned)
}

func TestAggregator_CountsAndRate(t *testing.T) {
	rec := newTestRecorder()
	agg := NewAggregator(rec, zap.NewNop())

	for i := 0; i < 3; i++ {
		recordGeneration(rec, "c1", domain.OwnerTypeMall, "m1")
	}
	recordScan(rec, "c1", domain.OwnerTypeMall, "m1")

	result := agg.ComputeCampaignStats(context.Background(), "c1")

	assert.Equal(t, 3, result.GeneratedCount)
	assert.Equal(t, 1, result.ScannedCount)
	assert.Equal(t, 33.3, result.ScanRatePercent)
}

func TestAggregator_ScansMayExceedGenerations(t *testing.T) {
	rec := newTestRecorder()
	agg := NewAggregator(rec, zap.NewNop())

	recordGeneration(rec, "c1", domain.OwnerTypeRetailer, "r1")
	recordScan(rec, "c1", domain.OwnerTypeRetailer, "r1")
	recordScan(rec, "c1", domain.OwnerTypeRetailer, "r1")

	result := agg.ComputeOwnerStats(context.Background(), domain.OwnerTypeRetailer, "r1")

	assert.Equal(t, 1, result.GeneratedCount)
	assert.Equal(t, 2, result.ScannedCount)
	assert.Equal(t, 200.0, result.ScanRatePercent)
}

func TestAggregator_ZeroGenerationsGuardsDivision(t *testing.T) {
	rec := newTestRecorder()
	agg := NewAggregator(rec, zap.NewNop())

	recordScan(rec, "c1", domain.OwnerTypeMall, "m1")

	result := agg.ComputeCampaignStats(context.Background(), "c1")

	assert.Equal(t, 0, result.GeneratedCount)
	assert.Equal(t, 1, result.ScannedCount)
	assert.Equal(t, 0.0, result.ScanRatePercent)
}

func TestAggregator_RecentEventsCappedAtTenNewestFirst(t *testing.T) {
	rec := newTestRecorder()
	agg := NewAggregator(rec, zap.NewNop())

	for i := 0; i < 15; i++ {
		rec.Record(context.Background(), storage.NewScanRecord(&domain.ScanEvent{
			CampaignCodeID: "c1",
			Referrer:       fmt.Sprintf("ref-%d", i),
			Timestamp:      time.Now(),
		}))
	}

	result := agg.ComputeCampaignStats(context.Background(), "c1")

	assert.Equal(t, 15, result.ScannedCount)
	assert.Len(t, result.RecentScanned, 10)
	assert.Equal(t, "ref-14", result.RecentScanned[0].Referrer)
	assert.Equal(t, "ref-5", result.RecentScanned[9].Referrer)
}

func TestAggregator_OwnerStatsIgnoreOtherOwners(t *testing.T) {
	rec := newTestRecorder()
	agg := NewAggregator(rec, zap.NewNop())

	recordGeneration(rec, "c1", domain.OwnerTypeRetailer, "r1")
	recordGeneration(rec, "c2", domain.OwnerTypeRetailer, "r2")
	recordScan(rec, "c1", domain.OwnerTypeRetailer, "r1")

	result := agg.ComputeOwnerStats(context.Background(), domain.OwnerTypeRetailer, "r1")

	assert.Equal(t, 1, result.GeneratedCount)
	assert.Equal(t, 1, result.ScannedCount)
	assert.Equal(t, 100.0, result.ScanRatePercent)
}

func TestScanRateRounding(t *testing.T) {
	assert.Equal(t, 66.7, scanRate(2, 3))
	assert.Equal(t, 50.0, scanRate(1, 2))
	assert.Equal(t, 0.0, scanRate(0, 5))
	assert.Equal(t, 0.0, scanRate(3, 0))
	assert.Equal(t, 16.7, scanRate(1, 6))
}
