package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/config"
	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/dto"
	"github.com/Jimfarnum/spiralshops-sub003/internal/issuer"
	"github.com/Jimfarnum/spiralshops-sub003/internal/recorder"
	"github.com/Jimfarnum/spiralshops-sub003/internal/renderer"
	"github.com/Jimfarnum/spiralshops-sub003/internal/reporter"
	"github.com/Jimfarnum/spiralshops-sub003/internal/stats"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
	"github.com/Jimfarnum/spiralshops-sub003/internal/template"
)

// brokenBackend simulates a durable store that rejects every operation
type brokenBackend struct{}

func (brokenBackend) Insert(context.Context, storage.Record) error {
	return errors.New("connection refused")
}

func (brokenBackend) Find(context.Context, storage.Filter, int) ([]storage.Record, error) {
	return nil, errors.New("connection refused")
}

func newTestHandler(t *testing.T, durable storage.Backend) *Handler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := zap.NewNop()
	rec := recorder.NewWithBackend(durable, log)
	rep := reporter.New(&config.Reporter{SourceAgent: "MarketingAI", TimeoutMS: 100, QueueSize: 8}, log)
	catalog := template.NewCatalog()
	iss := issuer.New(rec, rep, renderer.NewQRRenderer(), catalog,
		"https://spiralshops.com", "/welcome", log)
	agg := stats.NewAggregator(rec, log)

	return NewHandler(iss, agg, catalog, rec, log)
}

func doJSON(h *Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHandler_HealthCheck(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "fallback-only")
}

func TestHandler_IssueCode(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "retailer",
		OwnerID:      "r1",
		CampaignName: "Flash Deal",
		LandingPath:  "/deal",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.IssueCodeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Campaign.ID)
	assert.Equal(t, domain.StatusActive, resp.Campaign.Status)
	assert.Contains(t, resp.QRImage, "data:image/png;base64,")
	assert.Contains(t, resp.TrackingLink, "owner=retailer%3Ar1")
}

func TestHandler_IssueCodeValidationError(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "vendor",
		OwnerID:      "v1",
		CampaignName: "X",
		LandingPath:  "/x",
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "validation_error")
}

func TestHandler_IssueCodeUnknownTemplate(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "mall",
		OwnerID:      "m1",
		CampaignName: "X",
		LandingPath:  "/x",
		TemplateID:   "nope",
	})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not_found")
}

func TestHandler_ScanRedirectsToTrackingLink(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "retailer",
		OwnerID:      "r1",
		CampaignName: "Flash Deal",
		LandingPath:  "/deal",
	})
	var resp dto.IssueCodeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	scan := doJSON(h, http.MethodGet, "/api/qr/scan/"+resp.Campaign.ID, nil)

	assert.Equal(t, http.StatusFound, scan.Code)
	assert.Equal(t, resp.TrackingLink, scan.Header().Get("Location"))
}

func TestHandler_ScanFailsOpenWhenStorageIsDown(t *testing.T) {
	h := newTestHandler(t, brokenBackend{})

	w := doJSON(h, http.MethodGet, "/api/qr/scan/unknown-code", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "https://spiralshops.com/welcome", w.Header().Get("Location"))
}

func TestHandler_ArchiveCode(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "mall",
		OwnerID:      "m1",
		CampaignName: "Spring Sale",
		LandingPath:  "/spring",
	})
	var resp dto.IssueCodeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	archive := doJSON(h, http.MethodPost,
		fmt.Sprintf("/api/qr/campaigns/%s/archive", resp.Campaign.ID), nil)

	assert.Equal(t, http.StatusOK, archive.Code)
	assert.Contains(t, archive.Body.String(), domain.StatusArchived)

	missing := doJSON(h, http.MethodPost, "/api/qr/campaigns/missing/archive", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHandler_ListTemplatesFiltered(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodGet, "/api/qr/templates?category=promotional", nil)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.ListTemplatesResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Templates, 2)
	for _, tmpl := range resp.Templates {
		assert.Equal(t, "promotional", tmpl.Category)
	}
}

func TestHandler_GetTemplate(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodGet, "/api/qr/templates/flash-deal", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Flash Deal (24h)")

	missing := doJSON(h, http.MethodGet, "/api/qr/templates/nope", nil)
	assert.Equal(t, http.StatusNotFound, missing.Code)
}

func TestHandler_CreateFromTemplate(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/create-from-template", dto.CreateFromTemplateRequest{
		TemplateID:   "flash-deal",
		OwnerType:    "mall",
		OwnerID:      "m1",
		CampaignName: "Custom",
	})

	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.IssueCodeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Custom", resp.Campaign.CampaignName)
	assert.Equal(t, "/welcome?utm_source=qr&utm_campaign=flash_deal_24h", resp.Campaign.LandingPath)
}

func TestHandler_OwnerStatsScenario(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "retailer",
		OwnerID:      "r1",
		CampaignName: "Flash Deal",
		LandingPath:  "/deal",
	})
	var resp dto.IssueCodeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	doJSON(h, http.MethodGet, "/api/qr/scan/"+resp.Campaign.ID, nil)
	doJSON(h, http.MethodGet, "/api/qr/scan/"+resp.Campaign.ID, nil)

	statsResp := doJSON(h, http.MethodGet, "/api/qr/stats?owner_type=retailer&owner_id=r1", nil)
	assert.Equal(t, http.StatusOK, statsResp.Code)

	var out dto.StatsResponse
	assert.NoError(t, json.Unmarshal(statsResp.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Stats.GeneratedCount)
	assert.Equal(t, 2, out.Stats.ScannedCount)
	assert.Equal(t, 200.0, out.Stats.ScanRatePercent)
	assert.Equal(t, "fallback-only", out.StorageMode)
}

func TestHandler_StatsRequiresScope(t *testing.T) {
	h := newTestHandler(t, nil)

	w := doJSON(h, http.MethodGet, "/api/qr/stats", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_StatsStillServedWhenStorageIsDown(t *testing.T) {
	h := newTestHandler(t, brokenBackend{})

	// Writes degrade to the fallback store, reads degrade to its contents
	w := doJSON(h, http.MethodPost, "/api/qr/campaigns", dto.IssueCodeRequest{
		OwnerType:    "retailer",
		OwnerID:      "r1",
		CampaignName: "Flash Deal",
		LandingPath:  "/deal",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp dto.IssueCodeResponse
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	doJSON(h, http.MethodGet, "/api/qr/scan/"+resp.Campaign.ID, nil)

	statsResp := doJSON(h, http.MethodGet, "/api/qr/stats?campaign_code_id="+resp.Campaign.ID, nil)
	assert.Equal(t, http.StatusOK, statsResp.Code)

	var out dto.StatsResponse
	assert.NoError(t, json.Unmarshal(statsResp.Body.Bytes(), &out))
	assert.Equal(t, 1, out.Stats.GeneratedCount)
	assert.Equal(t, 1, out.Stats.ScannedCount)
	assert.Equal(t, 100.0, out.Stats.ScanRatePercent)
}
