package issuer

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/metrics"
	"github.com/Jimfarnum/spiralshops-sub003/internal/recorder"
	"github.com/Jimfarnum/spiralshops-sub003/internal/renderer"
	"github.com/Jimfarnum/spiralshops-sub003/internal/reporter"
	"github.com/Jimfarnum/spiralshops-sub003/internal/storage"
	"github.com/Jimfarnum/spiralshops-sub003/internal/template"
)

// Coordination actions reported on lifecycle activity
const (
	ActionCampaignCreated  = "QR_CAMPAIGN_CREATED"
	ActionCampaignScanned  = "QR_CAMPAIGN_SCANNED"
	ActionCampaignArchived = "QR_CAMPAIGN_ARCHIVED"
)

// IssueRequest carries the caller input for one issuance
type IssueRequest struct {
	OwnerType    string
	OwnerID      string
	CampaignName string
	LandingPath  string
	TemplateID   string
	RenderStyle  string
	Metadata     map[string]string
}

// TemplateRequest creates a campaign from a catalog template. Every override
// field wins over the template default when supplied.
type TemplateRequest struct {
	TemplateID   string
	OwnerType    string
	OwnerID      string
	CampaignName string
	LandingPath  string
	RenderStyle  string
	Metadata     map[string]string
}

// IssuedCode pairs a campaign code with its rendered artifact
type IssuedCode struct {
	Code     *domain.CampaignCode
	Artifact *renderer.Artifact
}

// ScanResult is the outcome of a scan resolution. RedirectTo is always set.
type ScanResult struct {
	RedirectTo string
	Code       *domain.CampaignCode // nil for orphan scans
}

// Issuer creates trackable campaign codes, records their lifecycle and
// notifies the coordination bus
type Issuer struct {
	recorder recorder.EventRecorder
	reporter reporter.ActivityReporter
	renderer renderer.Renderer
	catalog  *template.Catalog
	baseURL  string
	// Scan redirect target for unknown campaign codes
	defaultLanding string
	log            *zap.Logger
}

// New creates a new issuer
func New(rec recorder.EventRecorder, rep reporter.ActivityReporter, rend renderer.Renderer,
	catalog *template.Catalog, baseURL, defaultLanding string, log *zap.Logger) *Issuer {
	return &Issuer{
		recorder:       rec,
		reporter:       rep,
		renderer:       rend,
		catalog:        catalog,
		baseURL:        baseURL,
		defaultLanding: defaultLanding,
		log:            log,
	}
}

// IssueCode validates the request, builds the tracking link, renders the
// artifact, records the lifecycle and reports it. Only caller-input problems
// fail the call; storage degradation and reporting failures are absorbed
// downstream.
func (s *Issuer) IssueCode(ctx context.Context, req IssueRequest) (*IssuedCode, error) {
	start := time.Now()

	issued, err := s.issueCode(ctx, req)
	if err != nil {
		metrics.RecordIssueDuration("failure", time.Since(start).Seconds())
		return nil, err
	}

	metrics.RecordIssueDuration("success", time.Since(start).Seconds())
	return issued, nil
}

func (s *Issuer) issueCode(ctx context.Context, req IssueRequest) (*IssuedCode, error) {
	if !domain.ValidOwnerType(req.OwnerType) {
		return nil, domain.NewValidationError("ownerType must be mall or retailer, got %q", req.OwnerType)
	}
	if req.OwnerID == "" {
		return nil, domain.NewValidationError("ownerId is required")
	}
	if req.CampaignName == "" {
		return nil, domain.NewValidationError("campaignName is required")
	}
	if req.LandingPath == "" {
		return nil, domain.NewValidationError("landingPath is required")
	}
	if req.TemplateID != "" {
		if _, err := s.catalog.Get(req.TemplateID); err != nil {
			return nil, err
		}
	}

	link, err := BuildTrackingLink(s.baseURL, req.LandingPath,
		req.OwnerType, req.OwnerID, req.CampaignName, req.TemplateID)
	if err != nil {
		return nil, domain.NewValidationError("cannot build tracking link: %v", err)
	}

	artifact, err := s.renderer.Render(link, req.RenderStyle)
	if err != nil {
		s.log.Error("Artifact rendering failed",
			zap.String("campaign_name", req.CampaignName),
			zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	code := &domain.CampaignCode{
		ID:           uuid.NewString(),
		OwnerType:    req.OwnerType,
		OwnerID:      req.OwnerID,
		CampaignName: req.CampaignName,
		TemplateID:   req.TemplateID,
		LandingPath:  req.LandingPath,
		TrackingLink: link,
		CreatedAt:    now,
		UpdatedAt:    now,
		Status:       domain.StatusActive,
	}

	s.recorder.Record(ctx, storage.NewCodeRecord(code))
	s.recorder.Record(ctx, storage.NewGenerationRecord(&domain.GenerationEvent{
		CampaignCodeID: code.ID,
		OwnerType:      code.OwnerType,
		OwnerID:        code.OwnerID,
		Timestamp:      now,
		RenderStyle:    req.RenderStyle,
		Metadata:       req.Metadata,
	}))

	s.reporter.Report(ActionCampaignCreated, map[string]interface{}{
		"campaignId":   code.ID,
		"ownerType":    code.OwnerType,
		"ownerId":      code.OwnerID,
		"campaignName": code.CampaignName,
		"templateId":   code.TemplateID,
		"qrLink":       code.TrackingLink,
		"createdAt":    code.CreatedAt,
	})

	s.log.Info("Campaign code issued",
		zap.String("campaign_code_id", code.ID),
		zap.String("owner_type", code.OwnerType),
		zap.String("owner_id", code.OwnerID),
		zap.String("campaign_name", code.CampaignName))

	return &IssuedCode{Code: code, Artifact: artifact}, nil
}

// IssueFromTemplate merges template defaults with the request overrides and
// issues the result
func (s *Issuer) IssueFromTemplate(ctx context.Context, req TemplateRequest) (*IssuedCode, error) {
	tmpl, err := s.catalog.Get(req.TemplateID)
	if err != nil {
		return nil, err
	}

	merged := IssueRequest{
		OwnerType:    req.OwnerType,
		OwnerID:      req.OwnerID,
		CampaignName: req.CampaignName,
		LandingPath:  req.LandingPath,
		TemplateID:   tmpl.ID,
		RenderStyle:  req.RenderStyle,
		Metadata:     map[string]string{},
	}
	if merged.CampaignName == "" {
		merged.CampaignName = tmpl.Name
	}
	if merged.LandingPath == "" {
		merged.LandingPath = tmpl.DefaultLandingPath
	}
	for k, v := range req.Metadata {
		merged.Metadata[k] = v
	}
	if _, ok := merged.Metadata["incentive"]; !ok {
		merged.Metadata["incentive"] = tmpl.SuggestedIncentive
	}
	if _, ok := merged.Metadata["copy"]; !ok {
		merged.Metadata["copy"] = tmpl.SuggestedCopy
	}
	if _, ok := merged.Metadata["hashtags"]; !ok {
		merged.Metadata["hashtags"] = strings.Join(tmpl.SuggestedHashtags, " ")
	}

	return s.IssueCode(ctx, merged)
}

// ResolveCode returns the newest record for a campaign code id
func (s *Issuer) ResolveCode(ctx context.Context, id string) (*domain.CampaignCode, error) {
	records := s.recorder.Query(ctx, storage.Filter{
		Kind:           storage.KindCode,
		CampaignCodeID: id,
	})
	if len(records) == 0 {
		return nil, &domain.NotFoundError{Resource: "campaign code", ID: id}
	}
	return records[0].Code, nil
}

// ListCodes returns campaign codes matching the owner/template filter, newest
// first, resolved to their latest record
func (s *Issuer) ListCodes(ctx context.Context, ownerType, ownerID, templateID string) []domain.CampaignCode {
	records := s.recorder.Query(ctx, storage.Filter{
		Kind:       storage.KindCode,
		OwnerType:  ownerType,
		OwnerID:    ownerID,
		TemplateID: templateID,
	})

	seen := make(map[string]bool)
	out := make([]domain.CampaignCode, 0, len(records))
	for _, rec := range records {
		if seen[rec.Code.ID] {
			continue
		}
		seen[rec.Code.ID] = true
		out = append(out, *rec.Code)
	}
	return out
}

// ArchiveCode performs the explicit active to archived transition. Archiving
// an already archived code is a no-op. Codes are never deleted.
func (s *Issuer) ArchiveCode(ctx context.Context, id string) (*domain.CampaignCode, error) {
	code, err := s.ResolveCode(ctx, id)
	if err != nil {
		return nil, err
	}
	if code.Status == domain.StatusArchived {
		return code, nil
	}

	archived := *code
	archived.Status = domain.StatusArchived
	archived.UpdatedAt = time.Now().UTC()

	s.recorder.Record(ctx, storage.NewCodeRecord(&archived))

	s.reporter.Report(ActionCampaignArchived, map[string]interface{}{
		"campaignId": archived.ID,
		"ownerType":  archived.OwnerType,
		"ownerId":    archived.OwnerID,
		"archivedAt": archived.UpdatedAt,
	})

	s.log.Info("Campaign code archived",
		zap.String("campaign_code_id", archived.ID))

	return &archived, nil
}

// ResolveScan records and reports a scan, then returns the redirect target.
// It never fails: unknown codes are recorded as orphan scans and redirected to
// the default landing path, and internal failures still yield a redirect.
func (s *Issuer) ResolveScan(ctx context.Context, codeID, referrer, userAgent, sourceIP string) *ScanResult {
	result := &ScanResult{RedirectTo: s.baseURL + s.defaultLanding}

	scan := &domain.ScanEvent{
		CampaignCodeID: codeID,
		Timestamp:      time.Now().UTC(),
		Referrer:       referrer,
		UserAgent:      userAgent,
		SourceIP:       sourceIP,
	}

	code, err := s.ResolveCode(ctx, codeID)
	if err == nil {
		result.Code = code
		result.RedirectTo = code.TrackingLink
		scan.OwnerType = code.OwnerType
		scan.OwnerID = code.OwnerID
		metrics.Scans.WithLabelValues("known").Inc()
	} else {
		s.log.Warn("Scan references unknown campaign code, recording as orphan",
			zap.String("campaign_code_id", codeID))
		metrics.Scans.WithLabelValues("orphan").Inc()
	}

	s.recorder.Record(ctx, storage.NewScanRecord(scan))

	s.reporter.Report(ActionCampaignScanned, map[string]interface{}{
		"campaignId": codeID,
		"referrer":   referrer,
		"scannedAt":  scan.Timestamp,
	})

	return result
}
