package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/dto"
	"github.com/Jimfarnum/spiralshops-sub003/internal/issuer"
	"github.com/Jimfarnum/spiralshops-sub003/internal/recorder"
	"github.com/Jimfarnum/spiralshops-sub003/internal/stats"
	"github.com/Jimfarnum/spiralshops-sub003/internal/template"
)

type Handler struct {
	issuer     *issuer.Issuer
	aggregator *stats.Aggregator
	catalog    *template.Catalog
	recorder   recorder.EventRecorder
	router     *gin.Engine
	log        *zap.Logger
}

func NewHandler(iss *issuer.Issuer, agg *stats.Aggregator, catalog *template.Catalog,
	rec recorder.EventRecorder, log *zap.Logger) *Handler {
	h := &Handler{
		issuer:     iss,
		aggregator: agg,
		catalog:    catalog,
		recorder:   rec,
		router:     gin.Default(),
		log:        log,
	}

	h.registerRoutes()

	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) registerRoutes() {
	h.router.GET("/health", h.healthCheck)
	h.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	qr := h.router.Group("/api/qr")
	qr.POST("/campaigns", h.issueCode)
	qr.GET("/campaigns", h.listCodes)
	qr.POST("/campaigns/:id/archive", h.archiveCode)
	qr.GET("/scan/:id", h.scan)
	qr.GET("/templates", h.listTemplates)
	qr.GET("/templates/:templateId", h.getTemplate)
	qr.POST("/create-from-template", h.createFromTemplate)
	qr.GET("/stats", h.getStats)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "ok",
		"storage_mode": string(h.recorder.Mode()),
	})
}

// writeError maps the surfaced error taxonomy to HTTP statuses. Anything that
// is not caller input is an internal error.
func (h *Handler) writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Reason,
		})
		return
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{
			Error:   "not_found",
			Message: notFoundErr.Error(),
		})
		return
	}

	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
		Error:   "internal_error",
		Message: err.Error(),
	})
}

// issueCode handles POST /api/qr/campaigns
func (h *Handler) issueCode(c *gin.Context) {
	var req dto.IssueCodeRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid issuance request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	issued, err := h.issuer.IssueCode(c.Request.Context(), issuer.IssueRequest{
		OwnerType:    req.OwnerType,
		OwnerID:      req.OwnerID,
		CampaignName: req.CampaignName,
		LandingPath:  req.LandingPath,
		TemplateID:   req.TemplateID,
		RenderStyle:  req.RenderStyle,
		Metadata:     req.Metadata,
	})
	if err != nil {
		h.log.Warn("Failed to issue campaign code",
			zap.String("owner_type", req.OwnerType),
			zap.String("owner_id", req.OwnerID),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	h.log.Info("Campaign code issued",
		zap.String("campaign_code_id", issued.Code.ID),
		zap.String("campaign_name", issued.Code.CampaignName))

	c.JSON(http.StatusCreated, dto.IssueCodeResponse{
		Campaign:     *issued.Code,
		TrackingLink: issued.Code.TrackingLink,
		QRImage:      issued.Artifact.DataURL,
	})
}

// listCodes handles GET /api/qr/campaigns
func (h *Handler) listCodes(c *gin.Context) {
	var req dto.ListCodesRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	codes := h.issuer.ListCodes(c.Request.Context(), req.OwnerType, req.OwnerID, req.TemplateID)

	c.JSON(http.StatusOK, dto.ListCodesResponse{
		Campaigns: codes,
		Total:     len(codes),
	})
}

// archiveCode handles POST /api/qr/campaigns/:id/archive
func (h *Handler) archiveCode(c *gin.Context) {
	code, err := h.issuer.ArchiveCode(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Warn("Failed to archive campaign code",
			zap.String("campaign_code_id", c.Param("id")),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ArchiveCodeResponse{Campaign: *code})
}

// scan handles GET /api/qr/scan/:id. The redirect is unconditional: recording
// and reporting are best-effort and an unknown code still sends the end user
// to the default landing page.
func (h *Handler) scan(c *gin.Context) {
	result := h.issuer.ResolveScan(c.Request.Context(),
		c.Param("id"),
		c.Request.Referer(),
		c.Request.UserAgent(),
		c.ClientIP())

	c.Redirect(http.StatusFound, result.RedirectTo)
}

// listTemplates handles GET /api/qr/templates
func (h *Handler) listTemplates(c *gin.Context) {
	templates := h.catalog.List(c.Query("category"))

	c.JSON(http.StatusOK, dto.ListTemplatesResponse{
		Templates:      templates,
		Categories:     h.catalog.Categories(),
		TotalTemplates: len(templates),
	})
}

// getTemplate handles GET /api/qr/templates/:templateId
func (h *Handler) getTemplate(c *gin.Context) {
	tmpl, err := h.catalog.Get(c.Param("templateId"))
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.TemplateResponse{Template: *tmpl})
}

// createFromTemplate handles POST /api/qr/create-from-template
func (h *Handler) createFromTemplate(c *gin.Context) {
	var req dto.CreateFromTemplateRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Warn("Invalid template campaign request", zap.Error(err))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	issued, err := h.issuer.IssueFromTemplate(c.Request.Context(), issuer.TemplateRequest{
		TemplateID:   req.TemplateID,
		OwnerType:    req.OwnerType,
		OwnerID:      req.OwnerID,
		CampaignName: req.CampaignName,
		LandingPath:  req.LandingPath,
		RenderStyle:  req.RenderStyle,
		Metadata:     req.Metadata,
	})
	if err != nil {
		h.log.Warn("Failed to create campaign from template",
			zap.String("template_id", req.TemplateID),
			zap.Error(err))
		h.writeError(c, err)
		return
	}

	h.log.Info("Template campaign created",
		zap.String("campaign_code_id", issued.Code.ID),
		zap.String("template_id", req.TemplateID))

	c.JSON(http.StatusCreated, dto.IssueCodeResponse{
		Campaign:     *issued.Code,
		TrackingLink: issued.Code.TrackingLink,
		QRImage:      issued.Artifact.DataURL,
	})
}

// getStats handles GET /api/qr/stats
func (h *Handler) getStats(c *gin.Context) {
	var req dto.StatsRequest

	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: err.Error(),
		})
		return
	}

	if req.CampaignCodeID == "" && (req.OwnerType == "" || req.OwnerID == "") {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "validation_error",
			Message: "campaign_code_id or owner_type and owner_id are required",
		})
		return
	}

	var result *domain.CampaignStats
	if req.CampaignCodeID != "" {
		result = h.aggregator.ComputeCampaignStats(c.Request.Context(), req.CampaignCodeID)
	} else {
		result = h.aggregator.ComputeOwnerStats(c.Request.Context(), req.OwnerType, req.OwnerID)
	}

	c.JSON(http.StatusOK, dto.StatsResponse{
		OwnerType:      req.OwnerType,
		OwnerID:        req.OwnerID,
		CampaignCodeID: req.CampaignCodeID,
		Stats:          *result,
		StorageMode:    string(h.recorder.Mode()),
	})
}
