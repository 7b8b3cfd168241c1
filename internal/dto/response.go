package dto

import (
	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
	"github.com/Jimfarnum/spiralshops-sub003/internal/template"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"validation_error"`
	Message string `json:"message,omitempty" example:"ownerId is required"`
}

// IssueCodeResponse represents a successful issuance
type IssueCodeResponse struct {
	Campaign     domain.CampaignCode `json:"campaign"`
	TrackingLink string              `json:"tracking_link"`
	QRImage      string              `json:"qr_image"` // data URL, embeddable as-is
}

// ListCodesResponse lists campaign codes newest-first
type ListCodesResponse struct {
	Campaigns []domain.CampaignCode `json:"campaigns"`
	Total     int                   `json:"total"`
}

// ArchiveCodeResponse returns the archived campaign code
type ArchiveCodeResponse struct {
	Campaign domain.CampaignCode `json:"campaign"`
}

// ListTemplatesResponse lists catalog templates with the distinct category set
type ListTemplatesResponse struct {
	Templates      []template.Template `json:"templates"`
	Categories     []string            `json:"categories"`
	TotalTemplates int                 `json:"total_templates"`
}

// TemplateResponse returns one catalog template
type TemplateResponse struct {
	Template template.Template `json:"template"`
}

// StatsResponse represents an on-demand stats computation
type StatsResponse struct {
	OwnerType      string               `json:"owner_type,omitempty"`
	OwnerID        string               `json:"owner_id,omitempty"`
	CampaignCodeID string               `json:"campaign_code_id,omitempty"`
	Stats          domain.CampaignStats `json:"stats"`
	StorageMode    string               `json:"storage_mode" example:"durable"`
}
