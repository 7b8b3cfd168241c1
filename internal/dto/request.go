package dto

// IssueCodeRequest represents a campaign code issuance request
type IssueCodeRequest struct {
	OwnerType    string            `json:"owner_type" binding:"required" example:"retailer"`
	OwnerID      string            `json:"owner_id" binding:"required" example:"r1"`
	CampaignName string            `json:"campaign_name" binding:"required" example:"Flash Deal"`
	LandingPath  string            `json:"landing_path" binding:"required" example:"/deal"`
	TemplateID   string            `json:"template_id" example:"flash-deal"`
	RenderStyle  string            `json:"render_style" example:"standard"`
	Metadata     map[string]string `json:"metadata"`
}

// CreateFromTemplateRequest creates a campaign from a catalog template;
// supplied fields override the template defaults
type CreateFromTemplateRequest struct {
	TemplateID   string            `json:"template_id" binding:"required" example:"flash-deal"`
	OwnerType    string            `json:"owner_type" binding:"required" example:"mall"`
	OwnerID      string            `json:"owner_id" binding:"required" example:"m1"`
	CampaignName string            `json:"campaign_name" example:"Custom"`
	LandingPath  string            `json:"landing_path" example:"/deal"`
	RenderStyle  string            `json:"render_style" example:"standard"`
	Metadata     map[string]string `json:"metadata"`
}

// ListCodesRequest filters the campaign code listing
type ListCodesRequest struct {
	OwnerType  string `form:"owner_type" example:"retailer"`
	OwnerID    string `form:"owner_id" example:"r1"`
	TemplateID string `form:"template_id" example:"flash-deal"`
}

// StatsRequest selects the scope of a stats computation: either an owner or a
// single campaign code
type StatsRequest struct {
	OwnerType      string `form:"owner_type" example:"retailer"`
	OwnerID        string `form:"owner_id" example:"r1"`
	CampaignCodeID string `form:"campaign_code_id" example:"6f1c9f2e"`
}
