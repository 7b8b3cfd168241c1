package domain

import "time"

// Owner types a campaign code can belong to
const (
	OwnerTypeMall     = "mall"
	OwnerTypeRetailer = "retailer"
)

// Campaign code lifecycle states
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// CampaignCode represents one trackable marketing QR/link instance
type CampaignCode struct {
	ID           string    `json:"id"`
	OwnerType    string    `json:"owner_type"`
	OwnerID      string    `json:"owner_id"`
	CampaignName string    `json:"campaign_name"`
	TemplateID   string    `json:"template_id,omitempty"`
	LandingPath  string    `json:"landing_path"`
	TrackingLink string    `json:"tracking_link"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Status       string    `json:"status"`
}

// GenerationEvent records that a code's artifact was produced
type GenerationEvent struct {
	CampaignCodeID string            `json:"campaign_code_id"`
	OwnerType      string            `json:"owner_type"`
	OwnerID        string            `json:"owner_id"`
	Timestamp      time.Time         `json:"timestamp"`
	RenderStyle    string            `json:"render_style"`
	Metadata       map[string]string `json:"metadata,omitempty"`
}

// ScanEvent records that an end user resolved a tracking link.
// CampaignCodeID may reference an unknown code (orphan scan).
type ScanEvent struct {
	CampaignCodeID string    `json:"campaign_code_id"`
	OwnerType      string    `json:"owner_type,omitempty"`
	OwnerID        string    `json:"owner_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
	Referrer       string    `json:"referrer,omitempty"`
	UserAgent      string    `json:"user_agent,omitempty"`
	SourceIP       string    `json:"source_ip,omitempty"`
}

// CampaignStats is computed per query, never persisted
type CampaignStats struct {
	GeneratedCount  int               `json:"generated_count"`
	ScannedCount    int               `json:"scanned_count"`
	ScanRatePercent float64           `json:"scan_rate_percent"`
	RecentGenerated []GenerationEvent `json:"recent_generated"`
	RecentScanned   []ScanEvent       `json:"recent_scanned"`
}

// ValidOwnerType reports whether t is a supported owner type
func ValidOwnerType(t string) bool {
	return t == OwnerTypeMall || t == OwnerTypeRetailer
}
