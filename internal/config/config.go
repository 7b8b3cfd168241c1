package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds the HTTP service settings
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	BaseURL     string `envconfig:"SERVICE_BASE_URL" default:"https://spiralshops.com"`
	// Landing target for scans that reference an unknown campaign code
	DefaultLandingPath string `envconfig:"SERVICE_DEFAULT_LANDING_PATH" default:"/welcome"`
}

// Cloudant holds the durable store settings. URL and APIKey presence is the
// one-time storage-mode decision: both set means durable mode is attempted at
// startup, otherwise the process runs fallback-only for its lifetime.
type Cloudant struct {
	URL        string `envconfig:"CLOUDANT_URL" default:""`
	APIKey     string `envconfig:"CLOUDANT_APIKEY" default:""`
	Database   string `envconfig:"CLOUDANT_DB" default:"spiral_qr"`
	TimeoutSec int    `envconfig:"CLOUDANT_TIMEOUT_SEC" default:"5"`
}

// Configured reports whether durable-backend credentials are present
func (c *Cloudant) Configured() bool {
	return c.URL != "" && c.APIKey != ""
}

// Reporter holds the coordination endpoint settings
type Reporter struct {
	Endpoint    string `envconfig:"SOAPG_ENDPOINT" default:""`
	SourceAgent string `envconfig:"SOAPG_SOURCE_AGENT" default:"MarketingAI"`
	TimeoutMS   int    `envconfig:"SOAPG_TIMEOUT_MS" default:"1500"`
	QueueSize   int    `envconfig:"SOAPG_QUEUE_SIZE" default:"256"`
}

// Config is the full application configuration
type Config struct {
	Service  Service
	Cloudant Cloudant
	Reporter Reporter
}

// Load processes configuration from environment variables
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
