package cloudant

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/cloudant-go-sdk/cloudantv1"
	"github.com/IBM/go-sdk-core/v5/core"
	"go.uber.org/zap"

	"github.com/Jimfarnum/spiralshops-sub003/internal/config"
)

// Client wraps the Cloudant service client
type Client struct {
	service *cloudantv1.CloudantV1
	config  *config.Cloudant
	log     *zap.Logger
}

// NewClient creates a new Cloudant client with the given configuration and
// verifies the connection. Every request carries the configured timeout.
func NewClient(ctx context.Context, cfg *config.Cloudant, log *zap.Logger) (*Client, error) {
	log.Info("Connecting to Cloudant",
		zap.String("url", cfg.URL),
		zap.String("database", cfg.Database))

	service, err := cloudantv1.NewCloudantV1(&cloudantv1.CloudantV1Options{
		URL:           cfg.URL,
		Authenticator: &core.IamAuthenticator{ApiKey: cfg.APIKey},
	})
	if err != nil {
		log.Error("Failed to create Cloudant client", zap.Error(err))
		return nil, fmt.Errorf("failed to create Cloudant client: %w", err)
	}

	service.Service.Client.Timeout = time.Duration(cfg.TimeoutSec) * time.Second

	// Verify connection
	if _, _, err := service.GetServerInformationWithContext(ctx,
		service.NewGetServerInformationOptions()); err != nil {
		log.Error("Failed to ping Cloudant", zap.Error(err))
		return nil, fmt.Errorf("failed to ping Cloudant: %w", err)
	}

	log.Info("Cloudant connection established successfully")

	return &Client{service: service, config: cfg, log: log}, nil
}

// Service returns the underlying Cloudant service client
func (c *Client) Service() *cloudantv1.CloudantV1 {
	return c.service
}

// Database returns the configured database name
func (c *Client) Database() string {
	return c.config.Database
}
