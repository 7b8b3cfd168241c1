package issuer

import (
	"fmt"
	"net/url"
	"strings"
)

// Tracking query parameters embedded in every campaign link
const (
	paramCampaign = "cid"
	paramOwner    = "owner"
	paramTemplate = "template"
)

// TrackingParams are the attribution fields recoverable from a tracking link
type TrackingParams struct {
	OwnerType    string
	OwnerID      string
	CampaignName string
	TemplateID   string
}

// BuildTrackingLink embeds the attribution fields as query parameters on the
// landing path, on top of whatever parameters the path already carries
func BuildTrackingLink(baseURL, landingPath, ownerType, ownerID, campaignName, templateID string) (string, error) {
	u, err := url.Parse(baseURL + landingPath)
	if err != nil {
		return "", fmt.Errorf("invalid landing path %q: %w", landingPath, err)
	}

	q := u.Query()
	q.Set(paramCampaign, campaignName)
	q.Set(paramOwner, ownerType+":"+ownerID)
	if templateID != "" {
		q.Set(paramTemplate, templateID)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// ParseTrackingLink recovers the attribution fields from a tracking link
func ParseTrackingLink(link string) (*TrackingParams, error) {
	u, err := url.Parse(link)
	if err != nil {
		return nil, fmt.Errorf("invalid tracking link: %w", err)
	}

	q := u.Query()
	owner := q.Get(paramOwner)
	ownerType, ownerID, found := strings.Cut(owner, ":")
	if !found {
		return nil, fmt.Errorf("tracking link has no owner parameter: %s", link)
	}

	return &TrackingParams{
		OwnerType:    ownerType,
		OwnerID:      ownerID,
		CampaignName: q.Get(paramCampaign),
		TemplateID:   q.Get(paramTemplate),
	}, nil
}
