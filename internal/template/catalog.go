package template

import (
	"github.com/Jimfarnum/spiralshops-sub003/internal/domain"
)

// Template is a reusable campaign archetype. EstimatedReach and Duration are
// descriptive only; nothing expires a campaign automatically.
type Template struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Description        string   `json:"description"`
	SuggestedIncentive string   `json:"suggested_incentive"`
	DefaultLandingPath string   `json:"default_landing_path"`
	SuggestedCopy      string   `json:"suggested_copy"`
	SuggestedHashtags  []string `json:"suggested_hashtags"`
	Category           string   `json:"category"`
	EstimatedReach     string   `json:"estimated_reach"`
	Duration           string   `json:"duration"`
}

// Catalog holds the campaign template archetypes
type Catalog struct {
	templates []Template
}

// NewCatalog creates a catalog with the built-in retail marketing templates
func NewCatalog() *Catalog {
	return &Catalog{templates: builtinTemplates}
}

// NewCatalogWith creates a catalog over an explicit template set
func NewCatalogWith(templates []Template) *Catalog {
	return &Catalog{templates: templates}
}

// List returns templates, filtered to an exact category match when category is
// non-empty. Order follows the catalog definition.
func (c *Catalog) List(category string) []Template {
	if category == "" {
		out := make([]Template, len(c.templates))
		copy(out, c.templates)
		return out
	}

	out := make([]Template, 0)
	for _, t := range c.templates {
		if t.Category == category {
			out = append(out, t)
		}
	}
	return out
}

// Get returns the template with the given id
func (c *Catalog) Get(id string) (*Template, error) {
	for _, t := range c.templates {
		if t.ID == id {
			tmpl := t
			return &tmpl, nil
		}
	}
	return nil, &domain.NotFoundError{Resource: "template", ID: id}
}

// Categories returns the distinct category set in catalog order
func (c *Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range c.templates {
		if !seen[t.Category] {
			seen[t.Category] = true
			out = append(out, t.Category)
		}
	}
	return out
}

var builtinTemplates = []Template{
	{
		ID:                 "mall-wide-sale",
		Name:               "Mall-Wide Sale Weekend",
		Description:        "Drive foot traffic with multi-store discounts this weekend.",
		SuggestedIncentive: "Earn 2× SPIRALs + 10% off at participating stores",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=mall_wide_sale",
		SuggestedCopy:      "This weekend only — support local, save big. Scan to see deals at verified stores and earn 2× SPIRALs.",
		SuggestedHashtags:  []string{"#MainStreetRevival", "#EarnSPIRALs", "#ShopLocal"},
		Category:           "promotional",
		EstimatedReach:     "High",
		Duration:           "2-3 days",
	},
	{
		ID:                 "grand-opening",
		Name:               "Grand Opening",
		Description:        "Launch a new store with a splash and measurable reach.",
		SuggestedIncentive: "First 100 shoppers get bonus SPIRALs + welcome gift",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=grand_opening",
		SuggestedCopy:      "We're open! Scan to claim your welcome reward and discover opening-day offers.",
		SuggestedHashtags:  []string{"#NewInTown", "#LocalLove", "#EarnSPIRALs"},
		Category:           "event",
		EstimatedReach:     "Medium",
		Duration:           "1-2 weeks",
	},
	{
		ID:                 "flash-deal",
		Name:               "Flash Deal (24h)",
		Description:        "Time-boxed urgency to clear stock and spike visits.",
		SuggestedIncentive: "Limited time: 15% off + SPIRAL bonus today only",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=flash_deal_24h",
		SuggestedCopy:      "24-hour local deal—scan now to unlock today's rewards and store-only pricing.",
		SuggestedHashtags:  []string{"#TodayOnly", "#LocalDeals", "#EarnSPIRALs"},
		Category:           "promotional",
		EstimatedReach:     "Medium",
		Duration:           "1 day",
	},
	{
		ID:                 "seasonal-festival",
		Name:               "Seasonal Festival",
		Description:        "Tie into seasonal events with family-friendly traffic.",
		SuggestedIncentive: "Kids-eat-free partner promo + double SPIRAL weekends",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=seasonal_festival",
		SuggestedCopy:      "Celebrate the season with local favorites. Scan for events, treats, and bonus SPIRALs.",
		SuggestedHashtags:  []string{"#Seasonal", "#FamilyTime", "#ShopLocal"},
		Category:           "event",
		EstimatedReach:     "High",
		Duration:           "1-2 weeks",
	},
	{
		ID:                 "verified-spotlight",
		Name:               "Verified Retailer Spotlight",
		Description:        "Highlight trusted, SPIRAL-verified stores in one campaign.",
		SuggestedIncentive: "Extra SPIRALs at verified stores this week",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=verified_spotlight",
		SuggestedCopy:      "Trust your Main Street. Scan to explore SPIRAL-verified stores and earn extra SPIRALs.",
		SuggestedHashtags:  []string{"#VerifiedLocal", "#EarnSPIRALs", "#MainStreetRevival"},
		Category:           "trust-building",
		EstimatedReach:     "Medium",
		Duration:           "1 week",
	},
	{
		ID:                 "holiday-shopping",
		Name:               "Holiday Shopping Guide",
		Description:        "Curated local gift guide with bonus rewards for early shoppers.",
		SuggestedIncentive: "Holiday bonus: Extra SPIRALs on gifts + free gift wrapping",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=holiday_shopping",
		SuggestedCopy:      "Find perfect local gifts this holiday season. Scan for curated collections and bonus rewards.",
		SuggestedHashtags:  []string{"#HolidayLocal", "#GiftGuide", "#EarnSPIRALs"},
		Category:           "seasonal",
		EstimatedReach:     "High",
		Duration:           "4-6 weeks",
	},
	{
		ID:                 "loyalty-vip",
		Name:               "VIP Member Exclusive",
		Description:        "Reward loyal customers with exclusive early access and perks.",
		SuggestedIncentive: "VIP only: 20% off + triple SPIRALs + exclusive products",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=vip_exclusive",
		SuggestedCopy:      "Your loyalty pays off. Scan for VIP-only deals and triple SPIRAL rewards.",
		SuggestedHashtags:  []string{"#VIPExclusive", "#LoyaltyRewards", "#EarnSPIRALs"},
		Category:           "loyalty",
		EstimatedReach:     "Low",
		Duration:           "3-5 days",
	},
	{
		ID:                 "community-partnership",
		Name:               "Community Partnership",
		Description:        "Partner with local organizations for community-focused campaigns.",
		SuggestedIncentive: "Support local causes: Purchase donates to community + bonus SPIRALs",
		DefaultLandingPath: "/welcome?utm_source=qr&utm_campaign=community_partnership",
		SuggestedCopy:      "Shop local, give back. Every purchase supports community programs and earns bonus SPIRALs.",
		SuggestedHashtags:  []string{"#CommunityFirst", "#GiveBack", "#ShopLocal"},
		Category:           "community",
		EstimatedReach:     "Medium",
		Duration:           "2-4 weeks",
	},
}
