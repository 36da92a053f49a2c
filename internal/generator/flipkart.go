package generator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/link"
	"github.com/bibliodrift/shelflink/internal/platform"
)

// Flipkart builds book search URLs for the Indian retailer Flipkart
// with an optional affiliate id.
type Flipkart struct {
	baseURL     string
	affiliateID string
	linkTTL     time.Duration
}

// NewFlipkart builds a Flipkart generator from service config.
func NewFlipkart(cfg *config.Config) *Flipkart {
	return &Flipkart{
		baseURL:     strings.TrimRight(cfg.FlipkartBaseURL, "/"),
		affiliateID: cfg.FlipkartAffiliateID,
		linkTTL:     cfg.CacheTTLDuration(),
	}
}

// Platform implements Generator.
func (g *Flipkart) Platform() string { return platform.Flipkart }

// GenerateLink implements Generator.
func (g *Flipkart) GenerateLink(_ context.Context, title, author, isbn string) (*link.PurchaseLink, error) {
	if err := validateInputs(g.Platform(), title, isbn); err != nil {
		return nil, err
	}

	patterns, _ := platform.SearchPatterns(g.Platform())
	tier := searchTier(author, isbn)
	searchURL := g.baseURL + buildSearchPath(patterns, tier, title, author, isbn)
	searchURL = appendParam(searchURL, "affid", g.affiliateID)

	l, err := link.New(link.Params{
		URL:         searchURL,
		Platform:    g.Platform(),
		Available:   true,
		IsAffiliate: g.affiliateID != "",
		Status:      link.StatusAvailable,
		SearchType:  tier,
		Metadata:    map[string]any{"region": "IN"},
	}, g.linkTTL)
	if err != nil {
		slog.Error("Failed to build Flipkart link", "url", searchURL, "error", err)
		return nil, nil
	}
	return l, nil
}
