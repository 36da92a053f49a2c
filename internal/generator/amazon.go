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

// Amazon builds book search URLs for Amazon with an optional associate
// tag. No network calls are made; the search pages themselves are
// always reachable.
type Amazon struct {
	baseURL      string
	affiliateTag string
	region       string
	linkTTL      time.Duration
}

// NewAmazon builds an Amazon generator from service config.
func NewAmazon(cfg *config.Config) *Amazon {
	return &Amazon{
		baseURL:      strings.TrimRight(cfg.AmazonBaseURL, "/"),
		affiliateTag: cfg.AmazonAffiliateTag,
		region:       cfg.AmazonRegion,
		linkTTL:      cfg.CacheTTLDuration(),
	}
}

// Platform implements Generator.
func (g *Amazon) Platform() string { return platform.Amazon }

// GenerateLink implements Generator. Search URLs are assumed reachable,
// so the result is always marked available.
func (g *Amazon) GenerateLink(_ context.Context, title, author, isbn string) (*link.PurchaseLink, error) {
	if err := validateInputs(g.Platform(), title, isbn); err != nil {
		return nil, err
	}

	patterns, _ := platform.SearchPatterns(g.Platform())
	tier := searchTier(author, isbn)
	searchURL := g.baseURL + buildSearchPath(patterns, tier, title, author, isbn)
	searchURL = appendParam(searchURL, "tag", g.affiliateTag)

	l, err := link.New(link.Params{
		URL:         searchURL,
		Platform:    g.Platform(),
		Available:   true,
		IsAffiliate: g.affiliateTag != "",
		Status:      link.StatusAvailable,
		SearchType:  tier,
		Metadata:    map[string]any{"region": g.region},
	}, g.linkTTL)
	if err != nil {
		slog.Error("Failed to build Amazon link", "url", searchURL, "error", err)
		return nil, nil
	}
	return l, nil
}
