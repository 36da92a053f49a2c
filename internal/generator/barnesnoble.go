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

// BarnesNoble builds book search URLs for Barnes & Noble. Their
// affiliate program works through link redirection, so no query
// parameter is appended; the affiliate id only flags the link.
type BarnesNoble struct {
	baseURL     string
	affiliateID string
	linkTTL     time.Duration
}

// NewBarnesNoble builds a Barnes & Noble generator from service config.
func NewBarnesNoble(cfg *config.Config) *BarnesNoble {
	return &BarnesNoble{
		baseURL:     strings.TrimRight(cfg.BarnesNobleBaseURL, "/"),
		affiliateID: cfg.BarnesNobleAffiliateID,
		linkTTL:     cfg.CacheTTLDuration(),
	}
}

// Platform implements Generator.
func (g *BarnesNoble) Platform() string { return platform.BarnesNoble }

// GenerateLink implements Generator.
func (g *BarnesNoble) GenerateLink(_ context.Context, title, author, isbn string) (*link.PurchaseLink, error) {
	if err := validateInputs(g.Platform(), title, isbn); err != nil {
		return nil, err
	}

	patterns, _ := platform.SearchPatterns(g.Platform())
	tier := searchTier(author, isbn)
	searchURL := g.baseURL + buildSearchPath(patterns, tier, title, author, isbn)

	l, err := link.New(link.Params{
		URL:         searchURL,
		Platform:    g.Platform(),
		Available:   true,
		IsAffiliate: g.affiliateID != "",
		Status:      link.StatusAvailable,
		SearchType:  tier,
		Metadata:    map[string]any{"region": "US"},
	}, g.linkTTL)
	if err != nil {
		slog.Error("Failed to build Barnes & Noble link", "url", searchURL, "error", err)
		return nil, nil
	}
	return l, nil
}
