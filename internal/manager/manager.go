// Package manager is the high level facade over the purchase link
// service. It accepts catalog records in the Google Books volume shape
// and returns display-ready link lists sorted by platform priority.
package manager

import (
	"context"
	"log/slog"

	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/link"
	"github.com/bibliodrift/shelflink/internal/platform"
	"github.com/bibliodrift/shelflink/internal/service"
)

// CatalogRecord mirrors the Google Books volume structure that callers
// typically already hold.
type CatalogRecord struct {
	VolumeInfo VolumeInfo `json:"volumeInfo"`
}

// VolumeInfo is the nested book description of a CatalogRecord.
type VolumeInfo struct {
	Title               string               `json:"title"`
	Authors             []string             `json:"authors"`
	IndustryIdentifiers []IndustryIdentifier `json:"industryIdentifiers"`
	ImageLinks          ImageLinks           `json:"imageLinks"`
}

// IndustryIdentifier is one ISBN-style identifier.
type IndustryIdentifier struct {
	Type       string `json:"type"`
	Identifier string `json:"identifier"`
}

// ImageLinks carries cover art URLs.
type ImageLinks struct {
	Thumbnail string `json:"thumbnail"`
}

// BookInfo is the identity block echoed back in a RecordResult.
type BookInfo struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	ISBN      string `json:"isbn"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// FormattedLink is one display-ready purchase link entry.
type FormattedLink struct {
	Platform    string `json:"platform"`
	Name        string `json:"name"`
	URL         string `json:"url"`
	Available   bool   `json:"available"`
	Price       string `json:"price,omitempty"`
	Currency    string `json:"currency,omitempty"`
	IsEbook     bool   `json:"is_ebook"`
	IsAffiliate bool   `json:"is_affiliate"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
	Priority    int    `json:"priority"`
	Error       string `json:"error,omitempty"`
}

// RecordResult is the facade's answer for one catalog record.
type RecordResult struct {
	Success        bool             `json:"success"`
	BookInfo       BookInfo         `json:"book_info"`
	PurchaseLinks  []FormattedLink  `json:"purchase_links"`
	Metadata       service.Metadata `json:"metadata"`
	TotalAvailable int              `json:"total_available"`
	Error          string           `json:"error,omitempty"`
}

// Manager wraps a Service with record extraction and link formatting.
type Manager struct {
	svc *service.Service
}

// New builds a Manager over the given service.
func New(svc *service.Service) *Manager {
	return &Manager{svc: svc}
}

// Service exposes the underlying service for operational calls.
func (m *Manager) Service() *service.Service {
	return m.svc
}

// LinksForRecord resolves purchase links for a catalog record. The
// record's title is required; authors and identifiers are optional.
func (m *Manager) LinksForRecord(ctx context.Context, rec CatalogRecord, preferred []string) *RecordResult {
	info := rec.VolumeInfo
	if info.Title == "" {
		return &RecordResult{
			PurchaseLinks: []FormattedLink{},
			Error:         "book title not found in provided data",
		}
	}

	var author string
	if len(info.Authors) > 0 {
		author = info.Authors[0]
	}
	isbn := PreferredISBN(info.IndustryIdentifiers)

	res := m.svc.GetPurchaseLinks(ctx, info.Title, author, isbn, preferred, true)
	if !res.Success {
		return &RecordResult{
			PurchaseLinks: []FormattedLink{},
			Metadata:      res.Metadata,
			Error:         res.Error,
		}
	}

	formatted := FormatLinks(res.Links)
	total := 0
	for _, fl := range formatted {
		if fl.Available {
			total++
		}
	}

	return &RecordResult{
		Success: true,
		BookInfo: BookInfo{
			Title:     info.Title,
			Author:    author,
			ISBN:      isbn,
			Thumbnail: info.ImageLinks.Thumbnail,
		},
		PurchaseLinks:  formatted,
		Metadata:       res.Metadata,
		TotalAvailable: total,
	}
}

// QuickLinks returns only the available formatted links for a plain
// title/author/isbn query. Failures yield an empty slice.
func (m *Manager) QuickLinks(ctx context.Context, title, author, isbn string) []FormattedLink {
	res := m.svc.GetPurchaseLinks(ctx, title, author, isbn, nil, true)
	if !res.Success {
		slog.Debug("Quick links lookup failed", "title", title, "error", res.Error)
		return []FormattedLink{}
	}

	out := []FormattedLink{}
	for _, fl := range FormatLinks(res.Links) {
		if fl.Available {
			out = append(out, fl)
		}
	}
	return out
}

// PlatformInfo proxies the service's platform status report.
func (m *Manager) PlatformInfo() service.StatusReport {
	return m.svc.PlatformStatus()
}

// ClearCache proxies the service cache clear.
func (m *Manager) ClearCache() {
	m.svc.ClearCache()
}

// HealthCheck proxies the service health probe.
func (m *Manager) HealthCheck(ctx context.Context) service.HealthReport {
	return m.svc.HealthCheck(ctx)
}

// PreferredISBN picks the best identifier: ISBN_13 first, then
// ISBN_10, then whatever comes first.
func PreferredISBN(ids []IndustryIdentifier) string {
	for _, id := range ids {
		if id.Type == "ISBN_13" {
			return id.Identifier
		}
	}
	for _, id := range ids {
		if id.Type == "ISBN_10" {
			return id.Identifier
		}
	}
	if len(ids) > 0 {
		return ids[0].Identifier
	}
	return ""
}

// FormatLinks flattens a platform→link map into a priority-sorted
// slice with display metadata. Unavailable entries carry an error
// string instead of being dropped.
func FormatLinks(links map[string]*link.PurchaseLink) []FormattedLink {
	ids := make([]string, 0, len(links))
	for id := range links {
		ids = append(ids, id)
	}
	platform.SortByPriority(ids)

	out := make([]FormattedLink, 0, len(ids))
	for _, id := range ids {
		l := links[id]
		info := platform.Get(id)

		fl := FormattedLink{
			Platform:    id,
			Name:        info.Name,
			URL:         l.URL,
			Available:   l.Available,
			Price:       l.Price,
			Currency:    l.Currency,
			IsEbook:     l.IsEbook,
			IsAffiliate: l.IsAffiliate,
			Icon:        info.Icon,
			Color:       info.Color,
			Priority:    info.Priority,
		}
		if !fl.Available {
			if reason, ok := l.Metadata["error_reason"].(string); ok && reason != "" {
				fl.Error = reason
			} else {
				fl.Error = "Link not available"
			}
		}
		out = append(out, fl)
	}
	return out
}

// LinksForBook is a convenience wrapper that builds a throwaway
// manager from config. Long lived callers should construct their own.
func LinksForBook(ctx context.Context, cfg *config.Config, rec CatalogRecord) *RecordResult {
	m := New(service.New(cfg))
	defer closeQuiet(m)
	return m.LinksForRecord(ctx, rec, nil)
}

// QuickLinksFor is the quick-query counterpart of LinksForBook.
func QuickLinksFor(ctx context.Context, cfg *config.Config, title, author, isbn string) []FormattedLink {
	m := New(service.New(cfg))
	defer closeQuiet(m)
	return m.QuickLinks(ctx, title, author, isbn)
}

func closeQuiet(m *Manager) {
	if err := m.svc.Close(); err != nil {
		slog.Warn("Failed to close purchase link service", "error", err)
	}
}
