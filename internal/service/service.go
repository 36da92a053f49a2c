// Package service orchestrates the per-platform generators: it fans a
// request out to a bounded worker pool, merges the links, and caches
// the merged result by normalized book identity.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bibliodrift/shelflink/internal/apicache"
	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/generator"
	"github.com/bibliodrift/shelflink/internal/link"
	"github.com/bibliodrift/shelflink/internal/linkcache"
	"github.com/bibliodrift/shelflink/internal/platform"
)

// Result is the aggregate outcome of one purchase link request.
type Result struct {
	Success  bool                          `json:"success"`
	Links    map[string]*link.PurchaseLink `json:"links"`
	Metadata Metadata                      `json:"metadata"`
	Error    string                        `json:"error,omitempty"`
}

// Metadata summarizes how an aggregate result was produced. CacheUsed
// is false on every fresh generation; a cache hit returns the stored
// Result untouched.
type Metadata struct {
	Title              string    `json:"title"`
	Author             string    `json:"author,omitempty"`
	ISBN               string    `json:"isbn,omitempty"`
	PlatformsChecked   []string  `json:"platforms_checked"`
	PlatformsAvailable []string  `json:"platforms_available"`
	TotalLinks         int       `json:"total_links"`
	GeneratedAt        time.Time `json:"generated_at"`
	CacheUsed          bool      `json:"cache_used"`
}

// PlatformInfo is one entry of the platform status report.
type PlatformInfo struct {
	Name       string `json:"name"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	Priority   int    `json:"priority"`
	Enabled    bool   `json:"enabled"`
	Configured bool   `json:"configured"`
}

// CacheStats reports the state of the in-memory result cache and, when
// attached, the persistent response cache.
type CacheStats struct {
	Entries         int    `json:"entries"`
	TTLSeconds      int    `json:"ttl_seconds"`
	Backend         string `json:"backend"`
	ResponseEntries int    `json:"response_entries"`
}

// Service owns the generator registry and the result cache. Construct
// with New; the zero value is not usable.
type Service struct {
	cfg        *config.Config
	generators map[string]generator.Generator
	cache      *linkcache.Cache[*Result]
	respCache  *apicache.DB
}

// Option configures a Service.
type Option func(*Service)

// WithGenerator registers or replaces a generator, mainly for tests.
func WithGenerator(g generator.Generator) Option {
	return func(s *Service) { s.generators[g.Platform()] = g }
}

// WithResponseCache attaches a persistent Google Books response cache.
// The service takes ownership and closes it on Close.
func WithResponseCache(db *apicache.DB) Option {
	return func(s *Service) { s.respCache = db }
}

// New builds a Service from config. Google Books and Barnes & Noble are
// always registered; Amazon and Flipkart only when affiliate
// credentials are present.
func New(cfg *config.Config, opts ...Option) *Service {
	s := &Service{
		cfg:        cfg,
		generators: make(map[string]generator.Generator),
		cache:      linkcache.New[*Result](cfg.CacheTTLDuration()),
	}
	for _, opt := range opts {
		opt(s)
	}

	register := func(id string, build func() generator.Generator) {
		if _, ok := s.generators[id]; !ok {
			s.generators[id] = build()
		}
	}

	register(platform.GoogleBooks, func() generator.Generator {
		var gbOpts []generator.GoogleBooksOption
		if s.respCache != nil {
			gbOpts = append(gbOpts, generator.WithResponseCache(s.respCache))
		}
		return generator.NewGoogleBooks(cfg, gbOpts...)
	})
	if cfg.AmazonAffiliateTag != "" || cfg.AmazonAccessKey != "" {
		register(platform.Amazon, func() generator.Generator { return generator.NewAmazon(cfg) })
	}
	if cfg.FlipkartAffiliateID != "" {
		register(platform.Flipkart, func() generator.Generator { return generator.NewFlipkart(cfg) })
	}
	register(platform.BarnesNoble, func() generator.Generator { return generator.NewBarnesNoble(cfg) })

	slog.Info("Purchase link service initialized", "platforms", s.Platforms())
	return s
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.respCache != nil {
		return s.respCache.Close()
	}
	return nil
}

// Platforms returns the registered platform ids in priority order.
func (s *Service) Platforms() []string {
	ids := make([]string, 0, len(s.generators))
	for id := range s.generators {
		ids = append(ids, id)
	}
	platform.SortByPriority(ids)
	return ids
}

// GetPurchaseLinks aggregates purchase links for one book. A nil or
// empty platforms slice means every registered platform. The returned
// Result is never nil; per-platform failures surface as link statuses,
// not as a failed Result.
func (s *Service) GetPurchaseLinks(ctx context.Context, title, author, isbn string, platforms []string, useCache bool) *Result {
	if strings.TrimSpace(title) == "" {
		return &Result{
			Links: map[string]*link.PurchaseLink{},
			Error: "book title is required",
		}
	}

	targets := s.filterPlatforms(platforms)
	if len(targets) == 0 {
		return &Result{
			Links: map[string]*link.PurchaseLink{},
			Error: "no valid platforms requested",
		}
	}

	if useCache {
		if cached, ok := s.cache.Get(title, author, isbn); ok {
			slog.Debug("Result cache hit", "title", title, "isbn", isbn)
			return cached
		}
	}

	links := s.fanOut(ctx, targets, title, author, isbn)

	available := make([]string, 0, len(links))
	for id, l := range links {
		if l.Available {
			available = append(available, id)
		}
	}
	platform.SortByPriority(available)

	result := &Result{
		Success: true,
		Links:   links,
		Metadata: Metadata{
			Title:              title,
			Author:             author,
			ISBN:               isbn,
			PlatformsChecked:   targets,
			PlatformsAvailable: available,
			TotalLinks:         len(available),
			GeneratedAt:        time.Now().UTC(),
		},
	}

	if useCache {
		s.cache.Set(title, author, isbn, result)
	}
	return result
}

// filterPlatforms narrows the requested list to registered generators,
// preserving priority order. Empty input means all registered.
func (s *Service) filterPlatforms(requested []string) []string {
	if len(requested) == 0 {
		return s.Platforms()
	}
	var out []string
	for _, id := range requested {
		if _, ok := s.generators[id]; ok {
			out = append(out, id)
		} else {
			slog.Warn("Skipping unknown or unregistered platform", "platform", id)
		}
	}
	platform.SortByPriority(out)
	return out
}

// fanOut runs the generators through a bounded worker pool and merges
// their links. A panicking generator degrades only its own platform.
func (s *Service) fanOut(ctx context.Context, targets []string, title, author, isbn string) map[string]*link.PurchaseLink {
	workers := s.cfg.MaxConcurrent
	if workers > len(targets) {
		workers = len(targets)
	}
	if workers < 1 {
		workers = 1
	}

	type outcome struct {
		platform string
		link     *link.PurchaseLink
	}

	jobs := make(chan string)
	results := make(chan outcome)

	for i := 0; i < workers; i++ {
		go func() {
			for id := range jobs {
				results <- outcome{platform: id, link: s.runGenerator(ctx, id, title, author, isbn)}
			}
		}()
	}
	go func() {
		for _, id := range targets {
			jobs <- id
		}
		close(jobs)
	}()

	links := make(map[string]*link.PurchaseLink, len(targets))
	for range targets {
		out := <-results
		if out.link != nil {
			links[out.platform] = out.link
		}
	}
	return links
}

// runGenerator invokes one generator behind a panic barrier. Any error
// or panic is converted into an error-status link so the aggregate
// result stays intact.
func (s *Service) runGenerator(ctx context.Context, id, title, author, isbn string) (result *link.PurchaseLink) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Generator panicked", "platform", id, "panic", r)
			result = s.fallbackLink(id, link.StatusError, fmt.Sprintf("generator panic: %v", r))
		}
	}()

	g := s.generators[id]
	l, err := g.GenerateLink(ctx, title, author, isbn)
	if err != nil {
		slog.Error("Generator failed", "platform", id, "error", err)
		return s.fallbackLink(id, link.StatusError, err.Error())
	}
	if l == nil {
		return s.fallbackLink(id, link.StatusUnavailable, "no link generated")
	}
	return l
}

func (s *Service) fallbackLink(id string, status link.Status, reason string) *link.PurchaseLink {
	l, err := link.New(link.Params{
		Platform: id,
		Status:   status,
		Metadata: map[string]any{"error_reason": reason},
	}, s.cfg.CacheTTLDuration())
	if err != nil {
		return nil
	}
	return l
}

// StatusReport covers every known platform, registered or not.
type StatusReport struct {
	TotalPlatforms   int                     `json:"total_platforms"`
	EnabledPlatforms int                     `json:"enabled_platforms"`
	Platforms        map[string]PlatformInfo `json:"platforms"`
}

// PlatformStatus reports every known platform with its display metadata,
// whether a generator is registered, and whether credentials are set.
func (s *Service) PlatformStatus() StatusReport {
	report := StatusReport{
		TotalPlatforms:   len(platform.All()),
		EnabledPlatforms: len(s.generators),
		Platforms:        make(map[string]PlatformInfo),
	}
	for id, cfg := range platform.All() {
		_, enabled := s.generators[id]
		report.Platforms[id] = PlatformInfo{
			Name:       cfg.Name,
			Icon:       cfg.Icon,
			Color:      cfg.Color,
			Priority:   cfg.Priority,
			Enabled:    enabled,
			Configured: s.cfg.PlatformConfigured(id),
		}
	}
	return report
}

// CacheStats reports the in-memory result cache state.
func (s *Service) CacheStats() CacheStats {
	stats := CacheStats{
		Entries:    s.cache.Size(),
		TTLSeconds: int(s.cache.TTL() / time.Second),
		Backend:    "memory",
	}
	if s.respCache != nil {
		if n, err := s.respCache.Size(); err == nil {
			stats.ResponseEntries = n
		}
	}
	return stats
}

// ClearCache drops every cached aggregate result.
func (s *Service) ClearCache() {
	s.cache.Clear()
	slog.Info("Result cache cleared")
}

// ClearResponseCache drops persisted Google Books responses. A no-op
// when no response cache is attached.
func (s *Service) ClearResponseCache() error {
	if s.respCache == nil {
		return nil
	}
	return s.respCache.ClearAll()
}

// HealthReport is the outcome of a HealthCheck probe.
type HealthReport struct {
	Healthy   bool      `json:"healthy"`
	Platforms []string  `json:"platforms"`
	Probe     string    `json:"probe"`
	CacheSize int       `json:"cache_size"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// HealthCheck probes Google Books with a known title, bypassing the
// result cache. Template platforms never fail, so the probe covers the
// only generator with a real upstream.
func (s *Service) HealthCheck(ctx context.Context) HealthReport {
	report := HealthReport{
		Platforms: s.Platforms(),
		Probe:     platform.GoogleBooks,
		CacheSize: s.cache.Size(),
		CheckedAt: time.Now().UTC(),
	}

	res := s.GetPurchaseLinks(ctx, "The Great Gatsby", "F. Scott Fitzgerald", "", []string{platform.GoogleBooks}, false)
	if res.Error != "" {
		report.Error = res.Error
		return report
	}
	l, ok := res.Links[platform.GoogleBooks]
	if !ok || l == nil {
		report.Error = "probe returned no link"
		return report
	}
	if l.Status == link.StatusError || l.Status == link.StatusTimeout {
		if reason, ok := l.Metadata["error_reason"].(string); ok {
			report.Error = reason
		} else {
			report.Error = "probe failed"
		}
		return report
	}
	report.Healthy = true
	return report
}
