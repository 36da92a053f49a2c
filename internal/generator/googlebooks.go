package generator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"github.com/bibliodrift/shelflink/internal/apicache"
	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/link"
	"github.com/bibliodrift/shelflink/internal/ratelimit"
)

// HTTPDoer is the subset of http.Client the Google Books generator needs.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

const userAgent = "shelflink/1.0 (Book Purchase Link Service)"

// GoogleBooks queries the Google Books volumes API and turns the best
// match into a purchase link.
type GoogleBooks struct {
	apiKey     string
	baseURL    string
	httpClient HTTPDoer
	throttle   *ratelimit.Limiter
	respCache  *apicache.DB
	maxRetries int
	retryDelay time.Duration
	linkTTL    time.Duration
}

// GoogleBooksOption configures a GoogleBooks generator.
type GoogleBooksOption func(*GoogleBooks)

// WithHTTPClient replaces the underlying HTTP client, mainly for tests.
func WithHTTPClient(c HTTPDoer) GoogleBooksOption {
	return func(g *GoogleBooks) { g.httpClient = c }
}

// WithResponseCache attaches a persistent API response cache. A nil
// cache is valid and means every call hits the network.
func WithResponseCache(db *apicache.DB) GoogleBooksOption {
	return func(g *GoogleBooks) { g.respCache = db }
}

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) GoogleBooksOption {
	return func(g *GoogleBooks) { g.baseURL = strings.TrimRight(base, "/") }
}

// WithThrottle replaces the courtesy rate limiter.
func WithThrottle(l *ratelimit.Limiter) GoogleBooksOption {
	return func(g *GoogleBooks) { g.throttle = l }
}

// NewGoogleBooks builds a Google Books generator from service config.
func NewGoogleBooks(cfg *config.Config, opts ...GoogleBooksOption) *GoogleBooks {
	g := &GoogleBooks{
		apiKey:  cfg.GoogleBooksAPIKey,
		baseURL: strings.TrimRight(cfg.GoogleBooksBaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeoutDuration(),
		},
		throttle:   ratelimit.NewWindowed("google_books", cfg.RateLimitRequests, cfg.RateLimitWindowDuration()),
		maxRetries: cfg.MaxRetries,
		retryDelay: cfg.RetryDelayDuration(),
		linkTTL:    cfg.CacheTTLDuration(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Platform implements Generator.
func (g *GoogleBooks) Platform() string { return "google_books" }

// GenerateLink searches the volumes API and converts the first result.
// API failures after all retries produce a link with an error status
// rather than an error return.
func (g *GoogleBooks) GenerateLink(ctx context.Context, title, author, isbn string) (*link.PurchaseLink, error) {
	if err := validateInputs(g.Platform(), title, isbn); err != nil {
		return nil, err
	}

	tier := searchTier(author, isbn)
	query := g.buildQuery(tier, title, author, isbn)

	resp, err := g.search(ctx, query)
	if err != nil {
		slog.Error("Google Books search failed", "query", query, "error", err)
		return g.failureLink(tier, err)
	}
	if len(resp.Items) == 0 {
		slog.Debug("Google Books returned no results", "query", query)
		return g.emptyLink(tier, "no_results")
	}
	return g.volumeLink(tier, &resp.Items[0])
}

// buildQuery assembles the q parameter for the chosen search tier.
func (g *GoogleBooks) buildQuery(tier link.SearchType, title, author, isbn string) string {
	switch tier {
	case link.SearchISBN:
		return "isbn:" + link.NormalizeISBN(isbn)
	case link.SearchTitleAuthor:
		return fmt.Sprintf("intitle:%s+inauthor:%s",
			link.CleanSearchTerm(title, "+"), link.CleanSearchTerm(author, "+"))
	default:
		return "intitle:" + link.CleanSearchTerm(title, "+")
	}
}

// search runs the volumes query through the response cache when one is
// attached, fetching from the network on a miss.
func (g *GoogleBooks) search(ctx context.Context, query string) (*volumesResponse, error) {
	resp, hit, err := apicache.GetOrFetch(g.respCache, "volumes:"+query, func() (*volumesResponse, error) {
		return g.fetch(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	if hit {
		slog.Debug("Google Books cache hit", "query", query)
	}
	return resp, nil
}

// fetch performs the actual HTTP round trips with retry and throttling.
func (g *GoogleBooks) fetch(ctx context.Context, query string) (*volumesResponse, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("maxResults", "1")
	params.Set("printType", "books")
	params.Set("projection", "full")
	if g.apiKey != "" {
		params.Set("key", g.apiKey)
	}
	endpoint := g.baseURL + "/volumes?" + params.Encode()

	return retry.DoWithData(
		func() (*volumesResponse, error) {
			if err := g.throttle.Wait(ctx); err != nil {
				return nil, fmt.Errorf("rate limiter: %w", err)
			}
			return g.doRequest(ctx, endpoint)
		},
		retry.Attempts(uint(g.maxRetries)+1),
		retry.Delay(g.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			slog.Warn("Retrying Google Books request", "attempt", n+1, "error", err)
		}),
	)
}

func (g *GoogleBooks) doRequest(ctx context.Context, endpoint string) (*volumesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Connection", "keep-alive")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google books request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("google books returned status %d", resp.StatusCode)
	}

	var out volumesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return &out, nil
}

// volumeLink converts an API volume into a purchase link. Volumes with
// no usable URL become unavailable links instead of errors.
func (g *GoogleBooks) volumeLink(tier link.SearchType, vol *volume) (*link.PurchaseLink, error) {
	info := vol.VolumeInfo
	sale := vol.SaleInfo

	linkURL := sale.BuyLink
	if linkURL == "" {
		linkURL = info.InfoLink
	}
	available := sale.Saleability == "FOR_SALE" || sale.Saleability == "FREE"
	if linkURL == "" {
		available = false
	}

	var price, currency string
	if sale.RetailPrice != nil {
		price = fmt.Sprintf("%.2f", sale.RetailPrice.Amount)
		currency = sale.RetailPrice.CurrencyCode
		if currency == "" {
			currency = "USD"
		}
	}

	meta := map[string]any{
		"title":           info.Title,
		"authors":         info.Authors,
		"publisher":       info.Publisher,
		"published_date":  info.PublishedDate,
		"page_count":      info.PageCount,
		"categories":      info.Categories,
		"average_rating":  info.AverageRating,
		"ratings_count":   info.RatingsCount,
		"thumbnail":       info.ImageLinks.Thumbnail,
		"saleability":     sale.Saleability,
		"google_books_id": vol.ID,
	}

	status := link.StatusAvailable
	if !available {
		status = link.StatusUnavailable
	}

	return link.New(link.Params{
		URL:        linkURL,
		Platform:   g.Platform(),
		Price:      price,
		Currency:   currency,
		Available:  available,
		IsEbook:    sale.IsEbook,
		Status:     status,
		SearchType: tier,
		Metadata:   meta,
	}, g.linkTTL)
}

// emptyLink is the "searched but found nothing" result.
func (g *GoogleBooks) emptyLink(tier link.SearchType, reason string) (*link.PurchaseLink, error) {
	return link.New(link.Params{
		Platform:   g.Platform(),
		Available:  false,
		Status:     link.StatusUnavailable,
		SearchType: tier,
		Metadata:   map[string]any{"error_reason": reason},
	}, g.linkTTL)
}

// failureLink is the terminal result after retries are exhausted.
func (g *GoogleBooks) failureLink(tier link.SearchType, cause error) (*link.PurchaseLink, error) {
	status := link.StatusError
	var urlErr *url.Error
	if errors.As(cause, &urlErr) && urlErr.Timeout() {
		status = link.StatusTimeout
	}
	return link.New(link.Params{
		Platform:   g.Platform(),
		Available:  false,
		Status:     status,
		SearchType: tier,
		Metadata:   map[string]any{"error_reason": cause.Error()},
	}, g.linkTTL)
}
