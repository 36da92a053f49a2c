// Package link defines the purchase link entity shared by all platform
// generators, together with the validation rules for URLs and ISBNs.
package link

import (
	"errors"
	"fmt"
	"regexp"
	"time"
)

// Status describes the outcome of a link generation attempt.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusUnavailable Status = "unavailable"
	StatusError       Status = "error"
	StatusTimeout     Status = "timeout"
)

// SearchType identifies which search tier produced a link.
// ISBN matches take precedence over title+author, which take
// precedence over title-only searches.
type SearchType string

const (
	SearchISBN        SearchType = "isbn"
	SearchTitleAuthor SearchType = "title_author"
	SearchTitleOnly   SearchType = "title"
)

var (
	// ErrEmptyPlatform is returned when a link is constructed without a platform id.
	ErrEmptyPlatform = errors.New("platform identifier cannot be empty")
	// ErrEmptyTitle is returned by generators when the book title is blank.
	ErrEmptyTitle = errors.New("book title cannot be empty")
)

// InvalidURLError reports a URL that failed the purchase link URL grammar.
type InvalidURLError struct {
	URL string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL format: %s", e.URL)
}

// urlPattern accepts http/https URLs with a domain, localhost or IPv4 host,
// an optional port and an optional path or query.
var urlPattern = regexp.MustCompile(`(?i)^https?://` +
	`(?:(?:[A-Z0-9](?:[A-Z0-9-]{0,61}[A-Z0-9])?\.)+[A-Z]{2,6}\.?|` +
	`localhost|` +
	`\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})` +
	`(?::\d+)?` +
	`(?:/?|[/?]\S+)$`)

// ValidURL reports whether url matches the purchase link URL grammar.
func ValidURL(url string) bool {
	return urlPattern.MatchString(url)
}

// PurchaseLink is an immutable record of one platform's result for one
// book query. A link with an empty URL is only valid when Available is
// false (nothing to buy, or the lookup failed).
type PurchaseLink struct {
	URL         string         `json:"url"`
	Platform    string         `json:"platform"`
	Price       string         `json:"price,omitempty"`
	Currency    string         `json:"currency,omitempty"`
	Available   bool           `json:"available"`
	IsEbook     bool           `json:"is_ebook"`
	IsAffiliate bool           `json:"is_affiliate"`
	Status      Status         `json:"status"`
	SearchType  SearchType     `json:"search_type"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
	ExpiresAt   time.Time      `json:"expires_at"`
}

// Params carries the inputs for New. Zero values are valid for every
// optional field.
type Params struct {
	URL         string
	Platform    string
	Price       string
	Currency    string
	Available   bool
	IsEbook     bool
	IsAffiliate bool
	Status      Status
	SearchType  SearchType
	Metadata    map[string]any
	GeneratedAt time.Time
	ExpiresAt   time.Time
}

// New validates p and builds an immutable PurchaseLink. The URL may be
// empty only for unavailable links; a non-empty URL must match the URL
// grammar. ExpiresAt defaults to GeneratedAt plus ttl when unset.
func New(p Params, ttl time.Duration) (*PurchaseLink, error) {
	if p.Platform == "" {
		return nil, ErrEmptyPlatform
	}
	if p.URL != "" && !ValidURL(p.URL) {
		return nil, &InvalidURLError{URL: p.URL}
	}
	if p.URL == "" && p.Available {
		return nil, &InvalidURLError{URL: p.URL}
	}

	if p.Status == "" {
		p.Status = StatusAvailable
	}
	if p.SearchType == "" {
		p.SearchType = SearchTitleOnly
	}
	if p.GeneratedAt.IsZero() {
		p.GeneratedAt = time.Now().UTC()
	}
	if p.ExpiresAt.IsZero() {
		p.ExpiresAt = p.GeneratedAt.Add(ttl)
	}

	return &PurchaseLink{
		URL:         p.URL,
		Platform:    p.Platform,
		Price:       p.Price,
		Currency:    p.Currency,
		Available:   p.Available,
		IsEbook:     p.IsEbook,
		IsAffiliate: p.IsAffiliate,
		Status:      p.Status,
		SearchType:  p.SearchType,
		Metadata:    p.Metadata,
		GeneratedAt: p.GeneratedAt,
		ExpiresAt:   p.ExpiresAt,
	}, nil
}

// IsExpired reports whether the link data has passed its expiry time.
func (l *PurchaseLink) IsExpired() bool {
	return time.Now().After(l.ExpiresAt)
}
