package link

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
)

func TestNewValidLink(t *testing.T) {
	l, err := New(Params{
		URL:       "https://www.amazon.com/s?k=dune&i=stripbooks",
		Platform:  "amazon",
		Available: true,
	}, time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, "amazon", l.Platform)
	assert.Equal(t, StatusAvailable, l.Status)
	assert.Equal(t, SearchTitleOnly, l.SearchType)
	assert.Equal(t, l.GeneratedAt.Add(time.Hour), l.ExpiresAt)
}

func TestNewEmptyPlatform(t *testing.T) {
	_, err := New(Params{URL: "https://example.com"}, time.Hour)
	assert.IsError(t, err, ErrEmptyPlatform)
}

func TestNewInvalidURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"wrong scheme", "ftp://x.com"},
		{"not a url", "not a url"},
		{"missing scheme", "www.amazon.com/s?k=dune"},
		{"bare scheme", "https://"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Params{URL: tt.url, Platform: "amazon", Available: true}, time.Hour)
			assert.Error(t, err)
			var invalidErr *InvalidURLError
			assert.True(t, errors.As(err, &invalidErr))
			assert.Equal(t, tt.url, invalidErr.URL)
		})
	}
}

func TestNewEmptyURLUnavailable(t *testing.T) {
	// Unavailable links legitimately carry no URL.
	l, err := New(Params{
		Platform: "google_books",
		Status:   StatusUnavailable,
		Metadata: map[string]any{"error_reason": "No results found"},
	}, time.Hour)
	assert.NoError(t, err)
	assert.False(t, l.Available)
	assert.Equal(t, StatusUnavailable, l.Status)
}

func TestNewEmptyURLAvailableFails(t *testing.T) {
	_, err := New(Params{Platform: "amazon", Available: true}, time.Hour)
	assert.Error(t, err)
}

func TestValidURL(t *testing.T) {
	tests := []struct {
		url   string
		valid bool
	}{
		{"https://www.googleapis.com/books/v1/volumes?q=isbn:9780316769488", true},
		{"http://localhost:8080/search", true},
		{"http://127.0.0.1/books", true},
		{"https://books.google.com", true},
		{"https://www.barnesandnoble.com/s/the-hobbit", true},
		{"ftp://x.com", false},
		{"https://", false},
		{"amazon.com", false},
		{"http://no spaces.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidURL(tt.url))
		})
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Now().UTC()

	fresh := &PurchaseLink{ExpiresAt: now.Add(time.Hour)}
	assert.False(t, fresh.IsExpired())

	stale := &PurchaseLink{ExpiresAt: now.Add(-time.Second)}
	assert.True(t, stale.IsExpired())
}
