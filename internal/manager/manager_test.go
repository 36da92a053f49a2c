package manager

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/link"
	"github.com/bibliodrift/shelflink/internal/platform"
	"github.com/bibliodrift/shelflink/internal/service"
)

type stubGenerator struct {
	id string
	fn func() (*link.PurchaseLink, error)
}

func (s *stubGenerator) Platform() string { return s.id }

func (s *stubGenerator) GenerateLink(_ context.Context, _, _, _ string) (*link.PurchaseLink, error) {
	return s.fn()
}

func mustLink(t *testing.T, p link.Params) *link.PurchaseLink {
	t.Helper()
	l, err := link.New(p, time.Hour)
	require.NoError(t, err)
	return l
}

func testManager(t *testing.T) *Manager {
	t.Helper()
	google := &stubGenerator{id: platform.GoogleBooks, fn: func() (*link.PurchaseLink, error) {
		return mustLink(t, link.Params{
			URL:       "https://play.google.com/store/books/details?id=abc",
			Platform:  platform.GoogleBooks,
			Price:     "12.99",
			Currency:  "USD",
			Available: true,
			IsEbook:   true,
		}), nil
	}}
	bn := &stubGenerator{id: platform.BarnesNoble, fn: func() (*link.PurchaseLink, error) {
		return mustLink(t, link.Params{
			Platform: platform.BarnesNoble,
			Status:   link.StatusError,
			Metadata: map[string]any{"error_reason": "search page unreachable"},
		}), nil
	}}
	return New(service.New(config.Default(), service.WithGenerator(google), service.WithGenerator(bn)))
}

func TestPreferredISBN(t *testing.T) {
	ids := []IndustryIdentifier{
		{Type: "OTHER", Identifier: "000"},
		{Type: "ISBN_10", Identifier: "0743273567"},
		{Type: "ISBN_13", Identifier: "9780743273565"},
	}
	assert.Equal(t, "9780743273565", PreferredISBN(ids))

	assert.Equal(t, "0743273567", PreferredISBN(ids[:2]))
	assert.Equal(t, "000", PreferredISBN(ids[:1]))
	assert.Equal(t, "", PreferredISBN(nil))
}

func TestLinksForRecord(t *testing.T) {
	m := testManager(t)

	rec := CatalogRecord{VolumeInfo: VolumeInfo{
		Title:   "The Great Gatsby",
		Authors: []string{"F. Scott Fitzgerald", "Someone Else"},
		IndustryIdentifiers: []IndustryIdentifier{
			{Type: "ISBN_13", Identifier: "9780743273565"},
		},
		ImageLinks: ImageLinks{Thumbnail: "https://books.google.com/thumb"},
	}}

	res := m.LinksForRecord(context.Background(), rec, nil)
	require.True(t, res.Success)

	assert.Equal(t, "The Great Gatsby", res.BookInfo.Title)
	assert.Equal(t, "F. Scott Fitzgerald", res.BookInfo.Author)
	assert.Equal(t, "9780743273565", res.BookInfo.ISBN)
	assert.Equal(t, "https://books.google.com/thumb", res.BookInfo.Thumbnail)

	require.Len(t, res.PurchaseLinks, 2)
	assert.Equal(t, platform.GoogleBooks, res.PurchaseLinks[0].Platform)
	assert.Equal(t, "Google Books", res.PurchaseLinks[0].Name)
	assert.Equal(t, "12.99", res.PurchaseLinks[0].Price)
	assert.True(t, res.PurchaseLinks[0].Available)
	assert.Empty(t, res.PurchaseLinks[0].Error)

	assert.Equal(t, platform.BarnesNoble, res.PurchaseLinks[1].Platform)
	assert.False(t, res.PurchaseLinks[1].Available)
	assert.Equal(t, "search page unreachable", res.PurchaseLinks[1].Error)

	assert.Equal(t, 1, res.TotalAvailable)
}

func TestLinksForRecordMissingTitle(t *testing.T) {
	m := testManager(t)

	res := m.LinksForRecord(context.Background(), CatalogRecord{}, nil)
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "title")
	assert.Empty(t, res.PurchaseLinks)
}

func TestQuickLinksFiltersUnavailable(t *testing.T) {
	m := testManager(t)

	links := m.QuickLinks(context.Background(), "The Great Gatsby", "F. Scott Fitzgerald", "")
	require.Len(t, links, 1)
	assert.Equal(t, platform.GoogleBooks, links[0].Platform)
	assert.True(t, links[0].Available)
}

func TestQuickLinksEmptyOnFailure(t *testing.T) {
	m := testManager(t)

	links := m.QuickLinks(context.Background(), "   ", "", "")
	assert.Empty(t, links)
}

func TestFormatLinksDefaultError(t *testing.T) {
	links := map[string]*link.PurchaseLink{
		platform.Amazon: mustLink(t, link.Params{
			Platform: platform.Amazon,
			Status:   link.StatusUnavailable,
		}),
	}

	out := FormatLinks(links)
	require.Len(t, out, 1)
	assert.Equal(t, "Link not available", out[0].Error)
	assert.Equal(t, "Amazon", out[0].Name)
}
