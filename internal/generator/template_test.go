package generator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliodrift/shelflink/internal/config"
	"github.com/bibliodrift/shelflink/internal/link"
)

func TestAmazonISBNSearch(t *testing.T) {
	cfg := config.Default()
	cfg.AmazonAffiliateTag = "shelflink-20"

	l, err := NewAmazon(cfg).GenerateLink(context.Background(), "The Great Gatsby", "F. Scott Fitzgerald", "978-0743273565")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "https://www.amazon.com/s?k=9780743273565&i=stripbooks&tag=shelflink-20", l.URL)
	assert.Equal(t, link.SearchISBN, l.SearchType)
	assert.True(t, l.Available)
	assert.True(t, l.IsAffiliate)
	assert.Equal(t, link.StatusAvailable, l.Status)
}

func TestAmazonTitleAuthorSearch(t *testing.T) {
	l, err := NewAmazon(config.Default()).GenerateLink(context.Background(), "The Great Gatsby", "F. Scott Fitzgerald", "")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "https://www.amazon.com/s?k=The+Great+Gatsby+F+Scott+Fitzgerald&i=stripbooks", l.URL)
	assert.Equal(t, link.SearchTitleAuthor, l.SearchType)
	assert.False(t, l.IsAffiliate)
}

func TestAmazonInvalidISBNFallsBack(t *testing.T) {
	l, err := NewAmazon(config.Default()).GenerateLink(context.Background(), "The Great Gatsby", "", "not-an-isbn")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "https://www.amazon.com/s?k=The+Great+Gatsby&i=stripbooks", l.URL)
	assert.Equal(t, link.SearchTitleOnly, l.SearchType)
}

func TestFlipkartAffiliateParam(t *testing.T) {
	cfg := config.Default()
	cfg.FlipkartAffiliateID = "shelfaff"

	l, err := NewFlipkart(cfg).GenerateLink(context.Background(), "The Great Gatsby", "", "9780743273565")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "https://www.flipkart.com/search?q=9780743273565&otracker=search&affid=shelfaff", l.URL)
	assert.True(t, l.IsAffiliate)
	assert.Equal(t, "IN", l.Metadata["region"])
}

func TestBarnesNobleDashSeparator(t *testing.T) {
	l, err := NewBarnesNoble(config.Default()).GenerateLink(context.Background(), "The Great Gatsby", "F. Scott Fitzgerald", "")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "https://www.barnesandnoble.com/s/The-Great-Gatsby-F-Scott-Fitzgerald", l.URL)
	assert.Equal(t, link.SearchTitleAuthor, l.SearchType)
	assert.False(t, l.IsAffiliate)
}

func TestBarnesNobleAffiliateFlagOnly(t *testing.T) {
	cfg := config.Default()
	cfg.BarnesNobleAffiliateID = "bn-123"

	l, err := NewBarnesNoble(cfg).GenerateLink(context.Background(), "Dune", "", "")
	require.NoError(t, err)
	require.NotNil(t, l)

	assert.Equal(t, "https://www.barnesandnoble.com/s/Dune", l.URL)
	assert.True(t, l.IsAffiliate)
}

func TestTemplateGeneratorsRejectEmptyTitle(t *testing.T) {
	cfg := config.Default()
	gens := []Generator{NewAmazon(cfg), NewFlipkart(cfg), NewBarnesNoble(cfg)}
	for _, g := range gens {
		l, err := g.GenerateLink(context.Background(), "  ", "", "")
		assert.ErrorIs(t, err, link.ErrEmptyTitle, g.Platform())
		assert.Nil(t, l)
	}
}
