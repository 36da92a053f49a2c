// Package generator contains the per-platform purchase link generators.
// Google Books queries a real remote API with retry and throttling; the
// retail platforms build deterministic search URLs from templates.
package generator

import (
	"context"
	"log/slog"
	"strings"

	"github.com/bibliodrift/shelflink/internal/link"
)

// Generator produces a purchase link for one platform. Implementations
// return an error only for input validation failures; network problems
// degrade into links with an error status, and template construction
// failures yield (nil, nil) which callers treat as "no link".
type Generator interface {
	Platform() string
	GenerateLink(ctx context.Context, title, author, isbn string) (*link.PurchaseLink, error)
}

// validateInputs enforces the shared input contract: a non-blank title
// is required; a malformed ISBN is logged but not fatal.
func validateInputs(platform, title, isbn string) error {
	if strings.TrimSpace(title) == "" {
		return link.ErrEmptyTitle
	}
	if isbn != "" && !link.ValidISBN(isbn) {
		slog.Warn("Invalid ISBN format", "platform", platform, "isbn", isbn)
	}
	return nil
}

// searchTier picks the search tier for the given inputs. ISBN beats
// title+author beats title-only; a malformed ISBN falls through to the
// next tier.
func searchTier(author, isbn string) link.SearchType {
	switch {
	case isbn != "" && link.ValidISBN(isbn):
		return link.SearchISBN
	case strings.TrimSpace(author) != "":
		return link.SearchTitleAuthor
	default:
		return link.SearchTitleOnly
	}
}
