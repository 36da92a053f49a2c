package generator

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/bibliodrift/shelflink/internal/link"
	"github.com/bibliodrift/shelflink/internal/platform"
)

// buildSearchPath fills the platform's template for the chosen tier.
func buildSearchPath(p platform.Patterns, tier link.SearchType, title, author, isbn string) string {
	switch tier {
	case link.SearchISBN:
		return fmt.Sprintf(p.ISBN, link.NormalizeISBN(isbn))
	case link.SearchTitleAuthor:
		return fmt.Sprintf(p.TitleAuthor,
			link.CleanSearchTerm(title, p.Separator),
			link.CleanSearchTerm(author, p.Separator))
	default:
		return fmt.Sprintf(p.Title, link.CleanSearchTerm(title, p.Separator))
	}
}

// appendParam adds a query parameter, picking ? or & as needed. An
// empty value leaves the URL untouched.
func appendParam(u, key, value string) string {
	if value == "" {
		return u
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + key + "=" + url.QueryEscape(value)
}
