package link

import (
	"regexp"
	"strings"
)

// isbnPattern matches ISBN-10 (9 digits plus a digit or X check character)
// and ISBN-13 (978/979 prefix) after normalization. Format check only,
// no checksum verification.
var isbnPattern = regexp.MustCompile(`(?i)^(?:97[89])?\d{9}[\dX]$`)

// NormalizeISBN strips hyphens and spaces from an ISBN.
func NormalizeISBN(isbn string) string {
	normalized := strings.ReplaceAll(isbn, "-", "")
	return strings.ReplaceAll(normalized, " ", "")
}

// ValidISBN reports whether isbn looks like an ISBN-10 or ISBN-13.
func ValidISBN(isbn string) bool {
	return isbnPattern.MatchString(NormalizeISBN(isbn))
}
