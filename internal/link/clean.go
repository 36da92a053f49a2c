package link

import (
	"regexp"
	"strings"
)

var unsafeChars = regexp.MustCompile(`[^\w\s-]`)

// CleanSearchTerm strips characters that would break a search URL and
// joins the remaining words with sep. Most retailers use "+" as the word
// separator; Barnes & Noble uses "-".
func CleanSearchTerm(term, sep string) string {
	cleaned := unsafeChars.ReplaceAllString(strings.TrimSpace(term), "")
	return strings.Join(strings.Fields(cleaned), sep)
}
