package link

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestNormalizeISBN(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"hyphens", "978-0-316-76948-8", "9780316769488"},
		{"spaces", "978 0 316 76948 8", "9780316769488"},
		{"mixed", "978-0-316 76948-8", "9780316769488"},
		{"clean", "9780316769488", "9780316769488"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeISBN(tt.input))
		})
	}
}

func TestValidISBN(t *testing.T) {
	tests := []struct {
		name  string
		isbn  string
		valid bool
	}{
		{"isbn-13", "9780143127550", true},
		{"isbn-13 979 prefix", "9791234567890", true},
		{"isbn-13 hyphenated", "978-0-14-312755-0", true},
		{"isbn-10", "0316769487", true},
		{"isbn-10 X check", "043942089X", true},
		{"isbn-10 lowercase x", "043942089x", true},
		{"too short", "12345", false},
		{"letters", "97801431275ab", false},
		{"wrong prefix", "9771234567890", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.valid, ValidISBN(tt.isbn))
		})
	}
}
