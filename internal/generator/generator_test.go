package generator

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/bibliodrift/shelflink/internal/link"
)

func TestSearchTier(t *testing.T) {
	tests := []struct {
		name   string
		author string
		isbn   string
		want   link.SearchType
	}{
		{"valid isbn wins", "F. Scott Fitzgerald", "9780743273565", link.SearchISBN},
		{"isbn10 accepted", "", "0743273567", link.SearchISBN},
		{"invalid isbn falls to title author", "F. Scott Fitzgerald", "not-an-isbn", link.SearchTitleAuthor},
		{"author only", "F. Scott Fitzgerald", "", link.SearchTitleAuthor},
		{"blank author is title only", "   ", "", link.SearchTitleOnly},
		{"nothing but title", "", "", link.SearchTitleOnly},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchTier(tt.author, tt.isbn))
		})
	}
}

func TestValidateInputs(t *testing.T) {
	assert.NoError(t, validateInputs("amazon", "The Great Gatsby", ""))
	assert.NoError(t, validateInputs("amazon", "The Great Gatsby", "garbage"))

	err := validateInputs("amazon", "   ", "")
	assert.IsError(t, err, link.ErrEmptyTitle)
}
