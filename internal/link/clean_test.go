package link

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestCleanSearchTerm(t *testing.T) {
	tests := []struct {
		name     string
		term     string
		sep      string
		expected string
	}{
		{"plain title", "The Great Gatsby", "+", "The+Great+Gatsby"},
		{"author with period", "F. Scott Fitzgerald", "+", "F+Scott+Fitzgerald"},
		{"dash separator", "The Great Gatsby", "-", "The-Great-Gatsby"},
		{"punctuation stripped", "Harry Potter & the Philosopher's Stone!", "+", "Harry+Potter+the+Philosophers+Stone"},
		{"surrounding whitespace", "  Dune  ", "+", "Dune"},
		{"collapsed whitespace", "A   Tale of\tTwo Cities", "+", "A+Tale+of+Two+Cities"},
		{"hyphen kept", "Spider-Man", "+", "Spider-Man"},
		{"empty", "", "+", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanSearchTerm(tt.term, tt.sep))
		})
	}
}
