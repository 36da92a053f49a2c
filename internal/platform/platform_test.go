package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestGetKnownPlatforms(t *testing.T) {
	tests := []struct {
		id       string
		name     string
		priority int
	}{
		{GoogleBooks, "Google Books", 1},
		{Amazon, "Amazon", 2},
		{Flipkart, "Flipkart", 3},
		{BarnesNoble, "Barnes & Noble", 4},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			cfg := Get(tt.id)
			assert.Equal(t, tt.name, cfg.Name)
			assert.Equal(t, tt.priority, cfg.Priority)
		})
	}
}

func TestGetUnknownPlatform(t *testing.T) {
	cfg := Get("ebay")
	assert.Equal(t, "Unknown", cfg.Name)
	assert.Equal(t, 999, cfg.Priority)
	assert.False(t, Known("ebay"))
}

func TestIDsSortedByPriority(t *testing.T) {
	assert.Equal(t, []string{GoogleBooks, Amazon, Flipkart, BarnesNoble}, IDs())
}

func TestSortByPriority(t *testing.T) {
	ids := []string{BarnesNoble, GoogleBooks, Flipkart, Amazon}
	SortByPriority(ids)
	assert.Equal(t, []string{GoogleBooks, Amazon, Flipkart, BarnesNoble}, ids)
}

func TestSearchPatterns(t *testing.T) {
	p, ok := SearchPatterns(BarnesNoble)
	assert.True(t, ok)
	assert.Equal(t, "-", p.Separator)

	_, ok = SearchPatterns(GoogleBooks)
	assert.False(t, ok)
}

func TestLoadOverrides(t *testing.T) {
	orig := supported[Amazon]
	t.Cleanup(func() { supported[Amazon] = orig })

	path := filepath.Join(t.TempDir(), "platforms.yaml")
	content := `amazon:
  name: Amazon India
  priority: 9
ebay:
  name: eBay
`
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	assert.NoError(t, LoadOverrides(path))

	cfg := Get(Amazon)
	assert.Equal(t, "Amazon India", cfg.Name)
	assert.Equal(t, 9, cfg.Priority)
	// Untouched fields keep their defaults.
	assert.Equal(t, "#ff9900", cfg.Color)
	// Unknown platforms in the file are ignored.
	assert.False(t, Known("ebay"))
}

func TestLoadOverridesMissingFile(t *testing.T) {
	err := LoadOverrides(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
