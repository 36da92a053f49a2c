// Package platform holds the static registry of supported retail
// platforms: display metadata used for sorting and presentation, and the
// search URL patterns the template-based generators fill in.
package platform

import "sort"

// Platform identifiers. The set is closed; generators are selected from
// it at service construction time.
const (
	GoogleBooks = "google_books"
	Amazon      = "amazon"
	Flipkart    = "flipkart"
	BarnesNoble = "barnes_noble"
)

// Config describes one platform's display and routing metadata. It is
// read-only after process start.
type Config struct {
	Name              string `yaml:"name" json:"name"`
	Icon              string `yaml:"icon" json:"icon"`
	Color             string `yaml:"color" json:"color"`
	Priority          int    `yaml:"priority" json:"priority"`
	AlwaysAvailable   bool   `yaml:"always_available" json:"always_available"`
	RegionSpecific    bool   `yaml:"region_specific" json:"region_specific"`
	RequiresAffiliate bool   `yaml:"requires_affiliate" json:"requires_affiliate"`
}

// Unknown is the fallback config for platform ids outside the registry.
var Unknown = Config{Name: "Unknown", Icon: "fas fa-book", Color: "#000000", Priority: 999}

var supported = map[string]Config{
	GoogleBooks: {
		Name:            "Google Books",
		Icon:            "fab fa-google",
		Color:           "#4285f4",
		Priority:        1,
		AlwaysAvailable: true,
	},
	Amazon: {
		Name:              "Amazon",
		Icon:              "fab fa-amazon",
		Color:             "#ff9900",
		Priority:          2,
		RegionSpecific:    true,
		RequiresAffiliate: true,
	},
	Flipkart: {
		Name:              "Flipkart",
		Icon:              "fas fa-shopping-cart",
		Color:             "#047bd6",
		Priority:          3,
		RegionSpecific:    true,
		RequiresAffiliate: true,
	},
	BarnesNoble: {
		Name:           "Barnes & Noble",
		Icon:           "fas fa-book",
		Color:          "#00a651",
		Priority:       4,
		RegionSpecific: true,
	},
}

// Get returns the config for id, falling back to Unknown for
// unrecognized platforms.
func Get(id string) Config {
	if cfg, ok := supported[id]; ok {
		return cfg
	}
	return Unknown
}

// Known reports whether id is in the supported registry.
func Known(id string) bool {
	_, ok := supported[id]
	return ok
}

// All returns a copy of the full registry.
func All() map[string]Config {
	out := make(map[string]Config, len(supported))
	for id, cfg := range supported {
		out[id] = cfg
	}
	return out
}

// IDs returns all supported platform ids sorted by priority.
func IDs() []string {
	ids := make([]string, 0, len(supported))
	for id := range supported {
		ids = append(ids, id)
	}
	SortByPriority(ids)
	return ids
}

// SortByPriority orders platform ids by ascending priority rank.
// Unknown platforms sort last.
func SortByPriority(ids []string) {
	sort.SliceStable(ids, func(i, j int) bool {
		return Get(ids[i]).Priority < Get(ids[j]).Priority
	})
}

// Patterns holds the search path templates for one template-based
// platform, one per search tier.
type Patterns struct {
	ISBN        string
	TitleAuthor string
	Title       string
	// Separator joins words in cleaned search terms.
	Separator string
}

var searchPatterns = map[string]Patterns{
	Amazon: {
		ISBN:        "/s?k=%s&i=stripbooks",
		TitleAuthor: "/s?k=%s+%s&i=stripbooks",
		Title:       "/s?k=%s&i=stripbooks",
		Separator:   "+",
	},
	Flipkart: {
		ISBN:        "/search?q=%s&otracker=search",
		TitleAuthor: "/search?q=%s+%s&otracker=search",
		Title:       "/search?q=%s&otracker=search",
		Separator:   "+",
	},
	BarnesNoble: {
		ISBN:        "/s/%s",
		TitleAuthor: "/s/%s-%s",
		Title:       "/s/%s",
		Separator:   "-",
	},
}

// SearchPatterns returns the URL templates for a template-based platform.
// The second return is false for platforms that query a remote API
// instead of templating search URLs.
func SearchPatterns(id string) (Patterns, bool) {
	p, ok := searchPatterns[id]
	return p, ok
}
