package catalog

import (
	"fmt"
	"strings"
)

// Filter narrows a catalog listing. Zero values match everything.
type Filter struct {
	// Search matches case-insensitively against name, description and category.
	Search   string
	Category Category
}

func (f Filter) Validate() error {
	if f.Category != "" && !f.Category.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, f.Category)
	}
	return nil
}

func (f Filter) Matches(p *Product) bool {
	if p == nil {
		return false
	}
	if f.Category != "" && p.Category != f.Category {
		return false
	}
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.Description), term) ||
		strings.Contains(strings.ToLower(string(p.Category)), term)
}
