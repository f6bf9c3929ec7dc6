package filter

import (
	"strings"

	"github.com/kwhalen/internwatch/internal/model"
)

// Ensure KeywordFilter implements model.TitleFilter.
var _ model.TitleFilter = (*KeywordFilter)(nil)

// KeywordFilter selects anchors whose text contains any of the configured
// keywords. Matching is a case-sensitive substring check, so "Intern" also
// matches "Internal" — this mirrors how the board has always been filtered
// and is relied on by existing snapshots. An empty keyword list matches all.
type KeywordFilter struct {
	keywords []string
}

// NewKeywordFilter returns a filter over the given keywords.
func NewKeywordFilter(keywords []string) *KeywordFilter {
	return &KeywordFilter{keywords: keywords}
}

// Match returns true if text contains any keyword as a substring.
func (f *KeywordFilter) Match(text string) bool {
	if len(f.keywords) == 0 {
		return true
	}
	for _, kw := range f.keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}
