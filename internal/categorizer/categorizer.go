// Package categorizer assigns a category to a transaction description by
// scanning an ordered keyword table for the first keyword contained in it.
//
// Matching is order dependent: when two keywords both occur in a description
// the one listed first in the configuration wins, regardless of length.
package categorizer

import (
	"strings"

	"fjacquet/finance-dashboard/internal/logging"
	"fjacquet/finance-dashboard/internal/models"
)

// Rule binds a lower-cased keyword to a category name.
type Rule struct {
	Keyword  string
	Category string
}

// KeywordMap is the ordered keyword table. Order is the document order of the
// configuration it was loaded from.
type KeywordMap []Rule

// NewKeywordMap builds a KeywordMap from keyword/category pairs, keeping the
// given order. Keywords are lower-cased and blank keywords dropped.
func NewKeywordMap(pairs ...Rule) KeywordMap {
	km := make(KeywordMap, 0, len(pairs))
	for _, p := range pairs {
		km = km.Add(p.Keyword, p.Category)
	}
	return km
}

// Add appends a rule. A keyword already present keeps its first position and
// takes the new category.
func (km KeywordMap) Add(keyword, category string) KeywordMap {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" {
		return km
	}
	for i := range km {
		if km[i].Keyword == keyword {
			km[i].Category = category
			return km
		}
	}
	return append(km, Rule{Keyword: keyword, Category: category})
}

// Categories returns the distinct category names in first-seen order.
func (km KeywordMap) Categories() []string {
	seen := make(map[string]bool, len(km))
	var out []string
	for _, r := range km {
		if !seen[r.Category] {
			seen[r.Category] = true
			out = append(out, r.Category)
		}
	}
	return out
}

// Categorizer is safe for concurrent use; it never mutates its table.
type Categorizer struct {
	keywords KeywordMap
	logger   logging.Logger
}

// New creates a Categorizer over keywords. A nil or empty table maps every
// description to models.CategoryOther.
func New(keywords KeywordMap, logger logging.Logger) *Categorizer {
	return &Categorizer{
		keywords: keywords,
		logger:   logging.OrDefault(logger),
	}
}

// Keywords returns the table in use.
func (c *Categorizer) Keywords() KeywordMap {
	return c.keywords
}

// Categorize returns the category of the first keyword found in description,
// or models.CategoryOther.
func (c *Categorizer) Categorize(description string) string {
	if len(c.keywords) == 0 {
		return models.CategoryOther
	}

	lower := strings.ToLower(description)
	for _, rule := range c.keywords {
		if strings.Contains(lower, rule.Keyword) {
			c.logger.Debug("Transaction categorized using keyword matching",
				logging.Field{Key: logging.FieldKeyword, Value: rule.Keyword},
				logging.Field{Key: logging.FieldCategory, Value: rule.Category})
			return rule.Category
		}
	}
	return models.CategoryOther
}
