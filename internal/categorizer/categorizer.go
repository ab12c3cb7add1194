// Package categorizer classifies free-text line-item descriptions into
// the fixed cost taxonomy using keyword substring matching. It is
// deterministic, pure and total: every input yields a category, with
// "uncategorized" as the sentinel when nothing matches.
package categorizer

import (
	"strings"

	"costeo/ingesta/internal/logging"
	"costeo/ingesta/internal/models"
	"costeo/ingesta/internal/textutils"
)

// Categorizer holds an ordered taxonomy with pre-normalized keywords.
type Categorizer struct {
	taxonomy []Category
	logger   logging.Logger
}

// New builds a categorizer over the default taxonomy.
func New(logger logging.Logger) *Categorizer {
	return NewWithTaxonomy(DefaultTaxonomy(), logger)
}

// NewWithTaxonomy builds a categorizer over a caller-supplied taxonomy,
// e.g. one loaded from a tenant's taxonomy.yaml. Keywords are normalized
// once here so matching is accent- and case-insensitive.
func NewWithTaxonomy(taxonomy []Category, logger logging.Logger) *Categorizer {
	if logger == nil {
		logger = logging.NewLogrusAdapter("info", "text")
	}

	normalized := make([]Category, 0, len(taxonomy))
	for _, cat := range taxonomy {
		keywords := make([]string, 0, len(cat.Keywords))
		for _, kw := range cat.Keywords {
			if n := textutils.NormalizeText(kw); n != "" {
				keywords = append(keywords, n)
			}
		}
		normalized = append(normalized, Category{Name: cat.Name, Keywords: keywords})
	}

	return &Categorizer{taxonomy: normalized, logger: logger}
}

// Categorize returns the first category, in taxonomy declaration order,
// with any keyword contained in the normalized description.
func (c *Categorizer) Categorize(description string) string {
	normalized := textutils.NormalizeText(description)
	if normalized == "" {
		return models.CategoryNone
	}

	for _, cat := range c.taxonomy {
		for _, kw := range cat.Keywords {
			if strings.Contains(normalized, kw) {
				c.logger.Debug("line item categorized",
					logging.Field{Key: logging.FieldCategory, Value: cat.Name},
					logging.Field{Key: "keyword", Value: kw})
				return cat.Name
			}
		}
	}

	return models.CategoryNone
}
