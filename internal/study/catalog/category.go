package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Category groups topics for the balance nudge.
type Category string

const (
	CategoryMath       Category = "math"
	CategoryScience    Category = "science"
	CategoryLanguage   Category = "language"
	CategoryHumanities Category = "humanities"
	CategoryTechnology Category = "technology"
)

var categories = []Category{
	CategoryMath,
	CategoryScience,
	CategoryLanguage,
	CategoryHumanities,
	CategoryTechnology,
}

// Categories returns every category in canonical order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// IsValid reports whether c is a known category.
func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory resolves a category name regardless of case.
func ParseCategory(name string) (Category, bool) {
	folded := Category(foldKey(name))
	if folded.IsValid() {
		return folded, true
	}
	return "", false
}

func foldKey(value string) string {
	return cases.Fold().String(strings.TrimSpace(value))
}
