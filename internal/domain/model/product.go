package model

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Localized maps a language code ("es", "pt", ...) to a display string.
type Localized map[string]string

// In returns the value for lang, or "" when absent.
func (l Localized) In(lang string) string {
	return l[lang]
}

// Preferred returns the value for lang, falling back to the first
// available language in sorted order so the result is deterministic.
func (l Localized) Preferred(lang string) string {
	if v := l[lang]; v != "" {
		return v
	}
	langs := make([]string, 0, len(l))
	for k := range l {
		langs = append(langs, k)
	}
	sort.Strings(langs)
	for _, k := range langs {
		if l[k] != "" {
			return l[k]
		}
	}
	return ""
}

// AnyEquals reports whether any language value equals s.
func (l Localized) AnyEquals(s string) bool {
	for _, v := range l {
		if v == s {
			return true
		}
	}
	return false
}

type Visibility int

const (
	VisibilityUnknown Visibility = iota
	VisibilityHidden
	VisibilityVisible
)

// VisibilityFromPublished maps the platform's nullable published flag.
// The platform omits the flag on some records; how Unknown is treated
// during a sync run is a configuration choice, not a model decision.
func VisibilityFromPublished(published *bool) Visibility {
	switch {
	case published == nil:
		return VisibilityUnknown
	case *published:
		return VisibilityVisible
	default:
		return VisibilityHidden
	}
}

type Product struct {
	ID          int64
	Name        Localized
	Description Localized
	Visibility  Visibility
	Attributes  []Localized
	Categories  []Category
	Variants    []Variant
	Images      []Image
	Tags        string
}

type Category struct {
	ID   int64
	Name Localized
}

type Variant struct {
	ID               int64
	SKU              string
	Price            decimal.Decimal
	PromotionalPrice *decimal.Decimal
	Stock            *int
	Weight           *decimal.Decimal
	Values           []Localized
}

type Image struct {
	ID       int64
	Src      string
	Position int
}
