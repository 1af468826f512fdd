package usecases

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube/dto"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
)

// valueSentinel fills variant value slots the origin left empty; the
// platform rejects variants whose value count differs from the
// product's attribute count.
const valueSentinel = "Único"

var one = decimal.NewFromInt(1)

type categoryMapper interface {
	ids(categories []model.Category) []int64
}

// passthroughCategories sends origin category IDs as-is. Valid only
// when both stores share a category ID space.
type passthroughCategories struct{}

func (passthroughCategories) ids(categories []model.Category) []int64 {
	out := make([]int64, 0, len(categories))
	seen := make(map[int64]bool, len(categories))
	for _, c := range categories {
		if c.ID == 0 || seen[c.ID] {
			continue
		}
		seen[c.ID] = true
		out = append(out, c.ID)
	}
	return out
}

// namedCategories translates origin categories to destination IDs by
// display name. Origin categories with no destination match are
// silently dropped.
type namedCategories struct {
	byName map[string]int64
}

func newNamedCategories(destination []model.Category) namedCategories {
	byName := make(map[string]int64)
	for _, c := range destination {
		names := make([]string, 0, len(c.Name))
		for _, v := range c.Name {
			if v != "" {
				names = append(names, v)
			}
		}
		sort.Strings(names)
		for _, name := range names {
			if _, ok := byName[name]; !ok {
				byName[name] = c.ID
			}
		}
	}
	return namedCategories{byName: byName}
}

func (n namedCategories) ids(categories []model.Category) []int64 {
	var out []int64
	seen := make(map[int64]bool, len(categories))
	for _, c := range categories {
		id, ok := n.lookup(c.Name)
		if !ok || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (n namedCategories) lookup(name model.Localized) (int64, bool) {
	values := make([]string, 0, len(name))
	for _, v := range name {
		if v != "" {
			values = append(values, v)
		}
	}
	sort.Strings(values)
	for _, v := range values {
		if id, ok := n.byName[v]; ok {
			return id, true
		}
	}
	return 0, false
}

type payloadBuilder struct {
	factor      decimal.Decimal
	defaultLang string
	managedTag  string
	categories  categoryMapper
}

func newPayloadBuilder(cfg config.SyncConfig, categories categoryMapper) *payloadBuilder {
	return &payloadBuilder{
		factor:      decimal.NewFromFloat(cfg.PriceFactor),
		defaultLang: cfg.DefaultLanguage,
		managedTag:  cfg.ManagedTag,
		categories:  categories,
	}
}

// full builds the create/update body for a visible origin product.
// published is forced true: only visible origin products reach the
// upsert pass, and the hide pass owns unpublishing.
func (b *payloadBuilder) full(p model.Product) dto.ProductPayload {
	published := true
	payload := dto.ProductPayload{
		Name:        p.Name,
		Description: p.Description,
		Published:   &published,
		Categories:  b.categories.ids(p.Categories),
		Tags:        appendTag(p.Tags, b.managedTag),
	}

	for _, v := range p.Variants {
		price, promo := adjustPrices(v.Price, v.PromotionalPrice, b.factor)
		vp := dto.VariantPayload{
			SKU:              v.SKU,
			Price:            price,
			PromotionalPrice: promo,
			Stock:            v.Stock,
			Weight:           v.Weight,
		}
		for _, val := range repairVariantValues(v.Values, p.Attributes, b.defaultLang) {
			vp.Values = append(vp.Values, map[string]string(val))
		}
		payload.Variants = append(payload.Variants, vp)
	}

	for _, img := range p.Images {
		if img.Src == "" {
			continue
		}
		payload.Images = append(payload.Images, dto.ImagePayload{Src: img.Src})
	}

	return payload
}

// hidden is the minimal body of the hide pass.
func (b *payloadBuilder) hidden() dto.ProductPayload {
	published := false
	return dto.ProductPayload{Published: &published}
}

// degradedPayload collapses the variant list to a single variant with
// no values. Used once after a 422: a visible but simplified product
// beats an absent one.
func degradedPayload(payload dto.ProductPayload) dto.ProductPayload {
	if len(payload.Variants) == 0 {
		return payload
	}
	v := payload.Variants[0]
	v.Values = nil
	payload.Variants = []dto.VariantPayload{v}
	return payload
}

// adjustPrices applies the store-wide markup and re-derives the promo
// price from the origin's discount percentage, so a 20% discount stays
// a 20% discount after markup. Results are rounded to whole units with
// half-to-even rounding.
func adjustPrices(price decimal.Decimal, promo *decimal.Decimal, factor decimal.Decimal) (decimal.Decimal, *decimal.Decimal) {
	newPrice := price.Mul(factor).RoundBank(0)
	if promo == nil {
		return newPrice, nil
	}

	discount := one
	if price.IsPositive() {
		discount = promo.Div(price)
	}
	if discount.GreaterThan(one) {
		// promo above price is bad origin data; never raise the price
		discount = one
	}
	newPromo := newPrice.Mul(discount).RoundBank(0)
	return newPrice, &newPromo
}

// repairVariantValues forces the value list into the shape the platform
// validates: exactly one value per declared attribute, no repeats.
// Extra values are truncated, missing slots padded with a sentinel, and
// duplicates disambiguated with the owning attribute's name. Pure and
// idempotent.
func repairVariantValues(values []model.Localized, attributes []model.Localized, defaultLang string) []model.Localized {
	n := len(attributes)
	if n == 0 {
		return nil
	}

	out := make([]model.Localized, 0, n)
	for i := 0; i < n; i++ {
		if i < len(values) && len(values[i]) > 0 {
			out = append(out, values[i])
		} else {
			out = append(out, model.Localized{defaultLang: valueSentinel})
		}
	}

	seen := make(map[string]bool, n)
	for i, v := range out {
		canonical := v.Preferred(defaultLang)
		if !seen[canonical] {
			seen[canonical] = true
			continue
		}
		replacement := prefixWithAttribute(v, attributes[i], defaultLang)
		if seen[replacement.Preferred(defaultLang)] {
			for lang := range replacement {
				replacement[lang] = fmt.Sprintf("%s %d", replacement[lang], i+1)
			}
		}
		seen[replacement.Preferred(defaultLang)] = true
		out[i] = replacement
	}
	return out
}

// prefixWithAttribute rewrites every language entry of a duplicate
// value as "<attribute name> <value>", using the attribute's name in
// the same language where it exists.
func prefixWithAttribute(value, attribute model.Localized, defaultLang string) model.Localized {
	out := make(model.Localized, len(value))
	for lang, v := range value {
		name := attribute.In(lang)
		if name == "" {
			name = attribute.Preferred(defaultLang)
		}
		out[lang] = strings.TrimSpace(name + " " + v)
	}
	return out
}
