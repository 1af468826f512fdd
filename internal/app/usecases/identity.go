package usecases

import (
	"fmt"
	"strings"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/logging"
)

// productKey derives the cross-store identity of a product: the first
// non-empty variant SKU, else the default-language name, else the first
// available name. An empty result means the product cannot take part in
// reconciliation.
func productKey(p model.Product, defaultLang string) string {
	for _, v := range p.Variants {
		if sku := strings.TrimSpace(v.SKU); sku != "" {
			return sku
		}
	}
	return p.Name.Preferred(defaultLang)
}

// buildIndex maps key to product, last write wins. The platform never
// reports shared keys, so a collision is only detectable here; it is
// logged because the overwritten match silently drops out of the run.
func buildIndex(products []model.Product, defaultLang string, logger logging.LoggerService) (map[string]model.Product, int) {
	index := make(map[string]model.Product, len(products))
	collisions := 0
	for _, p := range products {
		key := productKey(p, defaultLang)
		if key == "" {
			continue
		}
		if prev, ok := index[key]; ok {
			collisions++
			logger.LogWarning(fmt.Sprintf("key collision key=%s ids=%d,%d keeping last", key, prev.ID, p.ID))
		}
		index[key] = p
	}
	return index, collisions
}

// hasExcludedCategory gates every mutation toward an existing
// destination product: a match in any language freezes it for the run.
func hasExcludedCategory(p model.Product, excludedName string) bool {
	if excludedName == "" {
		return false
	}
	for _, c := range p.Categories {
		if c.Name.AnyEquals(excludedName) {
			return true
		}
	}
	return false
}

// hasTag reports whether the comma-separated tag list contains tag.
func hasTag(tags, tag string) bool {
	if tag == "" {
		return false
	}
	for _, t := range strings.Split(tags, ",") {
		if strings.TrimSpace(t) == tag {
			return true
		}
	}
	return false
}

func appendTag(tags, tag string) string {
	if tag == "" || hasTag(tags, tag) {
		return tags
	}
	if strings.TrimSpace(tags) == "" {
		return tag
	}
	return tags + ", " + tag
}

func tagSet(tags string) map[string]bool {
	set := make(map[string]bool)
	for _, t := range strings.Split(tags, ",") {
		if trimmed := strings.TrimSpace(t); trimmed != "" {
			set[trimmed] = true
		}
	}
	return set
}
