package tiendanube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube/dto"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
)

// ListAllCategories pages the category listing with the same contract
// as products: 404 terminates pagination, anything else non-2xx aborts.
func (c *Client) ListAllCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	for page := 1; ; page++ {
		resp, err := c.t.send(ctx, http.MethodGet, c.categoriesURL(), c.store.AccessToken, pageQuery(page, c.pageSize()), nil)
		if err != nil {
			return nil, fmt.Errorf("list categories page %d: %w", page, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			break
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("list categories page %d: %w", page, newAPIError(resp))
		}

		var pageDtos []dto.CategoryDto
		if err := json.Unmarshal(resp.Body, &pageDtos); err != nil {
			return nil, fmt.Errorf("decode categories page %d: %w", page, err)
		}
		if len(pageDtos) == 0 {
			break
		}
		for _, d := range pageDtos {
			categories = append(categories, mapCategory(d))
		}
	}
	return categories, nil
}

func (c *Client) categoriesURL() string {
	return fmt.Sprintf("%s/%d/categories", strings.TrimRight(c.api.BaseURL, "/"), c.store.StoreID)
}

func mapCategory(d dto.CategoryDto) model.Category {
	return model.Category{
		ID:   d.ID,
		Name: model.Localized(d.Name),
	}
}
