package tiendanube

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/adapters/tiendanube/dto"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/config"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/domain/model"
	"github.com/jaculashoppingflores-creator/clonador-chesmin-a-jacula/internal/logging"
)

type CatalogService interface {
	ListAllProducts(ctx context.Context) ([]model.Product, error)
	ListAllCategories(ctx context.Context) ([]model.Category, error)
}

type ProductWriter interface {
	CreateProduct(ctx context.Context, payload dto.ProductPayload) error
	UpdateProduct(ctx context.Context, productID int64, payload dto.ProductPayload) error
}

type Client struct {
	api   config.APIConfig
	store config.StoreConfig
	t     *transport
}

func NewClient(api config.APIConfig, store config.StoreConfig, httpClient *http.Client, logger logging.LoggerService) CatalogService {
	return &Client{
		api:   api,
		store: store,
		t:     newTransport(httpClient, api.UserAgent, api.MaxRetries, logger),
	}
}

// ListAllProducts pages through the whole product listing. The platform
// answers 404 once the page number runs past the catalog, so 404 is a
// normal end of data, not a failure. Any other non-2xx aborts: a sync
// run must never work from a partial snapshot.
func (c *Client) ListAllProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	for page := 1; ; page++ {
		resp, err := c.t.send(ctx, http.MethodGet, c.productsURL(), c.store.AccessToken, pageQuery(page, c.pageSize()), nil)
		if err != nil {
			return nil, fmt.Errorf("list products page %d: %w", page, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			break
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("list products page %d: %w", page, newAPIError(resp))
		}

		var pageDtos []dto.ProductDto
		if err := json.Unmarshal(resp.Body, &pageDtos); err != nil {
			return nil, fmt.Errorf("decode products page %d: %w", page, err)
		}
		if len(pageDtos) == 0 {
			break
		}
		for _, d := range pageDtos {
			products = append(products, mapProduct(d))
		}
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, payload dto.ProductPayload) error {
	resp, err := c.t.send(ctx, http.MethodPost, c.productsURL(), c.store.AccessToken, nil, payload)
	if err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}
	return nil
}

func (c *Client) UpdateProduct(ctx context.Context, productID int64, payload dto.ProductPayload) error {
	endpoint := c.productsURL() + "/" + strconv.FormatInt(productID, 10)
	resp, err := c.t.send(ctx, http.MethodPut, endpoint, c.store.AccessToken, nil, payload)
	if err != nil {
		return fmt.Errorf("update product %d: %w", productID, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp)
	}
	return nil
}

func (c *Client) productsURL() string {
	return fmt.Sprintf("%s/%d/products", strings.TrimRight(c.api.BaseURL, "/"), c.store.StoreID)
}

func (c *Client) pageSize() int {
	if c.api.PageSize > 0 {
		return c.api.PageSize
	}
	return 200
}

func pageQuery(page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

func mapProduct(d dto.ProductDto) model.Product {
	p := model.Product{
		ID:          d.ID,
		Name:        model.Localized(d.Name),
		Description: model.Localized(d.Description),
		Visibility:  model.VisibilityFromPublished(d.Published),
		Tags:        d.Tags,
	}
	for _, a := range d.Attributes {
		p.Attributes = append(p.Attributes, model.Localized(a))
	}
	for _, c := range d.Categories {
		p.Categories = append(p.Categories, mapCategory(c))
	}
	for _, v := range d.Variants {
		p.Variants = append(p.Variants, mapVariant(v))
	}
	for _, img := range d.Images {
		p.Images = append(p.Images, model.Image{ID: img.ID, Src: img.Src, Position: img.Position})
	}
	return p
}

func mapVariant(d dto.VariantDto) model.Variant {
	v := model.Variant{
		ID:               d.ID,
		Price:            d.Price,
		PromotionalPrice: d.PromotionalPrice,
		Stock:            d.Stock,
		Weight:           d.Weight,
	}
	if d.SKU != nil {
		v.SKU = strings.TrimSpace(*d.SKU)
	}
	for _, val := range d.Values {
		v.Values = append(v.Values, model.Localized(val))
	}
	return v
}
