package dto

import "github.com/shopspring/decimal"

// ProductPayload is the create/update body the platform accepts.
// Categories must be a flat list of integer IDs, never nested objects.
type ProductPayload struct {
	Name        map[string]string `json:"name,omitempty"`
	Description map[string]string `json:"description,omitempty"`
	Published   *bool             `json:"published,omitempty"`
	Categories  []int64           `json:"categories,omitempty"`
	Tags        string            `json:"tags,omitempty"`
	Variants    []VariantPayload  `json:"variants,omitempty"`
	Images      []ImagePayload    `json:"images,omitempty"`
}

type VariantPayload struct {
	SKU              string              `json:"sku,omitempty"`
	Price            decimal.Decimal     `json:"price"`
	PromotionalPrice *decimal.Decimal    `json:"promotional_price,omitempty"`
	Stock            *int                `json:"stock,omitempty"`
	Weight           *decimal.Decimal    `json:"weight,omitempty"`
	Values           []map[string]string `json:"values,omitempty"`
}

type ImagePayload struct {
	Src string `json:"src"`
}
