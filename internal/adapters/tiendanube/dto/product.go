package dto

import "github.com/shopspring/decimal"

type ProductDto struct {
	ID          int64               `json:"id"`
	Name        map[string]string   `json:"name"`
	Description map[string]string   `json:"description"`
	Published   *bool               `json:"published"`
	Attributes  []map[string]string `json:"attributes"`
	Categories  []CategoryDto       `json:"categories"`
	Variants    []VariantDto        `json:"variants"`
	Images      []ImageDto          `json:"images"`
	Tags        string              `json:"tags"`
}

type VariantDto struct {
	ID               int64               `json:"id"`
	SKU              *string             `json:"sku"`
	Price            decimal.Decimal     `json:"price"`
	PromotionalPrice *decimal.Decimal    `json:"promotional_price"`
	Stock            *int                `json:"stock"`
	Weight           *decimal.Decimal    `json:"weight"`
	Values           []map[string]string `json:"values"`
}

type ImageDto struct {
	ID       int64  `json:"id"`
	Src      string `json:"src"`
	Position int    `json:"position"`
}
