package dto

import "github.com/shopspring/decimal"

// ItemFilter is bound from the query string of GET /v1/items.
type ItemFilter struct {
	Search          string `form:"search"`
	IncludeInactive bool   `form:"include_inactive"`
	Page            int    `form:"page,default=1"   validate:"min=1"`
	Limit           int    `form:"limit,default=50" validate:"min=1,max=200"`
}

type CreateItemRequest struct {
	Name    string          `json:"name" validate:"required,min=1,max=255"`
	SKU     *string         `json:"sku" validate:"omitempty,max=100"`
	Rate    decimal.Decimal `json:"rate" validate:"min=0"`
	Taxable *bool           `json:"taxable"`
}

type UpdateItemRequest struct {
	Name    string           `json:"name" validate:"omitempty,min=1,max=255"`
	SKU     *string          `json:"sku" validate:"omitempty,max=100"`
	Rate    *decimal.Decimal `json:"rate" validate:"omitempty"`
	Taxable *bool            `json:"taxable"`
}

type ItemResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	SKU     *string         `json:"sku,omitempty"`
	Rate    decimal.Decimal `json:"rate"`
	Taxable bool            `json:"taxable"`
	Active  bool            `json:"active"`
}

type ItemListResponse struct {
	Data  []ItemResponse `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
