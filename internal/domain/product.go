package domain

import "github.com/shopspring/decimal"

// Product ids are supplied by the caller and immutable once created.
// UpsellProductID is a non-owning reference to another product; it is not
// enforced as a foreign key and may dangle.
type Product struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	RebateQuantity  int             `json:"rebate_quantity"`
	RebatePercent   int             `json:"rebate_percent"`
	UpsellProductID *string         `json:"upsell_product_id,omitempty"`
	ImageURL        string          `json:"image_url"`
}
