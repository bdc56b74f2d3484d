package products

import (
	"github.com/shopspring/decimal"

	"github.com/mkrogh/shop-backend/internal/domain"
	"github.com/mkrogh/shop-backend/internal/hypermedia"
)

// ProductDTO is the wire representation of a product. Links are only set on
// responses and depend on the verb that produced them.
type ProductDTO struct {
	ID              string            `json:"id"`
	Name            string            `json:"name"`
	Price           decimal.Decimal   `json:"price"`
	Currency        string            `json:"currency"`
	RebateQuantity  int               `json:"rebate_quantity"`
	RebatePercent   int               `json:"rebate_percent"`
	UpsellProductID *string           `json:"upsell_product_id,omitempty"`
	ImageURL        string            `json:"image_url"`
	Links           []hypermedia.Link `json:"links,omitempty"`
}

func ProductToDTO(p domain.Product) ProductDTO {
	return ProductDTO{
		ID:              p.ID,
		Name:            p.Name,
		Price:           p.Price,
		Currency:        p.Currency,
		RebateQuantity:  p.RebateQuantity,
		RebatePercent:   p.RebatePercent,
		UpsellProductID: p.UpsellProductID,
		ImageURL:        p.ImageURL,
	}
}

func ProductFromDTO(d ProductDTO) domain.Product {
	return domain.Product{
		ID:              d.ID,
		Name:            d.Name,
		Price:           d.Price,
		Currency:        d.Currency,
		RebateQuantity:  d.RebateQuantity,
		RebatePercent:   d.RebatePercent,
		UpsellProductID: d.UpsellProductID,
		ImageURL:        d.ImageURL,
	}
}
