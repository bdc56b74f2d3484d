package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/mkrogh/shop-backend/internal/domain"
	"github.com/mkrogh/shop-backend/internal/products"
)

type OrderDTO struct {
	ID             string           `json:"id"`
	OrderDate      time.Time        `json:"order_date"`
	OrderStatus    string           `json:"order_status"`
	CheckMarketing bool             `json:"check_marketing"`
	SubmitComment  string           `json:"submit_comment"`
	OrderDetails   []OrderDetailDTO `json:"order_details"`
}

type OrderDetailDTO struct {
	ID        string               `json:"id,omitempty"`
	Quantity  int                  `json:"quantity"`
	ProductID string               `json:"product_id"`
	Product   *products.ProductDTO `json:"product,omitempty"`
}

func OrderToDTO(o domain.Order) OrderDTO {
	return OrderDTO{
		ID:             o.ID.String(),
		OrderDate:      o.OrderDate,
		OrderStatus:    string(o.Status),
		CheckMarketing: o.CheckMarketing,
		SubmitComment:  o.SubmitComment,
		OrderDetails:   lo.Map(o.Details, func(d domain.OrderDetail, _ int) OrderDetailDTO { return detailToDTO(d) }),
	}
}

func detailToDTO(d domain.OrderDetail) OrderDetailDTO {
	dto := OrderDetailDTO{
		ID:        d.ID.String(),
		Quantity:  d.Quantity,
		ProductID: d.ProductID,
	}
	if d.Product != nil {
		p := products.ProductToDTO(*d.Product)
		dto.Product = &p
	}
	return dto
}

// OrderFromDTO maps a wire order back to the domain. An empty id yields
// uuid.Nil and lets the repository generate one on insert.
func OrderFromDTO(d OrderDTO) (domain.Order, error) {
	var o domain.Order

	id, err := parseOptionalID(d.ID)
	if err != nil {
		return o, fmt.Errorf("order id: %w", err)
	}

	details := make([]domain.OrderDetail, 0, len(d.OrderDetails))
	for _, detail := range d.OrderDetails {
		mapped, err := detailFromDTO(detail)
		if err != nil {
			return o, err
		}
		details = append(details, mapped)
	}

	return domain.Order{
		ID:             id,
		OrderDate:      d.OrderDate,
		Status:         domain.OrderStatus(d.OrderStatus),
		CheckMarketing: d.CheckMarketing,
		SubmitComment:  d.SubmitComment,
		Details:        details,
	}, nil
}

func detailFromDTO(d OrderDetailDTO) (domain.OrderDetail, error) {
	id, err := parseOptionalID(d.ID)
	if err != nil {
		return domain.OrderDetail{}, fmt.Errorf("order detail id: %w", err)
	}

	return domain.OrderDetail{
		ID:        id,
		Quantity:  d.Quantity,
		ProductID: d.ProductID,
	}, nil
}

func parseOptionalID(s string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(s)
}
