package customers

import (
	"github.com/samber/lo"

	"github.com/mkrogh/shop-backend/internal/domain"
	"github.com/mkrogh/shop-backend/internal/orders"
)

// CustomerDTO never carries the stored password.
type CustomerDTO struct {
	Email  string            `json:"email"`
	Orders []orders.OrderDTO `json:"orders"`
}

func CustomerToDTO(c domain.Customer) CustomerDTO {
	return CustomerDTO{
		Email:  c.Email,
		Orders: lo.Map(c.Orders, func(o domain.Order, _ int) orders.OrderDTO { return orders.OrderToDTO(o) }),
	}
}

// CustomerFromDTO maps a wire customer to the domain; the password is not
// part of the wire shape and stays empty.
func CustomerFromDTO(d CustomerDTO) (domain.Customer, error) {
	var c domain.Customer

	owned := make([]domain.Order, 0, len(d.Orders))
	for _, o := range d.Orders {
		order, err := orders.OrderFromDTO(o)
		if err != nil {
			return c, err
		}
		owned = append(owned, order)
	}

	return domain.Customer{
		Email:  d.Email,
		Orders: owned,
	}, nil
}
