package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order plus its details form an aggregate: the detail collection is
// persisted and replaced as a unit, never merged field by field.
type Order struct {
	ID             uuid.UUID     `json:"id"`
	CustomerEmail  *string       `json:"customer_email,omitempty"`
	OrderDate      time.Time     `json:"order_date"`
	Status         OrderStatus   `json:"order_status"`
	CheckMarketing bool          `json:"check_marketing"`
	SubmitComment  string        `json:"submit_comment"`
	Details        []OrderDetail `json:"order_details"`
}

// OrderDetail references its product read-only; quantity is captured at
// order time. The product is eagerly loaded on every read.
type OrderDetail struct {
	ID        uuid.UUID `json:"id"`
	Quantity  int       `json:"quantity"`
	ProductID string    `json:"product_id"`
	Product   *Product  `json:"product,omitempty"`
}
