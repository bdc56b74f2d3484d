package domain

import (
	"time"

	"github.com/google/uuid"
)

type OrderPlacedEvent struct {
	OrderID       uuid.UUID     `json:"order_id"`
	CustomerEmail *string       `json:"customer_email,omitempty"`
	Details       []OrderDetail `json:"details"`
	Timestamp     time.Time     `json:"timestamp"`
}
