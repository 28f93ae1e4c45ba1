package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the order lifecycle state. "created" is the only state
// accepting new line items and the only automatic initial state; "closed"
// is terminal.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusClosed    OrderStatus = "closed"
)

// ValidOrderStatus reports whether s is a known order status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusCreated, OrderStatusPreparing, OrderStatusClosed:
		return true
	}
	return false
}

// Order accumulates line items for one (client, enterprise) pair. At most
// one order per pair may be in "created" status at a time; placing further
// items appends to it. Total is persisted redundantly and must always equal
// the sum of line price*quantity at insertion time.
type Order struct {
	ID           uuid.UUID       `json:"id"`
	ClientID     uuid.UUID       `json:"client_id"`
	EnterpriseID uuid.UUID       `json:"enterprise_id"`
	Status       OrderStatus     `json:"status"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// OrderLine attaches a product to an order. The product's price at the
// moment of insertion is folded into the order total; the line itself keeps
// only the quantity.
type OrderLine struct {
	ID           int64     `json:"id"`
	OrderID      uuid.UUID `json:"order_id"`
	ProductID    int64     `json:"product_id"`
	ClientID     uuid.UUID `json:"client_id"`
	EnterpriseID uuid.UUID `json:"enterprise_id"`
	Quantity     int       `json:"quantity"`
}

// OrderItemView is a line item joined to its product for client display.
type OrderItemView struct {
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
}

// OrderWithItems is an order together with its joined line items.
type OrderWithItems struct {
	Order
	ClientName string          `json:"client,omitempty"`
	Items      []OrderItemView `json:"items"`
}
