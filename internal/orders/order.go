package orders

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound = errors.New("orders: not found")
	ErrStale    = errors.New("orders: status changed concurrently")
)

// Order is created once per completed payment order.
type Order struct {
	ID                 string          `json:"id"`
	UserID             string          `json:"userId"`
	QuoteID            string          `json:"quoteId"`
	SupplierID         string          `json:"supplierId"`
	PaymentOrderNumber string          `json:"paymentOrderNumber"`
	ShippingAddress    string          `json:"shippingAddress"`
	PaymentMethod      string          `json:"paymentMethod"`
	TotalAmount        decimal.Decimal `json:"totalAmount"`
	Currency           string          `json:"currency"`
	Status             Status          `json:"status"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

type ListFilter struct {
	UserID     string
	SupplierID string
	Status     Status
}

type Store interface {
	// CreateOrder is idempotent on PaymentOrderNumber. When an order already
	// exists it overwrites *o with the stored row and reports created=false.
	CreateOrder(ctx context.Context, o *Order) (created bool, err error)
	GetOrder(ctx context.Context, id string) (Order, error)
	ListOrders(ctx context.Context, f ListFilter) ([]Order, error)
	UpdateOrderStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}
