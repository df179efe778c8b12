package events

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

const (
	EventQuoteCreated        = "QuoteCreated"
	EventQuoteResponded      = "QuoteResponded"
	EventPaymentOrderCreated = "PaymentOrderCreated"
	EventPaymentCompleted    = "PaymentCompleted"
	EventOrderCreated        = "OrderCreated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // quote id or order number
	Payload       json.RawMessage `json:"payload"`
}

type QuoteCreatedPayload struct {
	QuoteID     string          `json:"quote_id"`
	BuyerID     string          `json:"buyer_id"`
	SupplierID  string          `json:"supplier_id"`
	ItemCount   int             `json:"item_count"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Currency    string          `json:"currency"`
	FromCart    bool            `json:"from_cart"`
	FreightCost decimal.Decimal `json:"freight_cost"`
}

type QuoteRespondedPayload struct {
	QuoteID    string          `json:"quote_id"`
	From       string          `json:"from"`
	To         string          `json:"to"`
	UserID     string          `json:"user_id"`
	UserType   string          `json:"user_type"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type PaymentOrderCreatedPayload struct {
	OrderNumber string          `json:"order_number"`
	QuoteID     string          `json:"quote_id"`
	BuyerID     string          `json:"buyer_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
	ExpiresAt   time.Time       `json:"expires_at"`
}

type PaymentCompletedPayload struct {
	OrderNumber       string          `json:"order_number"`
	QuoteID           string          `json:"quote_id"`
	BuyerID           string          `json:"buyer_id"`
	SupplierID        string          `json:"supplier_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Currency          string          `json:"currency"`
	PaymentMethod     string          `json:"payment_method"`
	ShippingAddress   string          `json:"shipping_address,omitempty"`
	ExternalPaymentID string          `json:"external_payment_id"`
}

type OrderCreatedPayload struct {
	OrderID     string          `json:"order_id"`
	OrderNumber string          `json:"payment_order_number"`
	QuoteID     string          `json:"quote_id"`
	UserID      string          `json:"user_id"`
	SupplierID  string          `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Currency    string          `json:"currency"`
}
