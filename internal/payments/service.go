package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/ariefcatur/go-wholesale-rfq/internal/redisx"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

var amountTolerance = decimal.New(1, -2)

type QuoteReader interface {
	GetQuote(ctx context.Context, id string) (quotes.Quote, error)
}

type Service struct {
	Store    Store
	Quotes   QuoteReader
	Provider Provider
	Redis    redis.Cmdable // optional status cache
	Events   *events.Emitter
	Now      func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

type CreateInput struct {
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
	Currency        string           `json:"currency"`
	PaymentMethod   string           `json:"paymentMethod"`
	ShippingAddress string           `json:"shippingAddress"`
}

// NewOrderNumber is PO-<utc timestamp>-<6 hex>.
func NewOrderNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return fmt.Sprintf("PO-%s-%s", now.UTC().Format("20060102150405"), suffix)
}

// CreatePaymentOrder opens a PENDING payment for an ACCEPTED quote owned by
// the caller. The amount is the quote total.
func (s *Service) CreatePaymentOrder(ctx context.Context, who auth.Principal, quoteID string, in CreateInput) (Order, error) {
	if who.Role != auth.RoleBuyer {
		return Order{}, apperr.Forbidden("only buyers can create payment orders")
	}
	var c apperr.Collector
	c.Check(strings.TrimSpace(in.PaymentMethod) != "", "paymentMethod is required")
	if err := c.Err("invalid payment order"); err != nil {
		return Order{}, err
	}

	q, err := s.Quotes.GetQuote(ctx, quoteID)
	if errors.Is(err, quotes.ErrNotFound) {
		return Order{}, apperr.NotFound("quote", quoteID)
	}
	if err != nil {
		return Order{}, apperr.Internal("payments.Create", err)
	}
	if q.BuyerID != who.UserID {
		return Order{}, apperr.Forbidden("quote belongs to another buyer")
	}
	if q.Status != quotes.StatusAccepted {
		return Order{}, apperr.Conflict("quote must be ACCEPTED before payment, it is " + string(q.Status))
	}
	if in.Currency != "" && !strings.EqualFold(in.Currency, q.Currency) {
		return Order{}, apperr.Validation("invalid payment order", "currency must match quote currency "+q.Currency)
	}
	if in.TotalAmount != nil && in.TotalAmount.Sub(q.TotalPrice).Abs().GreaterThan(amountTolerance) {
		return Order{}, apperr.Validation("invalid payment order",
			fmt.Sprintf("totalAmount %s does not match quote total %s", in.TotalAmount.StringFixed(2), q.TotalPrice.StringFixed(2)))
	}

	now := s.now().UTC()
	o := Order{
		OrderNumber:     NewOrderNumber(now),
		QuoteID:         q.ID,
		BuyerID:         who.UserID,
		SupplierID:      q.SupplierID,
		TotalAmount:     q.TotalPrice,
		Currency:        q.Currency,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		PaymentStatus:   StatusPending,
		ShippingAddress: strings.TrimSpace(in.ShippingAddress),
		CreatedAt:       now,
		ExpiresAt:       now.Add(TTL),
	}
	authz, err := s.Provider.Authorize(ctx, AuthorizeRequest{
		OrderNumber: o.OrderNumber, Amount: o.TotalAmount, Currency: o.Currency, Method: o.PaymentMethod,
	})
	if err != nil {
		return Order{}, apperr.Internal("payments.Authorize", err)
	}
	o.AuthorizationID = authz.ID
	o.ApprovalURL = authz.ApprovalURL

	err = s.Store.CreatePaymentOrder(ctx, &o)
	if errors.Is(err, ErrBuyerMismatch) {
		return Order{}, apperr.Forbidden("quote belongs to another buyer")
	}
	if err != nil {
		return Order{}, apperr.Internal("payments.Create", err)
	}
	s.cache(ctx, o)
	s.Events.Emit(ctx, events.TopicPaymentOrderCreated, events.EventPaymentOrderCreated, o.OrderNumber, events.PaymentOrderCreatedPayload{
		OrderNumber: o.OrderNumber,
		QuoteID:     o.QuoteID,
		BuyerID:     o.BuyerID,
		TotalAmount: o.TotalAmount,
		Currency:    o.Currency,
		ExpiresAt:   o.ExpiresAt,
	})
	return o, nil
}

type ProcessInput struct {
	PaymentID string `json:"paymentId"`
	PayerID   string `json:"payerId"`
	Token     string `json:"token"`
}

// ProcessPayment captures through the provider and marks the order COMPLETED.
// Processing again overwrites the identifiers.
func (s *Service) ProcessPayment(ctx context.Context, who auth.Principal, orderNumber string, in ProcessInput) (Order, error) {
	o, err := s.load(ctx, orderNumber)
	if err != nil {
		return Order{}, err
	}
	if err := owns(who, o); err != nil {
		return Order{}, err
	}
	capt, err := s.Provider.Capture(ctx, CaptureRequest{
		OrderNumber:     o.OrderNumber,
		AuthorizationID: o.AuthorizationID,
		PaymentID:       in.PaymentID,
		PayerID:         in.PayerID,
		Token:           in.Token,
		Amount:          o.TotalAmount,
		Currency:        o.Currency,
	})
	if err != nil {
		return Order{}, apperr.Internal("payments.Capture", err)
	}
	done, err := s.Store.CompletePaymentOrder(ctx, orderNumber, Completion{
		ExternalPaymentID: capt.ExternalPaymentID,
		PayerID:           in.PayerID,
		Token:             in.Token,
		CompletedAt:       s.now().UTC(),
	})
	if errors.Is(err, ErrNotFound) {
		return Order{}, apperr.NotFound("payment order", orderNumber)
	}
	if err != nil {
		return Order{}, apperr.Internal("payments.Process", err)
	}
	s.cache(ctx, done)
	s.Events.Emit(ctx, events.TopicPaymentCompleted, events.EventPaymentCompleted, done.OrderNumber, events.PaymentCompletedPayload{
		OrderNumber:       done.OrderNumber,
		QuoteID:           done.QuoteID,
		BuyerID:           done.BuyerID,
		SupplierID:        done.SupplierID,
		TotalAmount:       done.TotalAmount,
		Currency:          done.Currency,
		PaymentMethod:     done.PaymentMethod,
		ShippingAddress:   done.ShippingAddress,
		ExternalPaymentID: done.ExternalPaymentID,
	})
	return done, nil
}

func (s *Service) Get(ctx context.Context, who auth.Principal, orderNumber string) (Order, error) {
	o, err := s.cached(ctx, orderNumber)
	if err != nil {
		o, err = s.load(ctx, orderNumber)
		if err != nil {
			return Order{}, err
		}
		s.cache(ctx, o)
	}
	if err := owns(who, o); err != nil {
		return Order{}, err
	}
	return o, nil
}

func owns(who auth.Principal, o Order) error {
	if who.Role == auth.RoleAdmin || (who.Role == auth.RoleBuyer && who.UserID == o.BuyerID) {
		return nil
	}
	return apperr.NotFound("payment order", o.OrderNumber)
}

func (s *Service) load(ctx context.Context, orderNumber string) (Order, error) {
	o, err := s.Store.GetPaymentOrder(ctx, orderNumber)
	if errors.Is(err, ErrNotFound) {
		return Order{}, apperr.NotFound("payment order", orderNumber)
	}
	if err != nil {
		return Order{}, apperr.Internal("payments.Get", err)
	}
	return o, nil
}

func (s *Service) cache(ctx context.Context, o Order) {
	if s.Redis == nil {
		return
	}
	b, err := json.Marshal(o)
	if err != nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyPaymentStatus, o.OrderNumber)
	if err := s.Redis.Set(ctx, key, b, redisx.TTLStatusCache).Err(); err != nil {
		log.Printf("cache payment order %s: %v", o.OrderNumber, err)
	}
}

func (s *Service) cached(ctx context.Context, orderNumber string) (Order, error) {
	if s.Redis == nil {
		return Order{}, redis.Nil
	}
	raw, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeyPaymentStatus, orderNumber)).Bytes()
	if err != nil {
		return Order{}, err
	}
	var o Order
	if err := json.Unmarshal(raw, &o); err != nil {
		return Order{}, err
	}
	return o, nil
}
