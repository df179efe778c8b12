package memstore

import (
	"context"

	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
)

func (s *Store) CreatePaymentOrder(_ context.Context, o *payments.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	q, ok := s.quotes[o.QuoteID]
	if !ok || q.BuyerID != o.BuyerID {
		return payments.ErrBuyerMismatch
	}
	o.SupplierID = q.SupplierID
	s.payments[o.OrderNumber] = *o
	return nil
}

func (s *Store) GetPaymentOrder(_ context.Context, orderNumber string) (payments.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.payments[orderNumber]
	if !ok {
		return payments.Order{}, payments.ErrNotFound
	}
	return o, nil
}

func (s *Store) CompletePaymentOrder(_ context.Context, orderNumber string, c payments.Completion) (payments.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.payments[orderNumber]
	if !ok {
		return payments.Order{}, payments.ErrNotFound
	}
	at := c.CompletedAt
	o.PaymentStatus = payments.StatusCompleted
	o.ExternalPaymentID = c.ExternalPaymentID
	o.PayerID = c.PayerID
	o.Token = c.Token
	o.CompletedAt = &at
	s.payments[orderNumber] = o
	return o, nil
}
