package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
)

func (s *Store) CreateOrder(_ context.Context, o *orders.Order) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cur := range s.orders {
		if cur.PaymentOrderNumber == o.PaymentOrderNumber {
			*o = cur
			return false, nil
		}
	}
	s.orders[o.ID] = *o
	return true, nil
}

func (s *Store) GetOrder(_ context.Context, id string) (orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return orders.Order{}, orders.ErrNotFound
	}
	return o, nil
}

func (s *Store) ListOrders(_ context.Context, f orders.ListFilter) ([]orders.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []orders.Order{}
	for _, o := range s.orders {
		if (f.UserID != "" && o.UserID != f.UserID) ||
			(f.SupplierID != "" && o.SupplierID != f.SupplierID) ||
			(f.Status != "" && o.Status != f.Status) {
			continue
		}
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateOrderStatus(_ context.Context, id string, from, to orders.Status, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[id]
	if !ok {
		return orders.ErrNotFound
	}
	if o.Status != from {
		return orders.ErrStale
	}
	o.Status = to
	o.UpdatedAt = at
	s.orders[id] = o
	return nil
}
