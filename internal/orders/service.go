package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	"github.com/google/uuid"
)

type Service struct {
	Store  Store
	Events *events.Emitter
	Now    func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CreateFromPayment turns a completed payment into a PENDING order. Replaying
// the same payment returns the existing order and emits nothing.
func (s *Service) CreateFromPayment(ctx context.Context, p events.PaymentCompletedPayload) (Order, bool, error) {
	var c apperr.Collector
	c.Check(p.OrderNumber != "", "order_number is required")
	c.Check(p.BuyerID != "", "buyer_id is required")
	c.Check(p.QuoteID != "", "quote_id is required")
	if err := c.Err("invalid payment event"); err != nil {
		return Order{}, false, err
	}
	now := s.now().UTC()
	o := Order{
		ID:                 uuid.NewString(),
		UserID:             p.BuyerID,
		QuoteID:            p.QuoteID,
		SupplierID:         p.SupplierID,
		PaymentOrderNumber: p.OrderNumber,
		ShippingAddress:    p.ShippingAddress,
		PaymentMethod:      p.PaymentMethod,
		TotalAmount:        p.TotalAmount,
		Currency:           p.Currency,
		Status:             StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	created, err := s.Store.CreateOrder(ctx, &o)
	if err != nil {
		return Order{}, false, apperr.Internal("orders.CreateFromPayment", err)
	}
	if created {
		s.Events.Emit(ctx, events.TopicOrderCreated, events.EventOrderCreated, o.PaymentOrderNumber, events.OrderCreatedPayload{
			OrderID:     o.ID,
			OrderNumber: o.PaymentOrderNumber,
			QuoteID:     o.QuoteID,
			UserID:      o.UserID,
			SupplierID:  o.SupplierID,
			TotalAmount: o.TotalAmount,
			Currency:    o.Currency,
		})
	}
	return o, created, nil
}

func visible(who auth.Principal, o Order) bool {
	switch who.Role {
	case auth.RoleAdmin:
		return true
	case auth.RoleBuyer:
		return o.UserID == who.UserID
	case auth.RoleSupplier:
		return o.SupplierID == who.UserID
	}
	return false
}

func (s *Service) Get(ctx context.Context, who auth.Principal, id string) (Order, error) {
	o, err := s.Store.GetOrder(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Order{}, apperr.NotFound("order", id)
	}
	if err != nil {
		return Order{}, apperr.Internal("orders.Get", err)
	}
	if !visible(who, o) {
		return Order{}, apperr.NotFound("order", id)
	}
	return o, nil
}

func (s *Service) ListMine(ctx context.Context, who auth.Principal, status Status) ([]Order, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.Validation("invalid filter", "unknown status "+string(status))
	}
	f := ListFilter{Status: status}
	switch who.Role {
	case auth.RoleBuyer:
		f.UserID = who.UserID
	case auth.RoleSupplier:
		f.SupplierID = who.UserID
	case auth.RoleAdmin:
	default:
		return nil, apperr.Forbidden("unknown role")
	}
	out, err := s.Store.ListOrders(ctx, f)
	if err != nil {
		return nil, apperr.Internal("orders.List", err)
	}
	if out == nil {
		out = []Order{}
	}
	return out, nil
}

// UpdateStatus is reserved for the order's supplier and admins.
func (s *Service) UpdateStatus(ctx context.Context, who auth.Principal, id string, to Status) (Order, error) {
	to = Status(strings.ToUpper(strings.TrimSpace(string(to))))
	if !to.Valid() {
		return Order{}, apperr.Validation("invalid status", "status must be one of: PENDING, PROCESSING, SHIPPED, DELIVERED, CANCELLED")
	}
	o, err := s.Get(ctx, who, id)
	if err != nil {
		return Order{}, err
	}
	if who.Role != auth.RoleAdmin && !(who.Role == auth.RoleSupplier && o.SupplierID == who.UserID) {
		return Order{}, apperr.Forbidden("only the supplier can update order status")
	}
	if !CanTransition(o.Status, to) {
		return Order{}, apperr.Conflict(fmt.Sprintf("cannot move order from %s to %s", o.Status, to))
	}
	now := s.now().UTC()
	err = s.Store.UpdateOrderStatus(ctx, id, o.Status, to, now)
	if errors.Is(err, ErrStale) {
		return Order{}, apperr.Conflict("order status changed, reload and retry")
	}
	if err != nil {
		return Order{}, apperr.Internal("orders.UpdateStatus", err)
	}
	o.Status = to
	o.UpdatedAt = now
	return o, nil
}
