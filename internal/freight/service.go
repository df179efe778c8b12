package freight

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/google/uuid"
)

type Store interface {
	CreateFreightQuote(ctx context.Context, e *Estimate) error
	GetFreightQuote(ctx context.Context, id string) (Estimate, error)
	// UpdateFreightStatus moves id from -> to and fails with ErrStale when the
	// stored status is no longer from.
	UpdateFreightStatus(ctx context.Context, id string, from, to Status, at time.Time) error
}

type Service struct {
	Store Store
	Cost  CostFunc
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Estimate validates req and prices it without persisting anything.
func (s *Service) Estimate(requestedBy string, req Request) (Estimate, error) {
	now := s.now().UTC()
	date, err := Validate(req, now)
	if err != nil {
		return Estimate{}, err
	}
	cost := s.Cost
	if cost == nil {
		cost = LaneCost
	}
	origin, dest := strings.TrimSpace(req.Origin), strings.TrimSpace(req.Destination)
	return Estimate{
		ID:                uuid.NewString(),
		RequestedBy:       requestedBy,
		Origin:            origin,
		Destination:       dest,
		ContainerType:     req.ContainerType,
		ContainerQuantity: req.ContainerQuantity,
		EstimatedDate:     date.UTC(),
		Incoterm:          req.Incoterm,
		Cost:              cost(origin, dest, req.ContainerType, req.ContainerQuantity),
		Currency:          Currency,
		TransitDays:       TransitDays(origin, dest),
		Carrier:           Carrier(origin, dest),
		Status:            StatusCalculated,
		ValidUntil:        now.Add(Validity),
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}

func (s *Service) Calculate(ctx context.Context, requestedBy string, req Request) (Estimate, error) {
	e, err := s.Estimate(requestedBy, req)
	if err != nil {
		return Estimate{}, err
	}
	if err := s.Store.CreateFreightQuote(ctx, &e); err != nil {
		return Estimate{}, apperr.Internal("freight.Calculate", err)
	}
	return e, nil
}

func (s *Service) Get(ctx context.Context, who auth.Principal, id string) (Estimate, error) {
	e, err := s.Store.GetFreightQuote(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Estimate{}, apperr.NotFound("freight quote", id)
	}
	if err != nil {
		return Estimate{}, apperr.Internal("freight.Get", err)
	}
	if who.Role != auth.RoleAdmin && e.RequestedBy != who.UserID {
		return Estimate{}, apperr.NotFound("freight quote", id)
	}
	return e, nil
}

func (s *Service) Confirm(ctx context.Context, who auth.Principal, id string) (Estimate, error) {
	return s.SetStatus(ctx, who, id, StatusConfirmed)
}

// SetStatus applies a transition from the status table. Confirming an estimate
// past its validity expires it instead and reports a conflict.
func (s *Service) SetStatus(ctx context.Context, who auth.Principal, id string, to Status) (Estimate, error) {
	if !to.Valid() {
		return Estimate{}, apperr.Validation("invalid freight status", "status must be one of: draft, calculated, confirmed, expired")
	}
	e, err := s.Get(ctx, who, id)
	if err != nil {
		return Estimate{}, err
	}
	now := s.now().UTC()
	if to == StatusConfirmed && e.Status == StatusCalculated && now.After(e.ValidUntil) {
		if err := s.update(ctx, &e, StatusExpired, now); err != nil {
			return Estimate{}, err
		}
		return Estimate{}, apperr.Conflict("freight quote has expired")
	}
	if !CanTransition(e.Status, to) {
		return Estimate{}, apperr.Conflict("cannot move freight quote from " + string(e.Status) + " to " + string(to))
	}
	if err := s.update(ctx, &e, to, now); err != nil {
		return Estimate{}, err
	}
	return e, nil
}

func (s *Service) update(ctx context.Context, e *Estimate, to Status, now time.Time) error {
	err := s.Store.UpdateFreightStatus(ctx, e.ID, e.Status, to, now)
	if errors.Is(err, ErrStale) {
		return apperr.Conflict("freight quote status changed, reload and retry")
	}
	if err != nil {
		return apperr.Internal("freight.SetStatus", err)
	}
	e.Status = to
	e.UpdatedAt = now
	return nil
}
