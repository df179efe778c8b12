package cart

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Products is the slice of the catalog the cart needs.
type Products interface {
	Product(ctx context.Context, id string) (catalog.Product, error)
}

type Service struct {
	Store    Store
	Products Products
	Now      func() time.Time
}

type AddInput struct {
	ProductID         string                `json:"productId"`
	ContainerQuantity int                   `json:"containerQuantity"`
	ContainerType     catalog.ContainerType `json:"containerType"`
	PricePerContainer decimal.Decimal       `json:"pricePerContainer"`
	Incoterm          catalog.Incoterm      `json:"incoterm"`
	CustomPrice       *decimal.Decimal      `json:"customPrice"`
	Notes             string                `json:"notes"`
}

func (in AddInput) validate() error {
	var c apperr.Collector
	c.Check(strings.TrimSpace(in.ProductID) != "", "productId is required")
	c.Check(in.ContainerQuantity >= 1, "containerQuantity must be at least 1")
	c.Check(in.ContainerType.Valid(), "containerType must be one of: %s", catalog.ContainerTypeList())
	c.Check(in.PricePerContainer.IsPositive(), "pricePerContainer must be greater than 0")
	c.Check(in.Incoterm.Valid(), "incoterm must be one of: %s", catalog.IncotermList())
	if in.CustomPrice != nil {
		c.Check(in.CustomPrice.IsPositive(), "customPrice must be greater than 0")
	}
	return c.Err("invalid cart item")
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) AddItem(ctx context.Context, userID string, in AddInput) (Item, error) {
	if err := in.validate(); err != nil {
		return Item{}, err
	}
	p, err := s.Products.Product(ctx, in.ProductID)
	if err != nil {
		return Item{}, err
	}
	if !in.PricePerContainer.Equal(p.PricePerContainer) {
		return Item{}, apperr.Validation("invalid cart item", "pricePerContainer does not match the current catalog price")
	}
	if in.CustomPrice != nil && !p.IsNegotiable {
		return Item{}, apperr.Validation("invalid cart item", "customPrice is only allowed for negotiable products")
	}

	now := s.now().UTC()
	it := Item{
		ID:                uuid.NewString(),
		UserID:            userID,
		ProductID:         p.ID,
		SupplierID:        p.SupplierID,
		ContainerQuantity: in.ContainerQuantity,
		ContainerType:     in.ContainerType,
		PricePerContainer: p.PricePerContainer,
		CustomPrice:       in.CustomPrice,
		Incoterm:          in.Incoterm,
		Notes:             in.Notes,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.Store.UpsertCartItem(ctx, &it); err != nil {
		return Item{}, apperr.Internal("cart.AddItem", err)
	}
	return it, nil
}

type UpdateInput struct {
	ContainerQuantity int              `json:"containerQuantity"`
	CustomPrice       *decimal.Decimal `json:"customPrice"`
	Notes             *string          `json:"notes"`
}

func (s *Service) UpdateItem(ctx context.Context, userID, itemID string, in UpdateInput) (Item, error) {
	var c apperr.Collector
	c.Check(in.ContainerQuantity >= 1, "containerQuantity must be at least 1")
	if in.CustomPrice != nil {
		c.Check(in.CustomPrice.IsPositive(), "customPrice must be greater than 0")
	}
	if err := c.Err("invalid cart update"); err != nil {
		return Item{}, err
	}

	it, err := s.Store.GetCartItem(ctx, userID, itemID)
	if errors.Is(err, ErrNotFound) {
		return Item{}, apperr.NotFound("cart item", itemID)
	}
	if err != nil {
		return Item{}, apperr.Internal("cart.UpdateItem", err)
	}
	it.ContainerQuantity = in.ContainerQuantity
	if in.CustomPrice != nil {
		it.CustomPrice = in.CustomPrice
	}
	if in.Notes != nil {
		it.Notes = *in.Notes
	}
	it.UpdatedAt = s.now().UTC()
	if err := s.Store.UpdateCartItem(ctx, &it); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Item{}, apperr.NotFound("cart item", itemID)
		}
		return Item{}, apperr.Internal("cart.UpdateItem", err)
	}
	return it, nil
}

func (s *Service) RemoveItem(ctx context.Context, userID, itemID string) error {
	err := s.Store.DeleteCartItem(ctx, userID, itemID)
	if errors.Is(err, ErrNotFound) {
		return apperr.NotFound("cart item", itemID)
	}
	if err != nil {
		return apperr.Internal("cart.RemoveItem", err)
	}
	return nil
}

func (s *Service) Clear(ctx context.Context, userID string) (int, error) {
	n, err := s.Store.ClearCart(ctx, userID)
	if err != nil {
		return 0, apperr.Internal("cart.Clear", err)
	}
	return n, nil
}

func (s *Service) Items(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.Store.ListCartItems(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("cart.Items", err)
	}
	return items, nil
}

func (s *Service) Stats(ctx context.Context, userID string) (Stats, error) {
	items, err := s.Items(ctx, userID)
	if err != nil {
		return Stats{}, err
	}
	return Summarize(items), nil
}
