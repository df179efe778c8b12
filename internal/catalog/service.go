package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Service struct {
	Store Store
	Now   func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) Categories(ctx context.Context) ([]Category, error) {
	cs, err := s.Store.ListCategories(ctx)
	if err != nil {
		return nil, apperr.Internal("catalog.Categories", err)
	}
	return cs, nil
}

func (s *Service) Category(ctx context.Context, id string) (Category, error) {
	c, err := s.Store.GetCategory(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Category{}, apperr.NotFound("category", id)
	}
	if err != nil {
		return Category{}, apperr.Internal("catalog.Category", err)
	}
	return c, nil
}

func (s *Service) Products(ctx context.Context, f ProductFilter) ([]Product, error) {
	f.Limit = clampLimit(f.Limit)
	if f.Offset < 0 {
		f.Offset = 0
	}
	ps, err := s.Store.ListProducts(ctx, f)
	if err != nil {
		return nil, apperr.Internal("catalog.Products", err)
	}
	return ps, nil
}

// Product returns an active product; inactive ones are reported as missing.
func (s *Service) Product(ctx context.Context, id string) (Product, error) {
	p, err := s.Store.GetProduct(ctx, id)
	if errors.Is(err, ErrNotFound) || (err == nil && !p.IsActive) {
		return Product{}, apperr.NotFound("product", id)
	}
	if err != nil {
		return Product{}, apperr.Internal("catalog.Product", err)
	}
	return p, nil
}

func (s *Service) Search(ctx context.Context, query string) ([]Product, error) {
	q := strings.TrimSpace(query)
	if len(q) < 2 {
		return nil, apperr.Validation("invalid search", "query must be at least 2 characters")
	}
	ps, err := s.Store.SearchProducts(ctx, q, defaultLimit)
	if err != nil {
		return nil, apperr.Internal("catalog.Search", err)
	}
	return ps, nil
}

type ProductInput struct {
	Title             string          `json:"title"`
	Description       string          `json:"description"`
	CategoryID        string          `json:"categoryId"`
	PricePerContainer decimal.Decimal `json:"pricePerContainer"`
	UnitsPerContainer int             `json:"unitsPerContainer"`
	MOQ               int             `json:"moq"`
	MaxQuantity       *int            `json:"maxQuantity"`
	ContainerType     ContainerType   `json:"containerType"`
	StockContainers   int             `json:"stockContainers"`
	IsNegotiable      bool            `json:"isNegotiable"`
	Incoterm          Incoterm        `json:"incoterm"`
	Specifications    Specifications  `json:"specifications"`
	IsActive          *bool           `json:"isActive"`
}

func (in ProductInput) validate() error {
	var c apperr.Collector
	c.Check(strings.TrimSpace(in.Title) != "", "title is required")
	c.Check(in.CategoryID != "", "categoryId is required")
	c.Check(in.PricePerContainer.IsPositive(), "pricePerContainer must be greater than 0")
	c.Check(in.UnitsPerContainer >= 1, "unitsPerContainer must be at least 1")
	c.Check(in.MOQ >= 1, "moq must be at least 1")
	c.Check(in.StockContainers >= 0, "stockContainers cannot be negative")
	if in.MaxQuantity != nil {
		c.Check(in.MOQ <= *in.MaxQuantity, "moq cannot exceed maxQuantity")
	}
	c.Check(in.ContainerType.Valid(), "containerType must be one of: %s", ContainerTypeList())
	c.Check(in.Incoterm.Valid(), "incoterm must be one of: %s", IncotermList())
	return c.Err("invalid product")
}

func (in ProductInput) apply(p *Product) {
	p.Title = strings.TrimSpace(in.Title)
	p.Description = in.Description
	p.CategoryID = in.CategoryID
	p.PricePerContainer = in.PricePerContainer
	p.UnitsPerContainer = in.UnitsPerContainer
	p.MOQ = in.MOQ
	p.MaxQuantity = in.MaxQuantity
	p.ContainerType = in.ContainerType
	p.StockContainers = in.StockContainers
	p.IsNegotiable = in.IsNegotiable
	p.Incoterm = in.Incoterm
	p.Specifications = in.Specifications
	if in.IsActive != nil {
		p.IsActive = *in.IsActive
	}
}

func (s *Service) CreateProduct(ctx context.Context, who auth.Principal, in ProductInput) (Product, error) {
	if who.Role != auth.RoleSupplier {
		return Product{}, apperr.Forbidden("only suppliers can create products")
	}
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	if _, err := s.Category(ctx, in.CategoryID); err != nil {
		return Product{}, err
	}
	now := s.now().UTC()
	p := Product{ID: uuid.NewString(), SupplierID: who.UserID, IsActive: true, CreatedAt: now, UpdatedAt: now}
	in.apply(&p)
	if err := s.Store.CreateProduct(ctx, &p); err != nil {
		return Product{}, apperr.Internal("catalog.CreateProduct", err)
	}
	return p, nil
}

func (s *Service) UpdateProduct(ctx context.Context, who auth.Principal, id string, in ProductInput) (Product, error) {
	if who.Role != auth.RoleSupplier && who.Role != auth.RoleAdmin {
		return Product{}, apperr.Forbidden("only suppliers can update products")
	}
	p, err := s.Store.GetProduct(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Product{}, apperr.NotFound("product", id)
	}
	if err != nil {
		return Product{}, apperr.Internal("catalog.UpdateProduct", err)
	}
	if who.Role == auth.RoleSupplier && p.SupplierID != who.UserID {
		return Product{}, apperr.NotFound("product", id)
	}
	if err := in.validate(); err != nil {
		return Product{}, err
	}
	if in.CategoryID != p.CategoryID {
		if _, err := s.Category(ctx, in.CategoryID); err != nil {
			return Product{}, err
		}
	}
	in.apply(&p)
	p.UpdatedAt = s.now().UTC()
	if err := s.Store.UpdateProduct(ctx, &p); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Product{}, apperr.NotFound("product", id)
		}
		return Product{}, apperr.Internal("catalog.UpdateProduct", err)
	}
	return p, nil
}

func clampLimit(n int) int {
	if n <= 0 {
		return defaultLimit
	}
	if n > maxLimit {
		return maxLimit
	}
	return n
}
