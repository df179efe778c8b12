package catalog

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("catalog: not found")

type Store interface {
	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id string) (Category, error)
	ListProducts(ctx context.Context, f ProductFilter) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	SearchProducts(ctx context.Context, query string, limit int) ([]Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, p *Product) error
}
