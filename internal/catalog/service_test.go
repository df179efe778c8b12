package catalog_test

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now      = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	supplier = auth.Principal{UserID: memstore.DemoSupplier, Role: auth.RoleSupplier}
)

func newService() *catalog.Service {
	st := memstore.New()
	st.SeedDemo(now)
	return &catalog.Service{Store: st, Now: func() time.Time { return now }}
}

func productInput() catalog.ProductInput {
	maxQty := 10
	return catalog.ProductInput{
		Title:             "Ceramic Tiles",
		CategoryID:        "cat-furniture",
		PricePerContainer: decimal.NewFromInt(9800),
		UnitsPerContainer: 1200,
		MOQ:               2,
		MaxQuantity:       &maxQty,
		ContainerType:     catalog.Container20GP,
		StockContainers:   5,
		Incoterm:          catalog.IncotermEXW,
		Specifications:    catalog.Specifications{Tags: []string{"flooring"}},
	}
}

func TestBrowse(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	cats, err := svc.Categories(ctx)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Apparel", cats[0].Name)

	_, err = svc.Category(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	ps, err := svc.Products(ctx, catalog.ProductFilter{CategoryID: "cat-apparel"})
	require.NoError(t, err)
	require.Len(t, ps, 1)
	assert.Equal(t, "prod-tshirt", ps[0].ID)

	p, err := svc.Product(ctx, "prod-tshirt")
	require.NoError(t, err)
	assert.True(t, p.PricePerContainer.Equal(decimal.NewFromInt(20400)))
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	ps, err := svc.Search(ctx, "T-SHIRT")
	require.NoError(t, err)
	require.Len(t, ps, 1)

	ps, err = svc.Search(ctx, "outdoor")
	require.NoError(t, err)
	require.Len(t, ps, 1, "tags are searched")
	assert.Equal(t, "prod-chair", ps[0].ID)

	_, err = svc.Search(ctx, " a ")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p, err := svc.CreateProduct(ctx, supplier, productInput())
	require.NoError(t, err)
	assert.Equal(t, supplier.UserID, p.SupplierID)
	assert.True(t, p.IsActive)

	_, err = svc.CreateProduct(ctx, auth.Principal{UserID: "b", Role: auth.RoleBuyer}, productInput())
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	in := productInput()
	in.CategoryID = "nope"
	_, err = svc.CreateProduct(ctx, supplier, in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCreateProductValidation(t *testing.T) {
	in := productInput()
	in.Title = ""
	in.PricePerContainer = decimal.Zero
	in.MOQ = 20 // above maxQuantity 10
	in.ContainerType = "10GP"

	_, err := newService().CreateProduct(context.Background(), supplier, in)
	var e *apperr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Len(t, e.Fields, 4)
}

func TestDeactivateHidesProduct(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	p, err := svc.CreateProduct(ctx, supplier, productInput())
	require.NoError(t, err)

	in := productInput()
	off := false
	in.IsActive = &off
	_, err = svc.UpdateProduct(ctx, supplier, p.ID, in)
	require.NoError(t, err)

	_, err = svc.Product(ctx, p.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	ps, err := svc.Products(ctx, catalog.ProductFilter{SupplierID: supplier.UserID})
	require.NoError(t, err)
	for _, x := range ps {
		assert.NotEqual(t, p.ID, x.ID)
	}
}

func TestUpdateProductOwnership(t *testing.T) {
	other := auth.Principal{UserID: "supplier-2", Role: auth.RoleSupplier}
	_, err := newService().UpdateProduct(context.Background(), other, "prod-tshirt", productInput())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
