package cart_test

import (
	"context"
	"testing"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/memstore"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const user = "buyer-1"

var now = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func newService() *cart.Service {
	st := memstore.New()
	st.SeedDemo(now)
	return &cart.Service{
		Store:    st,
		Products: &catalog.Service{Store: st},
		Now:      func() time.Time { return now },
	}
}

func tshirts(qty int) cart.AddInput {
	return cart.AddInput{
		ProductID:         "prod-tshirt",
		ContainerQuantity: qty,
		ContainerType:     catalog.Container40GP,
		PricePerContainer: decimal.NewFromInt(20400),
		Incoterm:          catalog.IncotermFOB,
	}
}

func TestAddItemQuantityBounds(t *testing.T) {
	svc := newService()
	_, err := svc.AddItem(context.Background(), user, tshirts(0))
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	it, err := svc.AddItem(context.Background(), user, tshirts(1))
	require.NoError(t, err)
	assert.Equal(t, 1, it.ContainerQuantity)
	assert.Equal(t, memstore.DemoSupplier, it.SupplierID)
}

func TestAddItemRejectsWrongPrice(t *testing.T) {
	in := tshirts(1)
	in.PricePerContainer = decimal.NewFromInt(100)
	_, err := newService().AddItem(context.Background(), user, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddItemUnknownProduct(t *testing.T) {
	in := tshirts(1)
	in.ProductID = "nope"
	_, err := newService().AddItem(context.Background(), user, in)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestCustomPriceOnlyForNegotiable(t *testing.T) {
	svc := newService()
	custom := decimal.NewFromInt(19000)

	in := tshirts(1)
	in.CustomPrice = &custom
	it, err := svc.AddItem(context.Background(), user, in)
	require.NoError(t, err)
	assert.True(t, it.UnitPrice().Equal(custom))

	chairs := cart.AddInput{
		ProductID: "prod-chair", ContainerQuantity: 2, ContainerType: catalog.Container40HC,
		PricePerContainer: decimal.NewFromInt(15800), Incoterm: catalog.IncotermCIF, CustomPrice: &custom,
	}
	_, err = svc.AddItem(context.Background(), user, chairs)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestAddSameItemIncrements(t *testing.T) {
	ctx := context.Background()
	svc := newService()

	first, err := svc.AddItem(ctx, user, tshirts(1))
	require.NoError(t, err)
	second, err := svc.AddItem(ctx, user, tshirts(2))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 3, second.ContainerQuantity)

	items, err := svc.Items(ctx, user)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestUpdateRemoveClear(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	it, err := svc.AddItem(ctx, user, tshirts(1))
	require.NoError(t, err)

	_, err = svc.UpdateItem(ctx, user, it.ID, cart.UpdateInput{ContainerQuantity: 0})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	notes := "mixed sizes"
	up, err := svc.UpdateItem(ctx, user, it.ID, cart.UpdateInput{ContainerQuantity: 4, Notes: &notes})
	require.NoError(t, err)
	assert.Equal(t, 4, up.ContainerQuantity)
	assert.Equal(t, notes, up.Notes)

	_, err = svc.UpdateItem(ctx, "someone-else", it.ID, cart.UpdateInput{ContainerQuantity: 2})
	assert.True(t, apperr.Is(err, apperr.KindNotFound), "items are scoped to their owner")

	require.NoError(t, svc.RemoveItem(ctx, user, it.ID))
	assert.True(t, apperr.Is(svc.RemoveItem(ctx, user, it.ID), apperr.KindNotFound))

	_, err = svc.AddItem(ctx, user, tshirts(1))
	require.NoError(t, err)
	n, err := svc.Clear(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc := newService()
	_, err := svc.AddItem(ctx, user, tshirts(2))
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user, cart.AddInput{
		ProductID: "prod-chair", ContainerQuantity: 3, ContainerType: catalog.Container40HC,
		PricePerContainer: decimal.NewFromInt(15800), Incoterm: catalog.IncotermCIF,
	})
	require.NoError(t, err)

	st, err := svc.Stats(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, 2, st.ItemCount)
	assert.Equal(t, 5, st.TotalContainers)
	assert.True(t, st.TotalValue.Equal(decimal.NewFromInt(2*20400+3*15800)), "got %s", st.TotalValue)
}
