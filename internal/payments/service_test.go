package payments_test

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	"github.com/ariefcatur/go-wholesale-rfq/internal/memstore"
	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/ariefcatur/go-wholesale-rfq/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	now   = time.Date(2026, 4, 1, 9, 30, 0, 0, time.UTC)
	buyer = auth.Principal{UserID: "buyer-1", Role: auth.RoleBuyer}
)

type sink struct{ envs []events.Envelope }

func (s *sink) Publish(_ string, _, value []byte, _ ...kafkago.Header) {
	var env events.Envelope
	if err := json.Unmarshal(value, &env); err == nil {
		s.envs = append(s.envs, env)
	}
}

type fixture struct {
	seq   int
	store *memstore.Store
	svc   *payments.Service
	redis *miniredis.Miniredis
	sink  *sink
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	st := memstore.New()
	sk := &sink{}
	clock := func() time.Time { return now }
	return &fixture{
		store: st,
		redis: mr,
		sink:  sk,
		svc: &payments.Service{
			Store:    st,
			Quotes:   st,
			Provider: payments.SimulatedProvider{},
			Redis:    rdb,
			Events:   &events.Emitter{Sink: sk, Producer: "test", Now: clock},
			Now:      clock,
		},
	}
}

func (f *fixture) quote(t *testing.T, status quotes.Status) quotes.Quote {
	t.Helper()
	f.seq++
	q := quotes.Quote{
		ID: fmt.Sprintf("q-%d", f.seq), BuyerID: buyer.UserID, SupplierID: memstore.DemoSupplier,
		TotalPrice: decimal.NewFromInt(40800), Currency: "USD", Status: status, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, f.store.CreateQuotes(context.Background(), []quotes.Draft{{Quote: &q}}, "", nil))
	return q
}

func input() payments.CreateInput {
	return payments.CreateInput{PaymentMethod: "paypal", ShippingAddress: "Keizersgracht 1, Amsterdam"}
}

var orderNumber = regexp.MustCompile(`^PO-\d{14}-[0-9A-F]{6}$`)

func TestNewOrderNumber(t *testing.T) {
	n := payments.NewOrderNumber(now)
	assert.Regexp(t, orderNumber, n)
	assert.Contains(t, n, "20260401093000")
}

func TestCreatePaymentOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.quote(t, quotes.StatusAccepted)

	o, err := f.svc.CreatePaymentOrder(ctx, buyer, q.ID, input())
	require.NoError(t, err)
	assert.Regexp(t, orderNumber, o.OrderNumber)
	assert.Equal(t, payments.StatusPending, o.PaymentStatus)
	assert.True(t, o.TotalAmount.Equal(q.TotalPrice))
	assert.Equal(t, now.Add(24*time.Hour), o.ExpiresAt)
	assert.Equal(t, memstore.DemoSupplier, o.SupplierID)
	assert.NotEmpty(t, o.AuthorizationID)
	assert.Contains(t, o.ApprovalURL, o.OrderNumber)

	assert.True(t, f.redis.Exists(fmt.Sprintf(redisx.KeyPaymentStatus, o.OrderNumber)))
	require.Len(t, f.sink.envs, 1)
	assert.Equal(t, events.EventPaymentOrderCreated, f.sink.envs[0].EventType)
}

func TestCreatePaymentOrderRejections(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	accepted := f.quote(t, quotes.StatusAccepted)
	pending := f.quote(t, quotes.StatusPending)

	_, err := f.svc.CreatePaymentOrder(ctx, buyer, "missing", input())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	other := auth.Principal{UserID: "buyer-2", Role: auth.RoleBuyer}
	_, err = f.svc.CreatePaymentOrder(ctx, other, accepted.ID, input())
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.CreatePaymentOrder(ctx, buyer, pending.ID, input())
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	in := input()
	in.PaymentMethod = " "
	_, err = f.svc.CreatePaymentOrder(ctx, buyer, accepted.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	in = input()
	wrong := decimal.NewFromInt(100)
	in.TotalAmount = &wrong
	_, err = f.svc.CreatePaymentOrder(ctx, buyer, accepted.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	in = input()
	in.Currency = "EUR"
	_, err = f.svc.CreatePaymentOrder(ctx, buyer, accepted.ID, in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	assert.Empty(t, f.sink.envs)
}

func TestProcessPayment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.quote(t, quotes.StatusAccepted)
	o, err := f.svc.CreatePaymentOrder(ctx, buyer, q.ID, input())
	require.NoError(t, err)

	_, err = f.svc.ProcessPayment(ctx, buyer, "PO-missing", payments.ProcessInput{})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	done, err := f.svc.ProcessPayment(ctx, buyer, o.OrderNumber, payments.ProcessInput{PaymentID: "PAY-1", PayerID: "PAYER-1", Token: "tok"})
	require.NoError(t, err)
	assert.Equal(t, payments.StatusCompleted, done.PaymentStatus)
	assert.Equal(t, "PAY-1", done.ExternalPaymentID)
	require.NotNil(t, done.CompletedAt)

	for i := 0; i < 2; i++ {
		got, err := f.svc.Get(ctx, buyer, o.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, payments.StatusCompleted, got.PaymentStatus)
	}

	again, err := f.svc.ProcessPayment(ctx, buyer, o.OrderNumber, payments.ProcessInput{PaymentID: "PAY-2"})
	require.NoError(t, err)
	assert.Equal(t, "PAY-2", again.ExternalPaymentID, "reprocessing overwrites")

	require.Len(t, f.sink.envs, 3)
	env := f.sink.envs[1]
	assert.Equal(t, events.EventPaymentCompleted, env.EventType)
	var p events.PaymentCompletedPayload
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	assert.Equal(t, memstore.DemoSupplier, p.SupplierID)
	assert.Equal(t, "Keizersgracht 1, Amsterdam", p.ShippingAddress)
}

func TestGetFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	q := f.quote(t, quotes.StatusAccepted)
	o, err := f.svc.CreatePaymentOrder(ctx, buyer, q.ID, input())
	require.NoError(t, err)

	f.redis.FlushAll()
	got, err := f.svc.Get(ctx, buyer, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, o.OrderNumber, got.OrderNumber)
	assert.True(t, f.redis.Exists(fmt.Sprintf(redisx.KeyPaymentStatus, o.OrderNumber)), "read repopulates the cache")

	_, err = f.svc.Get(ctx, auth.Principal{UserID: "buyer-2", Role: auth.RoleBuyer}, o.OrderNumber)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = f.svc.Get(ctx, auth.Principal{UserID: "admin", Role: auth.RoleAdmin}, o.OrderNumber)
	assert.NoError(t, err)
}

func TestGetWithoutRedis(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.svc.Redis = nil
	q := f.quote(t, quotes.StatusAccepted)
	o, err := f.svc.CreatePaymentOrder(ctx, buyer, q.ID, input())
	require.NoError(t, err)

	got, err := f.svc.Get(ctx, buyer, o.OrderNumber)
	require.NoError(t, err)
	assert.Equal(t, payments.StatusPending, got.PaymentStatus)
}
