package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/events"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/ariefcatur/go-wholesale-rfq/internal/httpx"
	"github.com/ariefcatur/go-wholesale-rfq/internal/memstore"
	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Errors  []string        `json:"errors"`
}

type testServer struct {
	t       *testing.T
	handler http.Handler
	issuer  *auth.Issuer
}

func newServer(t *testing.T, health map[string]httpx.HealthCheck) *testServer {
	t.Helper()
	st := memstore.New()
	st.SeedDemo(time.Now().UTC())

	bus := events.NewLocalBus()
	emitter := &events.Emitter{Sink: bus, Producer: "rfq-api"}
	products := &catalog.Service{Store: st}
	cartSvc := &cart.Service{Store: st, Products: products}
	freightSvc := &freight.Service{Store: st}
	orderSvc := &orders.Service{Store: st, Events: emitter}
	ff := &orders.Fulfillment{Orders: orderSvc, ServiceName: "fulfillment"}
	bus.Subscribe(events.TopicPaymentCompleted, ff.HandlePaymentCompleted)

	iss := auth.NewIssuer("test-secret", "rfq-test")
	h := httpx.NewRouter(httpx.Deps{
		Catalog: products,
		Cart:    cartSvc,
		Freight: freightSvc,
		Quotes: &quotes.Service{
			Store: st, Products: products, Cart: cartSvc, Freight: freightSvc, Events: emitter,
		},
		Payments: &payments.Service{
			Store: st, Quotes: st, Provider: payments.SimulatedProvider{}, Events: emitter,
		},
		Orders:        orderSvc,
		Issuer:        iss,
		FreightLimits: freight.NewMemoryLimiter(10, time.Minute),
		Health:        health,
	})
	return &testServer{t: t, handler: h, issuer: iss}
}

func (s *testServer) token(userID string, role auth.Role) string {
	s.t.Helper()
	tok, err := s.issuer.Sign(auth.Principal{UserID: userID, Role: role}, time.Hour)
	require.NoError(s.t, err)
	return tok
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestPublicCatalog(t *testing.T) {
	s := newServer(t, nil)

	rec, env := s.do(http.MethodGet, "/api/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Len(t, decode[[]catalog.Product](t, env.Data), 2)

	rec, env = s.do(http.MethodGet, "/api/products/search/chair", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]catalog.Product](t, env.Data), 1)

	rec, env = s.do(http.MethodGet, "/api/products/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestAuthRequired(t *testing.T) {
	s := newServer(t, nil)

	rec, env := s.do(http.MethodGet, "/api/cart", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)

	rec, _ = s.do(http.MethodGet, "/api/cart", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = s.do(http.MethodGet, "/api/cart", s.token(memstore.DemoSupplier, auth.RoleSupplier), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestValidationEnvelope(t *testing.T) {
	s := newServer(t, nil)
	rec, env := s.do(http.MethodPost, "/api/cart/add", s.token("buyer-1", auth.RoleBuyer), map[string]any{
		"productId": "prod-tshirt", "containerQuantity": 0, "containerType": "40GP",
		"pricePerContainer": 20400, "incoterm": "FOB",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, []string{"containerQuantity must be at least 1"}, env.Errors)
}

func TestFreightRateLimit(t *testing.T) {
	s := newServer(t, nil)
	tok := s.token("buyer-1", auth.RoleBuyer)
	body := map[string]any{
		"origin": "Shanghai", "destination": "Rotterdam", "containerType": "40GP", "containerQuantity": 2,
		"estimatedDate": time.Now().Add(30 * 24 * time.Hour).UTC().Format(time.RFC3339), "incoterm": "FOB",
	}
	for i := 0; i < 10; i++ {
		rec, env := s.do(http.MethodPost, "/api/freight/calculate", tok, body)
		require.Equal(t, http.StatusCreated, rec.Code, "request %d: %s", i+1, env.Error)
	}
	rec, env := s.do(http.MethodPost, "/api/freight/calculate", tok, body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestHealth(t *testing.T) {
	s := newServer(t, map[string]httpx.HealthCheck{"postgres": func(context.Context) error { return nil }})
	rec, _ := s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	s = newServer(t, map[string]httpx.HealthCheck{"redis": func(context.Context) error { return errors.New("down") }})
	rec, _ = s.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "degraded")
}

func TestCartToOrderFlow(t *testing.T) {
	s := newServer(t, nil)
	buyerTok := s.token("buyer-1", auth.RoleBuyer)
	supplierTok := s.token(memstore.DemoSupplier, auth.RoleSupplier)

	rec, env := s.do(http.MethodPost, "/api/cart/add", buyerTok, map[string]any{
		"productId": "prod-tshirt", "containerQuantity": 2, "containerType": "40GP",
		"pricePerContainer": 20400, "incoterm": "FOB",
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)

	rec, env = s.do(http.MethodPost, "/api/quotes", buyerTok, map[string]any{"paymentConditions": "30% deposit"})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	sent := decode[quotes.CartQuoteResult](t, env.Data)
	require.Len(t, sent.Quotes, 1)
	assert.True(t, sent.TotalAmount.Equal(decimal.NewFromInt(40800)))
	quoteID := sent.Quotes[0].ID

	_, env = s.do(http.MethodGet, "/api/cart/stats", buyerTok, nil)
	assert.Equal(t, 0, decode[cart.Stats](t, env.Data).ItemCount)

	rec, env = s.do(http.MethodPost, "/api/quotes/"+quoteID+"/payment-order", buyerTok, map[string]any{"paymentMethod": "paypal"})
	assert.Equal(t, http.StatusConflict, rec.Code, "quote not accepted yet")

	rec, env = s.do(http.MethodPut, "/api/quotes/"+quoteID+"/respond", supplierTok, map[string]any{"status": "ACCEPTED", "comment": "Agreed"})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.Equal(t, quotes.StatusAccepted, decode[quotes.Quote](t, env.Data).Status)

	rec, env = s.do(http.MethodPost, "/api/quotes/"+quoteID+"/payment-order", buyerTok, map[string]any{
		"paymentMethod": "paypal", "shippingAddress": "Keizersgracht 1, Amsterdam", "totalAmount": 40800,
	})
	require.Equal(t, http.StatusCreated, rec.Code, env.Error)
	po := decode[payments.Order](t, env.Data)
	assert.Equal(t, payments.StatusPending, po.PaymentStatus)

	rec, env = s.do(http.MethodPost, "/api/payment-orders/"+po.OrderNumber+"/process", buyerTok, map[string]any{
		"paymentId": "PAY-1", "payerId": "PAYER-1", "token": "EC-1",
	})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.Equal(t, payments.StatusCompleted, decode[payments.Order](t, env.Data).PaymentStatus)

	rec, env = s.do(http.MethodGet, "/api/orders", buyerTok, nil)
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	list := decode[[]orders.Order](t, env.Data)
	require.Len(t, list, 1)
	assert.Equal(t, po.OrderNumber, list[0].PaymentOrderNumber)
	assert.Equal(t, orders.StatusPending, list[0].Status)

	rec, env = s.do(http.MethodPut, "/api/orders/"+list[0].ID+"/status", supplierTok, map[string]any{"status": "PROCESSING"})
	require.Equal(t, http.StatusOK, rec.Code, env.Error)
	assert.Equal(t, orders.StatusProcessing, decode[orders.Order](t, env.Data).Status)
}
