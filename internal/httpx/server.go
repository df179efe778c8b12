package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/cart"
	"github.com/ariefcatur/go-wholesale-rfq/internal/catalog"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
	"github.com/ariefcatur/go-wholesale-rfq/internal/orders"
	"github.com/ariefcatur/go-wholesale-rfq/internal/payments"
	"github.com/ariefcatur/go-wholesale-rfq/internal/quotes"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// HealthCheck pings one dependency; nil means healthy.
type HealthCheck func(ctx context.Context) error

type Deps struct {
	Catalog  *catalog.Service
	Cart     *cart.Service
	Freight  *freight.Service
	Quotes   *quotes.Service
	Payments *payments.Service
	Orders   *orders.Service

	Issuer        *auth.Issuer
	FreightLimits freight.Limiter // nil disables rate limiting
	Health        map[string]HealthCheck
	Development   bool
}

func NewRouter(d Deps) *chi.Mux {
	ew := errorWriter{verbose: d.Development}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Use(middleware.Timeout(15 * time.Second))
	r.Get("/health", health(d.Health))

	r.Route("/api", func(api chi.Router) {
		protected := api.With(Authenticate(d.Issuer, ew))

		(&CatalogHandler{Service: d.Catalog, ew: ew}).Register(api,
			protected.With(RequireRole(ew, auth.RoleSupplier, auth.RoleAdmin)))
		(&CartHandler{Service: d.Cart, ew: ew}).Register(protected.With(RequireRole(ew, auth.RoleBuyer)))

		fh := &FreightHandler{Service: d.Freight, ew: ew}
		if d.FreightLimits != nil {
			fh.Limit = RateLimit(d.FreightLimits, ew)
		}
		fh.Register(protected)
		(&QuotesHandler{Service: d.Quotes, ew: ew}).Register(protected)
		(&PaymentsHandler{Service: d.Payments, ew: ew}).Register(protected)
		(&OrdersHandler{Service: d.Orders, ew: ew}).Register(protected)
	})
	return r
}

func health(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		deps := map[string]string{}
		for name, check := range checks {
			if err := check(ctx); err != nil {
				deps[name] = err.Error()
				status, code = "degraded", http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}
		writeJSON(w, code, map[string]any{
			"status":       status,
			"dependencies": deps,
			"time":         time.Now().UTC(),
		})
	}
}
