package httpx

import (
	"log"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ariefcatur/go-wholesale-rfq/internal/apperr"
	"github.com/ariefcatur/go-wholesale-rfq/internal/auth"
	"github.com/ariefcatur/go-wholesale-rfq/internal/freight"
)

// Authenticate requires a valid bearer token and stores the principal in the
// request context.
func Authenticate(iss *auth.Issuer, ew errorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(h, "Bearer ")
			if !ok || strings.TrimSpace(raw) == "" {
				ew.write(w, r, apperr.Unauthenticated("missing bearer token"))
				return
			}
			p, err := iss.Verify(strings.TrimSpace(raw))
			if err != nil {
				ew.write(w, r, apperr.Unauthenticated("invalid or expired token"))
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	}
}

func RequireRole(ew errorWriter, roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, _ := auth.FromContext(r.Context())
			for _, role := range roles {
				if p.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			ew.write(w, r, apperr.Forbidden("role "+string(p.Role)+" cannot access this resource"))
		})
	}
}

// clientIP expects middleware.RealIP to have run; RemoteAddr may still carry a port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateLimit rejects callers over the limiter's budget with 429. A limiter
// failure lets the request through.
func RateLimit(l freight.Limiter, ew errorWriter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := l.Allow(r.Context(), clientIP(r))
			if err != nil {
				log.Printf("rate limiter unavailable, allowing %s: %v", clientIP(r), err)
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			if !d.Allowed {
				secs := int(time.Until(d.ResetAt).Round(time.Second) / time.Second)
				if secs < 1 {
					secs = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(secs))
				ew.write(w, r, apperr.RateLimited("too many freight calculations, try again later"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func principal(r *http.Request) auth.Principal {
	p, _ := auth.FromContext(r.Context())
	return p
}
