// Package auth verifies signed bearer tokens and carries the resulting
// principal through the request context.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Role string

const (
	RoleBuyer    Role = "BUYER"
	RoleSupplier Role = "SUPPLIER"
	RoleAdmin    Role = "ADMIN"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSupplier, RoleAdmin:
		return true
	}
	return false
}

type Principal struct {
	UserID string
	Role   Role
}

type claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

var ErrInvalidToken = errors.New("invalid token")

// Issuer signs and verifies HS256 tokens.
type Issuer struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewIssuer(secret, issuer string) *Issuer {
	return &Issuer{secret: []byte(secret), issuer: issuer, now: time.Now}
}

func (i *Issuer) Sign(p Principal, ttl time.Duration) (string, error) {
	if p.UserID == "" || !p.Role.Valid() {
		return "", fmt.Errorf("sign: %w", ErrInvalidToken)
	}
	now := i.now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Role: p.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.UserID,
			Issuer:    i.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})
	return tok.SignedString(i.secret)
}

func (i *Issuer) Verify(raw string) (Principal, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(i.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" || !c.Role.Valid() {
		return Principal{}, ErrInvalidToken
	}
	return Principal{UserID: c.Subject, Role: c.Role}, nil
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	return p, ok
}
