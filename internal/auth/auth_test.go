package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignVerifyRoundTrip(t *testing.T) {
	iss := NewIssuer("s3cret", "test")
	tok, err := iss.Sign(Principal{UserID: "buyer-1", Role: RoleBuyer}, time.Hour)
	require.NoError(t, err)

	p, err := iss.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, Principal{UserID: "buyer-1", Role: RoleBuyer}, p)
}

func TestVerifyRejects(t *testing.T) {
	iss := NewIssuer("s3cret", "test")
	good, err := iss.Sign(Principal{UserID: "u", Role: RoleSupplier}, time.Hour)
	require.NoError(t, err)

	other, err := NewIssuer("another", "test").Sign(Principal{UserID: "u", Role: RoleSupplier}, time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := NewIssuer("s3cret", "elsewhere").Sign(Principal{UserID: "u", Role: RoleSupplier}, time.Hour)
	require.NoError(t, err)

	expiredIss := NewIssuer("s3cret", "test")
	expiredIss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIss.Sign(Principal{UserID: "u", Role: RoleSupplier}, time.Hour)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"garbage":      "not-a-token",
		"wrong secret": other,
		"wrong issuer": wrongIssuer,
		"expired":      expired,
		"tampered":     good + "x",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := iss.Verify(tok)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestSignRequiresKnownRole(t *testing.T) {
	_, err := NewIssuer("s", "i").Sign(Principal{UserID: "u", Role: "GUEST"}, time.Hour)
	assert.Error(t, err)
}

func TestContext(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "a", Role: RoleAdmin})
	p, ok := FromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleAdmin, p.Role)
}
