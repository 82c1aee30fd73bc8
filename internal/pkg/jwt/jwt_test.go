//go:build unit

package jwt_test

import (
	"strings"
	"testing"
	"time"

	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newService(clk clock.Clock) *jwt.Service {
	return jwt.NewService("unit-test-secret", "test-issuer", 2*time.Hour, 7*24*time.Hour, clk)
}

func TestService(t *testing.T) {
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	t.Run("access token round trip", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		svc := newService(clk)
		userID := uuid.New()

		token, expiresAt, err := svc.GenerateAccessToken(userID, "customer")
		require.NoError(t, err)
		assert.Equal(t, now.Add(2*time.Hour), expiresAt)

		claims, err := svc.ValidateToken(token, jwt.TokenTypeAccess)
		require.NoError(t, err)
		assert.Equal(t, userID, claims.UserID)
		assert.Equal(t, "customer", claims.Role)
	})

	t.Run("refresh token carries jti and family", func(t *testing.T) {
		svc := newService(clock.NewMockClock(now))
		userID, tokenID, familyID := uuid.New(), uuid.New(), uuid.New()

		token, _, err := svc.GenerateRefreshToken(userID, tokenID, familyID)
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token, jwt.TokenTypeRefresh)
		require.NoError(t, err)
		id, err := claims.TokenID()
		require.NoError(t, err)
		assert.Equal(t, tokenID, id)
		assert.Equal(t, familyID, claims.FamilyID)
	})

	t.Run("expired token", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		svc := newService(clk)
		token, _, err := svc.GenerateAccessToken(uuid.New(), "customer")
		require.NoError(t, err)

		clk.Add(2*time.Hour + time.Second)
		_, err = svc.ValidateToken(token, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrExpiredToken)
	})

	t.Run("tampered signature", func(t *testing.T) {
		svc := newService(clock.NewMockClock(now))
		token, _, err := svc.GenerateAccessToken(uuid.New(), "customer")
		require.NoError(t, err)

		parts := strings.Split(token, ".")
		require.Len(t, parts, 3)
		tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))

		_, err = svc.ValidateToken(tampered, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("other secret is rejected", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		token, _, err := jwt.NewService("other-secret", "test-issuer", time.Hour, time.Hour, clk).
			GenerateAccessToken(uuid.New(), "customer")
		require.NoError(t, err)

		_, err = newService(clk).ValidateToken(token, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})

	t.Run("refresh token is not an access token", func(t *testing.T) {
		svc := newService(clock.NewMockClock(now))
		token, _, err := svc.GenerateRefreshToken(uuid.New(), uuid.New(), uuid.New())
		require.NoError(t, err)

		_, err = svc.ValidateToken(token, jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrWrongTokenType)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := newService(clock.NewMockClock(now)).ValidateToken("not-a-jwt", jwt.TokenTypeAccess)
		assert.ErrorIs(t, err, jwt.ErrInvalidToken)
	})
}
