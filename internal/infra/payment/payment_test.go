//go:build unit

package payment

import (
	"context"
	"testing"

	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"
)

func chargeRequest(key, instrument string) commands.ChargeRequest {
	return commands.ChargeRequest{
		IdempotencyKey: key,
		UserID:         uuid.New(),
		Amount:         3225,
		Currency:       "jpy",
		Instrument:     instrument,
	}
}

func TestSandboxGateway_Charge(t *testing.T) {
	t.Run("success: same key captures once", func(t *testing.T) {
		g := NewSandboxGateway()

		first, err := g.Charge(context.Background(), chargeRequest("res-1", "pm_card_visa"))
		require.NoError(t, err)
		second, err := g.Charge(context.Background(), chargeRequest("res-1", "pm_card_visa"))
		require.NoError(t, err)

		assert.Equal(t, first.Reference, second.Reference)
		assert.Equal(t, 1, g.Captured())
	})

	t.Run("error: declined instrument", func(t *testing.T) {
		g := NewSandboxGateway()

		_, err := g.Charge(context.Background(), chargeRequest("res-1", SandboxDeclinedInstrument))

		assert.True(t, errs.Is(err, commands.ErrGatewayDeclined))
		assert.Zero(t, g.Captured())
	})

	t.Run("error: processing error is retryable", func(t *testing.T) {
		g := NewSandboxGateway()

		_, err := g.Charge(context.Background(), chargeRequest("res-1", SandboxFailingInstrument))

		require.Error(t, err)
		assert.False(t, errs.Is(err, commands.ErrGatewayDeclined))
	})

	t.Run("error: cancelled context", func(t *testing.T) {
		g := NewSandboxGateway()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := g.Charge(ctx, chargeRequest("res-1", "pm_card_visa"))

		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSandboxGateway_Refund(t *testing.T) {
	g := NewSandboxGateway()

	require.NoError(t, g.Refund(context.Background(), "pi_1", "refund-res-1"))
	require.NoError(t, g.Refund(context.Background(), "pi_1", "refund-res-1"))
	assert.Equal(t, 1, g.Refunded())

	assert.Error(t, g.Refund(context.Background(), "pi_2", "refund-res-1"))
}

func TestSandboxGateway_Reverse(t *testing.T) {
	t.Run("success: captured charge is refunded once", func(t *testing.T) {
		g := NewSandboxGateway()
		_, err := g.Charge(context.Background(), chargeRequest("res-1", "pm_card_visa"))
		require.NoError(t, err)

		require.NoError(t, g.Reverse(context.Background(), "res-1", "refund-res-1"))
		require.NoError(t, g.Reverse(context.Background(), "res-1", "refund-res-1"))

		assert.Equal(t, 1, g.Refunded())
	})

	t.Run("success: nothing captured is a no-op", func(t *testing.T) {
		g := NewSandboxGateway()

		require.NoError(t, g.Reverse(context.Background(), "res-1", "refund-res-1"))

		assert.Zero(t, g.Refunded())
	})
}

func TestClassifyStripeErr(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantDeclined bool
	}{
		{name: "card error", err: &stripe.Error{Type: stripe.ErrorTypeCard, Code: stripe.ErrorCodeCardDeclined}, wantDeclined: true},
		{name: "api error", err: &stripe.Error{Type: stripe.ErrorTypeAPI}, wantDeclined: false},
		{name: "transport error", err: assert.AnError, wantDeclined: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyStripeErr(tt.err, "create payment intent")

			assert.Equal(t, tt.wantDeclined, errs.Is(got, commands.ErrGatewayDeclined))
		})
	}
}
