// Package payment adapts payment providers to commands.PaymentGateway.
package payment

import (
	"context"
	"errors"
	"fmt"

	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/client"
)

var errPaymentNotCompleted = errs.New("payment intent did not complete")

// StripeGateway charges through PaymentIntents confirmed at creation time.
// The reservation id doubles as the Stripe idempotency key.
type StripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) *StripeGateway {
	return &StripeGateway{api: client.New(secretKey, nil)}
}

func (g *StripeGateway) Charge(ctx context.Context, req commands.ChargeRequest) (commands.ChargeResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:        stripe.Int64(req.Amount.Int64()),
		Currency:      stripe.String(req.Currency),
		PaymentMethod: stripe.String(req.Instrument),
		Description:   stripe.String(req.Description),
		Confirm:       stripe.Bool(true),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(req.IdempotencyKey)
	params.AddMetadata("reservation_id", req.IdempotencyKey)
	params.AddMetadata("user_id", req.UserID.String())

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return commands.ChargeResult{}, classifyStripeErr(err, "create payment intent")
	}

	// requires_action and friends cannot be completed server-side
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return commands.ChargeResult{}, errs.Mark(
			errs.Wrapf(errPaymentNotCompleted, "status %s", pi.Status),
			commands.ErrGatewayDeclined,
		)
	}
	return commands.ChargeResult{Reference: pi.ID}, nil
}

func (g *StripeGateway) Refund(ctx context.Context, reference, idempotencyKey string) error {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(reference),
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)

	if _, err := g.api.Refunds.New(params); err != nil {
		return classifyStripeErr(err, "create refund")
	}
	return nil
}

// Reverse finds intents by the reservation_id metadata set in Charge and
// refunds the captured ones. Search results lag writes by up to a minute.
func (g *StripeGateway) Reverse(ctx context.Context, chargeKey, refundKey string) error {
	params := &stripe.PaymentIntentSearchParams{}
	params.Query = fmt.Sprintf("metadata['reservation_id']:'%s'", chargeKey)
	params.Context = ctx

	iter := g.api.PaymentIntents.Search(params)
	for iter.Next() {
		pi := iter.PaymentIntent()
		if pi.Status != stripe.PaymentIntentStatusSucceeded {
			continue
		}
		if err := g.Refund(ctx, pi.ID, refundKey); err != nil {
			return err
		}
	}
	if err := iter.Err(); err != nil {
		return classifyStripeErr(err, "search payment intents")
	}
	return nil
}

func classifyStripeErr(err error, msg string) error {
	wrapped := errs.Wrap(err, msg)

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Type == stripe.ErrorTypeCard {
		return errs.Mark(wrapped, commands.ErrGatewayDeclined)
	}
	return wrapped
}
