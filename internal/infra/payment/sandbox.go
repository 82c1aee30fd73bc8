package payment

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"
)

// Instruments with special behavior in the sandbox, named after Stripe's test payment methods.
const (
	SandboxDeclinedInstrument = "pm_card_chargeDeclined"
	SandboxFailingInstrument  = "pm_card_processingError"
)

var errSandboxUnavailable = errs.New("sandbox gateway processing error")

// SandboxGateway captures in memory. It keeps Stripe's idempotency semantics
// so local runs behave like production.
type SandboxGateway struct {
	mu       sync.Mutex
	captured map[string]string
	refunded map[string]string
}

func NewSandboxGateway() *SandboxGateway {
	return &SandboxGateway{
		captured: make(map[string]string),
		refunded: make(map[string]string),
	}
}

func (g *SandboxGateway) Charge(ctx context.Context, req commands.ChargeRequest) (commands.ChargeResult, error) {
	if err := ctx.Err(); err != nil {
		return commands.ChargeResult{}, err
	}

	switch req.Instrument {
	case SandboxDeclinedInstrument:
		return commands.ChargeResult{}, errs.Mark(errors.New("card_declined"), commands.ErrGatewayDeclined)
	case SandboxFailingInstrument:
		return commands.ChargeResult{}, errSandboxUnavailable
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	ref, ok := g.captured[req.IdempotencyKey]
	if !ok {
		ref = fmt.Sprintf("pi_sandbox_%d", len(g.captured)+1)
		g.captured[req.IdempotencyKey] = ref
	}
	return commands.ChargeResult{Reference: ref}, nil
}

func (g *SandboxGateway) Refund(ctx context.Context, reference, idempotencyKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if prev, ok := g.refunded[idempotencyKey]; ok && prev != reference {
		return errs.Newf("idempotency key %s reused for a different payment", idempotencyKey)
	}
	g.refunded[idempotencyKey] = reference
	return nil
}

func (g *SandboxGateway) Reverse(ctx context.Context, chargeKey, refundKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	ref, ok := g.captured[chargeKey]
	g.mu.Unlock()
	if !ok {
		return nil
	}
	return g.Refund(ctx, ref, refundKey)
}

func (g *SandboxGateway) Captured() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.captured)
}

func (g *SandboxGateway) Refunded() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refunded)
}
