//go:build unit

package commands_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/commands"

	"github.com/google/uuid"
)

// fakeGateway captures at most once per idempotency key, like a real gateway.
type fakeGateway struct {
	mu       sync.Mutex
	captured map[string]string
	refunds  map[string]string
	calls    int

	// chargeHook runs before every charge attempt; a non-nil error is returned as is
	chargeHook func(ctx context.Context, attempt int, req commands.ChargeRequest) error
	refundErr  error
	refundHook func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		captured: make(map[string]string),
		refunds:  make(map[string]string),
	}
}

func (g *fakeGateway) Charge(ctx context.Context, req commands.ChargeRequest) (commands.ChargeResult, error) {
	g.mu.Lock()
	g.calls++
	attempt := g.calls
	hook := g.chargeHook
	g.mu.Unlock()

	if hook != nil {
		if err := hook(ctx, attempt, req); err != nil {
			return commands.ChargeResult{}, err
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	ref, ok := g.captured[req.IdempotencyKey]
	if !ok {
		ref = fmt.Sprintf("pi_%d", len(g.captured)+1)
		g.captured[req.IdempotencyKey] = ref
	}
	return commands.ChargeResult{Reference: ref}, nil
}

func (g *fakeGateway) Refund(_ context.Context, reference, idempotencyKey string) error {
	if g.refundHook != nil {
		g.refundHook()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refunds[idempotencyKey] = reference
	return nil
}

func (g *fakeGateway) Reverse(ctx context.Context, chargeKey, refundKey string) error {
	g.mu.Lock()
	ref, ok := g.captured[chargeKey]
	g.mu.Unlock()
	if !ok {
		return nil
	}
	return g.Refund(ctx, ref, refundKey)
}

// captureLost records a capture whose response never reaches the caller.
func (g *fakeGateway) captureLost(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.captured[key] = fmt.Sprintf("pi_%d", len(g.captured)+1)
}

func (g *fakeGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func (g *fakeGateway) Captured() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.captured)
}

func (g *fakeGateway) Refunded() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.refunds)
}

func declineAll(context.Context, int, commands.ChargeRequest) error {
	return errs.Mark(errors.New("card_declined: insufficient funds"), commands.ErrGatewayDeclined)
}

func blockUntilDone(ctx context.Context, _ int, _ commands.ChargeRequest) error {
	<-ctx.Done()
	return ctx.Err()
}

type fakeNotifier struct {
	sent chan commands.ConfirmationSummary
	err  error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{sent: make(chan commands.ConfirmationSummary, 32)}
}

func (n *fakeNotifier) SendConfirmation(_ context.Context, _ uuid.UUID, summary commands.ConfirmationSummary) error {
	n.sent <- summary
	return n.err
}

type fakeMetrics struct {
	mu           sync.Mutex
	outcomes     map[string]int
	inconsistent int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{outcomes: make(map[string]int)}
}

func (m *fakeMetrics) CommitOutcome(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}

func (m *fakeMetrics) PaymentDuration(time.Duration, string) {}

func (m *fakeMetrics) PostCommitInconsistency() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inconsistent++
}

func (m *fakeMetrics) Outcome(outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.outcomes[outcome]
}

func (m *fakeMetrics) Inconsistent() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inconsistent
}
