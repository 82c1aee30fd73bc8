package commands

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

// ErrGatewayDeclined is marked on gateway errors that are a definitive refusal
// (card declined, insufficient funds). Any other gateway error is retried.
var ErrGatewayDeclined = errs.New("payment refused by gateway")

type ChargeRequest struct {
	// IdempotencyKey is the reservation id, so retried charges are captured once.
	IdempotencyKey string
	UserID         uuid.UUID
	Amount         pricing.Money
	Currency       string
	Instrument     string
	Description    string
}

type ChargeResult struct {
	Reference string
}

type PaymentGateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
	Refund(ctx context.Context, reference, idempotencyKey string) error
	// Reverse refunds whatever a charge under chargeKey captured. It is a no-op
	// when nothing was captured.
	Reverse(ctx context.Context, chargeKey, refundKey string) error
}

type ConfirmationSummary struct {
	ReservationID    uuid.UUID     `json:"reservation_id"`
	VehicleID        uuid.UUID     `json:"vehicle_id"`
	VehicleModel     string        `json:"vehicle_model"`
	PickupAt         time.Time     `json:"pickup_at"`
	DropoffAt        time.Time     `json:"dropoff_at"`
	PickupLocation   string        `json:"pickup_location"`
	DropoffLocation  string        `json:"dropoff_location"`
	Total            pricing.Money `json:"total"`
	Currency         string        `json:"currency"`
	PaymentReference string        `json:"payment_reference"`
}

type Notifier interface {
	SendConfirmation(ctx context.Context, userID uuid.UUID, summary ConfirmationSummary) error
}

// VehicleCatalog reports infra.KindNotFound for unknown vehicles.
type VehicleCatalog interface {
	GetVehicle(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error)
}

// Commit outcomes reported to Metrics.
const (
	OutcomeConfirmed      = "confirmed"
	OutcomeConflict       = "conflict"
	OutcomeDeclined       = "declined"
	OutcomeInvalid        = "invalid"
	OutcomeDependency     = "dependency"
	OutcomeInconsistent   = "post_commit_inconsistency"
	OutcomeInternalFailed = "internal"
)

type Metrics interface {
	CommitOutcome(outcome string)
	PaymentDuration(d time.Duration, outcome string)
	PostCommitInconsistency()
}

type nopMetrics struct{}

func (nopMetrics) CommitOutcome(string)                  {}
func (nopMetrics) PaymentDuration(time.Duration, string) {}
func (nopMetrics) PostCommitInconsistency()              {}
