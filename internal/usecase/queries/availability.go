package queries

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidInterval = errs.NewKind(errs.KindValidation, "start must be before end")

// LedgerReader lists ledger reservations (confirmed or active) overlapping an interval.
type LedgerReader interface {
	FindConflicting(ctx context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error)
}

// AvailabilityChecker answers availability questions against one ledger view.
// Inside a vehicle lock it is built on the transaction's repository.
type AvailabilityChecker struct {
	ledger LedgerReader
}

func NewAvailabilityChecker(ledger LedgerReader) *AvailabilityChecker {
	return &AvailabilityChecker{ledger: ledger}
}

func (a *AvailabilityChecker) Conflicts(ctx context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error) {
	found, err := a.ledger.FindConflicting(ctx, vehicleID, interval)
	if err != nil {
		return nil, errs.Wrap(err, "find conflicting reservations")
	}

	// stores filter in SQL; the domain predicate is authoritative
	conflicts := make([]*reservation.Reservation, 0, len(found))
	for _, r := range found {
		if r.ConflictsWith(interval) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts, nil
}

func (a *AvailabilityChecker) IsAvailable(ctx context.Context, vehicleID uuid.UUID, interval reservation.Interval) (bool, error) {
	conflicts, err := a.Conflicts(ctx, vehicleID, interval)
	if err != nil {
		return false, err
	}
	return len(conflicts) == 0, nil
}

// AvailabilityQueries is the exposed checkAvailability operation.
type AvailabilityQueries interface {
	CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	checker *AvailabilityChecker
}

func NewAvailabilityQueries(ledger LedgerReader) AvailabilityQueries {
	return &availabilityQueriesImpl{checker: NewAvailabilityChecker(ledger)}
}

func (q *availabilityQueriesImpl) CheckAvailability(ctx context.Context, vehicleID uuid.UUID, start, end time.Time) (*AvailabilityView, error) {
	interval, err := reservation.NewInterval(start, end)
	if err != nil {
		return nil, errs.Attach(ErrInvalidInterval, err)
	}

	conflicts, err := q.checker.Conflicts(ctx, vehicleID, interval)
	if err != nil {
		return nil, errs.Attach(errs.ErrDependency, err)
	}

	return &AvailabilityView{
		VehicleID: vehicleID,
		Start:     start,
		End:       end,
		Available: len(conflicts) == 0,
		Conflicts: NewConflictViews(conflicts),
	}, nil
}
