package commands

import (
	"fmt"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

var (
	ErrInvalidRequest    = errs.NewKind(errs.KindValidation, "invalid reservation request")
	ErrInvalidInterval   = errs.NewKind(errs.KindValidation, "pickup must be before dropoff")
	ErrPickupInPast      = errs.NewKind(errs.KindValidation, "pickup time is in the past")
	ErrInvalidLocation   = errs.NewKind(errs.KindValidation, "pickup and dropoff locations are required")
	ErrMissingInstrument = errs.NewKind(errs.KindValidation, "payment instrument is required")
	ErrUnknownExtra      = errs.NewKind(errs.KindValidation, "unknown extra")
	ErrVehicleNotFound   = errs.NewKind(errs.KindValidation, "vehicle not found")
	ErrVehicleInactive   = errs.NewKind(errs.KindValidation, "vehicle is not available for booking")

	ErrPaymentDeclined    = errs.NewKind(errs.KindPaymentDeclined, "payment declined")
	ErrPaymentUnavailable = errs.NewKind(errs.KindDependency, "payment gateway unavailable")
	ErrCatalogUnavailable = errs.NewKind(errs.KindDependency, "vehicle catalog unavailable")
	ErrStoreUnavailable   = errs.NewKind(errs.KindDependency, "reservation store unavailable")
	ErrRefundFailed       = errs.NewKind(errs.KindDependency, "refund failed")

	// ErrPostPaymentPersistenceFailed means the payment was captured but no
	// reservation was stored and the payment could not be returned.
	ErrPostPaymentPersistenceFailed = errs.NewKind(errs.KindPostCommitInconsistency, "payment captured but reservation could not be stored")

	// ErrCancellationNotRecorded means the refund went through but the
	// reservation still holds its interval.
	ErrCancellationNotRecorded = errs.NewKind(errs.KindPostCommitInconsistency, "refund issued but cancellation could not be stored")

	ErrReservationNotFound = errs.NewKind(errs.KindNotFound, "reservation not found")
	ErrNotCancellable      = errs.NewKind(errs.KindValidation, "reservation cannot be cancelled")

	errLedgerConflict = errs.New("ledger already holds an overlapping reservation")
)

// ConflictError reports that the vehicle is already booked for part of the
// requested interval.
type ConflictError struct {
	VehicleID uuid.UUID
	Interval  reservation.Interval
	Conflicts []*reservation.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("vehicle %s is unavailable for %s (%d conflicting reservation(s))",
		e.VehicleID, e.Interval, len(e.Conflicts))
}

func (e *ConflictError) Kind() errs.Kind { return errs.KindConflict }

// PostCommitError carries what is needed to reconcile a captured payment by hand.
type PostCommitError struct {
	ReservationID    uuid.UUID
	PaymentReference string
	Err              error
}

func (e *PostCommitError) Error() string {
	return fmt.Sprintf("reservation %s (payment %s): %v", e.ReservationID, e.PaymentReference, e.Err)
}

func (e *PostCommitError) Unwrap() error { return e.Err }
