package commands

import (
	"context"
	"log/slog"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

// CancelReservation refunds a paid reservation and then releases its interval.
// The row is kept with status cancelled.
func (r *reservationCommandsImpl) CancelReservation(ctx context.Context, userID, reservationID uuid.UUID) (*queries.ReservationView, error) {
	res, err := r.uow.Reads().Reservations().FindByID(ctx, reservationID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Attach(ErrStoreUnavailable, err)
	}
	if res.UserID() != userID {
		return nil, ErrReservationNotFound
	}

	if err := res.CanCancel(r.clock.Now()); err != nil {
		return nil, errs.Attach(ErrNotCancellable, err)
	}

	if res.IsPaid() {
		if err := r.refund(ctx, res.PaymentReference(), res.ID()); err != nil {
			r.logger.Warn("refund for cancellation failed",
				slog.String("reservation_id", res.ID().String()),
				slog.String("payment_reference", res.PaymentReference()),
				slog.String("error", err.Error()))
			return nil, errs.Attach(ErrRefundFailed, err)
		}
	}

	cancelled, err := r.persistCancel(ctx, res)
	if err != nil {
		if errs.IsKind(err, errs.KindValidation) {
			return nil, err
		}
		if res.IsPaid() {
			return nil, r.cancelNotRecorded(res, err)
		}
		return nil, errs.Attach(ErrStoreUnavailable, err)
	}

	r.logger.Info("reservation cancelled",
		slog.String("reservation_id", cancelled.ID().String()),
		slog.String("user_id", userID.String()),
		slog.Bool("refunded", res.IsPaid()))

	return queries.NewReservationView(cancelled, r.clock.Now()), nil
}

// persistCancel writes the cancellation under the vehicle lock. Once a refund
// has gone out the write must not depend on the client staying connected.
func (r *reservationCommandsImpl) persistCancel(ctx context.Context, res *reservation.Reservation) (*reservation.Reservation, error) {
	finalizeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.FinalizeTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(r.cfg.PersistRetries, retry.NewExponential(r.cfg.RetryBaseDelay))
	var cancelled *reservation.Reservation

	err := retry.Do(finalizeCtx, backoff, func(ctx context.Context) error {
		err := r.uow.WithinVehicle(ctx, res.VehicleID(), func(ctx context.Context, tx shared.Tx) error {
			current, err := tx.Reservations().FindByID(ctx, res.ID())
			if err != nil {
				return err
			}
			if err := current.Cancel(r.clock.Now()); err != nil {
				return errs.Attach(ErrNotCancellable, err)
			}
			if err := tx.Reservations().UpdateStatus(ctx, current); err != nil {
				return err
			}
			cancelled = current
			return nil
		})
		if err != nil && !errs.IsKind(err, errs.KindValidation) {
			return retry.RetryableError(err)
		}
		return err
	})
	return cancelled, err
}

func (r *reservationCommandsImpl) cancelNotRecorded(res *reservation.Reservation, cause error) error {
	r.metrics.PostCommitInconsistency()
	r.logger.Error("refund issued but cancellation not stored",
		slog.String("reservation_id", res.ID().String()),
		slog.String("vehicle_id", res.VehicleID().String()),
		slog.String("user_id", res.UserID().String()),
		slog.String("payment_reference", res.PaymentReference()),
		slog.Int64("amount", res.Total().Int64()),
		slog.String("error", cause.Error()))
	return &PostCommitError{
		ReservationID:    res.ID(),
		PaymentReference: res.PaymentReference(),
		Err:              errs.Attach(ErrCancellationNotRecorded, cause),
	}
}
