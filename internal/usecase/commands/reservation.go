package commands

import (
	"context"
	"log/slog"
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/domain/vehicle"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/config"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"
)

const notifyTimeout = 10 * time.Second

type CommitParams struct {
	UserID            uuid.UUID
	VehicleID         uuid.UUID
	PickupAt          time.Time
	DropoffAt         time.Time
	PickupLocation    string
	DropoffLocation   string
	DiscountCode      string
	ExtraCodes        []string
	PaymentInstrument string
}

type CommitResult struct {
	Reservation      *queries.ReservationView
	PaymentReference string
	Warnings         []pricing.Warning
}

type ReservationCommands interface {
	CommitReservation(ctx context.Context, params CommitParams) (*CommitResult, error)
	CancelReservation(ctx context.Context, userID, reservationID uuid.UUID) (*queries.ReservationView, error)
}

type reservationCommandsImpl struct {
	uow      shared.UnitOfWork
	catalog  VehicleCatalog
	gateway  PaymentGateway
	notifier Notifier
	engine   *pricing.Engine
	extras   pricing.ExtrasCatalog
	metrics  Metrics
	clock    clock.Clock
	cfg      config.ReservationConfig
	currency string
	logger   *slog.Logger
}

func NewReservationCommands(
	uow shared.UnitOfWork,
	catalog VehicleCatalog,
	gateway PaymentGateway,
	notifier Notifier,
	engine *pricing.Engine,
	extras pricing.ExtrasCatalog,
	metrics Metrics,
	clk clock.Clock,
	cfg config.Config,
	logger *slog.Logger,
) ReservationCommands {
	if metrics == nil {
		metrics = nopMetrics{}
	}
	return &reservationCommandsImpl{
		uow:      uow,
		catalog:  catalog,
		gateway:  gateway,
		notifier: notifier,
		engine:   engine,
		extras:   extras,
		metrics:  metrics,
		clock:    clk,
		cfg:      cfg.Reservation,
		currency: cfg.Pricing.Currency,
		logger:   logger,
	}
}

// validated is a request that passed input checks and whose vehicle exists.
type validated struct {
	userID   uuid.UUID
	vehicle  *vehicle.Vehicle
	interval reservation.Interval
	pickup   reservation.Location
	dropoff  reservation.Location
	discount string
	extras   []pricing.Extra
}

func (r *reservationCommandsImpl) CommitReservation(ctx context.Context, params CommitParams) (*CommitResult, error) {
	req, err := r.validate(ctx, params)
	if err != nil {
		r.metrics.CommitOutcome(outcomeFor(err))
		return nil, err
	}

	price := r.engine.ComputeTotal(pricing.Input{
		DailyRate:    req.vehicle.DailyRate(),
		Pickup:       req.interval.Start(),
		Dropoff:      req.interval.End(),
		DiscountCode: req.discount,
		Extras:       req.extras,
	})

	res, err := reservation.NewPending(reservation.Draft{
		ID:              uuid.New(),
		VehicleID:       req.vehicle.ID(),
		UserID:          req.userID,
		Interval:        req.interval,
		PickupLocation:  req.pickup,
		DropoffLocation: req.dropoff,
		Price:           price,
	}, r.clock.Now())
	if err != nil {
		r.metrics.CommitOutcome(OutcomeInvalid)
		return nil, errs.Attach(ErrInvalidRequest, err)
	}

	charge := ChargeRequest{
		IdempotencyKey: res.ID().String(),
		UserID:         req.userID,
		Amount:         price.Total,
		Currency:       r.currency,
		Instrument:     params.PaymentInstrument,
		Description:    "Reservation of " + req.vehicle.Model() + " " + req.interval.String(),
	}

	var ref string
	if r.cfg.LockMode == config.LockModeStrict {
		ref, err = r.commitStrict(ctx, res, charge)
	} else {
		ref, err = r.commitOptimistic(ctx, res, charge)
	}
	if err != nil {
		r.metrics.CommitOutcome(outcomeFor(err))
		return nil, err
	}

	r.metrics.CommitOutcome(OutcomeConfirmed)
	r.logger.Info("reservation confirmed",
		slog.String("reservation_id", res.ID().String()),
		slog.String("vehicle_id", res.VehicleID().String()),
		slog.String("user_id", res.UserID().String()),
		slog.Int64("total", res.Total().Int64()),
		slog.String("payment_reference", ref))

	r.notifyAsync(ctx, req.vehicle, res)

	return &CommitResult{
		Reservation:      queries.NewReservationView(res, r.clock.Now()),
		PaymentReference: ref,
		Warnings:         price.Warnings,
	}, nil
}

func (r *reservationCommandsImpl) validate(ctx context.Context, params CommitParams) (*validated, error) {
	if params.UserID == uuid.Nil || params.VehicleID == uuid.Nil {
		return nil, ErrInvalidRequest
	}

	interval, err := reservation.NewInterval(params.PickupAt, params.DropoffAt)
	if err != nil {
		return nil, errs.Attach(ErrInvalidInterval, err)
	}
	if !interval.Start().After(r.clock.Now()) {
		return nil, ErrPickupInPast
	}

	pickup, err := reservation.NewLocation(params.PickupLocation)
	if err != nil {
		return nil, errs.Attach(ErrInvalidLocation, err)
	}
	dropoff, err := reservation.NewLocation(params.DropoffLocation)
	if err != nil {
		return nil, errs.Attach(ErrInvalidLocation, err)
	}

	if params.PaymentInstrument == "" {
		return nil, ErrMissingInstrument
	}

	extras, err := r.resolveExtras(params.ExtraCodes)
	if err != nil {
		return nil, err
	}

	v, err := r.loadVehicle(ctx, params.VehicleID)
	if err != nil {
		return nil, err
	}

	return &validated{
		userID:   params.UserID,
		vehicle:  v,
		interval: interval,
		pickup:   pickup,
		dropoff:  dropoff,
		discount: params.DiscountCode,
		extras:   extras,
	}, nil
}

func (r *reservationCommandsImpl) resolveExtras(codes []string) ([]pricing.Extra, error) {
	seen := make(map[string]struct{}, len(codes))
	extras := make([]pricing.Extra, 0, len(codes))
	for _, code := range codes {
		normalized := pricing.NormalizeCode(code)
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}

		extra, ok := r.extras.Lookup(normalized)
		if !ok {
			return nil, errs.Attach(ErrUnknownExtra, errs.Newf("extra %q", code))
		}
		extras = append(extras, extra)
	}
	return extras, nil
}

func (r *reservationCommandsImpl) loadVehicle(ctx context.Context, id uuid.UUID) (*vehicle.Vehicle, error) {
	v, err := retry.DoValue(ctx, r.dependencyBackoff(), func(ctx context.Context) (*vehicle.Vehicle, error) {
		v, err := r.catalog.GetVehicle(ctx, id)
		if err != nil && !infra.IsKind(err, infra.KindNotFound) {
			return nil, retry.RetryableError(err)
		}
		return v, err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Attach(ErrVehicleNotFound, err)
		}
		return nil, errs.Attach(ErrCatalogUnavailable, err)
	}
	if !v.IsBookable() {
		return nil, ErrVehicleInactive
	}
	return v, nil
}

// commitOptimistic charges outside the vehicle lock and re-checks the ledger
// under it before inserting.
func (r *reservationCommandsImpl) commitOptimistic(ctx context.Context, res *reservation.Reservation, charge ChargeRequest) (string, error) {
	if err := r.ensureAvailable(ctx, r.uow.Reads().Reservations(), res); err != nil {
		return "", err
	}

	ref, err := r.charge(ctx, charge)
	if err != nil {
		return "", err
	}

	return ref, r.persistPaid(ctx, res, ref)
}

// commitStrict holds the vehicle lock from the availability check through the
// insert, payment included.
func (r *reservationCommandsImpl) commitStrict(ctx context.Context, res *reservation.Reservation, charge ChargeRequest) (string, error) {
	var ref string

	err := r.uow.WithinVehicle(ctx, res.VehicleID(), func(ctx context.Context, tx shared.Tx) error {
		if err := r.ensureAvailable(ctx, tx.Reservations(), res); err != nil {
			return err
		}

		// the unit of work may re-run fn; never charge twice
		if ref == "" {
			charged, err := r.charge(ctx, charge)
			if err != nil {
				return err
			}
			ref = charged
		}

		return r.insertConfirmed(ctx, tx, res, ref)
	})
	switch {
	case err == nil:
		return ref, nil
	case ref == "":
		return "", r.classifyStoreErr(err)
	}

	r.logger.Warn("insert after charge failed, retrying under a fresh lock",
		slog.String("reservation_id", res.ID().String()),
		slog.String("error", err.Error()))
	return ref, r.persistPaid(ctx, res, ref)
}

// ensureAvailable fails with *ConflictError when the ledger already holds an
// overlapping reservation.
func (r *reservationCommandsImpl) ensureAvailable(ctx context.Context, ledger queries.LedgerReader, res *reservation.Reservation) error {
	conflicts, err := queries.NewAvailabilityChecker(ledger).Conflicts(ctx, res.VehicleID(), res.Interval())
	if err != nil {
		return errs.Attach(ErrStoreUnavailable, err)
	}
	if len(conflicts) > 0 {
		return &ConflictError{VehicleID: res.VehicleID(), Interval: res.Interval(), Conflicts: conflicts}
	}
	return nil
}

// charge retries transport failures until the payment timeout. A refusal or
// the timeout itself is a decline.
func (r *reservationCommandsImpl) charge(ctx context.Context, req ChargeRequest) (string, error) {
	payCtx, cancel := context.WithTimeout(ctx, r.cfg.PaymentTimeout)
	defer cancel()

	started := r.clock.Now()
	result, err := retry.DoValue(payCtx, r.dependencyBackoff(), func(ctx context.Context) (ChargeResult, error) {
		result, err := r.gateway.Charge(ctx, req)
		if err != nil && !errs.Is(err, ErrGatewayDeclined) && ctx.Err() == nil {
			return result, retry.RetryableError(err)
		}
		return result, err
	})
	elapsed := r.clock.Now().Sub(started)

	switch {
	case err == nil:
		r.metrics.PaymentDuration(elapsed, "captured")
		return result.Reference, nil
	case errs.Is(err, ErrGatewayDeclined):
		r.metrics.PaymentDuration(elapsed, OutcomeDeclined)
		return "", errs.Attach(ErrPaymentDeclined, err)
	case payCtx.Err() != nil:
		r.metrics.PaymentDuration(elapsed, "timeout")
		r.logger.Warn("payment timed out, treating as declined",
			slog.String("idempotency_key", req.IdempotencyKey),
			slog.Duration("timeout", r.cfg.PaymentTimeout))
		r.reverseTimedOut(ctx, req)
		return "", errs.Attach(ErrPaymentDeclined, err)
	default:
		r.metrics.PaymentDuration(elapsed, OutcomeDependency)
		return "", errs.Attach(ErrPaymentUnavailable, err)
	}
}

// persistPaid stores a reservation whose payment is already captured. It runs
// detached from the caller's cancellation, takes the vehicle lock, re-checks
// the ledger and refunds when the slot was taken in the meantime.
func (r *reservationCommandsImpl) persistPaid(ctx context.Context, res *reservation.Reservation, ref string) error {
	finalizeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.FinalizeTimeout)
	defer cancel()

	backoff := retry.WithMaxRetries(r.cfg.PersistRetries, retry.NewExponential(r.cfg.RetryBaseDelay))
	var conflict *ConflictError

	err := retry.Do(finalizeCtx, backoff, func(ctx context.Context) error {
		err := r.uow.WithinVehicle(ctx, res.VehicleID(), func(ctx context.Context, tx shared.Tx) error {
			if err := r.ensureAvailable(ctx, tx.Reservations(), res); err != nil {
				return err
			}
			return r.insertConfirmed(ctx, tx, res, ref)
		})
		switch {
		case err == nil:
			return nil
		case errs.As(err, &conflict):
			return err
		case infra.IsKind(err, infra.KindConflict):
			// the exclusion constraint caught an overlap the re-check missed
			return errs.Mark(err, errLedgerConflict)
		default:
			return retry.RetryableError(err)
		}
	})
	if err == nil {
		return nil
	}

	if conflict != nil || errs.Is(err, errLedgerConflict) {
		if conflict == nil {
			conflict = r.describeConflict(finalizeCtx, res)
		}
		if refundErr := r.refund(finalizeCtx, ref, res.ID()); refundErr != nil {
			return r.postCommitFailure(res, ref, errs.Wrap(refundErr, "refund after lost race"))
		}
		r.logger.Info("slot taken during payment, charge refunded",
			slog.String("reservation_id", res.ID().String()),
			slog.String("payment_reference", ref))
		return conflict
	}

	return r.postCommitFailure(res, ref, err)
}

func (r *reservationCommandsImpl) insertConfirmed(ctx context.Context, tx shared.Tx, res *reservation.Reservation, ref string) error {
	if res.Status() == reservation.StatusPending {
		if err := res.Confirm(ref, r.clock.Now()); err != nil {
			return errs.Attach(ErrInvalidRequest, err)
		}
	}
	return tx.Reservations().Create(ctx, res)
}

func (r *reservationCommandsImpl) describeConflict(ctx context.Context, res *reservation.Reservation) *ConflictError {
	conflicts, err := queries.NewAvailabilityChecker(r.uow.Reads().Reservations()).Conflicts(ctx, res.VehicleID(), res.Interval())
	if err != nil {
		r.logger.Warn("failed to load conflicting reservations", slog.String("error", err.Error()))
	}
	return &ConflictError{VehicleID: res.VehicleID(), Interval: res.Interval(), Conflicts: conflicts}
}

// reverseTimedOut undoes a capture whose response was lost to the payment
// timeout. Failures are left for reconciliation by idempotency key.
func (r *reservationCommandsImpl) reverseTimedOut(ctx context.Context, req ChargeRequest) {
	reverseCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.cfg.PaymentTimeout)
	defer cancel()

	err := retry.Do(reverseCtx, r.dependencyBackoff(), func(ctx context.Context) error {
		if err := r.gateway.Reverse(ctx, req.IdempotencyKey, "refund-"+req.IdempotencyKey); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		r.logger.Warn("could not reverse timed out charge, reconcile by idempotency key",
			slog.String("idempotency_key", req.IdempotencyKey),
			slog.String("user_id", req.UserID.String()),
			slog.Int64("amount", req.Amount.Int64()),
			slog.String("error", err.Error()))
	}
}

func (r *reservationCommandsImpl) refund(ctx context.Context, ref string, reservationID uuid.UUID) error {
	key := "refund-" + reservationID.String()
	return retry.Do(ctx, r.dependencyBackoff(), func(ctx context.Context) error {
		if err := r.gateway.Refund(ctx, ref, key); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func (r *reservationCommandsImpl) postCommitFailure(res *reservation.Reservation, ref string, cause error) error {
	r.metrics.PostCommitInconsistency()
	r.logger.Error("payment captured but reservation not stored",
		slog.String("reservation_id", res.ID().String()),
		slog.String("vehicle_id", res.VehicleID().String()),
		slog.String("user_id", res.UserID().String()),
		slog.String("payment_reference", ref),
		slog.Int64("amount", res.Total().Int64()),
		slog.String("error", cause.Error()))
	return &PostCommitError{
		ReservationID:    res.ID(),
		PaymentReference: ref,
		Err:              errs.Attach(ErrPostPaymentPersistenceFailed, cause),
	}
}

func (r *reservationCommandsImpl) classifyStoreErr(err error) error {
	if errs.KindOf(err) != errs.KindInternal {
		return err
	}
	return errs.Attach(ErrStoreUnavailable, err)
}

func (r *reservationCommandsImpl) notifyAsync(ctx context.Context, v *vehicle.Vehicle, res *reservation.Reservation) {
	summary := ConfirmationSummary{
		ReservationID:    res.ID(),
		VehicleID:        v.ID(),
		VehicleModel:     v.Model(),
		PickupAt:         res.Interval().Start(),
		DropoffAt:        res.Interval().End(),
		PickupLocation:   res.PickupLocation().String(),
		DropoffLocation:  res.DropoffLocation().String(),
		Total:            res.Total(),
		Currency:         r.currency,
		PaymentReference: res.PaymentReference(),
	}
	userID := res.UserID()

	go func() {
		notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := r.notifier.SendConfirmation(notifyCtx, userID, summary); err != nil {
			r.logger.Warn("failed to send reservation confirmation",
				slog.String("reservation_id", summary.ReservationID.String()),
				slog.String("error", err.Error()))
		}
	}()
}

func (r *reservationCommandsImpl) dependencyBackoff() retry.Backoff {
	return retry.WithMaxRetries(r.cfg.DependencyRetries, retry.NewExponential(r.cfg.RetryBaseDelay))
}

func outcomeFor(err error) string {
	switch errs.KindOf(err) {
	case errs.KindConflict:
		return OutcomeConflict
	case errs.KindPaymentDeclined:
		return OutcomeDeclined
	case errs.KindValidation, errs.KindNotFound:
		return OutcomeInvalid
	case errs.KindDependency:
		return OutcomeDependency
	case errs.KindPostCommitInconsistency:
		return OutcomeInconsistent
	default:
		return OutcomeInternalFailed
	}
}
