//go:build unit

package commands_test

import (
	"context"
	"errors"
	"time"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/testutil/builder"
	"vehicle-reservation/internal/usecase/commands"
)

func (s *ReservationCommandsTestSuite) TestCancelReservation() {
	s.Run("success: paid reservation is refunded and leaves the ledger", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).BuildDomain()
		s.seed(existing)

		view, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.Require().NoError(err)
		s.Equal(string(reservation.StatusCancelled), view.Status)
		s.Equal(string(reservation.PaymentRefunded), view.PaymentStatus)
		s.Equal(reservation.DisplayCancelled, view.DisplayStatus)
		s.Equal(1, s.gateway.Refunded())
		s.Empty(s.ledger())

		stored, err := s.uow.Reads().Reservations().FindByID(context.Background(), existing.ID())
		s.Require().NoError(err)
		s.Equal(reservation.StatusCancelled, stored.Status())
	})

	s.Run("success: unpaid reservation is cancelled without a refund", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).AsPending().BuildDomain()
		s.seed(existing)

		view, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.Require().NoError(err)
		s.Equal(string(reservation.PaymentUnpaid), view.PaymentStatus)
		s.Zero(s.gateway.Refunded())
	})

	s.Run("success: a cancelled slot can be booked again", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).BuildDomain()
		s.seed(existing)
		cmd := s.newCommands()

		_, err := cmd.CancelReservation(context.Background(), s.userID, existing.ID())
		s.Require().NoError(err)
		_, err = cmd.CommitReservation(context.Background(), s.params())
		s.Require().NoError(err)
		s.Len(s.ledger(), 1)
	})

	s.Run("error: another user's reservation is not found", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).BuildDomain()
		s.seed(existing)

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.True(errs.Is(err, commands.ErrReservationNotFound))
		s.Equal(errs.KindNotFound, errs.KindOf(err))
		s.Zero(s.gateway.Refunded())
	})

	s.Run("error: unknown reservation is not found", func() {
		s.SetupTest()

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, builder.NewReservationBuilder().ID)

		s.True(errs.Is(err, commands.ErrReservationNotFound))
	})

	s.Run("error: cancelled twice", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).AsCancelled().BuildDomain()
		s.seed(existing)

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.True(errs.Is(err, commands.ErrNotCancellable))
		s.Equal(errs.KindValidation, errs.KindOf(err))
	})

	s.Run("error: rental already started", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).BuildDomain()
		s.seed(existing)
		s.clock.Set(pickup.Add(time.Hour))

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.True(errs.Is(err, commands.ErrNotCancellable))
		s.Zero(s.gateway.Refunded())
		s.Len(s.ledger(), 1)
	})

	s.Run("error: refund failure keeps the reservation confirmed", func() {
		s.SetupTest()
		s.gateway.refundErr = errors.New("gateway unavailable")
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).BuildDomain()
		s.seed(existing)

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.True(errs.Is(err, commands.ErrRefundFailed))
		s.Equal(errs.KindDependency, errs.KindOf(err))
		s.Len(s.ledger(), 1)
	})

	s.Run("success: client disconnect after the refund still records the cancellation", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).BuildDomain()
		s.seed(existing)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		s.gateway.refundHook = cancel

		view, err := s.newCommands().CancelReservation(ctx, s.userID, existing.ID())

		s.Require().NoError(err)
		s.Equal(string(reservation.StatusCancelled), view.Status)
		s.Equal(1, s.gateway.Refunded())
		s.Empty(s.ledger())
	})

	s.Run("error: refund issued but the cancellation cannot be stored", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).BuildDomain()
		s.seed(existing)
		broken := &brokenVehicleUoW{UnitOfWork: s.uow}
		s.uow = broken

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.True(errs.Is(err, commands.ErrCancellationNotRecorded))
		s.Equal(errs.KindPostCommitInconsistency, errs.KindOf(err))
		var postCommit *commands.PostCommitError
		s.Require().True(errs.As(err, &postCommit))
		s.Equal(existing.ID(), postCommit.ReservationID)
		s.Equal(existing.PaymentReference(), postCommit.PaymentReference)
		s.Equal(int32(s.cfg.Reservation.PersistRetries)+1, broken.attempts.Load())
		s.Equal(1, s.gateway.Refunded())
		s.Equal(1, s.metrics.Inconsistent())
	})

	s.Run("error: unpaid reservation whose cancellation cannot be stored", func() {
		s.SetupTest()
		existing := builder.NewReservationBuilder().ForVehicle(s.vehicle.ID()).ForUser(s.userID).AsPending().BuildDomain()
		s.seed(existing)
		s.uow = &brokenVehicleUoW{UnitOfWork: s.uow}

		_, err := s.newCommands().CancelReservation(context.Background(), s.userID, existing.ID())

		s.True(errs.Is(err, commands.ErrStoreUnavailable))
		s.Equal(errs.KindDependency, errs.KindOf(err))
		s.Zero(s.metrics.Inconsistent())
	})
}
