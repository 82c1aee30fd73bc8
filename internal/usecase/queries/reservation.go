package queries

import (
	"context"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrReservationNotFound = errs.NewKind(errs.KindNotFound, "reservation not found")

type ReservationQueries interface {
	GetReservation(ctx context.Context, userID, id uuid.UUID) (*ReservationView, error)
	ListUserReservations(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error)
}

type ReservationReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*reservation.Reservation, error)
	// ListByUser returns reservations newest pickup first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*reservation.Reservation, error)
}

type reservationQueriesImpl struct {
	readStore ReservationReadStore
	clock     clock.Clock
}

func NewReservationQueries(readStore ReservationReadStore, clk clock.Clock) ReservationQueries {
	return &reservationQueriesImpl{
		readStore: readStore,
		clock:     clk,
	}
}

// GetReservation hides reservations of other users behind not found.
func (q *reservationQueriesImpl) GetReservation(ctx context.Context, userID, id uuid.UUID) (*ReservationView, error) {
	r, err := q.readStore.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Attach(errs.ErrDependency, err)
	}
	if r.UserID() != userID {
		return nil, ErrReservationNotFound
	}

	return NewReservationView(r, q.clock.Now()), nil
}

func (q *reservationQueriesImpl) ListUserReservations(ctx context.Context, userID uuid.UUID) ([]*ReservationView, error) {
	rows, err := q.readStore.ListByUser(ctx, userID)
	if err != nil {
		return nil, errs.Attach(errs.ErrDependency, err)
	}

	now := q.clock.Now()
	views := make([]*ReservationView, len(rows))
	for i, r := range rows {
		views[i] = NewReservationView(r, now)
	}
	return views, nil
}
