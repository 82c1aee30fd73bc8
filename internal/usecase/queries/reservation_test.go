//go:build unit

package queries_test

import (
	"context"
	"testing"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/infra/memory"
	"vehicle-reservation/internal/pkg/clock"
	"vehicle-reservation/internal/pkg/errs"
	"vehicle-reservation/internal/testutil/builder"
	"vehicle-reservation/internal/usecase/queries"
	"vehicle-reservation/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationQueries(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewUoW(store)
	owner := uuid.New()

	first := builder.NewReservationBuilder().ForUser(owner).
		WithInterval(at(t, "2024-04-10T10:00:00Z"), at(t, "2024-04-13T10:00:00Z")).BuildDomain()
	second := builder.NewReservationBuilder().ForUser(owner).AsCancelled().
		WithInterval(at(t, "2024-05-01T10:00:00Z"), at(t, "2024-05-02T10:00:00Z")).BuildDomain()
	foreign := builder.NewReservationBuilder().BuildDomain()
	require.NoError(t, uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		for _, r := range []*reservation.Reservation{first, second, foreign} {
			if err := tx.Reservations().Create(ctx, r); err != nil {
				return err
			}
		}
		return nil
	}))

	clk := clock.NewMockClock(at(t, "2024-04-11T00:00:00Z"))
	q := queries.NewReservationQueries(memory.NewReservationReadStore(store), clk)

	t.Run("success: display status is derived at read time", func(t *testing.T) {
		view, err := q.GetReservation(context.Background(), owner, first.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.DisplayActive, view.DisplayStatus)

		clk.Set(at(t, "2024-04-13T10:00:01Z"))
		defer clk.Set(at(t, "2024-04-11T00:00:00Z"))
		view, err = q.GetReservation(context.Background(), owner, first.ID())
		require.NoError(t, err)
		assert.Equal(t, reservation.DisplayCompleted, view.DisplayStatus)
		assert.Equal(t, string(reservation.StatusConfirmed), view.Status)
	})

	t.Run("success: lists only the owner's reservations, newest pickup first", func(t *testing.T) {
		views, err := q.ListUserReservations(context.Background(), owner)

		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, second.ID(), views[0].ID)
		assert.Equal(t, reservation.DisplayCancelled, views[0].DisplayStatus)
		assert.Equal(t, first.ID(), views[1].ID)
	})

	t.Run("success: empty list for a user without reservations", func(t *testing.T) {
		views, err := q.ListUserReservations(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("error: another user's reservation is not found", func(t *testing.T) {
		_, err := q.GetReservation(context.Background(), owner, foreign.ID())

		assert.True(t, errs.Is(err, queries.ErrReservationNotFound))
		assert.Equal(t, errs.KindNotFound, errs.KindOf(err))
	})

	t.Run("error: unknown id", func(t *testing.T) {
		_, err := q.GetReservation(context.Background(), owner, uuid.New())

		assert.True(t, errs.Is(err, queries.ErrReservationNotFound))
	})
}

func TestUserQueries_GetCurrentUser(t *testing.T) {
	store := memory.NewStore()
	uow := memory.NewUoW(store)
	active, err := builder.NewUserBuilder().WithEmail("driver@example.com").BuildDomain()
	require.NoError(t, err)
	inactive, err := builder.NewUserBuilder().WithEmail("gone@example.com").AsInactive().BuildDomain()
	require.NoError(t, err)
	require.NoError(t, uow.Within(context.Background(), func(ctx context.Context, tx shared.Tx) error {
		if err := tx.Users().Create(ctx, active); err != nil {
			return err
		}
		return tx.Users().Create(ctx, inactive)
	}))
	q := queries.NewUserQueries(memory.NewUserReadStore(store))

	view, err := q.GetCurrentUser(context.Background(), active.ID())
	require.NoError(t, err)
	assert.Equal(t, "driver@example.com", view.Email)
	assert.Equal(t, "customer", view.Role)

	_, err = q.GetCurrentUser(context.Background(), inactive.ID())
	assert.True(t, errs.Is(err, queries.ErrUserInactive))

	_, err = q.GetCurrentUser(context.Background(), uuid.New())
	assert.True(t, errs.Is(err, queries.ErrUserNotFound))
}
