//go:build unit

package repository

import (
	"context"
	"testing"
	"time"

	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/testutil/builder"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockDBTX struct {
	mock.Mock
}

func (m *MockDBTX) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgconn.CommandTag), mockArgs.Error(1)
}

func (m *MockDBTX) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	mockArgs := m.Called(ctx, query, args)
	rows, _ := mockArgs.Get(0).(pgx.Rows)
	return rows, mockArgs.Error(1)
}

func (m *MockDBTX) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	mockArgs := m.Called(ctx, query, args)
	return mockArgs.Get(0).(pgx.Row)
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

func TestReservationRepository_Create(t *testing.T) {
	res := builder.NewReservationBuilder().BuildDomain()

	tests := []struct {
		name     string
		mockErr  error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "success"},
		{name: "overlap rejected by exclusion constraint", mockErr: &pgconn.PgError{Code: "23P01", ConstraintName: "reservations_no_overlap"}, wantKind: infra.KindConflict},
		{name: "duplicate id", mockErr: &pgconn.PgError{Code: "23505"}, wantKind: infra.KindDuplicateKey},
		{name: "database error", mockErr: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, insertReservationSQL, mock.MatchedBy(func(args []any) bool {
				return len(args) == 14 && args[0] == res.ID()
			})).Return(pgconn.NewCommandTag("INSERT 0 1"), tt.mockErr)

			err := NewReservationRepository(mockDB).Create(context.Background(), res)

			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
			}
			mockDB.AssertExpectations(t)
		})
	}
}

func TestReservationRepository_UpdateStatus(t *testing.T) {
	res := builder.NewReservationBuilder().BuildDomain()

	t.Run("success", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", mock.Anything, updateReservationStatusSQL, mock.Anything).Return(pgconn.NewCommandTag("UPDATE 1"), nil)

		assert.NoError(t, NewReservationRepository(mockDB).UpdateStatus(context.Background(), res))
	})

	t.Run("missing row", func(t *testing.T) {
		mockDB := new(MockDBTX)
		mockDB.On("Exec", mock.Anything, updateReservationStatusSQL, mock.Anything).Return(pgconn.NewCommandTag("UPDATE 0"), nil)

		err := NewReservationRepository(mockDB).UpdateStatus(context.Background(), res)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})
}

func TestReservationRepository_FindByID_NotFound(t *testing.T) {
	id := uuid.New()
	mockDB := new(MockDBTX)
	mockDB.On("QueryRow", mock.Anything, findReservationByIDSQL, []any{id}).Return(errRow{err: pgx.ErrNoRows})

	found, err := NewReservationRepository(mockDB).FindByID(context.Background(), id)

	assert.Nil(t, found)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}

func TestReservationRepository_FindConflicting_QueryError(t *testing.T) {
	res := builder.NewReservationBuilder().BuildDomain()
	mockDB := new(MockDBTX)
	mockDB.On("Query", mock.Anything, findConflictingSQL, mock.MatchedBy(func(args []any) bool {
		return len(args) == 4 && args[0] == res.VehicleID()
	})).Return(nil, assert.AnError)

	_, err := NewReservationRepository(mockDB).FindConflicting(context.Background(), res.VehicleID(), res.Interval())

	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
}

func TestRefreshTokenRepository_MarkRotated(t *testing.T) {
	id := uuid.New()
	at := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		tag     string
		mockErr error
		want    bool
		wantErr bool
	}{
		{name: "first rotation wins", tag: "UPDATE 1", want: true},
		{name: "already rotated", tag: "UPDATE 0", want: false},
		{name: "database error", tag: "", mockErr: assert.AnError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, markRotatedSQL, []any{id, at}).Return(pgconn.NewCommandTag(tt.tag), tt.mockErr)

			got, err := NewRefreshTokenRepository(mockDB).MarkRotated(context.Background(), id, at)

			if tt.wantErr {
				assert.True(t, infra.IsKind(err, infra.KindDBFailure))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRefreshTokenRepository_DeleteExpired(t *testing.T) {
	now := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	mockDB := new(MockDBTX)
	mockDB.On("Exec", mock.Anything, deleteExpiredTokensSQL, []any{now}).Return(pgconn.NewCommandTag("DELETE 3"), nil)

	n, err := NewRefreshTokenRepository(mockDB).DeleteExpired(context.Background(), now)

	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}

func TestUserRepository_UpdateLastLogin(t *testing.T) {
	userID := uuid.New()
	at := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		tag      string
		mockErr  error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "success", tag: "UPDATE 1"},
		{name: "unknown user", tag: "UPDATE 0", wantKind: infra.KindNotFound},
		{name: "database error", mockErr: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("Exec", mock.Anything, updateLastLoginSQL, []any{userID, at}).Return(pgconn.NewCommandTag(tt.tag), tt.mockErr)

			err := NewUserRepository(mockDB).UpdateLastLogin(context.Background(), userID, at)

			if tt.wantKind == "" {
				assert.NoError(t, err)
			} else {
				assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
			}
		})
	}
}

func TestUserRepository_FindByEmail_NotFound(t *testing.T) {
	u, err := builder.NewUserBuilder().WithEmail("nobody@example.com").BuildDomain()
	require.NoError(t, err)
	mockDB := new(MockDBTX)
	mockDB.On("QueryRow", mock.Anything, findUserByEmailSQL, []any{"nobody@example.com"}).Return(errRow{err: pgx.ErrNoRows})

	_, err = NewUserRepository(mockDB).FindByEmail(context.Background(), u.Email())

	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
