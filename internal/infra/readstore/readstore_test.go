//go:build unit

package readstore

import (
	"context"
	"testing"

	"vehicle-reservation/internal/infra"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
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

func TestUserReadStore_FindByID(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name     string
		scanErr  error
		wantKind infra.RepositoryErrorKind
	}{
		{name: "not found", scanErr: pgx.ErrNoRows, wantKind: infra.KindNotFound},
		{name: "database error", scanErr: assert.AnError, wantKind: infra.KindDBFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDB := new(MockDBTX)
			mockDB.On("QueryRow", mock.Anything, findUserViewSQL, []any{id}).Return(errRow{err: tt.scanErr})

			view, err := NewUserReadStore(mockDB).FindByID(context.Background(), id)

			assert.Nil(t, view)
			assert.True(t, infra.IsKind(err, tt.wantKind), "got %v", err)
		})
	}
}

func TestReservationReadStore_ListByUser_QueryError(t *testing.T) {
	userID := uuid.New()
	mockDB := new(MockDBTX)
	mockDB.On("Query", mock.Anything, listReservationsByUserSQL, []any{userID}).Return(nil, assert.AnError)

	list, err := NewReservationReadStore(mockDB).ListByUser(context.Background(), userID)

	assert.Nil(t, list)
	assert.True(t, infra.IsKind(err, infra.KindDBFailure))
}

func TestVehicleCatalog_GetVehicle_NotFound(t *testing.T) {
	id := uuid.New()
	mockDB := new(MockDBTX)
	mockDB.On("QueryRow", mock.Anything, mock.Anything, []any{id}).Return(errRow{err: pgx.ErrNoRows})

	v, err := NewVehicleCatalog(mockDB).GetVehicle(context.Background(), id)

	assert.Nil(t, v)
	assert.True(t, infra.IsKind(err, infra.KindNotFound))
}
