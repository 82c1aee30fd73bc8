package readstore

import (
	"context"

	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/infra/converter"
	"vehicle-reservation/internal/infra/db"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

const findUserViewSQL = `SELECT ` + converter.UserColumns + ` FROM users WHERE id = $1`

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.UserView, error) {
	row, err := converter.ScanUser(r.db.QueryRow(ctx, findUserViewSQL, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}
	return row.ToView(), nil
}
