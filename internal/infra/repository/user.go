package repository

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/infra/converter"
	"vehicle-reservation/internal/infra/db"
	"vehicle-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	findUserByIDSQL    = `SELECT ` + converter.UserColumns + ` FROM users WHERE id = $1`
	findUserByEmailSQL = `SELECT ` + converter.UserColumns + ` FROM users WHERE email = $1`
	insertUserSQL      = `INSERT INTO users (` + converter.UserColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	updateLastLoginSQL = `UPDATE users SET last_login = $2, updated_at = $2 WHERE id = $1`
)

type UserRepository struct {
	db db.DBTX
}

func NewUserRepository(dbtx db.DBTX) *UserRepository {
	return &UserRepository{db: dbtx}
}

func (r *UserRepository) FindByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return r.findOne(ctx, findUserByIDSQL, id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email user.Email) (*user.User, error) {
	return r.findOne(ctx, findUserByEmailSQL, email.Value())
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg any) (*user.User, error) {
	row, err := converter.ScanUser(r.db.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	u, err := row.ToDomain()
	if err != nil {
		return nil, infra.WrapRepoErr("corrupt user row", err, infra.KindDBFailure)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	_, err := r.db.Exec(ctx, insertUserSQL,
		u.ID(), u.Email().Value(), u.PasswordHash(), u.Role().String(),
		pgconv.TimePtrToPgtype(u.LastLogin()), u.IsActive(), u.CreatedAt(), u.UpdatedAt(),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	tag, err := r.db.Exec(ctx, updateLastLoginSQL, userID, at)
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return nil
}
