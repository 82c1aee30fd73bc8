package converter

import (
	"fmt"
	"time"

	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/pkg/pgconv"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const UserColumns = `id, email, password_hash, role, last_login, is_active, created_at, updated_at`

type UserRow struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	LastLogin    pgtype.Timestamptz
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func ScanUser(row pgx.Row) (UserRow, error) {
	var u UserRow
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.LastLogin, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (u UserRow) ToDomain() (*user.User, error) {
	email, err := user.NewEmail(u.Email)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	role, err := user.NewRole(u.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", u.ID, err)
	}
	return user.Reconstruct(u.ID, email, u.PasswordHash, role, pgconv.TimePtrFromPgtype(u.LastLogin), u.IsActive, u.CreatedAt, u.UpdatedAt), nil
}

func (u UserRow) ToView() *queries.UserView {
	return &queries.UserView{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		LastLogin: pgconv.TimePtrFromPgtype(u.LastLogin),
	}
}
