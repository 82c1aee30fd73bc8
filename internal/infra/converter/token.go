package converter

import (
	"time"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const RefreshTokenColumns = `id, user_id, family_id, expires_at, created_at, rotated_at`

type RefreshTokenRow struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	FamilyID  uuid.UUID
	ExpiresAt time.Time
	CreatedAt time.Time
	RotatedAt pgtype.Timestamptz
}

func ScanRefreshToken(row pgx.Row) (RefreshTokenRow, error) {
	var t RefreshTokenRow
	err := row.Scan(&t.ID, &t.UserID, &t.FamilyID, &t.ExpiresAt, &t.CreatedAt, &t.RotatedAt)
	return t, err
}

func (t RefreshTokenRow) ToDomain() *auth.RefreshToken {
	return auth.ReconstructRefreshToken(t.ID, t.UserID, t.FamilyID, t.ExpiresAt, t.CreatedAt, pgconv.TimePtrFromPgtype(t.RotatedAt))
}
