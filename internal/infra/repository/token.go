package repository

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/infra/converter"
	"vehicle-reservation/internal/infra/db"
	"vehicle-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
)

const (
	insertRefreshTokenSQL  = `INSERT INTO refresh_tokens (` + converter.RefreshTokenColumns + `) VALUES ($1, $2, $3, $4, $5, $6)`
	findRefreshTokenSQL    = `SELECT ` + converter.RefreshTokenColumns + ` FROM refresh_tokens WHERE id = $1`
	// conditional so only one of two concurrent rotations wins
	markRotatedSQL         = `UPDATE refresh_tokens SET rotated_at = $2 WHERE id = $1 AND rotated_at IS NULL`
	deleteTokenFamilySQL   = `DELETE FROM refresh_tokens WHERE family_id = $1`
	deleteExpiredTokensSQL = `DELETE FROM refresh_tokens WHERE expires_at <= $1`
)

type RefreshTokenRepository struct {
	db db.DBTX
}

func NewRefreshTokenRepository(dbtx db.DBTX) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: dbtx}
}

func (r *RefreshTokenRepository) Create(ctx context.Context, token *auth.RefreshToken) error {
	_, err := r.db.Exec(ctx, insertRefreshTokenSQL,
		token.ID(), token.UserID(), token.FamilyID(), token.ExpiresAt(), token.CreatedAt(),
		pgconv.TimePtrToPgtype(token.RotatedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to create refresh token", err)
	}
	return nil
}

func (r *RefreshTokenRepository) FindByID(ctx context.Context, id uuid.UUID) (*auth.RefreshToken, error) {
	row, err := converter.ScanRefreshToken(r.db.QueryRow(ctx, findRefreshTokenSQL, id))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find refresh token", err)
	}
	return row.ToDomain(), nil
}

func (r *RefreshTokenRepository) MarkRotated(ctx context.Context, id uuid.UUID, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, markRotatedSQL, id, at)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark refresh token rotated", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RefreshTokenRepository) DeleteFamily(ctx context.Context, familyID uuid.UUID) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteTokenFamilySQL, familyID)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete refresh token family", err)
	}
	return tag.RowsAffected(), nil
}

func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredTokensSQL, now)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired refresh tokens", err)
	}
	return tag.RowsAffected(), nil
}
