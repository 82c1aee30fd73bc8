package auth

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the server-side record behind a signed refresh JWT.
// Its lifecycle is issued -> rotated, ending in deletion (revoke) or expiry.
type RefreshToken struct {
	id        uuid.UUID
	userID    uuid.UUID
	familyID  uuid.UUID
	expiresAt time.Time
	createdAt time.Time
	rotatedAt *time.Time
}

func NewRefreshToken(userID, familyID uuid.UUID, now time.Time, ttl time.Duration) *RefreshToken {
	return &RefreshToken{
		id:        uuid.New(),
		userID:    userID,
		familyID:  familyID,
		expiresAt: now.Add(ttl),
		createdAt: now,
	}
}

func ReconstructRefreshToken(id, userID, familyID uuid.UUID, expiresAt, createdAt time.Time, rotatedAt *time.Time) *RefreshToken {
	return &RefreshToken{
		id:        id,
		userID:    userID,
		familyID:  familyID,
		expiresAt: expiresAt,
		createdAt: createdAt,
		rotatedAt: rotatedAt,
	}
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.expiresAt)
}

func (t *RefreshToken) IsRotated() bool {
	return t.rotatedAt != nil
}

func (t *RefreshToken) ID() uuid.UUID         { return t.id }
func (t *RefreshToken) UserID() uuid.UUID     { return t.userID }
func (t *RefreshToken) FamilyID() uuid.UUID   { return t.familyID }
func (t *RefreshToken) ExpiresAt() time.Time  { return t.expiresAt }
func (t *RefreshToken) CreatedAt() time.Time  { return t.createdAt }
func (t *RefreshToken) RotatedAt() *time.Time { return t.rotatedAt }
