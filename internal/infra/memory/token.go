package memory

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/auth"
	"vehicle-reservation/internal/infra"

	"github.com/google/uuid"
)

type tokenRepo struct {
	tx *tx
}

func (r *tokenRepo) Create(_ context.Context, token *auth.RefreshToken) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "refresh token already exists")
	}
	id := token.ID()
	s.tokens[id] = cloneToken(token)
	r.tx.record(func() { delete(s.tokens, id) })
	return nil
}

func (r *tokenRepo) FindByID(_ context.Context, id uuid.UUID) (*auth.RefreshToken, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	token, ok := s.tokens[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "refresh token not found")
	}
	return cloneToken(token), nil
}

func (r *tokenRepo) MarkRotated(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.tokens[id]
	if !ok || prev.IsRotated() {
		return false, nil
	}
	s.tokens[id] = auth.ReconstructRefreshToken(prev.ID(), prev.UserID(), prev.FamilyID(), prev.ExpiresAt(), prev.CreatedAt(), &at)
	r.tx.record(func() { s.tokens[id] = prev })
	return true, nil
}

func (r *tokenRepo) DeleteFamily(_ context.Context, familyID uuid.UUID) (int64, error) {
	return r.deleteWhere(func(t *auth.RefreshToken) bool { return t.FamilyID() == familyID }), nil
}

func (r *tokenRepo) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	return r.deleteWhere(func(t *auth.RefreshToken) bool { return t.IsExpired(now) }), nil
}

func (r *tokenRepo) deleteWhere(match func(*auth.RefreshToken) bool) int64 {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for id, token := range s.tokens {
		if !match(token) {
			continue
		}
		delete(s.tokens, id)
		r.tx.record(func() { s.tokens[id] = token })
		n++
	}
	return n
}
