package memory

import (
	"context"
	"time"

	"vehicle-reservation/internal/domain/user"
	"vehicle-reservation/internal/infra"
	"vehicle-reservation/internal/usecase/queries"

	"github.com/google/uuid"
)

type userRepo struct {
	tx *tx
}

func (r *userRepo) FindByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	return r.tx.store.findUser(id)
}

func (r *userRepo) FindByEmail(_ context.Context, email user.Email) (*user.User, error) {
	s := r.tx.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email() == email {
			return cloneUser(u), nil
		}
	}
	return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
}

func (r *userRepo) Create(_ context.Context, u *user.User) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.ID() == u.ID() || existing.Email() == u.Email() {
			return infra.NewRepoErr(infra.KindDuplicateKey, "user already exists")
		}
	}
	id := u.ID()
	s.users[id] = cloneUser(u)
	r.tx.record(func() { delete(s.users, id) })
	return nil
}

func (r *userRepo) UpdateLastLogin(_ context.Context, userID uuid.UUID, at time.Time) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.users[userID]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	updated := cloneUser(prev)
	updated.RecordLogin(at)
	s.users[userID] = updated
	r.tx.record(func() { s.users[userID] = prev })
	return nil
}

func (s *Store) findUser(id uuid.UUID) (*user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "user not found")
	}
	return cloneUser(u), nil
}

type UserReadStore struct {
	store *Store
}

func NewUserReadStore(store *Store) *UserReadStore {
	return &UserReadStore{store: store}
}

func (r *UserReadStore) FindByID(_ context.Context, id uuid.UUID) (*queries.UserView, error) {
	u, err := r.store.findUser(id)
	if err != nil {
		return nil, err
	}
	return &queries.UserView{
		ID:        u.ID(),
		Email:     u.Email().Value(),
		Role:      u.Role().String(),
		IsActive:  u.IsActive(),
		LastLogin: u.LastLogin(),
	}, nil
}
