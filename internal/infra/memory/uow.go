package memory

import (
	"context"

	"vehicle-reservation/internal/usecase/shared"

	"github.com/google/uuid"
)

type UoW struct {
	store *Store
}

func NewUoW(store *Store) *UoW {
	return &UoW{store: store}
}

// Within applies writes immediately and undoes them if fn fails.
func (u *UoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	tx := newTx(u.store, true)
	if err := fn(ctx, tx); err != nil {
		tx.rollback()
		return err
	}
	return nil
}

func (u *UoW) WithinVehicle(ctx context.Context, vehicleID uuid.UUID, fn func(ctx context.Context, tx shared.Tx) error) error {
	unlock := u.store.vehicleLocks.Lock(vehicleID)
	defer unlock()

	return u.Within(ctx, fn)
}

func (u *UoW) Reads() shared.Tx {
	return newTx(u.store, false)
}

type tx struct {
	store    *Store
	tracking bool
	undo     []func()
}

func newTx(store *Store, tracking bool) *tx {
	return &tx{store: store, tracking: tracking}
}

// record must be called with store.mu held for writing.
func (t *tx) record(undo func()) {
	if t.tracking {
		t.undo = append(t.undo, undo)
	}
}

func (t *tx) rollback() {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *tx) Reservations() shared.ReservationRepository   { return &reservationRepo{tx: t} }
func (t *tx) RefreshTokens() shared.RefreshTokenRepository { return &tokenRepo{tx: t} }
func (t *tx) Users() shared.UserRepository                 { return &userRepo{tx: t} }
func (t *tx) Vehicles() shared.VehicleRepository           { return &vehicleRepo{tx: t} }
