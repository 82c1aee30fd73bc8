package memory

import (
	"context"
	"sort"

	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/infra"

	"github.com/google/uuid"
)

type reservationRepo struct {
	tx *tx
}

func (r *reservationRepo) Create(_ context.Context, res *reservation.Reservation) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reservations[res.ID()]; exists {
		return infra.NewRepoErr(infra.KindDuplicateKey, "reservation already exists")
	}
	if res.InLedger() && s.overlapsLocked(res.VehicleID(), res.ID(), res.Interval()) {
		return infra.NewRepoErr(infra.KindConflict, "reservation overlaps an existing booking")
	}

	id := res.ID()
	s.reservations[id] = cloneReservation(res)
	r.tx.record(func() { delete(s.reservations, id) })
	return nil
}

func (r *reservationRepo) UpdateStatus(_ context.Context, res *reservation.Reservation) error {
	s := r.tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	prev, ok := s.reservations[res.ID()]
	if !ok {
		return infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	if res.InLedger() && !prev.InLedger() && s.overlapsLocked(res.VehicleID(), res.ID(), res.Interval()) {
		return infra.NewRepoErr(infra.KindConflict, "reservation overlaps an existing booking")
	}

	updated := reservation.Reconstruct(
		prev.ID(), prev.VehicleID(), prev.UserID(), prev.Interval(),
		prev.PickupLocation(), prev.DropoffLocation(), prev.Price(),
		res.Status(), res.PaymentStatus(), res.PaymentReference(),
		prev.CreatedAt(), res.UpdatedAt(),
	)
	s.reservations[res.ID()] = updated
	r.tx.record(func() { s.reservations[prev.ID()] = prev })
	return nil
}

func (r *reservationRepo) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.tx.store.findReservation(id)
}

func (r *reservationRepo) FindConflicting(_ context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error) {
	return r.tx.store.findConflicting(vehicleID, interval), nil
}

func (s *Store) findReservation(id uuid.UUID) (*reservation.Reservation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, ok := s.reservations[id]
	if !ok {
		return nil, infra.NewRepoErr(infra.KindNotFound, "reservation not found")
	}
	return cloneReservation(res), nil
}

func (s *Store) findConflicting(vehicleID uuid.UUID, interval reservation.Interval) []*reservation.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*reservation.Reservation
	for _, res := range s.reservations {
		if res.VehicleID() == vehicleID && res.ConflictsWith(interval) {
			out = append(out, cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Interval().Start().Before(out[j].Interval().Start())
	})
	return out
}

// overlapsLocked mirrors the reservations_no_overlap exclusion constraint.
func (s *Store) overlapsLocked(vehicleID, exclude uuid.UUID, interval reservation.Interval) bool {
	for id, res := range s.reservations {
		if id != exclude && res.VehicleID() == vehicleID && res.ConflictsWith(interval) {
			return true
		}
	}
	return false
}

// ReservationReadStore serves the query side.
type ReservationReadStore struct {
	store *Store
}

func NewReservationReadStore(store *Store) *ReservationReadStore {
	return &ReservationReadStore{store: store}
}

func (r *ReservationReadStore) FindByID(_ context.Context, id uuid.UUID) (*reservation.Reservation, error) {
	return r.store.findReservation(id)
}

func (r *ReservationReadStore) ListByUser(_ context.Context, userID uuid.UUID) ([]*reservation.Reservation, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*reservation.Reservation
	for _, res := range r.store.reservations {
		if res.UserID() == userID {
			out = append(out, cloneReservation(res))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Interval().Start().After(out[j].Interval().Start())
	})
	return out, nil
}

func (r *ReservationReadStore) FindConflicting(_ context.Context, vehicleID uuid.UUID, interval reservation.Interval) ([]*reservation.Reservation, error) {
	return r.store.findConflicting(vehicleID, interval), nil
}
