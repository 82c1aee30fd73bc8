// Package converter maps Postgres rows to domain values and back.
package converter

import (
	"fmt"
	"time"

	"vehicle-reservation/internal/domain/pricing"
	"vehicle-reservation/internal/domain/reservation"
	"vehicle-reservation/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const ReservationColumns = `id, vehicle_id, user_id, pickup_at, dropoff_at, pickup_location, dropoff_location,
	price, status, payment_status, payment_reference, created_at, updated_at`

type ReservationRow struct {
	ID               uuid.UUID
	VehicleID        uuid.UUID
	UserID           uuid.UUID
	PickupAt         time.Time
	DropoffAt        time.Time
	PickupLocation   string
	DropoffLocation  string
	Price            pricing.Breakdown
	Total            int64
	Status           string
	PaymentStatus    string
	PaymentReference pgtype.Text
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func ScanReservation(row pgx.Row) (ReservationRow, error) {
	var r ReservationRow
	err := row.Scan(
		&r.ID, &r.VehicleID, &r.UserID, &r.PickupAt, &r.DropoffAt, &r.PickupLocation, &r.DropoffLocation,
		&r.Price, &r.Status, &r.PaymentStatus, &r.PaymentReference, &r.CreatedAt, &r.UpdatedAt,
	)
	r.Total = r.Price.Total.Int64()
	return r, err
}

func ReservationToRow(res *reservation.Reservation) ReservationRow {
	return ReservationRow{
		ID:               res.ID(),
		VehicleID:        res.VehicleID(),
		UserID:           res.UserID(),
		PickupAt:         res.Interval().Start(),
		DropoffAt:        res.Interval().End(),
		PickupLocation:   res.PickupLocation().String(),
		DropoffLocation:  res.DropoffLocation().String(),
		Price:            res.Price(),
		Total:            res.Total().Int64(),
		Status:           res.Status().String(),
		PaymentStatus:    res.PaymentStatus().String(),
		PaymentReference: pgconv.StringToPgtype(res.PaymentReference()),
		CreatedAt:        res.CreatedAt(),
		UpdatedAt:        res.UpdatedAt(),
	}
}

func (r ReservationRow) ToDomain() (*reservation.Reservation, error) {
	interval, err := reservation.NewInterval(r.PickupAt, r.DropoffAt)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	pickup, err := reservation.NewLocation(r.PickupLocation)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", r.ID, err)
	}
	dropoff, err := reservation.NewLocation(r.DropoffLocation)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", r.ID, err)
	}

	status := reservation.Status(r.Status)
	if !status.IsValid() {
		return nil, fmt.Errorf("reservation %s: unknown status %q", r.ID, r.Status)
	}
	paymentStatus := reservation.PaymentStatus(r.PaymentStatus)
	if !paymentStatus.IsValid() {
		return nil, fmt.Errorf("reservation %s: unknown payment status %q", r.ID, r.PaymentStatus)
	}

	return reservation.Reconstruct(
		r.ID, r.VehicleID, r.UserID, interval, pickup, dropoff, r.Price,
		status, paymentStatus, pgconv.StringFromPgtype(r.PaymentReference),
		r.CreatedAt, r.UpdatedAt,
	), nil
}

// CollectReservations scans every row and closes rows.
func CollectReservations(rows pgx.Rows) ([]*reservation.Reservation, error) {
	defer rows.Close()

	var out []*reservation.Reservation
	for rows.Next() {
		row, err := ScanReservation(rows)
		if err != nil {
			return nil, err
		}
		res, err := row.ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// LedgerStatuses is the status filter for ledger queries.
func LedgerStatuses() []string {
	statuses := reservation.LedgerStatuses()
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = s.String()
	}
	return out
}
