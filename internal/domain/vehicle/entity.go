package vehicle

import (
	"errors"
	"strings"
	"time"

	"vehicle-reservation/internal/domain/pricing"

	"github.com/google/uuid"
)

var (
	ErrEmptyModel        = errors.New("vehicle model cannot be empty")
	ErrModelTooLong      = errors.New("vehicle model is too long (max 255 characters)")
	ErrInvalidYear       = errors.New("vehicle year is out of range")
	ErrNegativeDailyRate = errors.New("daily rate cannot be negative")
	ErrInvalidSeats      = errors.New("seat count must be positive")
)

const (
	MaxModelLength = 255
	minYear        = 1950
)

// Vehicle is read from the catalog and never mutated by reservations.
type Vehicle struct {
	id        uuid.UUID
	model     string
	year      int
	dailyRate pricing.Money
	seats     int
	automatic bool
	active    bool
	createdAt time.Time
	updatedAt time.Time
}

type Spec struct {
	Model     string
	Year      int
	DailyRate pricing.Money
	Seats     int
	Automatic bool
}

func NewVehicle(id uuid.UUID, spec Spec, now time.Time) (*Vehicle, error) {
	if err := validateModel(spec.Model); err != nil {
		return nil, err
	}
	if spec.Year < minYear || spec.Year > now.Year()+1 {
		return nil, ErrInvalidYear
	}
	if spec.DailyRate.IsNegative() {
		return nil, ErrNegativeDailyRate
	}
	if spec.Seats <= 0 {
		return nil, ErrInvalidSeats
	}

	return &Vehicle{
		id:        id,
		model:     strings.TrimSpace(spec.Model),
		year:      spec.Year,
		dailyRate: spec.DailyRate,
		seats:     spec.Seats,
		automatic: spec.Automatic,
		active:    true,
		createdAt: now,
		updatedAt: now,
	}, nil
}

func Reconstruct(
	id uuid.UUID,
	model string,
	year int,
	dailyRate pricing.Money,
	seats int,
	automatic, active bool,
	createdAt, updatedAt time.Time,
) *Vehicle {
	return &Vehicle{
		id:        id,
		model:     model,
		year:      year,
		dailyRate: dailyRate,
		seats:     seats,
		automatic: automatic,
		active:    active,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func validateModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return ErrEmptyModel
	}
	if len(model) > MaxModelLength {
		return ErrModelTooLong
	}
	return nil
}

// IsBookable reports whether new reservations may be made for the vehicle.
func (v *Vehicle) IsBookable() bool {
	return v.active
}

func (v *Vehicle) ID() uuid.UUID            { return v.id }
func (v *Vehicle) Model() string            { return v.model }
func (v *Vehicle) Year() int                { return v.year }
func (v *Vehicle) DailyRate() pricing.Money { return v.dailyRate }
func (v *Vehicle) Seats() int               { return v.seats }
func (v *Vehicle) Automatic() bool          { return v.automatic }
func (v *Vehicle) Active() bool             { return v.active }
func (v *Vehicle) CreatedAt() time.Time     { return v.createdAt }
func (v *Vehicle) UpdatedAt() time.Time     { return v.updatedAt }
