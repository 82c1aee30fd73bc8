package reservation

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidInterval = errors.New("interval start must be before end")

// Interval is a half-open range [start, end).
type Interval struct {
	start time.Time
	end   time.Time
}

func NewInterval(start, end time.Time) (Interval, error) {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return Interval{}, ErrInvalidInterval
	}
	return Interval{start: start, end: end}, nil
}

func (i Interval) Start() time.Time { return i.start }

func (i Interval) End() time.Time { return i.end }

func (i Interval) Duration() time.Duration {
	return i.end.Sub(i.start)
}

// Overlaps reports whether the two ranges share any instant.
// Touching ranges ([a,b) and [b,c)) do not overlap.
func (i Interval) Overlaps(other Interval) bool {
	return i.start.Before(other.end) && other.start.Before(i.end)
}

func (i Interval) ToTstzrange() string {
	return fmt.Sprintf("[%s,%s)", i.start.Format(time.RFC3339), i.end.Format(time.RFC3339))
}

func (i Interval) String() string {
	return i.ToTstzrange()
}
