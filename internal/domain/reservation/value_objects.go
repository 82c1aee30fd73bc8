package reservation

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrInvalidLocation = errors.New("location must be 1-200 characters")

const maxLocationLength = 200

type Location struct {
	value string
}

func NewLocation(value string) (Location, error) {
	v := strings.TrimSpace(value)
	if v == "" || utf8.RuneCountInString(v) > maxLocationLength {
		return Location{}, ErrInvalidLocation
	}
	return Location{value: v}, nil
}

func (l Location) String() string {
	return l.value
}

func (l Location) IsEmpty() bool {
	return l.value == ""
}
