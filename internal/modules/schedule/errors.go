package schedule

import "errors"

var (
	ErrInvalidMonth     = errors.New("invalid month")
	ErrInvalidTimeRange = errors.New("invalid time range")
)

// RangeError lists the custom ranges that failed to parse.
type RangeError struct {
	Invalid []string
}

func (e *RangeError) Error() string {
	return ErrInvalidTimeRange.Error()
}

func (e *RangeError) Unwrap() error {
	return ErrInvalidTimeRange
}
