package booking

import "errors"

var (
	ErrInvalidTimeRange        = errors.New("invalid time range")
	ErrInvalidBooker           = errors.New("name and email are required")
	ErrNotFound                = errors.New("booking not found")
	ErrForbidden               = errors.New("not allowed to change this booking")
	ErrInvalidStatusTransition = errors.New("booking is not active")
	ErrLockTimeout             = errors.New("slot is busy, try again")
)
