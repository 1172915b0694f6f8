package repository

import "errors"

var (
	ErrInvalidEventData   = errors.New("invalid event data")
	ErrInvalidBookingData = errors.New("invalid booking data")
)
