package domain

import "errors"

var (
	ErrEventNotFound    = errors.New("event not found")
	ErrBookingsNotFound = errors.New("bookings not found")
	ErrInvalidAnchor    = errors.New("invalid anchor date")
)
