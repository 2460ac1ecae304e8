package property

import "errors"

var (
	ErrNotFound              = errors.New("resource not found")
	ErrForbidden             = errors.New("forbidden")
	ErrValidation            = errors.New("validation error")
	ErrDuplicateRoomNumber   = errors.New("room number already exists in this property")
	ErrRoomHasActiveBookings = errors.New("room has beds with active bookings")
)
