package booking

import (
	"errors"
	"fmt"

	"stayease/internal/domain"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrRelationshipMismatch = errors.New("resource does not belong to the stated parent")
	ErrBedUnavailable       = errors.New("bed is not available")
	ErrBedAlreadyClaimed    = errors.New("bed already has an active booking")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrForbidden            = errors.New("forbidden")
	ErrValidation           = errors.New("validation error")

	// errReferenceCollision is internal: the claim retries with a fresh
	// reference and never surfaces it.
	errReferenceCollision = errors.New("booking reference collision")
)

func invalidTransition(from, to domain.BookingStatus) error {
	return fmt.Errorf("%w: from %s to %s", ErrInvalidTransition, from, to)
}
