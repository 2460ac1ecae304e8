package booking

import (
	"context"

	"stayease/internal/domain"
)

// BookingReader covers the read side of the booking ledger. The mutating
// paths (claim, transition) run inside service-owned transactions instead.
type BookingReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID int64, page, size int) ([]domain.Booking, int64, error)
	ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus, page, size int) ([]domain.Booking, int64, error)
}

type PropertyReader interface {
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
}
