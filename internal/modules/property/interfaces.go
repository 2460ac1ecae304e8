package property

import (
	"context"

	"stayease/internal/domain"
)

type PropertyRepository interface {
	Create(ctx context.Context, p *domain.Property) error
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	ListByOwner(ctx context.Context, ownerID int64) ([]domain.Property, error)
	Update(ctx context.Context, p *domain.Property) error
}

type RoomRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Room, error)
	ListByProperty(ctx context.Context, propertyID int64) ([]domain.Room, error)
	ExistsByPropertyAndNumber(ctx context.Context, propertyID int64, roomNumber string) (bool, error)
	CreateWithBeds(ctx context.Context, room *domain.Room) error
	Update(ctx context.Context, room *domain.Room, newCapacity int) error
	SetActive(ctx context.Context, roomID int64, active bool) error
	Delete(ctx context.Context, roomID int64) error
}

type BedRepository interface {
	ListByRoom(ctx context.Context, roomID int64) ([]domain.Bed, error)
}
