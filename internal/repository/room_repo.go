package repository

import (
	"context"
	"errors"
	"fmt"

	"stayease/internal/domain"

	"gorm.io/gorm"
)

// ErrRoomHasActiveBookings blocks room deletion while any of its beds is
// referenced by a booking in a non-terminal state.
var ErrRoomHasActiveBookings = errors.New("room has beds with active bookings")

type RoomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) *RoomRepository {
	return &RoomRepository{db: db}
}

func (r *RoomRepository) GetByID(ctx context.Context, id int64) (*domain.Room, error) {
	var room domain.Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *RoomRepository) ListByProperty(ctx context.Context, propertyID int64) ([]domain.Room, error) {
	var rooms []domain.Room
	err := r.db.WithContext(ctx).
		Where("property_id = ?", propertyID).
		Order("room_number").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *RoomRepository) ExistsByPropertyAndNumber(ctx context.Context, propertyID int64, roomNumber string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Room{}).
		Where("property_id = ? AND room_number = ?", propertyID, roomNumber).
		Count(&cnt).Error
	return cnt > 0, err
}

// CreateWithBeds persists the room, materializes one bed per capacity unit
// (B1..Bn, all available) and recomputes the rollup counters, all in one
// transaction. room.TotalBeds is the requested capacity.
func (r *RoomRepository) CreateWithBeds(ctx context.Context, room *domain.Room) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		capacity := room.TotalBeds
		if err := tx.Create(room).Error; err != nil {
			return err
		}

		beds := make([]domain.Bed, 0, capacity)
		for i := 1; i <= capacity; i++ {
			beds = append(beds, domain.Bed{
				RoomID:    room.ID,
				BedNumber: fmt.Sprintf("B%d", i),
				Status:    domain.BedAvailable,
			})
		}
		if len(beds) > 0 {
			if err := tx.Create(&beds).Error; err != nil {
				return err
			}
		}

		if err := RecomputeRoom(tx, room.ID); err != nil {
			return err
		}
		if err := RecomputeProperty(tx, room.PropertyID); err != nil {
			return err
		}
		return tx.First(room, room.ID).Error
	})
}

// Update saves the room's descriptive fields and, when newCapacity exceeds
// the current bed count, adds the missing beds. Capacity never shrinks:
// retiring beds would need a policy for choosing which one to evict, so a
// smaller value is ignored.
func (r *RoomRepository) Update(ctx context.Context, room *domain.Room, newCapacity int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(room).Error; err != nil {
			return err
		}

		var current int64
		if err := tx.Model(&domain.Bed{}).Where("room_id = ?", room.ID).Count(&current).Error; err != nil {
			return err
		}

		if int64(newCapacity) > current {
			beds := make([]domain.Bed, 0, int64(newCapacity)-current)
			for i := current + 1; i <= int64(newCapacity); i++ {
				beds = append(beds, domain.Bed{
					RoomID:    room.ID,
					BedNumber: fmt.Sprintf("B%d", i),
					Status:    domain.BedAvailable,
				})
			}
			if err := tx.Create(&beds).Error; err != nil {
				return err
			}
		}

		if err := RecomputeRoom(tx, room.ID); err != nil {
			return err
		}
		if err := RecomputeProperty(tx, room.PropertyID); err != nil {
			return err
		}
		return tx.First(room, room.ID).Error
	})
}

func (r *RoomRepository) SetActive(ctx context.Context, roomID int64, active bool) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return err
		}
		if err := tx.Model(&domain.Room{}).Where("id = ?", roomID).Update("is_active", active).Error; err != nil {
			return err
		}
		return RecomputeProperty(tx, room.PropertyID)
	})
}

// Delete removes the room and its beds. The active-booking check runs inside
// the same transaction as the delete so a claim committing in between cannot
// orphan a booking.
func (r *RoomRepository) Delete(ctx context.Context, roomID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var room domain.Room
		if err := tx.First(&room, roomID).Error; err != nil {
			return err
		}

		var active int64
		err := tx.Model(&domain.Booking{}).
			Joins("JOIN beds ON beds.id = bookings.bed_id").
			Where("beds.room_id = ? AND bookings.status IN ?", roomID, activeStatusStrings()).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return ErrRoomHasActiveBookings
		}

		if err := tx.Where("room_id = ?", roomID).Delete(&domain.Bed{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&domain.Room{}, roomID).Error; err != nil {
			return err
		}
		return RecomputeProperty(tx, room.PropertyID)
	})
}

func activeStatusStrings() []string {
	out := make([]string, 0, len(domain.ActiveBookingStatuses))
	for _, s := range domain.ActiveBookingStatuses {
		out = append(out, string(s))
	}
	return out
}
