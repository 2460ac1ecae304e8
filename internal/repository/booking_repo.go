package repository

import (
	"context"

	"stayease/internal/domain"

	"gorm.io/gorm"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).Where("booking_reference = ?", reference).First(&b).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByUser returns the requester's bookings, newest first. page is
// zero-based.
func (r *BookingRepository) ListByUser(ctx context.Context, userID int64, page, size int) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []domain.Booking
	err := q.Order("created_at desc").
		Offset(page * size).
		Limit(size).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

// ListByOwner returns bookings against any property owned by ownerID,
// optionally filtered by status, newest first.
func (r *BookingRepository) ListByOwner(ctx context.Context, ownerID int64, status *domain.BookingStatus, page, size int) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("properties.owner_id = ?", ownerID)
	if status != nil {
		q = q.Where("bookings.status = ?", string(*status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []domain.Booking
	err := q.Order("bookings.created_at desc").
		Offset(page * size).
		Limit(size).
		Find(&bookings).Error
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *BookingRepository) HasActiveForBed(ctx context.Context, bedID int64) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).
		Where("bed_id = ? AND status IN ?", bedID, activeStatusStrings()).
		Count(&cnt).Error
	return cnt > 0, err
}
