package repository

import (
	"context"

	"stayease/internal/domain"

	"gorm.io/gorm"
)

type BedRepository struct {
	db *gorm.DB
}

func NewBedRepository(db *gorm.DB) *BedRepository {
	return &BedRepository{db: db}
}

func (r *BedRepository) GetByID(ctx context.Context, id int64) (*domain.Bed, error) {
	var b domain.Bed
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BedRepository) ListByRoom(ctx context.Context, roomID int64) ([]domain.Bed, error) {
	var beds []domain.Bed
	err := r.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("id").
		Find(&beds).Error
	if err != nil {
		return nil, err
	}
	return beds, nil
}
