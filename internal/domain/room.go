package domain

import "time"

type RoomType string

const (
	RoomSingle RoomType = "single"
	RoomDouble RoomType = "double"
	RoomTriple RoomType = "triple"
	RoomShared RoomType = "shared"
)

type Room struct {
	ID          int64    `json:"id" gorm:"primaryKey"`
	PropertyID  int64    `json:"property_id" gorm:"uniqueIndex:idx_property_room_number" validate:"required"`
	RoomNumber  string   `json:"room_number" gorm:"uniqueIndex:idx_property_room_number" validate:"required"`
	RoomType    RoomType `json:"room_type"`
	FloorNumber int      `json:"floor_number"`

	// TotalBeds and AvailableBeds are derived from the beds table by the
	// rollup recalculator.
	TotalBeds     int `json:"total_beds"`
	AvailableBeds int `json:"available_beds"`

	RentPerBed  float64   `json:"rent_per_bed" validate:"required,gte=0"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Room) TableName() string { return "rooms" }
