package property

import "stayease/internal/domain"

type CreatePropertyRequest struct {
	Name             string  `json:"name" binding:"required"`
	Description      string  `json:"description,omitempty"`
	PropertyType     string  `json:"property_type" binding:"required"`
	GenderPreference string  `json:"gender_preference,omitempty"`
	AddressLine1     string  `json:"address_line1" binding:"required"`
	AddressLine2     string  `json:"address_line2,omitempty"`
	City             string  `json:"city" binding:"required"`
	State            string  `json:"state" binding:"required"`
	Pincode          string  `json:"pincode" binding:"required"`
	SecurityDeposit  float64 `json:"security_deposit"`
	NoticePeriodDays int     `json:"notice_period_days"`
}

type RoomRequest struct {
	RoomNumber  string  `json:"room_number" binding:"required"`
	RoomType    string  `json:"room_type" binding:"required"`
	FloorNumber int     `json:"floor_number"`
	TotalBeds   int     `json:"total_beds" binding:"required,gt=0"`
	RentPerBed  float64 `json:"rent_per_bed" binding:"required,gt=0"`
	Description string  `json:"description,omitempty"`
}

type RoomWithBeds struct {
	Room domain.Room  `json:"room"`
	Beds []domain.Bed `json:"beds"`
}
