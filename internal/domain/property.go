package domain

import "time"

type PropertyType string

const (
	PropertyPG        PropertyType = "pg"
	PropertyHostel    PropertyType = "hostel"
	PropertyApartment PropertyType = "apartment"
)

type GenderPreference string

const (
	GenderAny    GenderPreference = "any"
	GenderMale   GenderPreference = "male"
	GenderFemale GenderPreference = "female"
)

type Property struct {
	ID               int64            `json:"id" gorm:"primaryKey"`
	OwnerID          int64            `json:"owner_id" gorm:"index" validate:"required"`
	Name             string           `json:"name" validate:"required"`
	Description      string           `json:"description,omitempty" gorm:"type:text"`
	PropertyType     PropertyType     `json:"property_type"`
	GenderPreference GenderPreference `json:"gender_preference"`
	AddressLine1     string           `json:"address_line1"`
	AddressLine2     string           `json:"address_line2,omitempty"`
	City             string           `json:"city"`
	State            string           `json:"state"`
	Pincode          string           `json:"pincode"`
	SecurityDeposit  float64          `json:"security_deposit"`
	NoticePeriodDays int              `json:"notice_period_days"`

	// Derived counters. Written only by the rollup recalculator,
	// never authoritative on their own.
	TotalRooms    int `json:"total_rooms"`
	TotalBeds     int `json:"total_beds"`
	AvailableBeds int `json:"available_beds"`

	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Property) TableName() string { return "properties" }
