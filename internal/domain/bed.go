package domain

import "time"

type BedStatus string

const (
	BedAvailable BedStatus = "available"
	BedReserved  BedStatus = "reserved"
	BedOccupied  BedStatus = "occupied"
)

// Bed is the smallest allocatable inventory unit. Its status column is the
// single source of truth for availability; room and property counters are
// recomputed from it.
type Bed struct {
	ID               int64      `json:"id" gorm:"primaryKey"`
	RoomID           int64      `json:"room_id" gorm:"index" validate:"required"`
	BedNumber        string     `json:"bed_number"`
	Status           BedStatus  `json:"status"`
	CurrentTenantID  *int64     `json:"current_tenant_id,omitempty"`
	OccupiedFrom     *time.Time `json:"occupied_from,omitempty"`
	ExpectedCheckout *time.Time `json:"expected_checkout,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func (Bed) TableName() string { return "beds" }
