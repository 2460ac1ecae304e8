package domain

import "time"

type BookingStatus string

const (
	BookingPending    BookingStatus = "pending"
	BookingConfirmed  BookingStatus = "confirmed"
	BookingCheckedIn  BookingStatus = "checked_in"
	BookingCheckedOut BookingStatus = "checked_out"
	BookingCancelled  BookingStatus = "cancelled"
)

// ActiveBookingStatuses are the non-terminal states. At most one booking in
// one of these states may reference a given bed.
var ActiveBookingStatuses = []BookingStatus{
	BookingPending,
	BookingConfirmed,
	BookingCheckedIn,
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCheckedOut || s == BookingCancelled
}

type Booking struct {
	ID               int64         `json:"id" gorm:"primaryKey"`
	BookingReference string        `json:"booking_reference" gorm:"uniqueIndex:idx_booking_reference"`
	UserID           int64         `json:"user_id" gorm:"index" validate:"required"`
	PropertyID       int64         `json:"property_id" gorm:"index" validate:"required"`
	RoomID           int64         `json:"room_id" validate:"required"`
	BedID            int64         `json:"bed_id" gorm:"index" validate:"required"`
	CheckInDate      time.Time     `json:"check_in_date" validate:"required"`
	CheckOutDate     *time.Time    `json:"check_out_date,omitempty"`
	MonthlyRent      float64       `json:"monthly_rent"`
	SecurityDeposit  float64       `json:"security_deposit"`
	Status           BookingStatus `json:"status"`
	Notes            string        `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt        time.Time     `json:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

func (Booking) TableName() string { return "bookings" }
