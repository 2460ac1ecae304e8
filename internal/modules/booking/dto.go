package booking

import "time"

type ClaimBedRequest struct {
	PropertyID   int64      `json:"property_id" binding:"required"`
	RoomID       int64      `json:"room_id" binding:"required"`
	BedID        int64      `json:"bed_id" binding:"required"`
	CheckInDate  time.Time  `json:"check_in_date" binding:"required"`
	CheckOutDate *time.Time `json:"check_out_date,omitempty"`
	Notes        string     `json:"notes,omitempty"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required"`
}

type PagedBookings struct {
	Content       []BookingResponse `json:"content"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
	TotalElements int64             `json:"total_elements"`
	TotalPages    int               `json:"total_pages"`
	First         bool              `json:"first"`
	Last          bool              `json:"last"`
}

type BookingResponse struct {
	ID               int64      `json:"id"`
	BookingReference string     `json:"booking_reference"`
	UserID           int64      `json:"user_id"`
	PropertyID       int64      `json:"property_id"`
	RoomID           int64      `json:"room_id"`
	BedID            int64      `json:"bed_id"`
	CheckInDate      time.Time  `json:"check_in_date"`
	CheckOutDate     *time.Time `json:"check_out_date,omitempty"`
	MonthlyRent      float64    `json:"monthly_rent"`
	SecurityDeposit  float64    `json:"security_deposit"`
	Status           string     `json:"status"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
