package model

import "time"

// BookingStatus is the lifecycle state of a booking
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// DateLayout is the wire format of booking dates
const DateLayout = "2006-01-02"

// Booking is a rental request on a listing
type Booking struct {
	ID           string        `json:"id" db:"id"`
	ListingID    string        `json:"listingId" db:"listing_id"`
	RenterID     string        `json:"renterId" db:"renter_id"`
	StartDate    time.Time     `json:"startDate" db:"start_date"`
	EndDate      time.Time     `json:"endDate" db:"end_date"` // exclusive
	TotalPrice   float64       `json:"totalPrice" db:"total_price"`
	Status       BookingStatus `json:"status" db:"status"`
	ListingTitle *string       `json:"listingTitle,omitempty" db:"listing_title"`
	OwnerID      *string       `json:"ownerId,omitempty" db:"owner_id"`
	CreatedAt    time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time     `json:"updatedAt" db:"updated_at"`
}

// BookingRequest is the body of POST /api/bookings
type BookingRequest struct {
	ListingID string `json:"listingId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate" binding:"required"`
}

// BookingStatusRequest is the body of PATCH /api/bookings/:id/status
type BookingStatusRequest struct {
	Status BookingStatus `json:"status" binding:"required"`
}

// NewBooking is what the repository needs to open a booking
type NewBooking struct {
	ID        string
	ListingID string
	RenterID  string
	StartDate time.Time
	EndDate   time.Time
	Days      int
}
