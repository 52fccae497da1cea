package models

import (
	"fmt"
	"time"
)

type AccommodationBooking struct {
	ID              int64   `json:"id"`
	AccommodationID int64   `json:"accommodation_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Guests          int     `json:"guests"`
	TotalPrice      float64 `json:"total_price"`
	Status          string  `json:"status"` // pending, confirmed, cancelled, completed
	CreatedAt       string  `json:"created_at,omitempty"`
}

type TransportBooking struct {
	ID          int64   `json:"id"`
	TransportID int64   `json:"transport_id"`
	TravelDate  string  `json:"travel_date"`
	Seats       int     `json:"seats"`
	TotalPrice  float64 `json:"total_price"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at,omitempty"`
}

// Booking is the unified view used by the aggregate list, the history
// mirror and the exports. Kind tells the two variants apart.
type Booking struct {
	Kind       string  `json:"kind"`
	ID         int64   `json:"id"`
	SubjectID  int64   `json:"subject_id"`
	StartDate  string  `json:"start_date"`
	EndDate    string  `json:"end_date,omitempty"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"total_price"`
	Status     string  `json:"status"`
}

func (b AccommodationBooking) AsBooking() Booking {
	return Booking{
		Kind:       KindAccommodation,
		ID:         b.ID,
		SubjectID:  b.AccommodationID,
		StartDate:  b.CheckIn,
		EndDate:    b.CheckOut,
		Quantity:   b.Guests,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
	}
}

func (b TransportBooking) AsBooking() Booking {
	return Booking{
		Kind:       KindTransport,
		ID:         b.ID,
		SubjectID:  b.TransportID,
		StartDate:  b.TravelDate,
		Quantity:   b.Seats,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
	}
}

// Nights returns the number of nights between two wire-format dates.
func Nights(checkIn, checkOut string) (int, error) {
	in, err := time.Parse(DateLayout, checkIn)
	if err != nil {
		return 0, fmt.Errorf("invalid check-in date %q: %w", checkIn, err)
	}
	out, err := time.Parse(DateLayout, checkOut)
	if err != nil {
		return 0, fmt.Errorf("invalid check-out date %q: %w", checkOut, err)
	}
	nights := int(out.Sub(in).Hours() / 24)
	if nights <= 0 {
		return 0, fmt.Errorf("check-out %s must be after check-in %s", checkOut, checkIn)
	}
	return nights, nil
}
