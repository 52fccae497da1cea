package trips

import (
	"fmt"
	"time"

	"wayfare/internal/backend"
	"wayfare/internal/models"
)

// StayRequest builds the accommodation booking payload, computing the
// total from the nightly rate: nights × price per night.
func StayRequest(acc models.Accommodation, checkIn, checkOut string, guests int) (backend.AccommodationBookingRequest, error) {
	var req backend.AccommodationBookingRequest

	nights, err := models.Nights(checkIn, checkOut)
	if err != nil {
		return req, err
	}
	if guests < 1 {
		return req, fmt.Errorf("at least one guest is required")
	}
	if acc.Capacity > 0 && guests > acc.Capacity {
		return req, fmt.Errorf("%d guests exceed the capacity of %d", guests, acc.Capacity)
	}

	req = backend.AccommodationBookingRequest{
		AccommodationID: acc.ID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          guests,
		TotalPrice:      float64(nights) * acc.PricePerNight,
	}
	return req, nil
}

// RideRequest builds the transport booking payload; the total is
// seats × price per day.
func RideRequest(tr models.Transport, travelDate string, seats int) (backend.TransportBookingRequest, error) {
	var req backend.TransportBookingRequest

	if _, err := time.Parse(models.DateLayout, travelDate); err != nil {
		return req, fmt.Errorf("invalid travel date %q: %w", travelDate, err)
	}
	if seats < 1 {
		return req, fmt.Errorf("at least one seat is required")
	}
	if tr.Capacity > 0 && seats > tr.Capacity {
		return req, fmt.Errorf("%d seats exceed the capacity of %d", seats, tr.Capacity)
	}

	req = backend.TransportBookingRequest{
		TransportID: tr.ID,
		TravelDate:  travelDate,
		Seats:       seats,
		TotalPrice:  float64(seats) * tr.PricePerDay,
	}
	return req, nil
}
