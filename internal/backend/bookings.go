package backend

import (
	"context"
	"fmt"

	"wayfare/internal/models"
)

type AccommodationBookingRequest struct {
	AccommodationID int64   `json:"accommodation_id"`
	CheckIn         string  `json:"check_in"`
	CheckOut        string  `json:"check_out"`
	Guests          int     `json:"guests"`
	TotalPrice      float64 `json:"total_price"`
}

type TransportBookingRequest struct {
	TransportID int64   `json:"transport_id"`
	TravelDate  string  `json:"travel_date"`
	Seats       int     `json:"seats"`
	TotalPrice  float64 `json:"total_price"`
}

type BookingUpdateRequest struct {
	Status string `json:"status,omitempty"`
}

func (c *Client) CreateAccommodationBooking(ctx context.Context, req AccommodationBookingRequest) (*models.AccommodationBooking, error) {
	var booking models.AccommodationBooking
	if err := c.post(ctx, "/accommodation_bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) AccommodationBookings(ctx context.Context) ([]models.AccommodationBooking, error) {
	var list []models.AccommodationBooking
	if err := c.get(ctx, "/accommodation_bookings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) AccommodationBooking(ctx context.Context, id int64) (*models.AccommodationBooking, error) {
	var booking models.AccommodationBooking
	if err := c.get(ctx, fmt.Sprintf("/accommodation_bookings/%d", id), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) UpdateAccommodationBooking(ctx context.Context, id int64, req BookingUpdateRequest) (*models.AccommodationBooking, error) {
	var booking models.AccommodationBooking
	if err := c.patch(ctx, fmt.Sprintf("/accommodation_bookings/%d", id), req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

// CancelAccommodationBooking requests cancellation; the backend decides
// the resulting status, the caller re-fetches.
func (c *Client) CancelAccommodationBooking(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/accommodation_bookings/%d", id))
}

func (c *Client) CreateTransportBooking(ctx context.Context, req TransportBookingRequest) (*models.TransportBooking, error) {
	var booking models.TransportBooking
	if err := c.post(ctx, "/transport_bookings", req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) TransportBookings(ctx context.Context) ([]models.TransportBooking, error) {
	var list []models.TransportBooking
	if err := c.get(ctx, "/transport_bookings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) TransportBooking(ctx context.Context, id int64) (*models.TransportBooking, error) {
	var booking models.TransportBooking
	if err := c.get(ctx, fmt.Sprintf("/transport_bookings/%d", id), nil, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) UpdateTransportBooking(ctx context.Context, id int64, req BookingUpdateRequest) (*models.TransportBooking, error) {
	var booking models.TransportBooking
	if err := c.patch(ctx, fmt.Sprintf("/transport_bookings/%d", id), req, &booking); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) CancelTransportBooking(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/transport_bookings/%d", id))
}

// Host-scoped listings.

func (c *Client) HostAccommodationBookings(ctx context.Context, accommodationID int64) ([]models.AccommodationBooking, error) {
	var list []models.AccommodationBooking
	path := fmt.Sprintf("/host/accommodations/%d/bookings", accommodationID)
	if err := c.get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) HostBookings(ctx context.Context) ([]models.AccommodationBooking, error) {
	var list []models.AccommodationBooking
	if err := c.get(ctx, "/host/bookings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// Driver-scoped listings.

func (c *Client) DriverTransportBookings(ctx context.Context, transportID int64) ([]models.TransportBooking, error) {
	var list []models.TransportBooking
	path := fmt.Sprintf("/driver/transports/%d/bookings", transportID)
	if err := c.get(ctx, path, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) DriverBookings(ctx context.Context) ([]models.TransportBooking, error) {
	var list []models.TransportBooking
	if err := c.get(ctx, "/driver/bookings", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}
