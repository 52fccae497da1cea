package backend

import (
	"context"
	"fmt"
	"net/url"

	"wayfare/internal/models"
)

type AccommodationRequest struct {
	Title         string  `json:"title"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	Description   string  `json:"description"`
	Available     bool    `json:"available"`
}

func (c *Client) Accommodations(ctx context.Context) ([]models.Accommodation, error) {
	var list []models.Accommodation
	if err := c.get(ctx, "/accommodations", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Accommodation(ctx context.Context, id int64) (*models.Accommodation, error) {
	var acc models.Accommodation
	if err := c.get(ctx, fmt.Sprintf("/accommodations/%d", id), nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) CreateAccommodation(ctx context.Context, req AccommodationRequest) (*models.Accommodation, error) {
	var acc models.Accommodation
	if err := c.post(ctx, "/accommodations", req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

// UpdateAccommodation replaces the listing. The backend takes PUT here
// but PATCH for transports; both kept as the server defines them.
func (c *Client) UpdateAccommodation(ctx context.Context, id int64, req AccommodationRequest) (*models.Accommodation, error) {
	var acc models.Accommodation
	if err := c.put(ctx, fmt.Sprintf("/accommodations/%d", id), req, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (c *Client) DeleteAccommodation(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/accommodations/%d", id))
}

// SearchAccommodations filters by location and a date range expressed
// the way the backend expects it ("2024-06-01,2024-06-03").
func (c *Client) SearchAccommodations(ctx context.Context, location, dates string) ([]models.Accommodation, error) {
	query := url.Values{}
	if location != "" {
		query.Set("location", location)
	}
	if dates != "" {
		query.Set("dates", dates)
	}

	var list []models.Accommodation
	if err := c.get(ctx, "/accommodations/search", query, &list); err != nil {
		return nil, err
	}
	return list, nil
}
