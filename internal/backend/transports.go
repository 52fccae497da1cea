package backend

import (
	"context"
	"fmt"
	"net/url"

	"wayfare/internal/models"
)

type TransportRequest struct {
	VehicleType string  `json:"vehicle_type"`
	From        string  `json:"from_location"`
	To          string  `json:"to_location"`
	PricePerDay float64 `json:"price_per_day"`
	Capacity    int     `json:"capacity"`
	Available   bool    `json:"available"`
}

func (c *Client) Transports(ctx context.Context) ([]models.Transport, error) {
	var list []models.Transport
	if err := c.get(ctx, "/transports", nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) Transport(ctx context.Context, id int64) (*models.Transport, error) {
	var tr models.Transport
	if err := c.get(ctx, fmt.Sprintf("/transports/%d", id), nil, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *Client) CreateTransport(ctx context.Context, req TransportRequest) (*models.Transport, error) {
	var tr models.Transport
	if err := c.post(ctx, "/transports", req, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *Client) UpdateTransport(ctx context.Context, id int64, req TransportRequest) (*models.Transport, error) {
	var tr models.Transport
	if err := c.patch(ctx, fmt.Sprintf("/transports/%d", id), req, &tr); err != nil {
		return nil, err
	}
	return &tr, nil
}

func (c *Client) DeleteTransport(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/transports/%d", id))
}

func (c *Client) SearchTransports(ctx context.Context, from, to, date string) ([]models.Transport, error) {
	query := url.Values{}
	if from != "" {
		query.Set("from", from)
	}
	if to != "" {
		query.Set("to", to)
	}
	if date != "" {
		query.Set("date", date)
	}

	var list []models.Transport
	if err := c.get(ctx, "/transports/search", query, &list); err != nil {
		return nil, err
	}
	return list, nil
}
