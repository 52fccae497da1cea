package models

type Transport struct {
	ID          int64   `json:"id"`
	VehicleType string  `json:"vehicle_type"`
	From        string  `json:"from_location"`
	To          string  `json:"to_location"`
	PricePerDay float64 `json:"price_per_day"`
	Capacity    int     `json:"capacity"`
	Available   bool    `json:"available"`
	DriverID    int64   `json:"driver_id"`
}
