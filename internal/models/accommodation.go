package models

type Accommodation struct {
	ID            int64   `json:"id"`
	Title         string  `json:"title"`
	Location      string  `json:"location"`
	PricePerNight float64 `json:"price_per_night"`
	Capacity      int     `json:"capacity"`
	Description   string  `json:"description"`
	Available     bool    `json:"available"`
	HostID        int64   `json:"host_id"`
}
