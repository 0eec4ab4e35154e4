package dto

// SearchRequest is the payload for a nearby-restaurant search.
type SearchRequest struct {
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	Radius        int     `json:"radius,omitempty"`
	Limit         int     `json:"limit,omitempty"`
	CuisineFilter string  `json:"cuisine_filter,omitempty"`
}
