package entity

// RestaurantLocation carries the geographic position and address fields of a
// restaurant as reported by the places provider.
type RestaurantLocation struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	AddressLine1 string  `json:"address_line1"`
	AddressLine2 string  `json:"address_line2"`
	City         *string `json:"city,omitempty"`
	District     *string `json:"district,omitempty"`
	Postcode     *string `json:"postcode,omitempty"`
	Country      *string `json:"country,omitempty"`
}

// RestaurantContact holds optional contact channels.
type RestaurantContact struct {
	Phone   *string `json:"phone,omitempty"`
	Website *string `json:"website,omitempty"`
	Email   *string `json:"email,omitempty"`
}

// HealthTags summarizes dietary signals detected from the provider's
// category tags and the restaurant name.
type HealthTags struct {
	HasHealthyOptions  bool `json:"has_healthy_options"`
	HasVegetarian      bool `json:"has_vegetarian"`
	HasVegan           bool `json:"has_vegan"`
	HasGlutenFree      bool `json:"has_gluten_free"`
	HasOrganic         bool `json:"has_organic"`
	CuisineHealthScore int  `json:"cuisine_health_score"`
}

// Restaurant is one place returned by a search. It is built fresh from the
// provider payload on every request and never persisted server-side.
type Restaurant struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Location       RestaurantLocation `json:"location"`
	DistanceMeters float64            `json:"distance_meters"`
	DistanceKM     float64            `json:"distance_km"`
	Categories     []string           `json:"categories"`
	CuisineTypes   []string           `json:"cuisine_types"`
	Contact        RestaurantContact  `json:"contact"`
	HealthTags     HealthTags         `json:"health_tags"`
	Rating         *float64           `json:"rating,omitempty"`
	ReviewCount    *int               `json:"review_count,omitempty"`
	PlaceID        *string            `json:"place_id,omitempty"`
	OSMID          *string            `json:"osm_id,omitempty"`
	ImageURL       *string            `json:"image_url,omitempty"`
	PriceLevel     *string            `json:"price_level,omitempty"`
}

// SearchResult is the response contract for a places search.
type SearchResult struct {
	Success            bool               `json:"success"`
	UserLocation       map[string]float64 `json:"user_location"`
	SearchRadiusMeters int                `json:"search_radius_meters"`
	TotalResults       int                `json:"total_results"`
	Restaurants        []Restaurant       `json:"restaurants"`
	GeneratedAt        string             `json:"generated_at"`
	ErrorMessage       string             `json:"error_message,omitempty"`
}
