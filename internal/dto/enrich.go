package dto

// BatchEnrichRequest names the restaurants to enrich in one call.
type BatchEnrichRequest struct {
	Restaurants []string `json:"restaurants"`
	GetDetails  *bool    `json:"get_details,omitempty"`
}
