package entity

import "time"

// EnrichmentImage is a scraped restaurant photo.
type EnrichmentImage struct {
	URL    string `json:"url"`
	Alt    string `json:"alt,omitempty"`
	IsMain bool   `json:"is_main"`
}

// ReviewSummary aggregates the review metrics scraped from a listing.
type ReviewSummary struct {
	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	SmileCount  *int     `json:"smile_count,omitempty"`
	CryCount    *int     `json:"cry_count,omitempty"`
}

// Enrichment is the scraped review/photo augmentation for one restaurant
// name query. When Matched is false only Query, Confidence and ScrapedAt
// carry meaning; enrichment is best-effort and an unmatched record is a
// normal outcome, not an error.
type Enrichment struct {
	Query      string  `json:"query"`
	Matched    bool    `json:"matched"`
	Confidence float64 `json:"confidence"`

	Name       *string `json:"name,omitempty"`
	OpenriceID *string `json:"openrice_id,omitempty"`
	DetailURL  *string `json:"openrice_url,omitempty"`

	Address  *string `json:"address,omitempty"`
	District *string `json:"district,omitempty"`
	Phone    *string `json:"phone,omitempty"`

	CuisineTypes []string `json:"cuisine_types,omitempty"`
	PriceRange   *string  `json:"price_range,omitempty"`

	Reviews     *ReviewSummary    `json:"reviews,omitempty"`
	ReviewTexts []string          `json:"review_texts,omitempty"`
	Images      []EnrichmentImage `json:"images,omitempty"`
	MainImage   *string           `json:"main_image,omitempty"`

	ScrapedAt time.Time `json:"scraped_at"`
}

// Unmatched builds the degraded record returned when scraping found nothing
// or failed outright.
func Unmatched(query string) Enrichment {
	return Enrichment{
		Query:     query,
		Matched:   false,
		ScrapedAt: time.Now().UTC(),
	}
}

// ImageURLs returns the plain URL list the mobile client renders.
func (e Enrichment) ImageURLs() []string {
	if len(e.Images) == 0 {
		return nil
	}
	urls := make([]string, 0, len(e.Images))
	for _, img := range e.Images {
		urls = append(urls, img.URL)
	}
	return urls
}
