package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
)

// Address is the reverse-geocode result for a coordinate pair.
type Address struct {
	Formatted string `json:"address"`
	City      string `json:"city,omitempty"`
	District  string `json:"district,omitempty"`
	Country   string `json:"country,omitempty"`
}

// ReverseGeocode resolves coordinates to a formatted address. A coordinate
// with no feature coverage yields an error rather than an empty address.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lon float64) (Address, error) {
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return Address{}, fmt.Errorf("invalid coordinates: (%v, %v)", lat, lon)
	}

	q := url.Values{}
	q.Set("lat", fmt.Sprintf("%v", lat))
	q.Set("lon", fmt.Sprintf("%v", lon))
	q.Set("apiKey", c.apiKey)

	endpoint := c.baseURL + "/v1/geocode/reverse?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Address{}, fmt.Errorf("build geocode request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Address{}, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Address{}, fmt.Errorf("provider error: status %d", resp.StatusCode)
	}

	var collection featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return Address{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(collection.Features) == 0 {
		return Address{}, fmt.Errorf("no address found for (%v, %v)", lat, lon)
	}

	props := collection.Features[0].Properties
	return Address{
		Formatted: asStringOr(props["formatted"], "Unknown location"),
		City:      asString(props["city"]),
		District:  asString(props["district"]),
		Country:   asString(props["country"]),
	}, nil
}
