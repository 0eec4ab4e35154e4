package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/mealcompass/backend/internal/cuisine"
	"github.com/mealcompass/backend/internal/dto"
	"github.com/mealcompass/backend/internal/entity"
	"github.com/mealcompass/backend/internal/metrics"
)

// HTTPClient abstracts HTTP requests to the places provider for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Options tune search defaults and normalization.
type Options struct {
	DefaultRadius int
	DefaultLimit  int
	MaxLimit      int
	PhoneRegion   string
}

// Client talks to the Geoapify places and geocoding endpoints.
type Client struct {
	httpClient HTTPClient
	baseURL    string
	apiKey     string
	opts       Options
}

// NewClient builds a places client. A nil httpClient falls back to a default
// with a provider-call timeout.
func NewClient(httpClient HTTPClient, baseURL, apiKey string, opts Options) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	if opts.DefaultRadius <= 0 {
		opts.DefaultRadius = 2000
	}
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = 30
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = 50
	}
	if opts.PhoneRegion == "" {
		opts.PhoneRegion = "HK"
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, apiKey: apiKey, opts: opts}
}

type feature struct {
	Properties map[string]any `json:"properties"`
	Geometry   struct {
		Coordinates []float64 `json:"coordinates"`
	} `json:"geometry"`
}

type featureCollection struct {
	Features []feature `json:"features"`
}

// Search finds restaurants near the given coordinates, classified and sorted
// by non-decreasing distance. It never returns an error: validation and
// provider failures surface as an unsuccessful SearchResult.
func (c *Client) Search(ctx context.Context, req dto.SearchRequest) entity.SearchResult {
	result := entity.SearchResult{
		UserLocation:       map[string]float64{"latitude": req.Latitude, "longitude": req.Longitude},
		SearchRadiusMeters: req.Radius,
		GeneratedAt:        time.Now().UTC().Format(time.RFC3339),
	}

	if req.Latitude < -90 || req.Latitude > 90 {
		result.ErrorMessage = fmt.Sprintf("invalid latitude: %v, must be between -90 and 90", req.Latitude)
		return result
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		result.ErrorMessage = fmt.Sprintf("invalid longitude: %v, must be between -180 and 180", req.Longitude)
		return result
	}

	radius := req.Radius
	if radius <= 0 {
		radius = c.opts.DefaultRadius
	}
	limit := req.Limit
	if limit <= 0 {
		limit = c.opts.DefaultLimit
	}
	if limit > c.opts.MaxLimit {
		limit = c.opts.MaxLimit
	}
	result.SearchRadiusMeters = radius

	features, err := c.fetchFeatures(ctx, req.Latitude, req.Longitude, radius, limit, req.CuisineFilter)
	if err != nil {
		result.ErrorMessage = err.Error()
		return result
	}
	if len(features) == 0 {
		result.ErrorMessage = "no restaurants found in the specified area"
		return result
	}

	// Provider reports results roughly nearest-first, but the ordering
	// contract is ours: stable sort keeps tie order from the payload.
	sort.SliceStable(features, func(i, j int) bool {
		return featureDistance(features[i]) < featureDistance(features[j])
	})

	restaurants := make([]entity.Restaurant, 0, len(features))
	for _, f := range features {
		restaurants = append(restaurants, c.processFeature(f))
	}

	result.Success = true
	result.TotalResults = len(restaurants)
	result.Restaurants = restaurants
	return result
}

func (c *Client) fetchFeatures(ctx context.Context, lat, lon float64, radius, limit int, cuisineFilter string) ([]feature, error) {
	q := url.Values{}
	q.Set("categories", cuisine.ProviderCategory(cuisineFilter))
	q.Set("filter", fmt.Sprintf("circle:%v,%v,%d", lon, lat, radius))
	q.Set("bias", fmt.Sprintf("proximity:%v,%v", lon, lat))
	q.Set("limit", fmt.Sprintf("%d", limit))
	q.Set("apiKey", c.apiKey)

	endpoint := c.baseURL + "/v2/places?" + q.Encode()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build provider request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.ProviderRequests.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	defer resp.Body.Close()
	metrics.ProviderRequests.WithLabelValues(fmt.Sprintf("%d", resp.StatusCode)).Inc()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider error: status %d", resp.StatusCode)
	}

	var collection featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("decode provider response: %w", err)
	}
	return collection.Features, nil
}

func featureDistance(f feature) float64 {
	if d, ok := asFloat(f.Properties["distance"]); ok {
		return d
	}
	return float64(1 << 52)
}
