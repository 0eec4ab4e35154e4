package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

// EnrichPoster talks to the scraping backend's JSON API.
type EnrichPoster interface {
	GetJSON(ctx context.Context, path string, requestID string) (map[string]any, error)
	PostJSON(ctx context.Context, path string, payload any, requestID string) (map[string]any, error)
	DeleteJSON(ctx context.Context, path string, requestID string) (map[string]any, error)
}

// EnrichClient is the HTTP client for the scraping backend.
type EnrichClient struct {
	client  *http.Client
	baseURL string
}

// NewEnrichClient builds a scraper-service client. A nil http.Client
// auto-configures an ID-token client for Cloud Run → Cloud Run calls, falling
// back to a plain client outside that environment.
func NewEnrichClient(client *http.Client, scraperBaseURL string) *EnrichClient {
	if scraperBaseURL == "" {
		panic("scraperBaseURL must not be empty")
	}
	scraperBaseURL = strings.TrimRight(scraperBaseURL, "/")
	if client == nil {
		idc, err := idtoken.NewClient(context.Background(), scraperBaseURL)
		if err != nil {
			client = &http.Client{Timeout: 60 * time.Second}
		} else {
			client = idc
		}
	}
	return &EnrichClient{client: client, baseURL: scraperBaseURL}
}

// GetJSON fetches the path and returns the "data" object from the envelope.
func (c *EnrichClient) GetJSON(ctx context.Context, path string, requestID string) (map[string]any, error) {
	return c.do(ctx, http.MethodGet, path, nil, requestID)
}

// PostJSON posts the payload and returns the "data" object from the envelope.
func (c *EnrichClient) PostJSON(ctx context.Context, path string, payload any, requestID string) (map[string]any, error) {
	return c.do(ctx, http.MethodPost, path, payload, requestID)
}

// DeleteJSON issues a DELETE and returns the "data" object from the envelope.
func (c *EnrichClient) DeleteJSON(ctx context.Context, path string, requestID string) (map[string]any, error) {
	return c.do(ctx, http.MethodDelete, path, nil, requestID)
}

func (c *EnrichClient) do(ctx context.Context, method, path string, payload any, requestID string) (map[string]any, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create scraper request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if requestID != "" {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scraper request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("scraper error: %s", extractScraperError(resp.Body))
	}

	var envelope struct {
		Success bool           `json:"success"`
		Data    map[string]any `json:"data"`
		Error   string         `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode scraper response: %w", err)
	}
	if envelope.Error != "" {
		return nil, fmt.Errorf("scraper error: %s", envelope.Error)
	}
	return envelope.Data, nil
}

func extractScraperError(body io.Reader) string {
	data, err := io.ReadAll(body)
	if err != nil || len(data) == 0 {
		return "scraper returned an error"
	}

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}
	return string(data)
}

var _ EnrichPoster = (*EnrichClient)(nil)
