package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mealcompass/backend/internal/dto"
	"github.com/mealcompass/backend/internal/places"
)

// SearchHandler serves restaurant discovery against the places provider.
type SearchHandler struct {
	places *places.Client
}

func NewSearchHandler(p *places.Client) *SearchHandler {
	return &SearchHandler{places: p}
}

// Search handles POST /restaurants/search.
func (h *SearchHandler) Search(c echo.Context) error {
	var req dto.SearchRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}
	req.CuisineFilter = strings.TrimSpace(req.CuisineFilter)

	// SearchResult is its own envelope: success, echoed location, results
	// and error_message all live at the top level.
	result := h.places.Search(c.Request().Context(), req)
	if !result.Success {
		return c.JSON(searchErrorStatus(result.ErrorMessage), result)
	}
	return c.JSON(http.StatusOK, result)
}

// ReverseGeocode handles GET /geocode/reverse?lat=&lon=.
func (h *SearchHandler) ReverseGeocode(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "lat must be a number")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return Error(c, http.StatusBadRequest, "lon must be a number")
	}

	addr, err := h.places.ReverseGeocode(c.Request().Context(), lat, lon)
	if err != nil {
		if strings.HasPrefix(err.Error(), "invalid") {
			return Error(c, http.StatusBadRequest, err.Error())
		}
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, map[string]any{
		"address": addr.Formatted,
		"details": map[string]string{
			"city":     addr.City,
			"district": addr.District,
			"country":  addr.Country,
		},
	})
}

// searchErrorStatus maps the adapter's in-band failures onto HTTP statuses.
func searchErrorStatus(msg string) int {
	switch {
	case strings.HasPrefix(msg, "invalid"):
		return http.StatusBadRequest
	case strings.HasPrefix(msg, "no restaurants found"):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}
