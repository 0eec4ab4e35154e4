package places

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/mealcompass/backend/internal/cuisine"
	"github.com/mealcompass/backend/internal/entity"
)

const unknownName = "Unknown Restaurant"

func (c *Client) processFeature(f feature) entity.Restaurant {
	props := f.Properties
	raw := rawSource(props)

	name := asStringOr(props["name"], unknownName)
	categories := asStringSlice(props["categories"])
	cuisines := cuisine.Detect(categories, name)

	placeID := asString(props["place_id"])
	osmID := asString(props["osm_id"])
	id := placeID
	if id == "" {
		id = osmID
	}
	if id == "" {
		sum := md5.Sum([]byte(fmt.Sprintf("%s_%v_%v", name, props["lat"], props["lon"])))
		id = hex.EncodeToString(sum[:])[:12]
	}

	distance, _ := asFloat(props["distance"])
	if distance < 0 {
		distance = 0
	}

	var lat, lon float64
	if len(f.Geometry.Coordinates) >= 2 {
		lon = f.Geometry.Coordinates[0]
		lat = f.Geometry.Coordinates[1]
	}

	rating, reviewCount := extractRating(raw)

	return entity.Restaurant{
		ID:   id,
		Name: name,
		Location: entity.RestaurantLocation{
			Latitude:     lat,
			Longitude:    lon,
			AddressLine1: asStringOr(props["address_line1"], "Unknown"),
			AddressLine2: asString(props["address_line2"]),
			City:         optString(props["city"]),
			District:     optString(props["district"]),
			Postcode:     optString(props["postcode"]),
			Country:      optString(props["country"]),
		},
		DistanceMeters: distance,
		DistanceKM:     math.Round(distance/10) / 100,
		Categories:     categories,
		CuisineTypes:   cuisines,
		Contact:        c.extractContact(props, raw),
		HealthTags:     cuisine.DetectHealthTags(categories, name),
		Rating:         rating,
		ReviewCount:    reviewCount,
		PlaceID:        optString(props["place_id"]),
		OSMID:          optString(props["osm_id"]),
		ImageURL:       optString(raw["image"]),
		PriceLevel:     extractPriceLevel(raw),
	}
}

func (c *Client) extractContact(props, raw map[string]any) entity.RestaurantContact {
	contact, _ := props["contact"].(map[string]any)

	phone := asString(raw["phone"])
	if phone == "" {
		phone = asString(contact["phone"])
	}
	website := asString(raw["website"])
	if website == "" {
		website = asString(props["website"])
	}
	email := asString(raw["email"])
	if email == "" {
		email = asString(contact["email"])
	}

	return entity.RestaurantContact{
		Phone:   optFromString(normalizePhone(phone, c.opts.PhoneRegion)),
		Website: optFromString(normalizeWebsite(website)),
		Email:   optFromString(strings.ToLower(strings.TrimSpace(email))),
	}
}

// normalizePhone formats numbers to E.164 when they parse for the configured
// region; values the library rejects are passed through untouched since the
// provider data is display-oriented anyway.
func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil || !phonenumbers.IsValidNumber(number) {
		return raw
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// normalizeWebsite lower-cases and punycode-normalizes the host while leaving
// the rest of the URL alone.
func normalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	withScheme := raw
	if !strings.Contains(withScheme, "://") {
		withScheme = "https://" + withScheme
	}
	u, err := url.Parse(withScheme)
	if err != nil || u.Host == "" {
		return raw
	}
	host, err := idna.Lookup.ToASCII(strings.ToLower(u.Hostname()))
	if err != nil {
		return raw
	}
	if port := u.Port(); port != "" {
		u.Host = host + ":" + port
	} else {
		u.Host = host
	}
	return u.String()
}

func extractRating(raw map[string]any) (*float64, *int) {
	var rating *float64
	for _, key := range []string{"stars", "rating"} {
		if v, ok := asFloat(raw[key]); ok {
			rating = &v
			break
		}
	}

	var reviewCount *int
	if v, ok := asFloat(raw["review_count"]); ok {
		n := int(v)
		reviewCount = &n
	}
	return rating, reviewCount
}

func extractPriceLevel(raw map[string]any) *string {
	for _, key := range []string{"price_level", "price"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		if n, ok := asFloat(v); ok && n > 0 {
			s := strings.Repeat("$", int(n))
			return &s
		}
		if s := asString(v); s != "" {
			return &s
		}
	}
	return nil
}

func rawSource(props map[string]any) map[string]any {
	ds, _ := props["datasource"].(map[string]any)
	raw, _ := ds["raw"].(map[string]any)
	if raw == nil {
		return map[string]any{}
	}
	return raw
}

func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func asStringOr(v any, fallback string) string {
	if s := asString(v); s != "" {
		return s
	}
	return fallback
}

func asStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func optString(v any) *string {
	if s := asString(v); s != "" {
		return &s
	}
	return nil
}

func optFromString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
