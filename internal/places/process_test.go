package places

import "testing"

func TestProcessFeature_Defaults(t *testing.T) {
	client := NewClient(nil, "", "", Options{})

	f := feature{Properties: map[string]any{
		"distance": -12.0,
	}}

	r := client.processFeature(f)
	if r.Name != "Unknown Restaurant" {
		t.Fatalf("expected fallback name, got %q", r.Name)
	}
	if r.ID == "" {
		t.Fatalf("expected synthesized identity for feature without provider ids")
	}
	if len(r.ID) != 12 {
		t.Fatalf("expected 12-char synthesized id, got %q", r.ID)
	}
	if r.DistanceMeters != 0 {
		t.Fatalf("expected negative distance clamped to 0, got %v", r.DistanceMeters)
	}
	if len(r.CuisineTypes) != 1 || r.CuisineTypes[0] != "general" {
		t.Fatalf("expected general cuisine fallback, got %v", r.CuisineTypes)
	}
}

func TestProcessFeature_RawContactAndPrice(t *testing.T) {
	client := NewClient(nil, "", "", Options{PhoneRegion: "HK"})

	f := feature{Properties: map[string]any{
		"name":     "Harbour Sushi",
		"place_id": "p-1",
		"distance": 320.0,
		"categories": []any{
			"catering.restaurant.japanese",
		},
		"datasource": map[string]any{
			"raw": map[string]any{
				"phone":        "2345 6789",
				"website":      "HarbourSushi.hk/menu",
				"stars":        "4.5",
				"review_count": "120",
				"price_level":  2.0,
			},
		},
	}}

	r := client.processFeature(f)
	if r.Contact.Phone == nil || *r.Contact.Phone != "+85223456789" {
		t.Fatalf("expected E.164 phone, got %v", r.Contact.Phone)
	}
	if r.Contact.Website == nil || *r.Contact.Website != "https://harboursushi.hk/menu" {
		t.Fatalf("expected normalized website, got %v", r.Contact.Website)
	}
	if r.Rating == nil || *r.Rating != 4.5 {
		t.Fatalf("expected rating 4.5, got %v", r.Rating)
	}
	if r.ReviewCount == nil || *r.ReviewCount != 120 {
		t.Fatalf("expected review count 120, got %v", r.ReviewCount)
	}
	if r.PriceLevel == nil || *r.PriceLevel != "$$" {
		t.Fatalf("expected price level $$, got %v", r.PriceLevel)
	}
	if r.DistanceKM != 0.32 {
		t.Fatalf("expected 0.32 km, got %v", r.DistanceKM)
	}
}

func TestNormalizePhone_Invalid(t *testing.T) {
	if got := normalizePhone("not a phone", "HK"); got != "not a phone" {
		t.Fatalf("expected invalid phone passed through, got %q", got)
	}
	if got := normalizePhone("", "HK"); got != "" {
		t.Fatalf("expected empty phone to stay empty, got %q", got)
	}
}

func TestNormalizeWebsite(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Example.COM/path", "https://example.com/path"},
		{"https://Example.com", "https://example.com"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeWebsite(tc.in); got != tc.want {
			t.Fatalf("normalizeWebsite(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}
