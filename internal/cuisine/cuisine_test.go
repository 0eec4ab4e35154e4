package cuisine

import "testing"

func TestClassify_TableCases(t *testing.T) {
	cases := []struct {
		name       string
		categories []string
		restaurant string
		want       []string
		wantScore  int
	}{
		{
			name:       "chinese keywords",
			categories: []string{"catering.restaurant.chinese"},
			restaurant: "Golden Dragon Dim Sum",
			want:       []string{Chinese},
			wantScore:  60,
		},
		{
			name:       "multiple cuisines from one name",
			categories: []string{},
			restaurant: "Korean BBQ Grill House",
			// bbq matches korean, bbq/grill match american, grill matches steakhouse
			want:      []string{Korean, American, Steakhouse},
			wantScore: 65,
		},
		{
			name:       "no match falls back to general",
			categories: []string{"catering.restaurant"},
			restaurant: "Mystery Kitchen",
			want:       []string{General},
			wantScore:  50,
		},
		{
			name:       "healthy signal in categories boosts score",
			categories: []string{"catering.restaurant.vegan", "organic"},
			restaurant: "Green Bowl",
			want:       []string{Vegan, Healthy, Organic},
			wantScore:  85,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, score := Classify(tc.categories, tc.restaurant)
			if len(got) != len(tc.want) {
				t.Fatalf("expected cuisines %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected cuisines %v, got %v", tc.want, got)
				}
			}
			if score != tc.wantScore {
				t.Fatalf("expected score %d, got %d", tc.wantScore, score)
			}
		})
	}
}

func TestClassify_Invariants(t *testing.T) {
	inputs := []struct {
		categories []string
		name       string
	}{
		{nil, ""},
		{[]string{}, "x"},
		{[]string{"catering.fast_food", "vegan"}, "Quick Bites"},
		{[]string{"commercial.supermarket"}, "Some Shop"},
	}

	for _, in := range inputs {
		cuisines, score := Classify(in.categories, in.name)
		if len(cuisines) == 0 {
			t.Fatalf("Classify(%v, %q) returned empty cuisine set", in.categories, in.name)
		}
		if score < 0 || score > 100 {
			t.Fatalf("Classify(%v, %q) score %d out of range", in.categories, in.name, score)
		}
	}
}

func TestHealthScore_SignalOnlyInCategories(t *testing.T) {
	// The healthy-signal bonus reads category tags, not the name.
	score := HealthScore([]string{General}, []string{"restaurant"})
	if score != 50 {
		t.Fatalf("expected default 50, got %d", score)
	}

	score = HealthScore([]string{General}, []string{"restaurant", "vegetarian options"})
	if score != 80 {
		t.Fatalf("expected healthy signal score 80, got %d", score)
	}
}

func TestProviderCategory(t *testing.T) {
	cases := []struct {
		filter string
		want   string
	}{
		{"chinese", "catering.restaurant.chinese"},
		{"  Japanese ", "catering.restaurant.japanese"},
		{"steakhouse", "catering.restaurant.steak_house"},
		{"fast_food", "catering.fast_food"},
		{"all", "catering.restaurant"},
		{"klingon", "catering.restaurant"},
		{"", "catering.restaurant"},
	}

	for _, tc := range cases {
		if got := ProviderCategory(tc.filter); got != tc.want {
			t.Fatalf("ProviderCategory(%q)=%q, want %q", tc.filter, got, tc.want)
		}
	}
}

func TestDetectHealthTags(t *testing.T) {
	tags := DetectHealthTags([]string{"catering.restaurant.vegan"}, "Plant-Based Garden Salad Bar")
	if !tags.HasVegan || !tags.HasHealthyOptions {
		t.Fatalf("expected vegan and healthy flags, got %+v", tags)
	}
	if tags.HasGlutenFree {
		t.Fatalf("did not expect gluten-free flag, got %+v", tags)
	}
	if tags.CuisineHealthScore != 85 {
		t.Fatalf("expected score 85, got %d", tags.CuisineHealthScore)
	}
}
