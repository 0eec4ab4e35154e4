package cuisine

import "strings"

// Cuisine labels recognised by the classifier.
const (
	All           = "all"
	Chinese       = "chinese"
	Japanese      = "japanese"
	Korean        = "korean"
	Thai          = "thai"
	Vietnamese    = "vietnamese"
	Indian        = "indian"
	Italian       = "italian"
	French        = "french"
	American      = "american"
	Mexican       = "mexican"
	Mediterranean = "mediterranean"
	Vegetarian    = "vegetarian"
	Vegan         = "vegan"
	Seafood       = "seafood"
	Steakhouse    = "steakhouse"
	FastFood      = "fast_food"
	Healthy       = "healthy"
	Organic       = "organic"
	General       = "general"
)

const (
	defaultHealthScore = 50
	healthySignalScore = 80
	baseProviderToken  = "catering.restaurant"
)

type keywordEntry struct {
	cuisine  string
	keywords []string
}

// cuisineKeywords is deliberately many-to-many: a restaurant may match
// several cuisines. Slice order fixes the order of the detected label set.
var cuisineKeywords = []keywordEntry{
	{Chinese, []string{"chinese", "cantonese", "sichuan", "dim sum", "noodle", "dumpling", "wok"}},
	{Japanese, []string{"japanese", "sushi", "ramen", "izakaya", "tempura", "udon", "yakitori"}},
	{Korean, []string{"korean", "bbq", "kimchi", "bibimbap", "korean_bbq"}},
	{Thai, []string{"thai", "pad thai", "curry", "tom yum"}},
	{Vietnamese, []string{"vietnamese", "pho", "banh mi", "spring roll"}},
	{Indian, []string{"indian", "curry", "tandoori", "masala", "biryani", "naan"}},
	{Italian, []string{"italian", "pizza", "pasta", "risotto", "trattoria"}},
	{French, []string{"french", "bistro", "brasserie", "patisserie"}},
	{American, []string{"american", "burger", "bbq", "grill", "diner"}},
	{Mexican, []string{"mexican", "taco", "burrito", "tex-mex", "quesadilla"}},
	{Mediterranean, []string{"mediterranean", "greek", "turkish", "lebanese", "falafel", "hummus"}},
	{Vegetarian, []string{"vegetarian", "veggie"}},
	{Vegan, []string{"vegan", "plant-based", "plant based"}},
	{Seafood, []string{"seafood", "fish", "oyster", "lobster", "crab"}},
	{Steakhouse, []string{"steakhouse", "steak", "grill", "chophouse"}},
	{FastFood, []string{"fast food", "quick service", "takeaway", "take-away"}},
	{Healthy, []string{"healthy", "salad", "bowl", "organic", "fresh", "light"}},
	{Organic, []string{"organic", "bio", "natural", "farm-to-table"}},
}

// cuisineHealthScores maps each cuisine to a 0-100 health score.
var cuisineHealthScores = map[string]int{
	Vegan:         85,
	Vegetarian:    80,
	Healthy:       85,
	Organic:       80,
	Japanese:      75,
	Mediterranean: 75,
	Vietnamese:    70,
	Thai:          65,
	Korean:        65,
	Indian:        60,
	Chinese:       60,
	Seafood:       70,
	Italian:       55,
	French:        55,
	Mexican:       50,
	American:      45,
	Steakhouse:    45,
	FastFood:      25,
}

var healthySignals = []string{"healthy", "organic", "vegan", "vegetarian"}

// providerCategories maps a cuisine filter to the places provider's category
// token. Unknown filters fall back to the unfiltered restaurant token.
var providerCategories = map[string]string{
	Italian:    "catering.restaurant.italian",
	Japanese:   "catering.restaurant.japanese",
	Chinese:    "catering.restaurant.chinese",
	Indian:     "catering.restaurant.indian",
	Thai:       "catering.restaurant.thai",
	Mexican:    "catering.restaurant.mexican",
	French:     "catering.restaurant.french",
	American:   "catering.restaurant.american",
	Seafood:    "catering.restaurant.seafood",
	Steakhouse: "catering.restaurant.steak_house",
	Vegetarian: "catering.restaurant.vegetarian",
	Vegan:      "catering.restaurant.vegan",
	FastFood:   "catering.fast_food",
}

// Classify detects cuisine labels from category tags and the restaurant name
// and derives a health score. The label set is never empty and the score is
// always within [0,100].
func Classify(categories []string, name string) ([]string, int) {
	detected := Detect(categories, name)
	return detected, HealthScore(detected, categories)
}

// Detect returns the cuisine labels whose keywords appear in the combined
// category/name text, falling back to "general".
func Detect(categories []string, name string) []string {
	text := searchText(categories, name)

	var detected []string
	for _, entry := range cuisineKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(text, kw) {
				detected = append(detected, entry.cuisine)
				break
			}
		}
	}

	if len(detected) == 0 {
		return []string{General}
	}
	return detected
}

// HealthScore picks the maximum score across all matched cuisines, with a
// bonus candidate when the category tags carry an explicit healthy signal.
func HealthScore(cuisines []string, categories []string) int {
	var scores []int
	for _, c := range cuisines {
		if s, ok := cuisineHealthScores[c]; ok {
			scores = append(scores, s)
		}
	}

	categoryText := strings.ToLower(strings.Join(categories, " "))
	for _, signal := range healthySignals {
		if strings.Contains(categoryText, signal) {
			scores = append(scores, healthySignalScore)
			break
		}
	}

	if len(scores) == 0 {
		return defaultHealthScore
	}
	best := scores[0]
	for _, s := range scores[1:] {
		if s > best {
			best = s
		}
	}
	return best
}

// ProviderCategory resolves a cuisine filter to the provider category token.
func ProviderCategory(filter string) string {
	if token, ok := providerCategories[strings.ToLower(strings.TrimSpace(filter))]; ok {
		return token
	}
	return baseProviderToken
}

func searchText(categories []string, name string) string {
	parts := make([]string, 0, len(categories)+1)
	parts = append(parts, categories...)
	parts = append(parts, name)
	return strings.ToLower(strings.Join(parts, " "))
}
