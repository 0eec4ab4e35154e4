package cuisine

import (
	"strings"

	"github.com/mealcompass/backend/internal/entity"
)

// DetectHealthTags derives the dietary flags the mobile client uses for
// nutrition matching.
func DetectHealthTags(categories []string, name string) entity.HealthTags {
	text := searchText(categories, name)
	cuisines := Detect(categories, name)

	return entity.HealthTags{
		HasHealthyOptions:  strings.Contains(text, "healthy") || strings.Contains(text, "salad"),
		HasVegetarian:      strings.Contains(text, "vegetarian") || strings.Contains(text, "veggie"),
		HasVegan:           strings.Contains(text, "vegan") || strings.Contains(text, "plant-based"),
		HasGlutenFree:      strings.Contains(text, "gluten-free") || strings.Contains(text, "gluten free"),
		HasOrganic:         strings.Contains(text, "organic") || strings.Contains(text, "bio"),
		CuisineHealthScore: HealthScore(cuisines, categories),
	}
}
