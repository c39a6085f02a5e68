package planner

// defaultDurationHours maps a place category to the hours a visit is
// assumed to take before the user tunes it. Categories follow the place
// provider's type tags.
var defaultDurationHours = map[string]float64{
	"museum":             2.5,
	"art_gallery":        1.5,
	"tourist_attraction": 1.5,
	"amusement_park":     4.0,
	"zoo":                3.0,
	"aquarium":           2.0,
	"park":               1.5,
	"beach":              2.0,
	"church":             1.0,
	"temple":             1.0,
	"restaurant":         1.5,
	"cafe":               0.5,
	"bar":                1.0,
	"night_club":         2.0,
	"shopping_mall":      2.0,
	"market":             1.0,
	"viewpoint":          0.5,
}

// fallbackDurationHours is used for categories the table does not know.
const fallbackDurationHours = 1.0

// DefaultDuration returns the default visit duration for a category.
func DefaultDuration(category string) float64 {
	if hours, ok := defaultDurationHours[category]; ok {
		return hours
	}
	return fallbackDurationHours
}
