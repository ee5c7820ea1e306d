package leadbook

import (
	"context"
	"math"
	"sort"
)

// SearchQuery describes a business search around a location.
type SearchQuery struct {
	Location     string `json:"city"`
	Category     string `json:"category"`
	RadiusMeters int    `json:"radius"`
}

// Validate returns an error if the query cannot be sent to a search provider.
func (q SearchQuery) Validate() error {
	errs := fieldErrors{}
	if q.Location == "" {
		errs["location"] = "location is required"
	}
	if q.Category == "" {
		errs["category"] = "category is required"
	}
	if q.RadiusMeters <= 0 {
		errs["radius"] = "radius must be positive"
	}
	return errs.err("search")
}

// Searcher finds businesses through an external directory.
type Searcher interface {
	// Search returns businesses matching the query. Results carry an
	// ExternalID when the directory provides one and no store ID.
	// Returns ENETWORK if the directory cannot be reached or rejects the query.
	Search(ctx context.Context, q SearchQuery) ([]*Business, error)
}

// CategoryLister lists the search categories a directory supports.
type CategoryLister interface {
	// Categories returns category keys mapped to display labels.
	// Returns ENETWORK if the directory cannot be reached.
	Categories(ctx context.Context) (map[string]string, error)
}

// MetersPerMile converts search radii given in miles.
const MetersPerMile = 1609.34

// MilesToMeters converts a radius in miles to whole meters.
func MilesToMeters(miles float64) int {
	return int(math.Round(miles * MetersPerMile))
}

// Categories maps the search categories understood by the directory to
// their display labels.
var Categories = map[string]string{
	"landscaping":       "Landscaping",
	"plumber":           "Plumber",
	"electrician":       "Electrician",
	"hvac":              "HVAC",
	"carpenter":         "Carpenter",
	"painter":           "Painter",
	"roofer":            "Roofer",
	"locksmith":         "Locksmith",
	"handyman":          "Handyman",
	"restaurant":        "Restaurant",
	"cafe":              "Cafe",
	"fast_food":         "Fast Food",
	"bar":               "Bar",
	"pub":               "Pub",
	"bakery":            "Bakery",
	"pizza":             "Pizza",
	"dentist":           "Dentist",
	"doctor":            "Doctor",
	"pharmacy":          "Pharmacy",
	"hospital":          "Hospital",
	"veterinary":        "Veterinary",
	"optometrist":       "Optometrist",
	"auto_repair":       "Auto Repair",
	"car_dealer":        "Car Dealer",
	"gas_station":       "Gas Station",
	"car_wash":          "Car Wash",
	"auto_parts":        "Auto Parts",
	"barber":            "Barber",
	"nail_salon":        "Nail Salon",
	"spa":               "Spa",
	"tattoo":            "Tattoo Studio",
	"gym":               "Gym / Fitness Center",
	"yoga":              "Yoga Studio",
	"golf_course":       "Golf Course",
	"lawyer":            "Lawyer",
	"accountant":        "Accountant",
	"real_estate":       "Real Estate",
	"insurance":         "Insurance",
	"financial_advisor": "Financial Advisor",
	"grocery":           "Grocery Store",
	"convenience":       "Convenience Store",
	"clothing":          "Clothing Store",
	"hardware":          "Hardware Store",
	"furniture":         "Furniture Store",
	"electronics":       "Electronics Store",
	"bookstore":         "Bookstore",
	"school":            "School",
	"university":        "University",
	"driving_school":    "Driving School",
	"language_school":   "Language School",
	"hotel":             "Hotel",
	"motel":             "Motel",
	"bed_breakfast":     "Bed & Breakfast",
	"movie_theater":     "Movie Theater",
	"theater":           "Theater",
	"museum":            "Museum",
	"zoo":               "Zoo",
	"park":              "Park",
	"bank":              "Bank",
	"atm":               "ATM",
	"post_office":       "Post Office",
	"dry_cleaner":       "Dry Cleaner",
	"laundromat":        "Laundromat",
	"storage":           "Storage Facility",
	"pet_store":         "Pet Store",
	"florist":           "Florist",
	"jewelry":           "Jewelry Store",
	"gift_shop":         "Gift Shop",
	"pawn_shop":         "Pawn Shop",
}

// CategoryKeys returns the category keys in alphabetical order.
func CategoryKeys() []string {
	keys := make([]string, 0, len(Categories))
	for k := range Categories {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
