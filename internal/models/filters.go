package models

// Default filter thresholds restored by ClearFilters.
const (
	DefaultMinAvgScore = 0.0
	DefaultMaxAvgPrice = 50.0
	DefaultMaxDistance = 1000.0 // meters

	// TopRatedScore is the threshold the "only top rated" toggle applies.
	TopRatedScore = 4.0
)

// Filters holds the user-chosen predicates narrowing the restaurant list.
// Session-local, never persisted.
type Filters struct {
	OnlyTopRated    bool
	OnlyWithTerrace bool
	OnlyFavorites   bool

	MinAvgScore float64
	MaxAvgPrice float64
	MaxDistance float64

	OnlyTypes []FoodType
}

// DefaultFilters returns the state an explicit "clear filters" restores.
func DefaultFilters() Filters {
	return Filters{
		MinAvgScore: DefaultMinAvgScore,
		MaxAvgPrice: DefaultMaxAvgPrice,
		MaxDistance: DefaultMaxDistance,
		OnlyTypes:   []FoodType{},
	}
}

// HasType reports whether the type set contains ft.
func (f Filters) HasType(ft FoodType) bool {
	for _, t := range f.OnlyTypes {
		if t == ft {
			return true
		}
	}
	return false
}
