package models

// FoodType is the cuisine category the backend attaches to a restaurant.
// The wire value is the backend's Spanish display string.
type FoodType string

const (
	FoodGrilledMeat     FoodType = "Asador de carne"
	FoodAsian           FoodType = "Asiática"
	FoodItalian         FoodType = "Italiana"
	FoodFastFood        FoodType = "Comida rápida"
	FoodMediterranean   FoodType = "Mediterránea"
	FoodMexican         FoodType = "Mexicana"
	FoodVegetarian      FoodType = "Vegetariana/vegana"
	FoodInternational   FoodType = "Internacional"
	FoodTraditional     FoodType = "Español tradicional"
	FoodFishAndSeafood  FoodType = "Mariscos y pescados"
	FoodTapasAndPinchos FoodType = "Tapas y pinchos"

	// FoodUnknown is the fallback bucket for categories this client
	// does not know about yet.
	FoodUnknown FoodType = "unknown"
)

// AllFoodTypes lists the selectable categories, excluding the fallback.
var AllFoodTypes = []FoodType{
	FoodGrilledMeat,
	FoodAsian,
	FoodItalian,
	FoodFastFood,
	FoodMediterranean,
	FoodMexican,
	FoodVegetarian,
	FoodInternational,
	FoodTraditional,
	FoodFishAndSeafood,
	FoodTapasAndPinchos,
}

// ParseFoodType maps a wire value to a known category, defaulting to
// FoodUnknown instead of failing on values added server-side later.
func ParseFoodType(raw string) FoodType {
	for _, ft := range AllFoodTypes {
		if string(ft) == raw {
			return ft
		}
	}
	return FoodUnknown
}

// Name returns the display label.
func (f FoodType) Name() string {
	if f == FoodUnknown {
		return "Otros"
	}
	return string(f)
}
