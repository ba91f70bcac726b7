package models

import (
	"encoding/json"
	"fmt"

	"restaurante/internal/geo"
)

// RestaurantStatus is the backend's occupancy state for a restaurant.
type RestaurantStatus int

const (
	StatusClosed              RestaurantStatus = 0
	StatusOpenWithFreeSpots   RestaurantStatus = 1
	StatusOpenWithoutFreeSpot RestaurantStatus = 2
)

// Name returns the display label for the status.
func (s RestaurantStatus) Name() string {
	switch s {
	case StatusClosed:
		return "Cerrado"
	case StatusOpenWithFreeSpots:
		return "Abierto, con sitio disponible"
	case StatusOpenWithoutFreeSpot:
		return "Abierto, pero todo ocupado"
	default:
		return "Desconocido"
	}
}

// Restaurant is one entry of the backend catalog. Instances are immutable
// once decoded; the full set is replaced wholesale on each fetch.
type Restaurant struct {
	ID           int64
	Name         string
	Phone        string
	Address      string
	City         string
	HasTerrace   bool
	AvgScore     float64
	AvgPrice     float64
	FoodType     FoodType
	URL          string
	ProfileImage string
	ImageGallery []string
	Description  string
	Coordinates  geo.Point
	Status       RestaurantStatus
}

// restaurantWire mirrors the backend JSON. Pointers mark fields whose
// absence must fail the decode.
type restaurantWire struct {
	ID          *int64   `json:"id"`
	Name        *string  `json:"name"`
	Phone       *string  `json:"phone"`
	Address     *string  `json:"address"`
	City        *string  `json:"city"`
	Terrace     *int     `json:"terrace"`
	Score       *float64 `json:"score"`
	AvgPrice    *float64 `json:"avg_price"`
	TypeFood    *string  `json:"type_food"`
	URL         *string  `json:"url"`
	ImgProfile  *string  `json:"img_profile"`
	ImgGallery  *string  `json:"img_gallery"`
	Description *string  `json:"description"`
	Latitude    *float64 `json:"latitude"`
	Longitude   *float64 `json:"longitude"`
	Status      *int     `json:"status"`
}

// UnmarshalJSON decodes the backend payload, translating its quirks:
// terrace arrives as 0/1, img_gallery is a JSON array re-encoded as a
// string, and unknown food types land in the fallback bucket.
func (r *Restaurant) UnmarshalJSON(data []byte) error {
	var wire restaurantWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	missing := func(field string) error {
		return fmt.Errorf("restaurant payload missing %q", field)
	}
	switch {
	case wire.ID == nil:
		return missing("id")
	case wire.Name == nil:
		return missing("name")
	case wire.Phone == nil:
		return missing("phone")
	case wire.Address == nil:
		return missing("address")
	case wire.City == nil:
		return missing("city")
	case wire.Terrace == nil:
		return missing("terrace")
	case wire.Score == nil:
		return missing("score")
	case wire.AvgPrice == nil:
		return missing("avg_price")
	case wire.TypeFood == nil:
		return missing("type_food")
	case wire.Description == nil:
		return missing("description")
	case wire.Latitude == nil:
		return missing("latitude")
	case wire.Longitude == nil:
		return missing("longitude")
	case wire.Status == nil:
		return missing("status")
	}

	status := RestaurantStatus(*wire.Status)
	switch status {
	case StatusClosed, StatusOpenWithFreeSpots, StatusOpenWithoutFreeSpot:
	default:
		return fmt.Errorf("restaurant payload has unknown status %d", *wire.Status)
	}

	r.ID = *wire.ID
	r.Name = *wire.Name
	r.Phone = *wire.Phone
	r.Address = *wire.Address
	r.City = *wire.City
	r.HasTerrace = *wire.Terrace == 1
	r.AvgScore = *wire.Score
	r.AvgPrice = *wire.AvgPrice
	r.FoodType = ParseFoodType(*wire.TypeFood)
	if wire.URL != nil {
		r.URL = *wire.URL
	}
	if wire.ImgProfile != nil {
		r.ProfileImage = *wire.ImgProfile
	}
	r.ImageGallery = decodeGallery(wire.ImgGallery)
	r.Description = *wire.Description
	r.Coordinates = geo.Point{Lat: *wire.Latitude, Lon: *wire.Longitude}
	r.Status = status

	return nil
}

// decodeGallery parses the inner JSON-as-string gallery field. Absent or
// unparseable galleries degrade to an empty list, never an error.
func decodeGallery(raw *string) []string {
	if raw == nil || *raw == "" {
		return []string{}
	}
	var urls []string
	if err := json.Unmarshal([]byte(*raw), &urls); err != nil {
		return []string{}
	}
	return urls
}
