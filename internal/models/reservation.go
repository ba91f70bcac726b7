package models

import (
	"encoding/json"
	"fmt"
)

// ReservationStatus tracks a reservation through the restaurant's workflow.
type ReservationStatus int

const (
	// ReservationPending awaits the restaurant's decision.
	ReservationPending ReservationStatus = 0
	// ReservationAccepted has been approved by the restaurant.
	ReservationAccepted ReservationStatus = 1
	// ReservationInRestaurant means the client is seated.
	ReservationInRestaurant ReservationStatus = 2
	// ReservationCompleted means the client has eaten and left.
	ReservationCompleted ReservationStatus = 3

	// ReservationDenied was rejected outright by the restaurant.
	ReservationDenied ReservationStatus = 10
	// ReservationCancelled was approved and later withdrawn by the restaurant.
	ReservationCancelled ReservationStatus = 11
	// ReservationIgnored expired without a response from the restaurant.
	ReservationIgnored ReservationStatus = 12
)

var reservationStatuses = map[ReservationStatus]struct {
	name        string
	description string
	icon        string
}{
	ReservationPending:      {"Pendiente", "En pocos minutos su reserva será gestionada por el restaurante", "time"},
	ReservationAccepted:     {"Aceptada", "¡La reserva ha sido aceptada!", "checkmark"},
	ReservationInRestaurant: {"En el restaurante", "¡Que aproveche!", "cutlery"},
	ReservationCompleted:    {"Completado", "Ya has salido del restaurante", "checkmark"},
	ReservationDenied:       {"Rechazado", "La reserva ha sido rechazada por el restaurante", "cancel"},
	ReservationCancelled:    {"Cancelado", "La reserva ha sido aceptada, y posteriormente rechazada, por el restaurante", "cancel"},
	ReservationIgnored:      {"Ignorado", "La reserva ha sido automáticamente rechazada porque el restaurante no ha respondido a tiempo", "cancel"},
}

// Valid reports whether the wire value maps to a known status.
func (s ReservationStatus) Valid() bool {
	_, ok := reservationStatuses[s]
	return ok
}

// Name returns the short display label.
func (s ReservationStatus) Name() string { return reservationStatuses[s].name }

// Description returns the long user-facing explanation.
func (s ReservationStatus) Description() string { return reservationStatuses[s].description }

// Icon returns the icon identifier used by presentation layers.
func (s ReservationStatus) Icon() string { return reservationStatuses[s].icon }

// Reservation is one booking the current user holds, as returned by the
// backend. Immutable once decoded.
type Reservation struct {
	ID           int64
	RestaurantID int64
	Status       ReservationStatus
	NoPeople     int
	// Date is the backend-formatted "2006-01-02 15:04:05" timestamp,
	// kept verbatim.
	Date string
}

type reservationWire struct {
	ID           *int64  `json:"id"`
	RestaurantID *int64  `json:"restaurant_id"`
	Status       *int    `json:"status"`
	NumPeople    *int    `json:"num_people"`
	Date         *string `json:"date_reservation"`
}

// UnmarshalJSON fails on any absent required field.
func (r *Reservation) UnmarshalJSON(data []byte) error {
	var wire reservationWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	switch {
	case wire.ID == nil:
		return fmt.Errorf("reservation payload missing %q", "id")
	case wire.RestaurantID == nil:
		return fmt.Errorf("reservation payload missing %q", "restaurant_id")
	case wire.Status == nil:
		return fmt.Errorf("reservation payload missing %q", "status")
	case wire.NumPeople == nil:
		return fmt.Errorf("reservation payload missing %q", "num_people")
	case wire.Date == nil:
		return fmt.Errorf("reservation payload missing %q", "date_reservation")
	}

	status := ReservationStatus(*wire.Status)
	if !status.Valid() {
		return fmt.Errorf("reservation payload has unknown status %d", *wire.Status)
	}

	r.ID = *wire.ID
	r.RestaurantID = *wire.RestaurantID
	r.Status = status
	r.NoPeople = *wire.NumPeople
	r.Date = *wire.Date

	return nil
}
