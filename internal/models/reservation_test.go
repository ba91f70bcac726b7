package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationDecode(t *testing.T) {
	payload := `{
        "id": 3,
        "user_id": 4,
        "restaurant_id": 7,
        "table_id": null,
        "status": 2,
        "num_people": 3,
        "date_reservation": "2023-03-10 05:16:35",
        "user_name": "Meta Willms"
    }`

	var r Reservation
	require.NoError(t, json.Unmarshal([]byte(payload), &r))

	assert.Equal(t, int64(3), r.ID)
	assert.Equal(t, int64(7), r.RestaurantID)
	assert.Equal(t, ReservationInRestaurant, r.Status)
	assert.Equal(t, 3, r.NoPeople)
	assert.Equal(t, "2023-03-10 05:16:35", r.Date)
}

func TestReservationDecodeMissingField(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"NoID", `{"restaurant_id":7,"status":0,"num_people":2,"date_reservation":"d"}`},
		{"NoStatus", `{"id":1,"restaurant_id":7,"num_people":2,"date_reservation":"d"}`},
		{"NoDate", `{"id":1,"restaurant_id":7,"status":0,"num_people":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r Reservation
			assert.Error(t, json.Unmarshal([]byte(tt.payload), &r))
		})
	}
}

func TestReservationDecodeUnknownStatus(t *testing.T) {
	payload := `{"id":1,"restaurant_id":7,"status":5,"num_people":2,"date_reservation":"d"}`

	var r Reservation
	assert.Error(t, json.Unmarshal([]byte(payload), &r))
}

func TestReservationStatusDisplay(t *testing.T) {
	assert.Equal(t, "Pendiente", ReservationPending.Name())
	assert.Equal(t, "time", ReservationPending.Icon())
	assert.Equal(t, "cutlery", ReservationInRestaurant.Icon())
	assert.Equal(t, "cancel", ReservationIgnored.Icon())
	assert.Equal(t, "checkmark", ReservationCompleted.Icon())
	assert.NotEmpty(t, ReservationCancelled.Description())

	for _, s := range []ReservationStatus{
		ReservationPending, ReservationAccepted, ReservationInRestaurant,
		ReservationCompleted, ReservationDenied, ReservationCancelled, ReservationIgnored,
	} {
		assert.True(t, s.Valid())
	}
	assert.False(t, ReservationStatus(5).Valid())
}

func TestDefaultFilters(t *testing.T) {
	f := DefaultFilters()

	assert.False(t, f.OnlyTopRated)
	assert.False(t, f.OnlyWithTerrace)
	assert.False(t, f.OnlyFavorites)
	assert.Equal(t, 0.0, f.MinAvgScore)
	assert.Equal(t, 50.0, f.MaxAvgPrice)
	assert.Equal(t, 1000.0, f.MaxDistance)
	assert.Empty(t, f.OnlyTypes)
}

func TestMinutesName(t *testing.T) {
	assert.Equal(t, "En 5 min.", InFiveMinutes.Name())
	assert.Equal(t, "En 30 min.", InThirtyMinutes.Name())
	assert.Len(t, AllMinutes, 4)
}
