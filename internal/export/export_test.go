package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"restaurante/internal/models"
)

func TestWriteReservations(t *testing.T) {
	restaurants := []models.Restaurant{
		{ID: 1, Name: "La Broche"},
	}
	reservations := []models.Reservation{
		{ID: 42, RestaurantID: 1, Status: models.ReservationAccepted, NoPeople: 4, Date: "2023-03-10 05:16:35"},
		{ID: 43, RestaurantID: 99, Status: models.ReservationPending, NoPeople: 2, Date: "2023-03-11 14:00:00"},
	}

	path, err := WriteReservations(t.TempDir(), reservations, restaurants)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reservas")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{"ID", "Restaurante", "Personas", "Fecha", "Estado", "Detalle"}, rows[0])

	assert.Equal(t, "42", rows[1][0])
	assert.Equal(t, "La Broche", rows[1][1])
	assert.Equal(t, "Aceptada", rows[1][4])

	// Unknown restaurant id falls back to the numeric id.
	assert.Equal(t, "#99", rows[2][1])
	assert.Equal(t, "Pendiente", rows[2][4])
}

func TestWriteReservationsEmpty(t *testing.T) {
	path, err := WriteReservations(t.TempDir(), nil, nil)
	require.NoError(t, err)
	require.FileExists(t, path)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reservas")
	require.NoError(t, err)
	require.Len(t, rows, 1, "only the header row")
}
