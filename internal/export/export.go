// Package export writes the user's reservation history to an xlsx file.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"restaurante/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Reservas"

var headers = []string{"ID", "Restaurante", "Personas", "Fecha", "Estado", "Detalle"}

// WriteReservations renders one row per reservation into a new file under
// dir and returns the written path. Restaurant names are resolved from
// the catalog; unknown ids keep the numeric id.
func WriteReservations(dir string, reservations []models.Reservation, restaurants []models.Restaurant) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	names := make(map[int64]string, len(restaurants))
	for _, r := range restaurants {
		names[r.ID] = r.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, res := range reservations {
		name := names[res.RestaurantID]
		if name == "" {
			name = fmt.Sprintf("#%d", res.RestaurantID)
		}
		values := []any{
			res.ID,
			name,
			res.NoPeople,
			res.Date,
			res.Status.Name(),
			res.Status.Description(),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "B", "B", 30)
	_ = f.SetColWidth(sheetName, "D", "F", 25)

	path := filepath.Join(dir, fmt.Sprintf("reservas_%s.xlsx", time.Now().Format("2006-01-02_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("save export file: %w", err)
	}
	return path, nil
}
