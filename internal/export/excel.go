// Package export writes the aggregate booking collection to an .xlsx
// file for offline sharing.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"wayfare/internal/models"

	"github.com/xuri/excelize/v2"
)

const sheetName = "My bookings"

var headers = []string{"Type", "Booking ID", "Listing ID", "Start date", "End date", "Quantity", "Total price", "Status"}

// BookingsToExcel writes the collection into dir and returns the file
// path. The collection order is preserved.
func BookingsToExcel(dir string, bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, h)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for row, b := range bookings {
		values := []any{
			b.Kind, b.ID, b.SubjectID, b.StartDate, b.EndDate,
			b.Quantity, b.TotalPrice, b.Status,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 16)
	_ = f.SetColWidth(sheetName, "B", "C", 12)
	_ = f.SetColWidth(sheetName, "D", "E", 14)
	_ = f.SetColWidth(sheetName, "F", "H", 12)

	path := filepath.Join(dir, fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("20060102_150405")))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("error saving export file: %w", err)
	}
	return path, nil
}
