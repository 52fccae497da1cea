package export

import (
	"testing"

	"wayfare/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBookingsToExcel(t *testing.T) {
	dir := t.TempDir()
	bookings := []models.Booking{
		{Kind: models.KindAccommodation, ID: 1, SubjectID: 10, StartDate: "2024-06-01", EndDate: "2024-06-03", Quantity: 2, TotalPrice: 200, Status: models.StatusPending},
		{Kind: models.KindTransport, ID: 2, SubjectID: 20, StartDate: "2024-06-05", Quantity: 1, TotalPrice: 45, Status: models.StatusConfirmed},
	}

	path, err := BookingsToExcel(dir, bookings)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per booking")

	assert.Equal(t, "Type", rows[0][0])
	assert.Equal(t, models.KindAccommodation, rows[1][0])
	assert.Equal(t, "200", rows[1][6])
	assert.Equal(t, models.KindTransport, rows[2][0])
	assert.Equal(t, models.StatusConfirmed, rows[2][7])
}

func TestBookingsToExcel_EmptyCollection(t *testing.T) {
	path, err := BookingsToExcel(t.TempDir(), nil)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1, "header only")
}
