// Package sheets mirrors the aggregate booking collection into a
// Google Sheet via a service account.
package sheets

import (
	"context"
	"fmt"
	"os"

	"wayfare/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

type Service struct {
	service       *sheets.Service
	spreadsheetID string
}

func NewService(ctx context.Context, credentialsFile, spreadsheetID string) (*Service, error) {
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %w", err)
	}

	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %w", err)
	}

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(config.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}

	return &Service{service: srv, spreadsheetID: spreadsheetID}, nil
}

// TestConnection verifies the spreadsheet is reachable.
func (s *Service) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Get(s.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to access spreadsheet: %w", err)
	}
	return nil
}

// ReplaceBookings clears the bookings range and rewrites it with the
// full collection, header included.
func (s *Service) ReplaceBookings(ctx context.Context, bookings []models.Booking) error {
	clearRange := "Bookings!A:H"
	if _, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("unable to clear bookings range: %w", err)
	}

	values := [][]interface{}{
		{"Type", "Booking ID", "Listing ID", "Start date", "End date", "Quantity", "Total price", "Status"},
	}
	for _, b := range bookings {
		values = append(values, bookingRowValues(b))
	}

	valueRange := &sheets.ValueRange{Values: values}
	_, err := s.service.Spreadsheets.Values.Update(s.spreadsheetID, "Bookings!A1", valueRange).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("unable to update bookings sheet: %w", err)
	}
	return nil
}

func bookingRowValues(b models.Booking) []interface{} {
	return []interface{}{
		b.Kind,
		b.ID,
		b.SubjectID,
		b.StartDate,
		b.EndDate,
		b.Quantity,
		b.TotalPrice,
		b.Status,
	}
}
