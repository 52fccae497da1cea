package main

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"wayfare/internal/export"
	"wayfare/internal/models"
	"wayfare/internal/trips"

	"github.com/spf13/cobra"
)

func newBookCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Create a booking",
	}

	var checkIn, checkOut string
	var guests int
	stayCmd := &cobra.Command{
		Use:   "stay <accommodation-id>",
		Short: "Book an accommodation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid accommodation id %q", args[0])
			}

			stay, err := a.session.Client().Accommodation(cmd.Context(), id)
			if err != nil {
				return err
			}

			req, err := trips.StayRequest(*stay, checkIn, checkOut, guests)
			if err != nil {
				return err
			}

			if err := a.trips.AddAccommodationBooking(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Printf("Booked %q %s — %s for %d guest(s), total %.2f\n",
				stay.Title, req.CheckIn, req.CheckOut, req.Guests, req.TotalPrice)
			return nil
		},
	}
	stayCmd.Flags().StringVar(&checkIn, "check-in", "", "check-in date, 2026-09-01")
	stayCmd.Flags().StringVar(&checkOut, "check-out", "", "check-out date, 2026-09-05")
	stayCmd.Flags().IntVar(&guests, "guests", 1, "number of guests")
	_ = stayCmd.MarkFlagRequired("check-in")
	_ = stayCmd.MarkFlagRequired("check-out")

	var date string
	var seats int
	rideCmd := &cobra.Command{
		Use:   "ride <transport-id>",
		Short: "Book a transport",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transport id %q", args[0])
			}

			ride, err := a.session.Client().Transport(cmd.Context(), id)
			if err != nil {
				return err
			}

			req, err := trips.RideRequest(*ride, date, seats)
			if err != nil {
				return err
			}

			if err := a.trips.AddTransportBooking(cmd.Context(), req); err != nil {
				return err
			}

			fmt.Printf("Booked %s → %s on %s, %d seat(s), total %.2f\n",
				ride.From, ride.To, req.TravelDate, req.Seats, req.TotalPrice)
			return nil
		},
	}
	rideCmd.Flags().StringVar(&date, "date", "", "travel date, 2026-09-01")
	rideCmd.Flags().IntVar(&seats, "seats", 1, "number of seats")
	_ = rideCmd.MarkFlagRequired("date")

	cmd.AddCommand(stayCmd, rideCmd)
	return cmd
}

func newBookingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookings",
		Short: "Manage your bookings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all your bookings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.trips.Refresh(cmd.Context()); err != nil {
				return err
			}
			printBookings(a.trips.Bookings())
			return nil
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <kind> <id>",
		Short: "Cancel a booking (kind: accommodation or transport)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := args[0]
			if kind != models.KindAccommodation && kind != models.KindTransport {
				return fmt.Errorf("unknown booking kind %q", kind)
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid booking id %q", args[1])
			}

			if err := a.trips.Cancel(cmd.Context(), models.Booking{Kind: kind, ID: id}); err != nil {
				return err
			}

			fmt.Printf("Booking %s #%d cancelled.\n", kind, id)
			return nil
		},
	}

	var outDir string
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export your bookings to an Excel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.trips.Refresh(cmd.Context()); err != nil {
				return err
			}
			bookings := a.trips.Bookings()
			if len(bookings) == 0 {
				fmt.Println("Nothing to export.")
				return nil
			}

			dir := outDir
			if dir == "" {
				dir = a.cfg.Exports.Path
			}
			path, err := export.BookingsToExcel(dir, bookings)
			if err != nil {
				return err
			}

			fmt.Printf("Exported %d booking(s) to %s\n", len(bookings), path)
			return nil
		},
	}
	exportCmd.Flags().StringVar(&outDir, "out", "", "output directory (defaults to the configured exports path)")

	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Show the last locally recorded booking snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.history == nil {
				return fmt.Errorf("history is disabled in the config")
			}

			bookings, err := a.history.Bookings(cmd.Context(), cliOwnerID)
			if err != nil {
				return err
			}
			if fetched, err := a.history.FetchedAt(cmd.Context(), cliOwnerID); err == nil && !fetched.IsZero() {
				fmt.Printf("Snapshot from %s\n", fetched.Format("2006-01-02 15:04:05"))
			}
			printBookings(bookings)
			return nil
		},
	}

	cmd.AddCommand(listCmd, cancelCmd, exportCmd, historyCmd)
	return cmd
}

func printBookings(bookings []models.Booking) {
	if len(bookings) == 0 {
		fmt.Println("No bookings.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tID\tSTART\tEND\tQTY\tTOTAL\tSTATUS")
	for _, b := range bookings {
		end := b.EndDate
		if end == "" {
			end = "-"
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%.2f\t%s\n",
			b.Kind, b.ID, b.StartDate, end, b.Quantity, b.TotalPrice, b.Status)
	}
	_ = w.Flush()
}
