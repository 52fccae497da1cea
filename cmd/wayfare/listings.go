package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"wayfare/internal/models"

	"github.com/spf13/cobra"
)

func newStaysCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stays",
		Aliases: []string{"accommodations"},
		Short:   "Browse accommodation listings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all accommodations",
		RunE: func(cmd *cobra.Command, args []string) error {
			stays, err := a.session.Client().Accommodations(cmd.Context())
			if err != nil {
				return err
			}
			printStays(stays)
			return nil
		},
	}

	var location, dates string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search accommodations by location and dates",
		RunE: func(cmd *cobra.Command, args []string) error {
			stays, err := a.session.Client().SearchAccommodations(cmd.Context(), location, dates)
			if err != nil {
				return err
			}
			printStays(stays)
			return nil
		},
	}
	searchCmd.Flags().StringVar(&location, "location", "", "city or area")
	searchCmd.Flags().StringVar(&dates, "dates", "", "date range, e.g. 2026-09-01:2026-09-05")
	_ = searchCmd.MarkFlagRequired("location")

	cmd.AddCommand(listCmd, searchCmd)
	return cmd
}

func printStays(stays []models.Accommodation) {
	if len(stays) == 0 {
		fmt.Println("No accommodations found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tLOCATION\tPRICE/NIGHT\tCAPACITY\tAVAILABLE")
	for _, s := range stays {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.2f\t%d\t%t\n",
			s.ID, s.Title, s.Location, s.PricePerNight, s.Capacity, s.Available)
	}
	_ = w.Flush()
}

func newRidesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "rides",
		Aliases: []string{"transports"},
		Short:   "Browse transport listings",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List all transports",
		RunE: func(cmd *cobra.Command, args []string) error {
			rides, err := a.session.Client().Transports(cmd.Context())
			if err != nil {
				return err
			}
			printRides(rides)
			return nil
		},
	}

	var from, to, date string
	searchCmd := &cobra.Command{
		Use:   "search",
		Short: "Search transports by route and date",
		RunE: func(cmd *cobra.Command, args []string) error {
			rides, err := a.session.Client().SearchTransports(cmd.Context(), from, to, date)
			if err != nil {
				return err
			}
			printRides(rides)
			return nil
		},
	}
	searchCmd.Flags().StringVar(&from, "from", "", "departure location")
	searchCmd.Flags().StringVar(&to, "to", "", "destination")
	searchCmd.Flags().StringVar(&date, "date", "", "travel date, e.g. 2026-09-01")
	_ = searchCmd.MarkFlagRequired("from")
	_ = searchCmd.MarkFlagRequired("to")

	cmd.AddCommand(listCmd, searchCmd)
	return cmd
}

func printRides(rides []models.Transport) {
	if len(rides) == 0 {
		fmt.Println("No transports found.")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tROUTE\tVEHICLE\tPRICE/SEAT\tSEATS\tAVAILABLE")
	for _, r := range rides {
		fmt.Fprintf(w, "%d\t%s → %s\t%s\t%.2f\t%d\t%t\n",
			r.ID, r.From, r.To, r.VehicleType, r.PricePerDay, r.Capacity, r.Available)
	}
	_ = w.Flush()
}
