package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTripCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "trip",
		Aliases: []string{"trips"},
		Short:   "Manage trips",
	}
	cmd.AddCommand(
		newTripAddCmd(opts),
		newTripListCmd(opts),
		newTripRmCmd(opts),
	)
	return cmd
}

func newTripAddCmd(opts *rootOptions) *cobra.Command {
	var (
		date  string
		image string
	)

	cmd := &cobra.Command{
		Use:   "add DESTINATION",
		Short: "Add a trip",
		Example: `  lovetrack trip add Lisbon --date 2023-09-10
  lovetrack trip add "Isle of Skye" --image https://example.com/skye.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}

			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			trip, err := sess.tracker.AddTrip(args[0], date, image)
			if err != nil {
				return fmt.Errorf("adding trip: %w", err)
			}

			if format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), trip)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added trip to %s (%s)\n", trip.Destination, trip.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Trip date (default now)")
	cmd.Flags().StringVar(&image, "image", "", "Image URL")

	return cmd
}

func newTripListCmd(opts *rootOptions) *cobra.Command {
	var (
		dateRange string
		text      string
		upcoming  bool
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List trips, oldest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}

			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			now := sess.tracker.Now()
			f, err := buildFilter(dateRange, "", text, upcoming, now)
			if err != nil {
				return err
			}

			trips := f.ApplyTrips(sess.tracker.Snapshot().Trips, now)
			sortTrips(trips, now.Location())

			list := &TripList{Trips: trips, Count: len(trips)}
			if !f.IsEmpty() {
				list.Filter = f.String()
			}
			return WriteTrips(cmd.OutOrStdout(), list, format, now, opts.verbose)
		},
	}

	cmd.Flags().StringVar(&dateRange, "range", "", "Date range (same syntax as event list)")
	cmd.Flags().StringVar(&text, "text", "", "Only trips whose destination contains this text")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Only trips from today on")

	return cmd
}

func newTripRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Delete trips by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				removed, err := sess.tracker.DeleteTrip(id)
				if err != nil {
					return fmt.Errorf("deleting trip %s: %w", id, err)
				}
				if removed {
					fmt.Fprintf(out, "Deleted trip %s\n", id)
				} else {
					fmt.Fprintf(out, "No trip with id %s\n", id)
				}
			}
			return nil
		},
	}
}
