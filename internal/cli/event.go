package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/lovetrack/internal/filter"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

func newEventCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "event",
		Aliases: []string{"events"},
		Short:   "Manage calendar events",
	}
	cmd.AddCommand(
		newEventAddCmd(opts),
		newEventListCmd(opts),
		newEventRmCmd(opts),
	)
	return cmd
}

func newEventAddCmd(opts *rootOptions) *cobra.Command {
	var (
		date     string
		category string
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add an event",
		Example: `  lovetrack event add "Dinner at Da Mario" --date 2024-03-22T20:00 --category date
  lovetrack event add "Anniversary trip" --date 2024-05-14 --category important`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			cat, err := model.ParseCategory(category)
			if err != nil {
				return err
			}

			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			evt, err := sess.tracker.AddEvent(args[0], date, cat)
			if err != nil {
				return fmt.Errorf("adding event: %w", err)
			}

			if format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), evt)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added event %s (%s)\n", evt.Title, evt.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "Event date, YYYY-MM-DD or YYYY-MM-DDTHH:MM (required)")
	cmd.Flags().StringVar(&category, "category", "activity", "Category: date, activity or important")
	_ = cmd.MarkFlagRequired("date")

	return cmd
}

func newEventListCmd(opts *rootOptions) *cobra.Command {
	var (
		dateRange  string
		categories string
		text       string
		upcoming   bool
		sortBy     string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List events",
		Example: `  lovetrack event list --upcoming
  lovetrack event list --range "March 2024" --category date,important
  lovetrack event list --text dinner --sort title`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := opts.outputFormat()
			if err != nil {
				return err
			}
			order, err := parseSortOrder(sortBy)
			if err != nil {
				return err
			}

			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			now := sess.tracker.Now()
			f, err := buildFilter(dateRange, categories, text, upcoming, now)
			if err != nil {
				return err
			}

			events := f.ApplyEvents(sess.tracker.Snapshot().Events, now)
			sortEvents(events, order, now.Location())

			list := &EventList{Events: events, Count: len(events)}
			if !f.IsEmpty() {
				list.Filter = f.String()
			}
			return WriteEvents(cmd.OutOrStdout(), list, format, now, opts.verbose)
		},
	}

	cmd.Flags().StringVar(&dateRange, "range", "", `Date range, e.g. "2024-03-01..2024-03-31", "Mar 1-15", "March 2024" or "2024"`)
	cmd.Flags().StringVar(&categories, "category", "", "Comma-separated categories to include")
	cmd.Flags().StringVar(&text, "text", "", "Only events whose title contains this text")
	cmd.Flags().BoolVar(&upcoming, "upcoming", false, "Only events from today on")
	cmd.Flags().StringVar(&sortBy, "sort", "date", "Sort order: date, title or category")

	return cmd
}

func newEventRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"delete"},
		Short:   "Delete events by id",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			out := cmd.OutOrStdout()
			for _, id := range args {
				removed, err := sess.tracker.DeleteEvent(id)
				if err != nil {
					return fmt.Errorf("deleting event %s: %w", id, err)
				}
				if removed {
					fmt.Fprintf(out, "Deleted event %s\n", id)
				} else {
					fmt.Fprintf(out, "No event with id %s\n", id)
				}
			}
			return nil
		},
	}
}

// buildFilter assembles a filter from the list flags.
func buildFilter(dateRange, categories, text string, upcoming bool, now time.Time) (*filter.Filter, error) {
	f := filter.NewFilter()
	if dateRange != "" {
		from, to, err := filter.ParseDateRange(dateRange, now)
		if err != nil {
			return nil, fmt.Errorf("invalid --range: %w", err)
		}
		f.From, f.To = from, to
	}
	if categories != "" {
		cats, err := filter.ParseCategories(categories)
		if err != nil {
			return nil, fmt.Errorf("invalid --category: %w", err)
		}
		f.Categories = cats
	}
	f.Text = text
	f.UpcomingOnly = upcoming
	return f, nil
}
