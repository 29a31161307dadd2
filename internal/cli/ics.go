package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/lovetrack/internal/calendar"
)

// DefaultICSFile is where ics writes when --out is not given.
const DefaultICSFile = "lovetrack.ics"

func newICSCmd(opts *rootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export the anniversary, events and trips as an iCalendar file",
		Example: `  lovetrack ics
  lovetrack ics --out - > lovetrack.ics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer sess.Close()

			snap := sess.tracker.Snapshot()
			content := calendar.GenerateICS(snap, sess.tracker.Now())
			if err := writeOutput(cmd.OutOrStdout(), out, []byte(content)); err != nil {
				return err
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%s)\n", out, calendar.CalendarName(snap.Relationship))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", DefaultICSFile, "Output file, or - for stdout")

	return cmd
}
