package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	var (
		myName      string
		partnerName string
		startDate   string
		background  string
	)

	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change names, start date and background",
		Long: `Without flags, print the current relationship settings.
With any flag, update the given fields and save.`,
		Example: `  lovetrack settings
  lovetrack settings --my-name Anna --partner-name Luca --start-date 2022-05-14`,
		Args: cobra.NoArgs,
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

			rel := sess.tracker.Relationship()
			flags := cmd.Flags()
			changed := false
			if flags.Changed("my-name") {
				rel.MyName, changed = myName, true
			}
			if flags.Changed("partner-name") {
				rel.PartnerName, changed = partnerName, true
			}
			if flags.Changed("start-date") {
				rel.StartDate, changed = startDate, true
			}
			if flags.Changed("background") {
				rel.BackgroundImageURL, changed = background, true
			}

			if changed {
				if err := sess.tracker.UpdateRelationship(rel); err != nil {
					return fmt.Errorf("updating settings: %w", err)
				}
			}
			return WriteRelationship(cmd.OutOrStdout(), sess.tracker.Relationship(), format)
		},
	}

	cmd.Flags().StringVar(&myName, "my-name", "", "Your name")
	cmd.Flags().StringVar(&partnerName, "partner-name", "", "Your partner's name")
	cmd.Flags().StringVar(&startDate, "start-date", "", "Relationship start date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&background, "background", "", "Background image URL (empty restores the default)")

	return cmd
}
