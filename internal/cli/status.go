package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/lovetrack/internal/duration"
	"github.com/pfrederiksen/lovetrack/internal/logger"
	"github.com/pfrederiksen/lovetrack/internal/model"
	"github.com/pfrederiksen/lovetrack/internal/refresh"
	"github.com/pfrederiksen/lovetrack/internal/tracker"
)

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show how long you have been together and what is coming up",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, opts)
		},
	}
}

func runStatus(cmd *cobra.Command, opts *rootOptions) error {
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}

	sess, err := opts.open(cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	return WriteStatus(cmd.OutOrStdout(), buildStatus(sess.tracker, sess.cfg.UpcomingLimit), format)
}

const startDateHint = "Set the start date with: lovetrack settings --start-date YYYY-MM-DD"

// buildStatus computes the status view from the tracker's current state.
func buildStatus(tr *tracker.Tracker, upcomingLimit int) *StatusResult {
	now := tr.Now()
	snap := tr.Snapshot()

	result := &StatusResult{
		CheckedAt:    now,
		Relationship: snap.Relationship,
		Upcoming:     tr.UpcomingEvents(upcomingLimit),
		EventCount:   len(snap.Events),
		TripCount:    len(snap.Trips),
	}

	// Migrated data may carry an empty or unreadable start date; show zeros instead of failing.
	breakdown, err := tr.Duration()
	if err != nil {
		logger.Warn("Start date unusable, showing zero duration", logger.Fields{
			"start_date": snap.Relationship.StartDate,
			"hint":       startDateHint,
		}, err)
		result.Hint = startDateHint
		return result
	}
	result.Duration = breakdown

	if start, err := model.ParseDateIn(snap.Relationship.StartDate, now.Location()); err == nil && !start.After(now) {
		next, n := duration.NextAnniversary(start, now)
		result.NextAnniversary = model.FormatDate(next)
		result.AnniversaryNumber = n
	}

	return result
}

func newWatchCmd(opts *rootOptions) *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the status on screen, refreshing it periodically",
		Long: `Print the status and recompute it every refresh interval until interrupted.
The interval comes from --interval, or refresh_interval in the config (default 1m).`,
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

			every := sess.cfg.RefreshInterval
			if cmd.Flags().Changed("interval") {
				every = interval
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return watch(ctx, cmd, sess.tracker, sess.cfg.UpcomingLimit, every, format)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", time.Minute, "Refresh interval (overrides config)")

	return cmd
}

// watch renders the status on every tick until ctx is done.
func watch(ctx context.Context, cmd *cobra.Command, tr *tracker.Tracker, upcomingLimit int, every time.Duration, format OutputFormat) error {
	out := cmd.OutOrStdout()
	render := func() {
		result := buildStatus(tr, upcomingLimit)
		if format == FormatText {
			fmt.Fprintln(out, dimStyle.Render("── "+result.CheckedAt.Format("2006-01-02 15:04:05")+" ──"))
		}
		if err := WriteStatus(out, result, format); err != nil {
			logger.Error("Writing status failed", nil, err)
		}
	}

	task, err := refresh.New(every, render)
	if err != nil {
		return err
	}
	if err := task.Start(ctx); err != nil {
		return err
	}
	defer task.Stop()

	<-ctx.Done()
	return nil
}
