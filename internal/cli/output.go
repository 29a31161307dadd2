package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/pfrederiksen/lovetrack/internal/duration"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	numberStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	categoryStyles = map[model.Category]lipgloss.Style{
		model.CategoryDate:      lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		model.CategoryActivity:  lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		model.CategoryImportant: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
	}
)

// StatusResult is the payload of the status and watch commands
type StatusResult struct {
	CheckedAt         time.Time              `json:"checked_at"`
	Relationship      model.RelationshipData `json:"relationship"`
	Duration          duration.Breakdown     `json:"duration"`
	NextAnniversary   string                 `json:"next_anniversary,omitempty"`
	AnniversaryNumber int                    `json:"anniversary_number,omitempty"`
	Upcoming          []model.CalendarEvent  `json:"upcoming"`
	EventCount        int                    `json:"event_count"`
	TripCount         int                    `json:"trip_count"`
	Hint              string                 `json:"hint,omitempty"`
}

// EventList is the payload of event list
type EventList struct {
	Events []model.CalendarEvent `json:"events"`
	Count  int                   `json:"count"`
	Filter string                `json:"filter,omitempty"`
}

// TripList is the payload of trip list
type TripList struct {
	Trips  []model.Trip `json:"trips"`
	Count  int          `json:"count"`
	Filter string       `json:"filter,omitempty"`
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// WriteStatus writes the status view in the specified format
func WriteStatus(w io.Writer, result *StatusResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeStatusText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeStatusText(w io.Writer, result *StatusResult) error {
	rel := result.Relationship
	now := result.CheckedAt
	d := result.Duration

	fmt.Fprintln(w, titleStyle.Render(fmt.Sprintf("%s ♥ %s", rel.MyName, rel.PartnerName)))
	fmt.Fprintln(w, dimStyle.Render("Together since "+rel.StartDate))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s, %s, %s\n",
		numberStyle.Render(plural(d.Years, "year")),
		numberStyle.Render(plural(d.Months, "month")),
		numberStyle.Render(plural(d.Days, "day")))
	fmt.Fprintf(w, "  %s days together\n", numberStyle.Render(humanize.Comma(int64(d.TotalDays))))
	if result.Hint != "" {
		fmt.Fprintln(w, dimStyle.Render("  "+result.Hint))
	}

	if result.NextAnniversary != "" {
		if day, err := model.ParseDateIn(result.NextAnniversary, now.Location()); err == nil {
			when := "today"
			if model.CalendarDaysBetween(now, day) > 0 {
				when = humanize.RelTime(day, now, "ago", "from now")
			}
			fmt.Fprintf(w, "\nNext: %s anniversary on %s (%s)\n",
				humanize.Ordinal(result.AnniversaryNumber), result.NextAnniversary, when)
		}
	}

	fmt.Fprintln(w)
	if len(result.Upcoming) == 0 {
		fmt.Fprintln(w, "No upcoming events.")
	} else {
		next := result.Upcoming[0]
		fmt.Fprintf(w, "Next event: %s %s\n", next.Title, daysAway(next.DaysUntil(now)))
		fmt.Fprintln(w)
		fmt.Fprintln(w, titleStyle.Render("Upcoming events:"))
		for _, evt := range result.Upcoming {
			writeEventLine(w, evt, now, false)
		}
	}

	fmt.Fprintf(w, "\n%s\n", dimStyle.Render(fmt.Sprintf("%s, %s",
		plural(result.EventCount, "event"), plural(result.TripCount, "trip"))))
	return nil
}

// WriteEvents writes an event list in the specified format
func WriteEvents(w io.Writer, list *EventList, format OutputFormat, now time.Time, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, list)
	case FormatText:
		if list.Count == 0 {
			fmt.Fprintln(w, "No events found.")
			return nil
		}
		for _, evt := range list.Events {
			writeEventLine(w, evt, now, verbose)
		}
		fmt.Fprintf(w, "\nTotal: %s\n", plural(list.Count, "event"))
		if list.Filter != "" {
			fmt.Fprintln(w, dimStyle.Render("Filter: "+list.Filter))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeEventLine(w io.Writer, evt model.CalendarEvent, now time.Time, verbose bool) {
	style, ok := categoryStyles[evt.Category]
	if !ok {
		style = dimStyle
	}

	fmt.Fprintf(w, "  %-16s  %s  %s  %s\n",
		displayDate(evt.Date, now.Location()),
		evt.Title,
		style.Render("["+string(evt.Category)+"]"),
		dimStyle.Render("("+relative(evt.Date, now)+")"))
	if verbose {
		fmt.Fprintf(w, "       ID: %s\n", evt.ID)
	}
}

// WriteTrips writes a trip list in the specified format
func WriteTrips(w io.Writer, list *TripList, format OutputFormat, now time.Time, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, list)
	case FormatText:
		if list.Count == 0 {
			fmt.Fprintln(w, "No trips found.")
			return nil
		}
		for _, trip := range list.Trips {
			fmt.Fprintf(w, "  %-16s  %s  %s\n",
				displayDate(trip.Date, now.Location()),
				trip.Destination,
				dimStyle.Render("("+relative(trip.Date, now)+")"))
			if verbose {
				fmt.Fprintf(w, "       ID: %s\n", trip.ID)
				if trip.Image != "" {
					fmt.Fprintf(w, "       Image: %s\n", trip.Image)
				}
			}
		}
		fmt.Fprintf(w, "\nTotal: %s\n", plural(list.Count, "trip"))
		if list.Filter != "" {
			fmt.Fprintln(w, dimStyle.Render("Filter: "+list.Filter))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteRelationship writes the current settings in the specified format
func WriteRelationship(w io.Writer, rel model.RelationshipData, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, rel)
	case FormatText:
		fmt.Fprintf(w, "My name:       %s\n", rel.MyName)
		fmt.Fprintf(w, "Partner name:  %s\n", rel.PartnerName)
		fmt.Fprintf(w, "Start date:    %s\n", rel.StartDate)
		fmt.Fprintf(w, "Background:    %s\n", rel.BackgroundImageURL)
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteDiff writes what an import would change in the specified format
func WriteDiff(w io.Writer, diff *model.DiffResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, diff)
	case FormatText:
		if diff.IsEmpty() {
			fmt.Fprintln(w, "No changes.")
			return nil
		}
		for _, c := range diff.RelationshipChanges {
			fmt.Fprintf(w, "~ %s: %q -> %q\n", c.Field, c.OldValue, c.NewValue)
		}
		for _, evt := range diff.RemovedEvents {
			fmt.Fprintln(w, removedStyle.Render(fmt.Sprintf("- event %s  %s", evt.Date, evt.Title)))
		}
		for _, evt := range diff.AddedEvents {
			fmt.Fprintln(w, addedStyle.Render(fmt.Sprintf("+ event %s  %s", evt.Date, evt.Title)))
		}
		for _, trip := range diff.RemovedTrips {
			fmt.Fprintln(w, removedStyle.Render(fmt.Sprintf("- trip  %s  %s", trip.Date, trip.Destination)))
		}
		for _, trip := range diff.AddedTrips {
			fmt.Fprintln(w, addedStyle.Render(fmt.Sprintf("+ trip  %s  %s", trip.Date, trip.Destination)))
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// displayDate renders a stored date as "2024-03-22 20:00", or just the date for
// date-only values. Unparseable values are shown as stored.
func displayDate(s string, loc *time.Location) string {
	t, err := model.ParseDateIn(s, loc)
	if err != nil {
		return s
	}
	t = t.In(loc)
	if len(strings.TrimSpace(s)) == len(model.DateLayout) {
		return model.FormatDate(t)
	}
	return t.Format("2006-01-02 15:04")
}

// relative describes a stored date relative to now, e.g. "2 days from now".
func relative(s string, now time.Time) string {
	t, err := model.ParseDateIn(s, now.Location())
	if err != nil {
		return "date unknown"
	}
	if model.CalendarDaysBetween(now, t) == 0 {
		return "today"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}

// daysAway phrases a non-negative day count, e.g. "today", "tomorrow", "in 16 days".
func daysAway(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return "in " + plural(days, "day")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
