// Package filter narrows the event and trip lists shown by the CLI.
//
// Criteria combine with AND:
//   - Date range (from/to dates, inclusive)
//   - Categories (events only; trips never carry a category)
//   - Text (case-insensitive substring of the event title or trip destination)
//   - Upcoming only (dated at or after now)
//
// Example usage:
//
//	from, to, _ := filter.ParseDateRange("Mar 1-15", time.Now())
//	f := filter.NewFilter()
//	f.From, f.To = from, to
//	f.Categories = []model.Category{model.CategoryDate}
//
//	events := f.ApplyEvents(all, time.Now())
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/model"
)

// Filter represents event and trip filtering criteria
type Filter struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	Categories []model.Category `json:"categories,omitempty"`

	// Case-insensitive substring match on title or destination
	Text string `json:"text,omitempty"`

	UpcomingOnly bool `json:"upcoming_only,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
func NewFilter() *Filter {
	return &Filter{
		Categories: []model.Category{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.From == nil &&
		f.To == nil &&
		len(f.Categories) == 0 &&
		strings.TrimSpace(f.Text) == "" &&
		!f.UpcomingOnly
}

// matchesDate applies the date range and upcoming criteria.
// Entries whose date cannot be parsed are kept.
func (f *Filter) matchesDate(t time.Time, ok bool, now time.Time) bool {
	if !ok {
		return true
	}
	if f.From != nil && t.Before(*f.From) {
		return false
	}
	if f.To != nil && t.After(*f.To) {
		return false
	}
	if f.UpcomingOnly && t.Before(now) {
		return false
	}
	return true
}

func (f *Filter) matchesText(s string) bool {
	text := strings.TrimSpace(f.Text)
	if text == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(text))
}

// MatchesEvent checks if an event matches all active criteria.
// An empty filter matches all events.
func (f *Filter) MatchesEvent(evt model.CalendarEvent, now time.Time) bool {
	if f.IsEmpty() {
		return true
	}

	t, ok := evt.Time(now.Location())
	if !f.matchesDate(t, ok, now) {
		return false
	}

	if len(f.Categories) > 0 {
		matched := false
		for _, c := range f.Categories {
			if evt.Category == c {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return f.matchesText(evt.Title)
}

// MatchesTrip checks if a trip matches all active criteria. A category criterion
// excludes every trip.
func (f *Filter) MatchesTrip(trip model.Trip, now time.Time) bool {
	if f.IsEmpty() {
		return true
	}
	if len(f.Categories) > 0 {
		return false
	}

	t, ok := trip.Time(now.Location())
	if !f.matchesDate(t, ok, now) {
		return false
	}

	return f.matchesText(trip.Destination)
}

// ApplyEvents returns the events matching the filter, preserving order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) ApplyEvents(events []model.CalendarEvent, now time.Time) []model.CalendarEvent {
	if f.IsEmpty() {
		return events
	}

	filtered := make([]model.CalendarEvent, 0, len(events))
	for _, evt := range events {
		if f.MatchesEvent(evt, now) {
			filtered = append(filtered, evt)
		}
	}
	return filtered
}

// ApplyTrips returns the trips matching the filter, preserving order.
// If the filter is empty, returns the original list unchanged.
func (f *Filter) ApplyTrips(trips []model.Trip, now time.Time) []model.Trip {
	if f.IsEmpty() {
		return trips
	}

	filtered := make([]model.Trip, 0, len(trips))
	for _, trip := range trips {
		if f.MatchesTrip(trip, now) {
			filtered = append(filtered, trip)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Returns "No active filters" if the filter is empty.
// Format: "From: Mar 1, 2024 | To: Mar 15, 2024 | Categories: date | Upcoming only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.From != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.From.Format("Jan 2, 2006")))
	}

	if f.To != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.To.Format("Jan 2, 2006")))
	}

	if len(f.Categories) > 0 {
		names := make([]string, len(f.Categories))
		for i, c := range f.Categories {
			names[i] = string(c)
		}
		parts = append(parts, fmt.Sprintf("Categories: %s", strings.Join(names, ", ")))
	}

	if text := strings.TrimSpace(f.Text); text != "" {
		parts = append(parts, fmt.Sprintf("Text: %q", text))
	}

	if f.UpcomingOnly {
		parts = append(parts, "Upcoming only")
	}

	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		Text:         f.Text,
		UpcomingOnly: f.UpcomingOnly,
	}

	if f.From != nil {
		from := *f.From
		clone.From = &from
	}

	if f.To != nil {
		to := *f.To
		clone.To = &to
	}

	clone.Categories = make([]model.Category, len(f.Categories))
	copy(clone.Categories, f.Categories)

	return clone
}
