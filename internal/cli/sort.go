package cli

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/model"
	"github.com/pfrederiksen/lovetrack/internal/tracker"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate     SortOrder = "date"
	SortByTitle    SortOrder = "title"
	SortByCategory SortOrder = "category"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case "", SortByDate:
		return SortByDate, nil
	case SortByTitle, SortByCategory:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be date, title or category)", s)
	}
}

// categoryRank orders categories by importance.
var categoryRank = map[model.Category]int{
	model.CategoryImportant: 0,
	model.CategoryDate:      1,
	model.CategoryActivity:  2,
}

// sortEvents sorts a slice of events based on the specified sort order
func sortEvents(events []model.CalendarEvent, sortOrder SortOrder, loc *time.Location) {
	// Date order first; the stable sorts below keep it as the tie-breaker.
	tracker.SortEventsByDate(events, loc)

	switch sortOrder {
	case SortByTitle:
		sort.SliceStable(events, func(i, j int) bool {
			return strings.ToLower(events[i].Title) < strings.ToLower(events[j].Title)
		})
	case SortByCategory:
		sort.SliceStable(events, func(i, j int) bool {
			return rank(events[i].Category) < rank(events[j].Category)
		})
	}
}

func rank(c model.Category) int {
	if r, ok := categoryRank[c]; ok {
		return r
	}
	return len(categoryRank)
}

// sortTrips sorts trips chronologically; trips with unparseable dates sort last.
func sortTrips(trips []model.Trip, loc *time.Location) {
	sort.SliceStable(trips, func(i, j int) bool {
		ti, okI := trips[i].Time(loc)
		tj, okJ := trips[j].Time(loc)
		if okI != okJ {
			return okI
		}
		if !okI {
			return false
		}
		return ti.Before(tj)
	})
}
