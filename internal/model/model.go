package model

import (
	"fmt"
	"strings"
)

const (
	// DefaultMyName and DefaultPartnerName are the placeholders used on first run.
	DefaultMyName      = "Io"
	DefaultPartnerName = "Tu"

	// DefaultBackgroundImageURL is the background shown when none is configured.
	DefaultBackgroundImageURL = "https://images.unsplash.com/photo-1518199266791-5375a83190b7?q=80&w=2940&auto=format&fit=crop"
)

// Category classifies a calendar event
type Category string

const (
	CategoryDate      Category = "date"
	CategoryActivity  Category = "activity"
	CategoryImportant Category = "important"
)

// Categories lists every valid category in display order.
var Categories = []Category{CategoryDate, CategoryActivity, CategoryImportant}

// ParseCategory converts user input into a Category. An empty string yields CategoryActivity,
// the category the entry form assigns to new events.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return CategoryActivity, nil
	}
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown category %q (must be date, activity or important)", ErrValidation, s)
}

// RelationshipData holds the couple's names, the anniversary and the background image.
type RelationshipData struct {
	MyName             string `json:"myName" validate:"required"`
	PartnerName        string `json:"partnerName" validate:"required"`
	StartDate          string `json:"startDate" validate:"required,calendardate"`
	BackgroundImageURL string `json:"backgroundImageUrl"`
}

// CalendarEvent is a dated entry on the couple's calendar.
type CalendarEvent struct {
	ID       string   `json:"id" validate:"required"`
	Title    string   `json:"title" validate:"required"`
	Date     string   `json:"date" validate:"required,calendardate"`
	Category Category `json:"category" validate:"required,oneof=date activity important"`
}

// Trip is a travel destination the couple visited or plans to visit.
type Trip struct {
	ID          string `json:"id" validate:"required"`
	Destination string `json:"destination" validate:"required"`
	Date        string `json:"date" validate:"required,calendardate"`
	Image       string `json:"image,omitempty"`
}

// AppData is the persisted envelope.
type AppData struct {
	Relationship RelationshipData `json:"relationship"`
	Events       []CalendarEvent  `json:"events" validate:"dive"`
	Trips        []Trip           `json:"trips" validate:"dive"`
}

// NewAppData wraps relationship data in an envelope with no events or trips.
func NewAppData(rel RelationshipData) *AppData {
	return &AppData{
		Relationship: rel,
		Events:       []CalendarEvent{},
		Trips:        []Trip{},
	}
}

// Normalize replaces nil collections with empty ones so they serialize as [].
func (d *AppData) Normalize() {
	if d.Events == nil {
		d.Events = []CalendarEvent{}
	}
	if d.Trips == nil {
		d.Trips = []Trip{}
	}
}

// Clone returns a deep copy of the envelope.
func (d *AppData) Clone() *AppData {
	out := &AppData{
		Relationship: d.Relationship,
		Events:       make([]CalendarEvent, len(d.Events)),
		Trips:        make([]Trip, len(d.Trips)),
	}
	copy(out.Events, d.Events)
	copy(out.Trips, d.Trips)
	return out
}

// FindEvent returns the index of the event with the given id, or -1.
func (d *AppData) FindEvent(id string) int {
	for i, e := range d.Events {
		if e.ID == id {
			return i
		}
	}
	return -1
}

// FindTrip returns the index of the trip with the given id, or -1.
func (d *AppData) FindTrip(id string) int {
	for i, t := range d.Trips {
		if t.ID == id {
			return i
		}
	}
	return -1
}
