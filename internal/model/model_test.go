package model

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		input   string
		want    Category
		wantErr bool
	}{
		{"date", CategoryDate, false},
		{" Important ", CategoryImportant, false},
		{"", CategoryActivity, false},
		{"ACTIVITY", CategoryActivity, false},
		{"party", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCategory(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("ParseCategory(%q) error should wrap ErrValidation, got %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCategory(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAppData_CloneIsDeep(t *testing.T) {
	original := &AppData{
		Relationship: RelationshipData{MyName: "Anna", PartnerName: "Luca", StartDate: "2022-01-15"},
		Events:       []CalendarEvent{{ID: "e1", Title: "Cena", Date: "2024-03-20T19:30", Category: CategoryDate}},
		Trips:        []Trip{{ID: "t1", Destination: "Parigi", Date: "2023-05-01"}},
	}

	clone := original.Clone()
	clone.Events[0].Title = "Pranzo"
	clone.Trips = append(clone.Trips, Trip{ID: "t2", Destination: "Roma", Date: "2023-06-01"})
	clone.Relationship.MyName = "Giulia"

	if original.Events[0].Title != "Cena" {
		t.Errorf("modifying clone changed original event title to %q", original.Events[0].Title)
	}
	if len(original.Trips) != 1 {
		t.Errorf("modifying clone changed original trips length to %d", len(original.Trips))
	}
	if original.Relationship.MyName != "Anna" {
		t.Errorf("modifying clone changed original name to %q", original.Relationship.MyName)
	}
}

func TestAppData_Normalize(t *testing.T) {
	d := &AppData{}
	d.Normalize()

	if d.Events == nil || d.Trips == nil {
		t.Fatal("Normalize() left nil collections")
	}
	if len(d.Events) != 0 || len(d.Trips) != 0 {
		t.Error("Normalize() should produce empty collections")
	}
}

func TestAppData_Find(t *testing.T) {
	d := NewAppData(RelationshipData{})
	d.Events = append(d.Events, CalendarEvent{ID: "a"}, CalendarEvent{ID: "b"})
	d.Trips = append(d.Trips, Trip{ID: "x"})

	if got := d.FindEvent("b"); got != 1 {
		t.Errorf("FindEvent(b) = %d, want 1", got)
	}
	if got := d.FindEvent("missing"); got != -1 {
		t.Errorf("FindEvent(missing) = %d, want -1", got)
	}
	if got := d.FindTrip("x"); got != 0 {
		t.Errorf("FindTrip(x) = %d, want 0", got)
	}
}

func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	previous := ""
	for i := 0; i < 50; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("NewID() returned duplicate %s", id)
		}
		seen[id] = true
		if previous != "" && strings.Compare(id, previous) < 0 {
			t.Errorf("NewID() = %s sorts before previous %s", id, previous)
		}
		previous = id
	}
}
