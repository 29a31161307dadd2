package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/duration"
	"github.com/pfrederiksen/lovetrack/internal/model"
)

func TestPlural(t *testing.T) {
	tests := []struct {
		n    int
		unit string
		want string
	}{
		{0, "day", "0 days"},
		{1, "day", "1 day"},
		{2, "year", "2 years"},
	}

	for _, tt := range tests {
		if got := plural(tt.n, tt.unit); got != tt.want {
			t.Errorf("plural(%d, %q) = %q, want %q", tt.n, tt.unit, got, tt.want)
		}
	}
}

func TestDaysAway(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{0, "today"},
		{1, "tomorrow"},
		{2, "in 2 days"},
	}

	for _, tt := range tests {
		if got := daysAway(tt.days); got != tt.want {
			t.Errorf("daysAway(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}

func TestDisplayDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-22", "2024-03-22"},
		{"2024-03-22T20:00", "2024-03-22 20:00"},
		{"2024-03-22T19:00:00.000Z", "2024-03-22 19:00"},
		{"someday", "someday"},
	}

	for _, tt := range tests {
		if got := displayDate(tt.in, time.UTC); got != tt.want {
			t.Errorf("displayDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRelative(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in   string
		want string
	}{
		{"2024-03-06", "today"},
		{"2024-03-13T12:00", "1 week from now"},
		{"2024-03-04T12:00", "2 days ago"},
		{"?", "date unknown"},
	}

	for _, tt := range tests {
		if got := relative(tt.in, now); got != tt.want {
			t.Errorf("relative(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteStatus(t *testing.T) {
	now := time.Date(2024, 3, 6, 12, 0, 0, 0, time.UTC)
	result := &StatusResult{
		CheckedAt: now,
		Relationship: model.RelationshipData{
			MyName:      "Anna",
			PartnerName: "Luca",
			StartDate:   "2022-01-01",
		},
		Duration:          duration.Breakdown{Years: 2, Months: 2, Days: 5, TotalDays: 1795},
		NextAnniversary:   "2025-01-01",
		AnniversaryNumber: 3,
		Upcoming: []model.CalendarEvent{
			{ID: "1", Title: "Dinner", Date: "2024-03-22", Category: model.CategoryDate},
		},
		EventCount: 1,
	}

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteStatus(&buf, result, FormatText); err != nil {
			t.Fatalf("WriteStatus() error = %v", err)
		}
		out := buf.String()
		for _, want := range []string{
			"Anna ♥ Luca",
			"Together since 2022-01-01",
			"2 years, 2 months, 5 days",
			"1,795 days together",
			"3rd anniversary on 2025-01-01",
			"Next event: Dinner in 16 days",
			"1 event, 0 trips",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := WriteStatus(&buf, result, FormatJSON); err != nil {
			t.Fatalf("WriteStatus() error = %v", err)
		}
		var decoded map[string]interface{}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["next_anniversary"] != "2025-01-01" {
			t.Errorf("next_anniversary = %v", decoded["next_anniversary"])
		}
		if !strings.Contains(buf.String(), "\n  \"relationship\"") {
			t.Errorf("JSON is not indented with two spaces:\n%s", buf.String())
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if err := WriteStatus(&bytes.Buffer{}, result, "xml"); err == nil {
			t.Error("WriteStatus() expected error for unknown format")
		}
	})
}

func TestWriteEvents_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEvents(&buf, &EventList{}, FormatText, time.Now(), false); err != nil {
		t.Fatalf("WriteEvents() error = %v", err)
	}
	if got := buf.String(); got != "No events found.\n" {
		t.Errorf("WriteEvents() = %q", got)
	}
}

func TestWriteDiff(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDiff(&buf, &model.DiffResult{}, FormatText); err != nil {
		t.Fatalf("WriteDiff() error = %v", err)
	}
	if got := buf.String(); got != "No changes.\n" {
		t.Errorf("WriteDiff() = %q, want %q", got, "No changes.\n")
	}

	buf.Reset()
	diff := &model.DiffResult{
		RelationshipChanges: []model.FieldChange{{Field: "startDate", OldValue: "2022-01-01", NewValue: "2021-12-24"}},
		RemovedTrips:        []model.Trip{{ID: "t", Destination: "Rome", Date: "2023-09-10"}},
	}
	if err := WriteDiff(&buf, diff, FormatText); err != nil {
		t.Fatalf("WriteDiff() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `~ startDate: "2022-01-01" -> "2021-12-24"`) {
		t.Errorf("missing relationship change:\n%s", out)
	}
	if !strings.Contains(out, "- trip  2023-09-10  Rome") {
		t.Errorf("missing removed trip:\n%s", out)
	}
}
