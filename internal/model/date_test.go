package model

import (
	"testing"
	"time"
)

func TestParseDateIn(t *testing.T) {
	rome, err := time.LoadLocation("Europe/Rome")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	tests := []struct {
		name     string
		input    string
		wantYear int
		wantMon  time.Month
		wantDay  int
		wantHour int
		wantLoc  *time.Location
		wantErr  bool
	}{
		{
			name:     "Date input 2022-01-15",
			input:    "2022-01-15",
			wantYear: 2022, wantMon: time.January, wantDay: 15,
			wantLoc: rome,
		},
		{
			name:     "Datetime-local input",
			input:    "2024-03-20T19:30",
			wantYear: 2024, wantMon: time.March, wantDay: 20, wantHour: 19,
			wantLoc: rome,
		},
		{
			name:     "Browser ISO string keeps UTC",
			input:    "2024-03-20T10:00:00.000Z",
			wantYear: 2024, wantMon: time.March, wantDay: 20, wantHour: 10,
			wantLoc: time.UTC,
		},
		{
			name:     "RFC3339 with offset",
			input:    "2023-07-01T08:15:00+02:00",
			wantYear: 2023, wantMon: time.July, wantDay: 1, wantHour: 8,
		},
		{
			name:     "Surrounding whitespace",
			input:    "  2021-12-31 ",
			wantYear: 2021, wantMon: time.December, wantDay: 31,
			wantLoc: rome,
		},
		{name: "Empty string", input: "", wantErr: true},
		{name: "Not a date", input: "yesterday", wantErr: true},
		{name: "Impossible day", input: "2023-02-30", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDateIn(tt.input, rome)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseDateIn(%q) = %v, want error", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDateIn(%q) error = %v", tt.input, err)
			}

			if got.Year() != tt.wantYear || got.Month() != tt.wantMon || got.Day() != tt.wantDay {
				t.Errorf("ParseDateIn(%q) = %v, want %d-%02d-%02d", tt.input, got, tt.wantYear, tt.wantMon, tt.wantDay)
			}
			if got.Hour() != tt.wantHour {
				t.Errorf("ParseDateIn(%q).Hour() = %d, want %d", tt.input, got.Hour(), tt.wantHour)
			}
			if tt.wantLoc != nil && got.Location().String() != tt.wantLoc.String() {
				t.Errorf("ParseDateIn(%q).Location() = %v, want %v", tt.input, got.Location(), tt.wantLoc)
			}
		})
	}
}

func TestIsCalendarDate(t *testing.T) {
	if !IsCalendarDate("2024-02-29") {
		t.Error("IsCalendarDate(2024-02-29) = false, want true")
	}
	if IsCalendarDate("2023-02-29") {
		t.Error("IsCalendarDate(2023-02-29) = true, want false")
	}
}

func TestCalendarDaysBetween(t *testing.T) {
	tests := []struct {
		name string
		a, b time.Time
		want int
	}{
		{
			name: "Same day different hours",
			a:    time.Date(2024, 3, 20, 0, 5, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 20, 23, 55, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "Late evening to early morning is one day",
			a:    time.Date(2024, 3, 20, 23, 59, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 21, 0, 1, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "Across leap day",
			a:    time.Date(2024, 2, 28, 12, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
			want: 2,
		},
		{
			name: "Backwards is negative",
			a:    time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC),
			b:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			want: -10,
		},
		{
			name: "Before the epoch",
			a:    time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC),
			b:    time.Date(1961, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 366,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalendarDaysBetween(tt.a, tt.b); got != tt.want {
				t.Errorf("CalendarDaysBetween() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCalendarEvent_IsUpcoming(t *testing.T) {
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		date string
		want bool
	}{
		{name: "Past event", date: "2024-03-19T20:00", want: false},
		{name: "Later today", date: "2024-03-20T20:00", want: true},
		{name: "Next year", date: "2025-01-01", want: true},
		{name: "Unparseable date", date: "soon", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := CalendarEvent{Date: tt.date}
			if got := evt.IsUpcoming(now); got != tt.want {
				t.Errorf("CalendarEvent.IsUpcoming() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCalendarEvent_DaysUntil(t *testing.T) {
	now := time.Date(2024, 3, 20, 22, 0, 0, 0, time.UTC)

	if got := (CalendarEvent{Date: "2024-03-21T08:00"}).DaysUntil(now); got != 1 {
		t.Errorf("DaysUntil(tomorrow) = %d, want 1", got)
	}
	if got := (CalendarEvent{Date: "2024-03-13"}).DaysUntil(now); got != -7 {
		t.Errorf("DaysUntil(last week) = %d, want -7", got)
	}
	if got := (CalendarEvent{Date: "garbage"}).DaysUntil(now); got != 0 {
		t.Errorf("DaysUntil(garbage) = %d, want 0", got)
	}
}
