package duration

import (
	"math"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		now   time.Time
		want  Breakdown
	}{
		{
			name:  "Two years two months five days",
			start: date(2022, time.January, 15),
			now:   date(2024, time.March, 20),
			want:  Breakdown{Years: 2, Months: 2, Days: 5, TotalDays: 795},
		},
		{
			name:  "Borrow across leap February",
			start: date(2024, time.January, 31),
			now:   date(2024, time.March, 1),
			want:  Breakdown{Years: 0, Months: 0, Days: 30, TotalDays: 30},
		},
		{
			name:  "Borrow across common February",
			start: date(2023, time.January, 31),
			now:   date(2023, time.March, 1),
			want:  Breakdown{Years: 0, Months: 0, Days: 29, TotalDays: 29},
		},
		{
			name:  "Same day",
			start: date(2024, time.March, 20),
			now:   date(2024, time.March, 20),
			want:  Breakdown{},
		},
		{
			name:  "Exact anniversary",
			start: date(2020, time.June, 1),
			now:   date(2024, time.June, 1),
			want:  Breakdown{Years: 4, Months: 0, Days: 0, TotalDays: 1461},
		},
		{
			name:  "Leap day start in a common year",
			start: date(2020, time.February, 29),
			now:   date(2021, time.February, 28),
			want:  Breakdown{Years: 0, Months: 11, Days: 30, TotalDays: 365},
		},
		{
			name:  "Month borrow wraps the year",
			start: date(2023, time.December, 20),
			now:   date(2024, time.January, 5),
			want:  Breakdown{Years: 0, Months: 0, Days: 16, TotalDays: 16},
		},
		{
			name:  "Future start is measured backwards",
			start: date(2024, time.March, 20),
			now:   date(2022, time.January, 15),
			want:  Breakdown{Years: 2, Months: 2, Days: 5, TotalDays: 795},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compute(tt.start, tt.now); got != tt.want {
				t.Errorf("Compute() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCompute_IgnoresTimeOfDay(t *testing.T) {
	start := time.Date(2022, time.January, 15, 23, 59, 0, 0, time.UTC)
	morning := time.Date(2024, time.March, 20, 0, 1, 0, 0, time.UTC)
	evening := time.Date(2024, time.March, 20, 23, 58, 0, 0, time.UTC)

	a := Compute(start, morning)
	b := Compute(start, evening)
	if a != b {
		t.Errorf("Compute() differs within one day: %+v vs %+v", a, b)
	}
	if a.TotalDays != 795 {
		t.Errorf("TotalDays = %d, want 795", a.TotalDays)
	}
}

func TestCompute_UsesNowLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)

	// 2024-03-19 20:00 UTC is already 2024-03-20 in Tokyo.
	now := time.Date(2024, time.March, 19, 20, 0, 0, 0, time.UTC).In(tokyo)
	start := time.Date(2022, time.January, 15, 0, 0, 0, 0, tokyo)

	got := Compute(start, now)
	want := Breakdown{Years: 2, Months: 2, Days: 5, TotalDays: 795}
	if got != want {
		t.Errorf("Compute() = %+v, want %+v", got, want)
	}
}

func TestCompute_Invariants(t *testing.T) {
	now := date(2024, time.March, 1)
	start := date(2015, time.January, 1)

	for d := start; d.Before(now); d = d.AddDate(0, 0, 3) {
		got := Compute(d, now)

		if got.Years < 0 || got.Months < 0 || got.Months > 11 || got.Days < 0 || got.Days > 30 {
			t.Fatalf("Compute(%s) = %+v out of range", d.Format("2006-01-02"), got)
		}

		wantTotal := int(now.Sub(d).Hours() / 24)
		if got.TotalDays != wantTotal {
			t.Fatalf("Compute(%s).TotalDays = %d, want %d", d.Format("2006-01-02"), got.TotalDays, wantTotal)
		}

		approx := float64(got.Years)*365.25 + float64(got.Months)*30.4 + float64(got.Days)
		if math.Abs(approx-float64(got.TotalDays)) > 5 {
			t.Fatalf("Compute(%s) = %+v approximates %.1f days", d.Format("2006-01-02"), got, approx)
		}
	}
}

func TestComputeString(t *testing.T) {
	now := time.Date(2024, time.March, 20, 18, 30, 0, 0, time.UTC)

	got, err := ComputeString("2022-01-15", now)
	if err != nil {
		t.Fatalf("ComputeString() error = %v", err)
	}
	if got.TotalDays != 795 {
		t.Errorf("ComputeString().TotalDays = %d, want 795", got.TotalDays)
	}

	if _, err := ComputeString("not a date", now); err == nil {
		t.Error("ComputeString(invalid) expected error")
	}
}

func TestCalculator_Idempotent(t *testing.T) {
	calls := 0
	clock := func() time.Time {
		calls++
		return time.Date(2024, time.March, 20, 8+calls, 0, 0, 0, time.UTC)
	}
	calc := NewCalculator(clock)

	first, err := calc.Compute("2022-01-15")
	if err != nil {
		t.Fatalf("Compute() error = %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := calc.Compute("2022-01-15")
		if err != nil {
			t.Fatalf("Compute() error = %v", err)
		}
		if again != first {
			t.Errorf("Compute() call %d = %+v, want %+v", i+2, again, first)
		}
	}
}

func TestDefaultStartDate(t *testing.T) {
	tests := []struct {
		now  time.Time
		want string
	}{
		{date(2024, time.March, 20), "2022-02-20"},
		{date(2024, time.January, 10), "2021-12-10"},
		{date(2026, time.October, 18), "2024-09-18"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := DefaultStartDate(tt.now); got != tt.want {
				t.Errorf("DefaultStartDate(%s) = %s, want %s", tt.now.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestBreakdown_String(t *testing.T) {
	b := Breakdown{Years: 2, Months: 2, Days: 5, TotalDays: 795}
	if got := b.String(); got != "2y 2m 5d (795 days)" {
		t.Errorf("String() = %q", got)
	}
}

func TestNextAnniversary(t *testing.T) {
	tests := []struct {
		name    string
		start   time.Time
		now     time.Time
		want    string
		wantNth int
	}{
		{
			name:    "Later this year",
			start:   date(2022, time.January, 15),
			now:     date(2024, time.March, 20),
			want:    "2025-01-15",
			wantNth: 3,
		},
		{
			name:    "Today",
			start:   date(2022, time.March, 20),
			now:     time.Date(2024, time.March, 20, 23, 0, 0, 0, time.UTC),
			want:    "2024-03-20",
			wantNth: 2,
		},
		{
			name:    "First year",
			start:   date(2024, time.February, 1),
			now:     date(2024, time.March, 20),
			want:    "2025-02-01",
			wantNth: 1,
		},
		{
			name:    "Leap day start",
			start:   date(2020, time.February, 29),
			now:     date(2022, time.February, 10),
			want:    "2022-03-01",
			wantNth: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, nth := NextAnniversary(tt.start, tt.now)
			if got.Format("2006-01-02") != tt.want || nth != tt.wantNth {
				t.Errorf("NextAnniversary() = %s (#%d), want %s (#%d)", got.Format("2006-01-02"), nth, tt.want, tt.wantNth)
			}
		})
	}
}
