package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/model"
)

const monthPattern = `(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|sept|september|oct|october|nov|november|dec|december)`

var (
	reISORange   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s*\.\.\s*(\d{4}-\d{2}-\d{2})$`)
	reSameMonth  = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*(\d{1,2})(?:\s+(\d{4}))?$`)
	reCrossMonth = regexp.MustCompile(`(?i)^` + monthPattern + `\s+(\d{1,2})\s*-\s*` + monthPattern + `\s+(\d{1,2})(?:\s+(\d{4}))?$`)
	reMonth      = regexp.MustCompile(`(?i)^` + monthPattern + `(?:\s+(\d{4}))?$`)
	reYear       = regexp.MustCompile(`^(\d{4})$`)
)

// ParseDateRange parses a date range string into start and end times.
//
// Supported formats:
//   - "2024-03-01..2024-03-31" - Explicit dates
//   - "Mar 1-15" or "March 1-15 2023" - Same month, different days
//   - "March 1 - April 15" - Different months
//   - "March" or "March 2023" - Entire month
//   - "2023" - Entire year
//
// When no year is given the year of now is used; for cross-month ranges whose end month
// is before the start month, the end falls in the following year.
//
// Times are in now's location. Start time is at 00:00:00, end time is at 23:59:59.
func ParseDateRange(input string, now time.Time) (*time.Time, *time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, nil, fmt.Errorf("date range cannot be empty")
	}
	loc := now.Location()

	// Format 1: "2024-03-01..2024-03-31"
	if matches := reISORange.FindStringSubmatch(input); matches != nil {
		from, err := time.ParseInLocation(model.DateLayout, matches[1], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[1])
		}
		end, err := time.ParseInLocation(model.DateLayout, matches[2], loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid date: %s", matches[2])
		}
		return ordered(from, endOfDay(end))
	}

	// Format 2: "Mar 1-15" or "March 1-15 2023"
	if matches := reSameMonth.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		day1, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		day2, err := parseDay(matches[3])
		if err != nil {
			return nil, nil, err
		}
		year := yearOr(matches[4], now)

		from := time.Date(year, month, day1, 0, 0, 0, 0, loc)
		to := time.Date(year, month, day2, 23, 59, 59, 0, loc)
		return ordered(from, to)
	}

	// Format 3: "Mar 1 - Apr 15" or "Dec 20 - Jan 6 2023"
	if matches := reCrossMonth.FindStringSubmatch(input); matches != nil {
		month1 := parseMonth(matches[1])
		day1, err := parseDay(matches[2])
		if err != nil {
			return nil, nil, err
		}
		month2 := parseMonth(matches[3])
		day2, err := parseDay(matches[4])
		if err != nil {
			return nil, nil, err
		}

		year1 := yearOr(matches[5], now)
		year2 := year1
		// If month2 < month1, assume month2 is in the next year
		if month2 < month1 {
			year2++
		}

		from := time.Date(year1, month1, day1, 0, 0, 0, 0, loc)
		to := time.Date(year2, month2, day2, 23, 59, 59, 0, loc)
		return ordered(from, to)
	}

	// Format 4: "March" or "March 2023" (entire month)
	if matches := reMonth.FindStringSubmatch(input); matches != nil {
		month := parseMonth(matches[1])
		year := yearOr(matches[2], now)

		from := time.Date(year, month, 1, 0, 0, 0, 0, loc)
		// Last day of month
		to := time.Date(year, month+1, 0, 23, 59, 59, 0, loc)
		return &from, &to, nil
	}

	// Format 5: "2023" (entire year)
	if matches := reYear.FindStringSubmatch(input); matches != nil {
		year, _ := strconv.Atoi(matches[1])
		from := time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		to := time.Date(year, time.December, 31, 23, 59, 59, 0, loc)
		return &from, &to, nil
	}

	return nil, nil, fmt.Errorf("invalid date range format. Use '2024-03-01..2024-03-31', 'Mar 1-15', 'March 1 - April 15', 'March' or '2024'")
}

// ParseCategories parses a comma-separated category list such as "date,important".
func ParseCategories(input string) ([]model.Category, error) {
	categories := []model.Category{}
	for _, part := range strings.Split(input, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		c, err := model.ParseCategory(part)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, nil
}

func ordered(from, to time.Time) (*time.Time, *time.Time, error) {
	if from.After(to) {
		return nil, nil, fmt.Errorf("start date must be before end date")
	}
	return &from, &to, nil
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}

func parseDay(s string) (int, error) {
	day, err := strconv.Atoi(s)
	if err != nil || day < 1 || day > 31 {
		return 0, fmt.Errorf("invalid day: %s", s)
	}
	return day, nil
}

func yearOr(s string, now time.Time) int {
	if s == "" {
		return now.Year()
	}
	year, err := strconv.Atoi(s)
	if err != nil {
		return now.Year()
	}
	return year
}

// parseMonth converts a month name to time.Month
func parseMonth(name string) time.Month {
	name = strings.ToLower(strings.TrimSpace(name))

	months := map[string]time.Month{
		"jan": time.January, "january": time.January,
		"feb": time.February, "february": time.February,
		"mar": time.March, "march": time.March,
		"apr": time.April, "april": time.April,
		"may": time.May,
		"jun": time.June, "june": time.June,
		"jul": time.July, "july": time.July,
		"aug": time.August, "august": time.August,
		"sep": time.September, "sept": time.September, "september": time.September,
		"oct": time.October, "october": time.October,
		"nov": time.November, "november": time.November,
		"dec": time.December, "december": time.December,
	}

	return months[name]
}
