package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/lovetrack/internal/model"
)

const (
	prodID    = "-//LoveTrack//lovetrack//EN"
	uidDomain = "lovetrack"

	eventLength = time.Hour
)

// GenerateICS generates an iCalendar (.ics) file holding the anniversary, every event
// and every trip in data. Dates are read in now's location. Entries whose date cannot
// be parsed are left out. Date-only entries become all-day events.
func GenerateICS(data *model.AppData, now time.Time) string {
	var ics strings.Builder
	loc := now.Location()

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString(fmt.Sprintf("PRODID:%s\r\n", prodID))
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	ics.WriteString(fmt.Sprintf("X-WR-CALNAME:%s\r\n", escapeICS(CalendarName(data.Relationship))))

	stamp := formatICSTime(now)

	if start, err := model.ParseDateIn(data.Relationship.StartDate, loc); err == nil {
		writeAnniversary(&ics, data.Relationship, start.In(loc), stamp)
	}

	for _, evt := range data.Events {
		start, ok := evt.Time(loc)
		if !ok {
			continue
		}

		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", evt.ID, uidDomain))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		if isDateOnly(evt.Date) {
			writeAllDay(&ics, start)
		} else {
			ics.WriteString(fmt.Sprintf("DTSTART:%s\r\n", formatICSTime(start)))
			ics.WriteString(fmt.Sprintf("DTEND:%s\r\n", formatICSTime(start.Add(eventLength))))
		}
		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS(evt.Title)))
		ics.WriteString(fmt.Sprintf("CATEGORIES:%s\r\n", strings.ToUpper(string(evt.Category))))
		if evt.Category == model.CategoryImportant {
			ics.WriteString("PRIORITY:1\r\n")
		}
		ics.WriteString("STATUS:CONFIRMED\r\n")
		ics.WriteString("TRANSP:OPAQUE\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	for _, trip := range data.Trips {
		start, ok := trip.Time(loc)
		if !ok {
			continue
		}

		ics.WriteString("BEGIN:VEVENT\r\n")
		ics.WriteString(fmt.Sprintf("UID:%s@%s\r\n", trip.ID, uidDomain))
		ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
		writeAllDay(&ics, start)
		ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS("Trip: "+trip.Destination)))
		ics.WriteString(fmt.Sprintf("LOCATION:%s\r\n", escapeICS(trip.Destination)))
		if trip.Image != "" {
			ics.WriteString(fmt.Sprintf("ATTACH:%s\r\n", trip.Image))
		}
		ics.WriteString("CATEGORIES:TRIP\r\n")
		ics.WriteString("TRANSP:TRANSPARENT\r\n")
		ics.WriteString("END:VEVENT\r\n")
	}

	ics.WriteString("END:VCALENDAR\r\n")

	return ics.String()
}

// CalendarName returns the display name of the exported calendar, e.g. "Anna & Luca".
func CalendarName(rel model.RelationshipData) string {
	return fmt.Sprintf("%s & %s", rel.MyName, rel.PartnerName)
}

// writeAnniversary adds a yearly all-day event on the start date.
func writeAnniversary(ics *strings.Builder, rel model.RelationshipData, start time.Time, stamp string) {
	ics.WriteString("BEGIN:VEVENT\r\n")
	ics.WriteString(fmt.Sprintf("UID:anniversary@%s\r\n", uidDomain))
	ics.WriteString(fmt.Sprintf("DTSTAMP:%s\r\n", stamp))
	writeAllDay(ics, start)
	ics.WriteString("RRULE:FREQ=YEARLY\r\n")
	ics.WriteString(fmt.Sprintf("SUMMARY:%s\r\n", escapeICS("Anniversary: "+CalendarName(rel))))
	ics.WriteString("CATEGORIES:ANNIVERSARY\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

func writeAllDay(ics *strings.Builder, day time.Time) {
	ics.WriteString(fmt.Sprintf("DTSTART;VALUE=DATE:%s\r\n", formatICSDate(day)))
	ics.WriteString(fmt.Sprintf("DTEND;VALUE=DATE:%s\r\n", formatICSDate(day.AddDate(0, 0, 1))))
}

func isDateOnly(s string) bool {
	_, err := time.Parse(model.DateLayout, strings.TrimSpace(s))
	return err == nil
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// formatICSDate formats the calendar date of t as an iCalendar date value
func formatICSDate(t time.Time) string {
	return t.Format("20060102")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\r\n", "\\n")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
