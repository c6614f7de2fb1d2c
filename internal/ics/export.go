// Package ics exports the marked days of a health log as an iCalendar
// document, so the same marks can be imported into a digital calendar
// alongside the printed one.
package ics

import (
	"fmt"
	"os"

	ical "github.com/arran4/golang-ical"

	"healthcal/internal/healthlog"
)

// Export serializes every highlighted day of log as an all-day VEVENT.
// Unmarked days produce no events. UIDs are derived from the date, so
// re-importing an updated export replaces events instead of duplicating
// them.
func Export(log *healthlog.Log, calendarName string) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId("-//healthcal//EN")
	if calendarName != "" {
		cal.SetName(calendarName)
		cal.SetXWRCalName(calendarName)
	}

	for date, h := range log.Days() {
		if h == nil {
			continue
		}

		ev := cal.AddEvent(date.Format("20060102") + "@healthcal")
		ev.SetSummary(fmt.Sprintf("Marked day (%s %s)", h.Shape, h.Colour))
		ev.SetAllDayStartAt(date)
		// DTEND is exclusive for all-day events.
		ev.SetAllDayEndAt(date.AddDate(0, 0, 1))
	}

	return cal.Serialize()
}

// WriteFile exports log to an .ics file at path.
func WriteFile(path string, log *healthlog.Log, calendarName string) error {
	if err := os.WriteFile(path, []byte(Export(log, calendarName)), 0o644); err != nil {
		return fmt.Errorf("ics: write %s: %w", path, err)
	}
	return nil
}
