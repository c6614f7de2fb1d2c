// Package render turns a decoded health log into a printable yearly
// calendar page: one page per covered year, twelve month grids, with
// marked days drawn as filled cells or discs in the highlight's colour.
// The output is self-contained HTML; capture turns it into a PDF.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"strings"
	"time"

	"healthcal/internal/healthlog"
)

//go:embed calendar.html
var calendarTemplate string

// Options control page geometry and week layout.
type Options struct {
	// WeekStart is "monday" (default) or "sunday".
	WeekStart string

	// Page is the print page size: "a4" (default) or "letter".
	Page string

	// Title is the document title. Defaults to "Calendar".
	Title string
}

type document struct {
	Title   string
	PageCSS template.CSS
	Years   []yearView
}

type yearView struct {
	Year     int
	Months   []monthView
	Weekdays []string
}

type monthView struct {
	Name  string
	Weeks [][]dayCell
}

// dayCell is one cell of a month grid. Day 0 renders as a blank filler
// cell at the edges of the month.
type dayCell struct {
	Day    int
	Colour string // highlight colour as CSS, empty for unmarked days
	Circle bool
}

// Calendar renders the full printable document for log.
func Calendar(log *healthlog.Log, opts Options) (string, error) {
	tpl, err := template.New("calendar").Parse(calendarTemplate)
	if err != nil {
		return "", fmt.Errorf("render: parse template: %w", err)
	}

	doc := document{
		Title:   opts.Title,
		PageCSS: pageCSS(opts.Page),
	}
	if doc.Title == "" {
		doc.Title = "Calendar"
	}

	sundayFirst := opts.WeekStart == "sunday"
	endDate := log.StartDate().AddDate(0, 0, log.Len()-1)
	for year := log.StartDate().Year(); year <= endDate.Year(); year++ {
		doc.Years = append(doc.Years, buildYear(log, year, sundayFirst))
	}

	var b strings.Builder
	if err := tpl.Execute(&b, doc); err != nil {
		return "", fmt.Errorf("render: execute template: %w", err)
	}
	return b.String(), nil
}

// WriteFile renders log and writes the HTML document to path.
func WriteFile(path string, log *healthlog.Log, opts Options) error {
	html, err := Calendar(log, opts)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		return fmt.Errorf("render: write %s: %w", path, err)
	}
	return nil
}

func pageCSS(page string) template.CSS {
	if page == "letter" {
		return "letter portrait"
	}
	return "A4 portrait"
}

func buildYear(log *healthlog.Log, year int, sundayFirst bool) yearView {
	yv := yearView{
		Year:     year,
		Weekdays: []string{"M", "T", "W", "T", "F", "S", "S"},
	}
	if sundayFirst {
		yv.Weekdays = []string{"S", "M", "T", "W", "T", "F", "S"}
	}
	for month := time.January; month <= time.December; month++ {
		yv.Months = append(yv.Months, buildMonth(log, year, month, sundayFirst))
	}
	return yv
}

func buildMonth(log *healthlog.Log, year int, month time.Month, sundayFirst bool) monthView {
	mv := monthView{Name: month.String()}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysIn := first.AddDate(0, 1, -1).Day()

	week := make([]dayCell, weekColumn(first.Weekday(), sundayFirst))
	for day := 1; day <= daysIn; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

		cell := dayCell{Day: day}
		if h := log.HighlightOn(date); h != nil {
			cell.Colour = h.Colour.String()
			cell.Circle = h.Shape == healthlog.ShapeCircle
		}
		week = append(week, cell)

		if len(week) == 7 {
			mv.Weeks = append(mv.Weeks, week)
			week = nil
		}
	}
	if len(week) > 0 {
		for len(week) < 7 {
			week = append(week, dayCell{})
		}
		mv.Weeks = append(mv.Weeks, week)
	}
	return mv
}

// weekColumn maps a weekday to its column under the configured week
// start.
func weekColumn(wd time.Weekday, sundayFirst bool) int {
	if sundayFirst {
		return int(wd)
	}
	return (int(wd) + 6) % 7
}
