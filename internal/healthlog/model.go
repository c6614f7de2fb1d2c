package healthlog

import (
	"iter"
	"time"
)

// Shape selects how a highlighted day is drawn on the calendar.
type Shape uint8

const (
	// ShapeRectangle fills the whole day cell.
	ShapeRectangle Shape = iota
	// ShapeCircle draws a disc behind the day number.
	ShapeCircle
)

func (s Shape) String() string {
	switch s {
	case ShapeRectangle:
		return "rectangle"
	case ShapeCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Highlight is a reusable (shape, colour) annotation applied to days.
// Within a Log, highlights are addressed by position; the names used in
// the source document exist only during decoding.
type Highlight struct {
	Shape  Shape
	Colour Colour
}

// noHighlight is the Day sentinel for "this day carries no highlight".
const noHighlight = -1

// Day holds a back-reference into the owning Log's highlight table, or
// the sentinel. A Day never owns a Highlight; resolving one requires the
// Log it came from.
type Day struct {
	highlight int
}

// Log is the fully decoded health log: a start date, a highlight table,
// and one Day per calendar day from the start date onward with no gaps.
// A Log is immutable after decoding and safe for concurrent reads.
type Log struct {
	startDate  time.Time
	highlights []Highlight
	days       []Day
}

// StartDate returns the date of the first entry. The returned time is
// midnight UTC of that calendar day.
func (l *Log) StartDate() time.Time {
	return l.startDate
}

// Len returns the number of consecutive days the log covers.
func (l *Log) Len() int {
	return len(l.days)
}

// Highlights returns the highlight table in source order. Index i here is
// the same index Day back-references resolve against.
func (l *Log) Highlights() []Highlight {
	return l.highlights
}

// HighlightAt resolves day i (0-based from the start date) to its
// highlight, or nil if the day is unmarked or out of range.
func (l *Log) HighlightAt(i int) *Highlight {
	if i < 0 || i >= len(l.days) {
		return nil
	}
	idx := l.days[i].highlight
	if idx == noHighlight {
		return nil
	}
	return &l.highlights[idx]
}

// HighlightOn resolves a calendar date to its highlight, or nil for dates
// outside the log's range or unmarked days.
func (l *Log) HighlightOn(date time.Time) *Highlight {
	return l.HighlightAt(daysBetween(l.startDate, date))
}

// Days yields (date, highlight) for every covered day in order. The
// highlight is nil for unmarked days.
func (l *Log) Days() iter.Seq2[time.Time, *Highlight] {
	return func(yield func(time.Time, *Highlight) bool) {
		date := l.startDate
		for i := range l.days {
			if !yield(date, l.HighlightAt(i)) {
				return
			}
			date = date.AddDate(0, 0, 1)
		}
	}
}

// daysBetween returns the number of calendar days from a to b. Both are
// expected to be midnight UTC, as produced by the decoder.
func daysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}
