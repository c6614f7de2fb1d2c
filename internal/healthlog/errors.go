package healthlog

import (
	"errors"
	"fmt"
	"time"
)

// Errors returned while decoding a log document. Every failure aborts the
// whole decode; the decoder wraps the cause in a ParseError carrying the
// source line so callers can surface "where" without losing "why".

var (
	// ErrEmptyLog is returned when the [data] table has no entries, so
	// no start date can be derived.
	ErrEmptyLog = errors.New("non-empty table required")

	// ErrColourPrefix is returned when a colour string does not start
	// with '#'.
	ErrColourPrefix = errors.New(`colour must start with "#"`)

	// ErrColourLength is returned when a colour string is not exactly
	// '#' plus six hex digits.
	ErrColourLength = errors.New("colour must be '#' followed by exactly 6 hex digits")
)

// ParseError locates a decode failure in the source document. The
// underlying cause is preserved for errors.Is / errors.As.
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("log line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// HexDigitError reports a colour byte outside the 0-9 / A-F class.
type HexDigitError struct {
	Digit byte
}

func (e *HexDigitError) Error() string {
	return fmt.Sprintf("invalid hex digit %q (uppercase 0-9 and A-F only)", e.Digit)
}

// LiteralError reports a value that had to equal a fixed literal.
type LiteralError struct {
	Expected string
	Found    string
}

func (e *LiteralError) Error() string {
	return fmt.Sprintf("expected %q, found %q", e.Expected, e.Found)
}

// DateError reports a date key that breaks the one-day-apart sequence.
// Gaps, duplicates, and reversals all surface here.
type DateError struct {
	Expected time.Time
	Found    time.Time
}

func (e *DateError) Error() string {
	return fmt.Sprintf("unexpected date %s; expected %s",
		e.Found.Format(dateLayout), e.Expected.Format(dateLayout))
}

// WeekdayError reports a day logged under a label that does not match the
// date's actual weekday.
type WeekdayError struct {
	Date  time.Time
	Found string
}

func (e *WeekdayError) Error() string {
	return fmt.Sprintf("%s is a %s, not %q",
		e.Date.Format(dateLayout), weekdayLabel(e.Date), e.Found)
}

// DuplicateHighlightError reports a highlight name defined twice.
type DuplicateHighlightError struct {
	Name string
}

func (e *DuplicateHighlightError) Error() string {
	return fmt.Sprintf("duplicate highlight %q", e.Name)
}

// UnknownHighlightError reports a day referencing a highlight that is not
// in the [highlights] table.
type UnknownHighlightError struct {
	Name string
}

func (e *UnknownHighlightError) Error() string {
	return fmt.Sprintf("unknown highlight %q", e.Name)
}
