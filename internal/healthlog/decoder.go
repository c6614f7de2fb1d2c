package healthlog

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// weekdayLabel returns the three-letter label a date must be logged
// under: Mon, Tue, Wed, Thu, Fri, Sat or Sun.
func weekdayLabel(t time.Time) string {
	return t.Weekday().String()[:3]
}

// DecodeLog decodes a log document from r in a single forward pass.
//
// The document must contain exactly two tables in order: [highlights],
// mapping names to {shape, colour} records, then [data], mapping
// consecutive calendar dates to {Weekday = annotation} entries. All
// structural rules (table order, date continuity, weekday labels, unique
// names, known references, colour encoding) are enforced as the lines are
// consumed; the first violation aborts the decode and is returned as a
// *ParseError wrapping the specific cause.
func DecodeLog(r io.Reader) (*Log, error) {
	d := &decoder{sc: bufio.NewScanner(r)}
	if err := d.advance(); err != nil {
		return nil, err
	}

	if err := d.expectHeader("highlights"); err != nil {
		return nil, err
	}
	if err := d.advance(); err != nil {
		return nil, err
	}
	highlights, index, err := d.decodeHighlights()
	if err != nil {
		return nil, err
	}

	if err := d.expectHeader("data"); err != nil {
		return nil, err
	}
	if err := d.advance(); err != nil {
		return nil, err
	}
	startDate, days, err := d.decodeDays(index)
	if err != nil {
		return nil, err
	}

	return &Log{
		startDate:  startDate,
		highlights: highlights,
		days:       days,
	}, nil
}

// ParseLog decodes a log document held in memory.
func ParseLog(src string) (*Log, error) {
	return DecodeLog(strings.NewReader(src))
}

// decoder is a cursor over the significant lines of the document. Lines
// are consumed exactly once; there is no peeking or backtracking.
type decoder struct {
	sc   *bufio.Scanner
	line int    // line number of cur (1-based)
	cur  string // current significant line, trimmed; valid while !done
	done bool
}

// advance moves the cursor to the next non-blank, non-comment line.
func (d *decoder) advance() error {
	for d.sc.Scan() {
		d.line++
		line := strings.TrimSpace(d.sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		d.cur = line
		return nil
	}
	if err := d.sc.Err(); err != nil {
		return fmt.Errorf("reading log: %w", err)
	}
	d.done = true
	return nil
}

// fail wraps err with the position of the current line.
func (d *decoder) fail(err error) error {
	return &ParseError{Line: d.line, Err: err}
}

// expectHeader requires the current line to be exactly "[name]".
func (d *decoder) expectHeader(name string) error {
	want := "[" + name + "]"
	if d.done {
		return d.fail(&LiteralError{Expected: want, Found: "end of document"})
	}
	if err := matchLiteral(d.cur, want); err != nil {
		return d.fail(err)
	}
	return nil
}

// matchLiteral is the exact-string decode primitive: found must equal
// want, and the error carries both for diagnostics.
func matchLiteral(found, want string) error {
	if found != want {
		return &LiteralError{Expected: want, Found: found}
	}
	return nil
}

// matchDate is the exact-value decode primitive for date keys.
func matchDate(found, want time.Time) error {
	if !found.Equal(want) {
		return &DateError{Expected: want, Found: found}
	}
	return nil
}

// decodeHighlights consumes the [highlights] table body: one
// name = { shape = ..., colour = ... } entry per line, until the next
// table header (left in the cursor) or the end of the document. It
// returns the dense highlight table and the transient name -> index
// lookup used to resolve day annotations.
func (d *decoder) decodeHighlights() ([]Highlight, map[string]int, error) {
	var highlights []Highlight
	index := make(map[string]int)

	for !d.done && !isHeader(d.cur) {
		name, fields, err := parseEntry(d.cur)
		if err != nil {
			return nil, nil, d.fail(err)
		}
		if _, seen := index[name]; seen {
			return nil, nil, d.fail(&DuplicateHighlightError{Name: name})
		}

		h, err := decodeHighlight(name, fields)
		if err != nil {
			return nil, nil, d.fail(err)
		}

		index[name] = len(highlights)
		highlights = append(highlights, h)

		if err := d.advance(); err != nil {
			return nil, nil, err
		}
	}
	return highlights, index, nil
}

// decodeHighlight decodes one {shape, colour} record. Both fields are
// required, in either order; anything else in the record is an error.
func decodeHighlight(name string, fields []field) (Highlight, error) {
	var h Highlight
	var haveShape, haveColour bool

	for _, f := range fields {
		switch f.key {
		case "shape":
			if haveShape {
				return h, fmt.Errorf("highlight %q: duplicate field %q", name, f.key)
			}
			haveShape = true
			switch f.val {
			case "rectangle":
				h.Shape = ShapeRectangle
			case "circle":
				h.Shape = ShapeCircle
			default:
				return h, fmt.Errorf("highlight %q: shape must be \"rectangle\" or \"circle\", found %q", name, f.val)
			}
		case "colour":
			if haveColour {
				return h, fmt.Errorf("highlight %q: duplicate field %q", name, f.key)
			}
			haveColour = true
			c, err := ParseColour(f.val)
			if err != nil {
				return h, fmt.Errorf("highlight %q: %w", name, err)
			}
			h.Colour = c
		default:
			return h, fmt.Errorf("highlight %q: unknown field %q", name, f.key)
		}
	}

	if !haveShape {
		return h, fmt.Errorf("highlight %q: missing field \"shape\"", name)
	}
	if !haveColour {
		return h, fmt.Errorf("highlight %q: missing field \"colour\"", name)
	}
	return h, nil
}

// decodeDays consumes the [data] table body. The first key fixes the
// start date; every following key must be exactly one day later, and
// every value must be a one-entry record keyed by the date's weekday
// label. Annotations are resolved against index as they are read.
func (d *decoder) decodeDays(index map[string]int) (time.Time, []Day, error) {
	var startDate, current time.Time
	var days []Day

	if d.done {
		return startDate, nil, d.fail(ErrEmptyLog)
	}

	for !d.done {
		if isHeader(d.cur) {
			return startDate, nil, d.fail(fmt.Errorf("unexpected extra table %s", d.cur))
		}

		key, fields, err := parseEntry(d.cur)
		if err != nil {
			return startDate, nil, d.fail(err)
		}
		date, err := time.Parse(dateLayout, key)
		if err != nil {
			return startDate, nil, d.fail(fmt.Errorf("invalid date %q: %w", key, err))
		}

		if days == nil {
			startDate = date
			current = date
		} else {
			current = current.AddDate(0, 0, 1)
			if err := matchDate(date, current); err != nil {
				return startDate, nil, d.fail(err)
			}
		}

		if len(fields) != 1 {
			return startDate, nil, d.fail(fmt.Errorf("day %s: entry must hold exactly one weekday field, found %d", key, len(fields)))
		}
		if fields[0].key != weekdayLabel(current) {
			return startDate, nil, d.fail(&WeekdayError{Date: current, Found: fields[0].key})
		}

		day, err := decodeDay(fields[0].val, index)
		if err != nil {
			return startDate, nil, d.fail(err)
		}
		days = append(days, day)

		if err := d.advance(); err != nil {
			return startDate, nil, err
		}
	}

	return startDate, days, nil
}

// decodeDay resolves a day annotation: the empty string means no
// highlight, anything else must name a decoded highlight.
func decodeDay(val string, index map[string]int) (Day, error) {
	if val == "" {
		return Day{highlight: noHighlight}, nil
	}
	idx, ok := index[val]
	if !ok {
		return Day{}, &UnknownHighlightError{Name: val}
	}
	return Day{highlight: idx}, nil
}

func isHeader(line string) bool {
	return strings.HasPrefix(line, "[")
}

// field is one key = "value" pair of an inline record.
type field struct {
	key string
	val string
}

// parseEntry splits a `key = { ... }` line into the (possibly quoted)
// key and the record's fields in source order.
func parseEntry(line string) (string, []field, error) {
	key, rest, err := scanKey(line)
	if err != nil {
		return "", nil, err
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, "=") {
		return "", nil, fmt.Errorf("entry %q: expected '=' after key", key)
	}
	rest = strings.TrimSpace(rest[1:])

	fields, err := parseInlineTable(rest)
	if err != nil {
		return "", nil, fmt.Errorf("entry %q: %w", key, err)
	}
	return key, fields, nil
}

// scanKey reads a bare or double-quoted key from the front of s and
// returns it with the unconsumed remainder.
func scanKey(s string) (string, string, error) {
	if s == "" {
		return "", "", fmt.Errorf("empty entry")
	}
	if s[0] == '"' {
		end := strings.IndexByte(s[1:], '"')
		if end < 0 {
			return "", "", fmt.Errorf("unterminated quoted key in %q", s)
		}
		return s[1 : 1+end], s[2+end:], nil
	}
	i := 0
	for i < len(s) && isBareKeyByte(s[i]) {
		i++
	}
	if i == 0 {
		return "", "", fmt.Errorf("invalid key in %q", s)
	}
	return s[:i], s[i:], nil
}

func isBareKeyByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9':
		return true
	case b == '-' || b == '_':
		return true
	default:
		return false
	}
}

// parseInlineTable decodes `{ key = "value", ... }` into ordered fields.
// Values must be double-quoted strings; escape sequences are rejected
// (no annotation in this schema needs them).
func parseInlineTable(s string) ([]field, error) {
	if !strings.HasPrefix(s, "{") {
		return nil, fmt.Errorf("expected inline record, found %q", s)
	}
	if !strings.HasSuffix(s, "}") {
		return nil, fmt.Errorf("unterminated inline record %q", s)
	}
	body := strings.TrimSpace(s[1 : len(s)-1])
	if body == "" {
		return nil, nil
	}

	var fields []field
	for {
		key, rest, err := scanKey(body)
		if err != nil {
			return nil, err
		}
		rest = strings.TrimSpace(rest)
		if !strings.HasPrefix(rest, "=") {
			return nil, fmt.Errorf("expected '=' after field %q", key)
		}
		rest = strings.TrimSpace(rest[1:])

		val, rest, err := scanString(rest)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", key, err)
		}
		fields = append(fields, field{key: key, val: val})

		rest = strings.TrimSpace(rest)
		if rest == "" {
			return fields, nil
		}
		if !strings.HasPrefix(rest, ",") {
			return nil, fmt.Errorf("expected ',' between fields, found %q", rest)
		}
		body = strings.TrimSpace(rest[1:])
		if body == "" {
			return nil, fmt.Errorf("trailing ',' in inline record")
		}
	}
}

// scanString reads a double-quoted string from the front of s.
func scanString(s string) (string, string, error) {
	if s == "" || s[0] != '"' {
		return "", "", fmt.Errorf("expected quoted string, found %q", s)
	}
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			return "", "", fmt.Errorf("escape sequences are not supported in %q", s)
		case '"':
			return s[1:i], s[i+1:], nil
		}
	}
	return "", "", fmt.Errorf("unterminated string %q", s)
}
