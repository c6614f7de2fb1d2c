package render

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcal/internal/healthlog"
)

func decode(t *testing.T, src string) *healthlog.Log {
	t.Helper()
	log, err := healthlog.ParseLog(src)
	require.NoError(t, err)
	return log
}

func TestCalendarSingleYear(t *testing.T) {
	log := decode(t, `[highlights]
sick = { shape = "circle", colour = "#FF0000" }
trip = { shape = "rectangle", colour = "#00AA55" }

[data]
2024-01-01 = { Mon = "" }
2024-01-02 = { Tue = "sick" }
2024-01-03 = { Wed = "trip" }
`)

	html, err := Calendar(log, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(html, `<section class="year">`))
	assert.Contains(t, html, ">2024<")
	// All twelve months are laid out even when only a few days are logged.
	assert.Contains(t, html, "January")
	assert.Contains(t, html, "December")
	assert.Equal(t, 12, strings.Count(html, `class="month-header"`))

	// Highlighted days carry their colour; shapes pick the cell class.
	assert.Contains(t, html, "#FF0000")
	assert.Contains(t, html, "#00AA55")
	assert.Contains(t, html, `class="circle"`)
	assert.Contains(t, html, `class="rect"`)

	// Capture waits for this attribute before printing.
	assert.Contains(t, html, `data-ready="true"`)
}

func TestCalendarSpansYears(t *testing.T) {
	log := decode(t, `[highlights]

[data]
2023-12-31 = { Sun = "" }
2024-01-01 = { Mon = "" }
`)

	html, err := Calendar(log, Options{})
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(html, `<section class="year">`))
	assert.Contains(t, html, ">2023<")
	assert.Contains(t, html, ">2024<")
}

func TestCalendarWeekStart(t *testing.T) {
	log := decode(t, `[highlights]

[data]
2024-01-01 = { Mon = "" }
`)

	html, err := Calendar(log, Options{WeekStart: "monday"})
	require.NoError(t, err)
	assert.Contains(t, html, "<th>M</th><th>T</th><th>W</th>")

	html, err = Calendar(log, Options{WeekStart: "sunday"})
	require.NoError(t, err)
	assert.Contains(t, html, "<th>S</th><th>M</th><th>T</th>")
}

func TestCalendarPageSize(t *testing.T) {
	log := decode(t, `[highlights]

[data]
2024-01-01 = { Mon = "" }
`)

	html, err := Calendar(log, Options{Page: "letter"})
	require.NoError(t, err)
	assert.Contains(t, html, "letter portrait")

	html, err = Calendar(log, Options{})
	require.NoError(t, err)
	assert.Contains(t, html, "A4 portrait")
}

func TestBuildMonthGrid(t *testing.T) {
	log := decode(t, `[highlights]

[data]
2024-01-01 = { Mon = "" }
`)

	// January 2024 starts on a Monday: no leading blanks, 5 weeks.
	mv := buildMonth(log, 2024, 1, false)
	require.Len(t, mv.Weeks, 5)
	assert.Equal(t, 1, mv.Weeks[0][0].Day)
	assert.Equal(t, 31, mv.Weeks[4][2].Day)
	// Trailing cells of the last week are blank fillers.
	assert.Equal(t, 0, mv.Weeks[4][6].Day)

	// Under a Sunday week start January 1st sits in column 1.
	mv = buildMonth(log, 2024, 1, true)
	assert.Equal(t, 0, mv.Weeks[0][0].Day)
	assert.Equal(t, 1, mv.Weeks[0][1].Day)
}
