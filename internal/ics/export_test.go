package ics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthcal/internal/healthlog"
)

func TestExportMarkedDaysOnly(t *testing.T) {
	log, err := healthlog.ParseLog(`[highlights]
sick = { shape = "circle", colour = "#FF0000" }

[data]
2024-01-01 = { Mon = "" }
2024-01-02 = { Tue = "sick" }
2024-01-03 = { Wed = "" }
`)
	require.NoError(t, err)

	out := Export(log, "Health log")

	assert.Equal(t, 1, strings.Count(out, "BEGIN:VEVENT"))
	assert.Contains(t, out, "UID:20240102@healthcal")
	assert.Contains(t, out, "circle #FF0000")
	assert.Contains(t, out, "X-WR-CALNAME:Health log")
}

func TestExportEmptyWhenNothingMarked(t *testing.T) {
	log, err := healthlog.ParseLog(`[highlights]

[data]
2024-01-01 = { Mon = "" }
`)
	require.NoError(t, err)

	out := Export(log, "")
	assert.NotContains(t, out, "BEGIN:VEVENT")
	assert.Contains(t, out, "BEGIN:VCALENDAR")
}

func TestExportDeterministicUIDs(t *testing.T) {
	log, err := healthlog.ParseLog(`[highlights]
sick = { shape = "rectangle", colour = "#0000FF" }

[data]
2024-03-01 = { Fri = "sick" }
2024-03-02 = { Sat = "sick" }
`)
	require.NoError(t, err)

	first := Export(log, "x")
	second := Export(log, "x")
	assert.Equal(t, first, second)
	assert.Contains(t, first, "UID:20240301@healthcal")
	assert.Contains(t, first, "UID:20240302@healthcal")
}
