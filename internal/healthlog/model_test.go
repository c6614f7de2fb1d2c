package healthlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHighlightOn(t *testing.T) {
	log, err := ParseLog(threeDayLog)
	require.NoError(t, err)

	assert.Nil(t, log.HighlightOn(monday))
	assert.NotNil(t, log.HighlightOn(monday.AddDate(0, 0, 1)))
	assert.Nil(t, log.HighlightOn(monday.AddDate(0, 0, 2)))

	// Dates outside the covered range are simply unmarked.
	assert.Nil(t, log.HighlightOn(monday.AddDate(0, 0, -1)))
	assert.Nil(t, log.HighlightOn(monday.AddDate(0, 0, 3)))
}

func TestHighlightAtOutOfRange(t *testing.T) {
	log, err := ParseLog(threeDayLog)
	require.NoError(t, err)

	assert.Nil(t, log.HighlightAt(-1))
	assert.Nil(t, log.HighlightAt(3))
}

func TestDaysIterationOrder(t *testing.T) {
	log, err := ParseLog(threeDayLog)
	require.NoError(t, err)

	var dates []time.Time
	var marked []bool
	for d, h := range log.Days() {
		dates = append(dates, d)
		marked = append(marked, h != nil)
	}

	require.Len(t, dates, 3)
	assert.True(t, dates[0].Equal(monday))
	assert.True(t, dates[2].Equal(monday.AddDate(0, 0, 2)))
	assert.Equal(t, []bool{false, true, false}, marked)
}

func TestDaysEarlyBreak(t *testing.T) {
	log, err := ParseLog(threeDayLog)
	require.NoError(t, err)

	count := 0
	for range log.Days() {
		count++
		if count == 2 {
			break
		}
	}
	assert.Equal(t, 2, count)
}

func TestShapeString(t *testing.T) {
	assert.Equal(t, "rectangle", ShapeRectangle.String())
	assert.Equal(t, "circle", ShapeCircle.String())
}
