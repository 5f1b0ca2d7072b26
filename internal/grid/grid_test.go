package grid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

func day(yearMonthDay ...int) time.Time {
	return time.Date(yearMonthDay[0], time.Month(yearMonthDay[1]), yearMonthDay[2], 0, 0, 0, 0, time.UTC)
}

func TestGrid_OccupyRelease_RoundTrip(t *testing.T) {
	g := New()
	date := day(2026, 9, 15)

	free, err := g.IsRangeFree("room-1", date, 9, 12)
	require.NoError(t, err)
	assert.True(t, free)

	require.NoError(t, g.Occupy("room-1", date, 9, 12))

	free, err = g.IsRangeFree("room-1", date, 9, 12)
	require.NoError(t, err)
	assert.False(t, free)

	// Partial overlap is also blocked.
	free, err = g.IsRangeFree("room-1", date, 11, 14)
	require.NoError(t, err)
	assert.False(t, free)

	require.NoError(t, g.Release("room-1", date, 9, 12))

	free, err = g.IsRangeFree("room-1", date, 9, 12)
	require.NoError(t, err)
	assert.True(t, free)
	assert.Equal(t, [models.HoursPerDay]byte{}, g.Snapshot("room-1", date))
}

func TestGrid_InvalidRanges(t *testing.T) {
	g := New()
	date := day(2026, 9, 15)

	cases := []struct {
		name       string
		start, end int
	}{
		{"negative start", -1, 5},
		{"end past midnight", 20, 25},
		{"empty range", 10, 10},
		{"inverted range", 14, 10},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.IsRangeFree("room-1", date, tc.start, tc.end)
			assert.ErrorIs(t, err, models.ErrInvalidInput)

			assert.ErrorIs(t, g.Occupy("room-1", date, tc.start, tc.end), models.ErrInvalidInput)
			assert.ErrorIs(t, g.Release("room-1", date, tc.start, tc.end), models.ErrInvalidInput)
		})
	}
}

func TestGrid_DatesAreIndependent(t *testing.T) {
	g := New()

	require.NoError(t, g.Occupy("room-1", day(2026, 9, 15), 9, 12))

	free, err := g.IsRangeFree("room-1", day(2026, 9, 16), 9, 12)
	require.NoError(t, err)
	assert.True(t, free, "a booking on one date must not block another date")
}

func TestGrid_RoomsAreIndependent(t *testing.T) {
	g := New()
	date := day(2026, 9, 15)

	require.NoError(t, g.Occupy("room-1", date, 9, 12))

	free, err := g.IsRangeFree("room-2", date, 9, 12)
	require.NoError(t, err)
	assert.True(t, free)
}

func TestGrid_ReleaseUntouchedDayIsNoop(t *testing.T) {
	g := New()
	assert.NoError(t, g.Release("room-1", day(2026, 9, 15), 9, 12))
}

func TestGrid_PartialRelease(t *testing.T) {
	g := New()
	date := day(2026, 9, 15)

	require.NoError(t, g.Occupy("room-1", date, 8, 12))
	require.NoError(t, g.Release("room-1", date, 8, 10))

	free, err := g.IsRangeFree("room-1", date, 8, 10)
	require.NoError(t, err)
	assert.True(t, free)

	free, err = g.IsRangeFree("room-1", date, 10, 12)
	require.NoError(t, err)
	assert.False(t, free)
}
