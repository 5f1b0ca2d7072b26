// Package grid tracks hourly room occupancy.
package grid

import (
	"fmt"
	"sync"
	"time"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

type dayKey struct {
	roomID string
	day    string // YYYY-MM-DD
}

func keyFor(roomID string, date time.Time) dayKey {
	return dayKey{roomID: roomID, day: date.Format(models.DateLayout)}
}

// Grid holds one 24-slot occupancy array per (room, date) pair. Days are
// materialized lazily on first occupation and dropped again once fully free,
// so the map only carries days with active bookings.
type Grid struct {
	mu   sync.RWMutex
	days map[dayKey]*[models.HoursPerDay]byte
}

// New returns an empty grid.
func New() *Grid {
	return &Grid{days: make(map[dayKey]*[models.HoursPerDay]byte)}
}

func validateRange(start, end int) error {
	if start < 0 || end > models.HoursPerDay || start >= end {
		return fmt.Errorf("%w: hour range [%d, %d)", models.ErrInvalidInput, start, end)
	}
	return nil
}

// IsRangeFree reports whether every hour in [start, end) is unoccupied for
// the room on the given date.
func (g *Grid) IsRangeFree(roomID string, date time.Time, start, end int) (bool, error) {
	if err := validateRange(start, end); err != nil {
		return false, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	day, ok := g.days[keyFor(roomID, date)]
	if !ok {
		return true, nil
	}
	for hour := start; hour < end; hour++ {
		if day[hour] != 0 {
			return false, nil
		}
	}
	return true, nil
}

// Occupy marks every hour in [start, end) as booked.
func (g *Grid) Occupy(roomID string, date time.Time, start, end int) error {
	if err := validateRange(start, end); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := keyFor(roomID, date)
	day, ok := g.days[key]
	if !ok {
		day = &[models.HoursPerDay]byte{}
		g.days[key] = day
	}
	for hour := start; hour < end; hour++ {
		day[hour] = 1
	}
	return nil
}

// Release marks every hour in [start, end) as free again.
func (g *Grid) Release(roomID string, date time.Time, start, end int) error {
	if err := validateRange(start, end); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	key := keyFor(roomID, date)
	day, ok := g.days[key]
	if !ok {
		return nil
	}
	for hour := start; hour < end; hour++ {
		day[hour] = 0
	}
	for hour := 0; hour < models.HoursPerDay; hour++ {
		if day[hour] != 0 {
			return nil
		}
	}
	delete(g.days, key)
	return nil
}

// Snapshot returns a copy of the day's occupancy array. A day with no
// bookings reads as all zeroes.
func (g *Grid) Snapshot(roomID string, date time.Time) [models.HoursPerDay]byte {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if day, ok := g.days[keyFor(roomID, date)]; ok {
		return *day
	}
	return [models.HoursPerDay]byte{}
}
