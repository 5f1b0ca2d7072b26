// Package quota computes organization monthly booking-hour usage.
package quota

import (
	"time"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

// Defaults for the organization monthly cap.
const (
	DefaultMonthlyLimit  = 30
	DefaultWarnThreshold = 10
)

// Calculator evaluates an organization's monthly hour usage against a fixed
// ceiling. The quota is derived state: it is recomputed from member bookings
// on every evaluation rather than tracked as a counter.
type Calculator struct {
	limit int
	warn  int
}

// NewCalculator creates a calculator. Non-positive arguments fall back to
// the defaults (30 hour cap, warning at 10 remaining).
func NewCalculator(limit, warnThreshold int) *Calculator {
	if limit <= 0 {
		limit = DefaultMonthlyLimit
	}
	if warnThreshold <= 0 {
		warnThreshold = DefaultWarnThreshold
	}
	return &Calculator{limit: limit, warn: warnThreshold}
}

// Limit returns the monthly hour ceiling.
func (c *Calculator) Limit() int { return c.limit }

// WarnThreshold returns the remaining-hours level at which organizations
// should be warned.
func (c *Calculator) WarnThreshold() int { return c.warn }

// MonthlyBookedHours sums booked hours over every booking whose date falls
// in the given calendar month and year. Callers pass the combined booking
// lists of an organization's members.
func MonthlyBookedHours(bookings []models.Booking, year int, month time.Month) int {
	total := 0
	for i := range bookings {
		if bookings[i].InMonth(year, month) {
			total += bookings[i].Duration()
		}
	}
	return total
}

// Remaining returns the hours left under the cap given existing usage.
func (c *Calculator) Remaining(existingHours int) int {
	return c.limit - existingHours
}

// Admits reports whether a booking of the given duration fits under the cap.
// The boundary is strict: a booking that would consume the exact remainder
// is rejected.
func (c *Calculator) Admits(duration, existingHours int) bool {
	return duration < c.Remaining(existingHours)
}
