// Package booking orchestrates slot allocation against the availability
// grid and the organization monthly quota.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/aarti98/ConferenceBookingSystem/internal/events"
	"github.com/aarti98/ConferenceBookingSystem/internal/grid"
	"github.com/aarti98/ConferenceBookingSystem/internal/metrics"
	"github.com/aarti98/ConferenceBookingSystem/internal/models"
	"github.com/aarti98/ConferenceBookingSystem/internal/notify"
	"github.com/aarti98/ConferenceBookingSystem/internal/quota"
	"github.com/aarti98/ConferenceBookingSystem/internal/store"
)

// DefaultCancelGrace is the minimum time before a booking's start at which
// it can still be cancelled.
const DefaultCancelGrace = 15 * time.Minute

// SessionResolver maps a session token to a live user.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*models.User, error)
}

// Confirmation is returned after a successful booking or cancellation.
type Confirmation struct {
	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	Date      time.Time `json:"date"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
	HoursUsed int       `json:"org_hours_used"`
	Remaining int       `json:"org_hours_remaining"`
}

// RoomRef identifies a room in search results.
type RoomRef struct {
	RoomID   string `json:"room_id"`
	FloorID  string `json:"floor_id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Engine executes booking attempts. Each attempt runs its availability
// check, quota check and mutation under a lock per room plus a lock per
// organization, so concurrent attempts on the same room or organization
// serialize while unrelated rooms book in parallel.
type Engine struct {
	dir      *store.Store
	grid     *grid.Grid
	calc     *quota.Calculator
	sessions SessionResolver
	notifier notify.Notifier
	bus      *events.Bus

	roomLocks *lockTable
	orgLocks  *lockTable

	cancelGrace time.Duration
	now         func() time.Time
	logger      zerolog.Logger
}

// New constructs the engine. A nil bus disables event publication; a zero
// grace falls back to 15 minutes.
func New(dir *store.Store, g *grid.Grid, calc *quota.Calculator, sessions SessionResolver, notifier notify.Notifier, bus *events.Bus, cancelGrace time.Duration, logger zerolog.Logger) *Engine {
	if cancelGrace <= 0 {
		cancelGrace = DefaultCancelGrace
	}
	return &Engine{
		dir:         dir,
		grid:        g,
		calc:        calc,
		sessions:    sessions,
		notifier:    notifier,
		bus:         bus,
		roomLocks:   newLockTable(),
		orgLocks:    newLockTable(),
		cancelGrace: cancelGrace,
		now:         time.Now,
		logger:      logger.With().Str("component", "booking").Logger(),
	}
}

func parseDate(value string) (time.Time, error) {
	date, err := time.Parse(models.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q, expected YYYY-MM-DD", models.ErrInvalidInput, value)
	}
	return date, nil
}

// BookRoom books [startHour, endHour) in the room on the given date for the
// session's user. On success the organization's quota standing is returned
// and admins are alerted asynchronously when the organization nears or
// passes the monthly limit.
func (e *Engine) BookRoom(ctx context.Context, token, roomID string, startHour, endHour int, dateStr string) (*Confirmation, error) {
	user, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}
	room, err := e.dir.RoomByID(roomID)
	if err != nil {
		metrics.IncBookingRejected("room_not_found")
		return nil, err
	}
	org, err := e.dir.OrganizationByID(user.OrgID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockPair(room.ID, org.ID)
	committed := false
	defer func() {
		if !committed {
			unlock()
		}
	}()

	free, err := e.grid.IsRangeFree(room.ID, date, startHour, endHour)
	if err != nil {
		metrics.IncBookingRejected("invalid_range")
		return nil, err
	}
	if !free {
		metrics.IncBookingRejected("slot_conflict")
		return nil, fmt.Errorf("%w: room is not available at the requested time", models.ErrConflict)
	}
	if !user.HasPermission(models.PermissionBook) {
		metrics.IncBookingRejected("permission")
		return nil, fmt.Errorf("%w: you do not have the necessary permissions", models.ErrPermissionDenied)
	}

	orgBookings, err := e.dir.OrgBookings(org.ID)
	if err != nil {
		return nil, err
	}
	existingHours := quota.MonthlyBookedHours(orgBookings, date.Year(), date.Month())
	remaining := e.calc.Remaining(existingHours)
	duration := endHour - startHour
	if !e.calc.Admits(duration, existingHours) {
		metrics.IncBookingRejected("quota")
		return nil, fmt.Errorf("%w: organization has %d of %d monthly hours booked", models.ErrQuotaExceeded, existingHours, e.calc.Limit())
	}

	booking := models.Booking{
		ID:        uuid.NewString(),
		RoomID:    room.ID,
		UserID:    user.ID,
		Date:      date,
		StartHour: startHour,
		EndHour:   endHour,
		CreatedAt: e.now(),
	}
	if err := e.grid.Occupy(room.ID, date, startHour, endHour); err != nil {
		return nil, err
	}
	if err := e.dir.AppendBooking(user.ID, booking); err != nil {
		// Undo the grid mutation so the slot is not leaked.
		_ = e.grid.Release(room.ID, date, startHour, endHour)
		return nil, err
	}

	committed = true
	unlock()

	usedAfter := existingHours + duration
	e.afterCommit(events.TypeBookingCreated, booking, room, org, usedAfter, remaining)

	e.logger.Info().
		Str("booking_id", booking.ID).
		Str("room_id", room.ID).
		Str("org_id", org.ID).
		Int("start_hour", startHour).
		Int("end_hour", endHour).
		Msg("booking confirmed")

	return &Confirmation{
		BookingID: booking.ID,
		RoomID:    room.ID,
		Date:      date,
		StartHour: startHour,
		EndHour:   endHour,
		HoursUsed: usedAfter,
		Remaining: e.calc.Limit() - usedAfter,
	}, nil
}

// afterCommit runs the fire-and-forget side effects of a committed booking:
// metrics, event publication and quota alerts. Runs outside the locks; a
// failure here never rolls the booking back.
func (e *Engine) afterCommit(eventType string, booking models.Booking, room *models.Room, org *models.Organization, usedAfter, remainingBefore int) {
	if eventType == events.TypeBookingCreated {
		metrics.IncBookingCreated()
	} else {
		metrics.IncBookingCancelled()
	}

	if e.bus != nil {
		e.bus.Publish(eventType, events.BookingEvent{
			BookingID:  booking.ID,
			RoomID:     room.ID,
			RoomName:   room.Name,
			UserID:     booking.UserID,
			OrgID:      org.ID,
			OrgName:    org.Name,
			Date:       booking.Date,
			StartHour:  booking.StartHour,
			EndHour:    booking.EndHour,
			OccurredAt: e.now(),
		})
	}

	if eventType != events.TypeBookingCreated || e.notifier == nil {
		return
	}
	emails := e.adminEmails(org.ID)
	if remainingBefore <= 0 {
		e.notifier.NotifyExceeded(org.Name, emails, usedAfter)
	} else if remainingBefore <= e.calc.WarnThreshold() {
		e.notifier.NotifyApproaching(org.Name, emails, usedAfter, e.calc.Limit()-usedAfter)
	}
}

// adminEmails returns the addresses of the organization's admin members.
func (e *Engine) adminEmails(orgID string) []string {
	members, err := e.dir.OrgMembers(orgID)
	if err != nil {
		return nil
	}
	var emails []string
	for _, m := range members {
		if m.IsAdmin() && m.Email != "" {
			emails = append(emails, m.Email)
		}
	}
	return emails
}

// CancelBooking removes one of the caller's bookings, provided its start is
// further away than the cancellation grace period. The grace check uses the
// booking's stored date at its start hour.
func (e *Engine) CancelBooking(ctx context.Context, token, bookingID string) (*Confirmation, error) {
	user, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	booking, err := e.dir.BookingByID(user.ID, bookingID)
	if err != nil {
		return nil, err
	}
	room, err := e.dir.RoomByID(booking.RoomID)
	if err != nil {
		return nil, err
	}
	org, err := e.dir.OrganizationByID(user.OrgID)
	if err != nil {
		return nil, err
	}

	unlock := e.lockPair(room.ID, org.ID)
	committed := false
	defer func() {
		if !committed {
			unlock()
		}
	}()

	// Re-fetch under the lock; a concurrent cancellation may have won.
	current, err := e.dir.BookingByID(user.ID, bookingID)
	if err != nil {
		return nil, err
	}
	if until := current.StartsAt().Sub(e.now()); until <= e.cancelGrace {
		return nil, fmt.Errorf("%w: booking starts in %s, cancellation window is %s", models.ErrConflict, until.Round(time.Second), e.cancelGrace)
	}

	removed, err := e.dir.RemoveBooking(user.ID, bookingID)
	if err != nil {
		return nil, err
	}
	if err := e.grid.Release(room.ID, removed.Date, removed.StartHour, removed.EndHour); err != nil {
		return nil, err
	}

	committed = true
	unlock()

	e.afterCommit(events.TypeBookingCancelled, removed, room, org, 0, 0)

	e.logger.Info().
		Str("booking_id", removed.ID).
		Str("room_id", room.ID).
		Msg("booking cancelled")

	return &Confirmation{
		BookingID: removed.ID,
		RoomID:    room.ID,
		Date:      removed.Date,
		StartHour: removed.StartHour,
		EndHour:   removed.EndHour,
	}, nil
}

// AddFloor registers a building floor. Admin only.
func (e *Engine) AddFloor(ctx context.Context, token string, number int) (*models.Floor, error) {
	user, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%w: you are not an admin", models.ErrPermissionDenied)
	}

	floor := &models.Floor{ID: uuid.NewString(), Number: number}
	if err := e.dir.AddFloor(floor); err != nil {
		return nil, err
	}
	e.logger.Info().Str("floor_id", floor.ID).Int("number", number).Msg("floor added")
	return floor, nil
}

// AddRoom registers a room on an existing floor. Admin only. Nil settings
// fall back to the global room settings.
func (e *Engine) AddRoom(ctx context.Context, token, floorID, name string, capacity int, details string, settings *models.RoomSettings) (*models.Room, error) {
	user, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%w: you are not an admin", models.ErrPermissionDenied)
	}
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", models.ErrInvalidInput)
	}

	roomSettings := models.DefaultRoomSettings()
	if settings != nil {
		roomSettings = *settings
	}
	room := &models.Room{
		ID:        uuid.NewString(),
		FloorID:   floorID,
		Name:      name,
		Capacity:  capacity,
		Details:   details,
		Settings:  roomSettings,
		CreatedAt: e.now(),
	}
	if err := e.dir.AddRoom(room); err != nil {
		return nil, err
	}
	e.logger.Info().Str("room_id", room.ID).Str("floor_id", floorID).Str("name", name).Msg("room added")
	return room, nil
}

// SearchRooms returns rooms whose capacity meets the request and whose full
// [startHour, endHour) range is free on the date, in room insertion order.
func (e *Engine) SearchRooms(ctx context.Context, token string, capacity int, dateStr string, startHour, endHour int) ([]RoomRef, error) {
	if _, err := e.sessions.Resolve(ctx, token); err != nil {
		return nil, err
	}
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}

	var refs []RoomRef
	for _, room := range e.dir.Rooms() {
		if room.Capacity < capacity {
			continue
		}
		free, err := e.grid.IsRangeFree(room.ID, date, startHour, endHour)
		if err != nil {
			return nil, err
		}
		if free {
			refs = append(refs, RoomRef{RoomID: room.ID, FloorID: room.FloorID, Name: room.Name, Capacity: room.Capacity})
		}
	}
	return refs, nil
}

// ListOrgBookings returns every booking of the caller's organization whose
// date falls within [from, to], inclusive on both ends.
func (e *Engine) ListOrgBookings(ctx context.Context, token, fromStr, toStr string) ([]models.Booking, error) {
	user, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	from, err := parseDate(fromStr)
	if err != nil {
		return nil, err
	}
	to, err := parseDate(toStr)
	if err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date precedes start date", models.ErrInvalidInput)
	}

	all, err := e.dir.OrgBookings(user.OrgID)
	if err != nil {
		return nil, err
	}
	var bookings []models.Booking
	for _, b := range all {
		if !b.Date.Before(from) && !b.Date.After(to) {
			bookings = append(bookings, b)
		}
	}
	return bookings, nil
}

// UserBookings splits the caller's bookings into upcoming and past relative
// to the current wall time.
func (e *Engine) UserBookings(ctx context.Context, token string) (upcoming, past []models.Booking, err error) {
	user, err := e.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	bookings, err := e.dir.UserBookings(user.ID)
	if err != nil {
		return nil, nil, err
	}
	now := e.now()
	for _, b := range bookings {
		if b.StartsAt().After(now) {
			upcoming = append(upcoming, b)
		} else {
			past = append(past, b)
		}
	}
	return upcoming, past, nil
}
