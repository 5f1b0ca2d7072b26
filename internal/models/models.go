package models

import "time"

// DateLayout is the wire format for booking dates.
const DateLayout = "2006-01-02"

// HoursPerDay is the number of hourly slots in a room's daily grid.
const HoursPerDay = 24

// Roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// PermissionBook is the capability required to book a room.
const PermissionBook = "book"

// RoomSettings holds per-room amenities and options.
type RoomSettings struct {
	Projector       bool     `json:"projector"`
	SeatingCapacity int      `json:"seating_capacity"`
	Amenities       []string `json:"amenities"`
}

// DefaultRoomSettings returns the global room settings applied when a room
// is created without explicit settings.
func DefaultRoomSettings() RoomSettings {
	return RoomSettings{
		Projector:       true,
		SeatingCapacity: 50,
		Amenities:       []string{"Whiteboard", "Audio System", "Video Conferencing"},
	}
}

// Floor groups rooms by building level.
type Floor struct {
	ID      string   `json:"id"`
	Number  int      `json:"number"`
	RoomIDs []string `json:"room_ids"`
}

// Room represents a bookable conference room.
type Room struct {
	ID        string       `json:"id"`
	FloorID   string       `json:"floor_id"`
	Name      string       `json:"name"`
	Capacity  int          `json:"capacity"`
	Details   string       `json:"details,omitempty"`
	Settings  RoomSettings `json:"settings"`
	CreatedAt time.Time    `json:"created_at"`
}

// Booking represents a reserved hourly range in a room on a given day.
// The range is half-open: [StartHour, EndHour).
type Booking struct {
	ID        string    `json:"id"`
	RoomID    string    `json:"room_id"`
	UserID    string    `json:"user_id"`
	Date      time.Time `json:"date"` // midnight of the booking day
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
	CreatedAt time.Time `json:"created_at"`
}

// Duration returns the booked hours.
func (b *Booking) Duration() int {
	return b.EndHour - b.StartHour
}

// StartsAt returns the wall-clock start of the booking.
func (b *Booking) StartsAt() time.Time {
	return time.Date(b.Date.Year(), b.Date.Month(), b.Date.Day(), b.StartHour, 0, 0, 0, b.Date.Location())
}

// InMonth reports whether the booking day falls in the given calendar month.
func (b *Booking) InMonth(year int, month time.Month) bool {
	return b.Date.Year() == year && b.Date.Month() == month
}

// OverlapsHours reports whether the booking intersects [start, end) on its day.
func (b *Booking) OverlapsHours(start, end int) bool {
	return b.StartHour < end && start < b.EndHour
}

// User is a member of exactly one organization, referenced by OrgID.
type User struct {
	ID           string    `json:"id"`
	OrgID        string    `json:"org_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Permissions  []string  `json:"permissions"`
	PasswordHash string    `json:"-"`
	Bookings     []Booking `json:"bookings"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// HasPermission reports whether the user holds a named capability.
func (u *User) HasPermission(perm string) bool {
	for _, p := range u.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Organization owns a monthly booking-hour quota shared by its members.
// Membership is tracked as user ids only; hours are always recomputed from
// member bookings, never cached on the organization.
type Organization struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	ContactInfo string   `json:"contact_info,omitempty"`
	Address     string   `json:"address,omitempty"`
	UserIDs     []string `json:"user_ids"`
}

// Session is an ephemeral authentication token.
type Session struct {
	Token     string    `json:"token"`
	UserID    string    `json:"user_id"`
	StartedAt time.Time `json:"started_at"`
}

// Expired reports whether the session passed its fixed inactivity window,
// measured from creation.
func (s *Session) Expired(now time.Time, window time.Duration) bool {
	return now.Sub(s.StartedAt) > window
}
