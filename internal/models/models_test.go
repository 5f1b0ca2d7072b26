package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBooking_Helpers(t *testing.T) {
	booking := &Booking{
		Date:      time.Date(2026, time.September, 20, 0, 0, 0, 0, time.UTC),
		StartHour: 9,
		EndHour:   12,
	}

	t.Run("Duration", func(t *testing.T) {
		assert.Equal(t, 3, booking.Duration())
	})

	t.Run("StartsAt", func(t *testing.T) {
		assert.Equal(t, time.Date(2026, time.September, 20, 9, 0, 0, 0, time.UTC), booking.StartsAt())
	})

	t.Run("InMonth", func(t *testing.T) {
		assert.True(t, booking.InMonth(2026, time.September))
		assert.False(t, booking.InMonth(2026, time.October))
		assert.False(t, booking.InMonth(2025, time.September))
	})

	t.Run("OverlapsHours", func(t *testing.T) {
		assert.True(t, booking.OverlapsHours(11, 13))
		assert.True(t, booking.OverlapsHours(8, 10))
		assert.True(t, booking.OverlapsHours(9, 12))
		assert.False(t, booking.OverlapsHours(12, 14), "half-open ranges touch without overlap")
		assert.False(t, booking.OverlapsHours(7, 9))
	})
}

func TestUser_Helpers(t *testing.T) {
	admin := &User{Role: RoleAdmin, Permissions: []string{PermissionBook}}
	member := &User{Role: RoleMember}

	assert.True(t, admin.IsAdmin())
	assert.False(t, member.IsAdmin())

	assert.True(t, admin.HasPermission(PermissionBook))
	assert.False(t, admin.HasPermission("export"))
	assert.False(t, member.HasPermission(PermissionBook))
}

func TestSession_Expired(t *testing.T) {
	started := time.Date(2026, time.September, 15, 8, 0, 0, 0, time.UTC)
	session := &Session{StartedAt: started}
	window := 30 * time.Minute

	assert.False(t, session.Expired(started.Add(29*time.Minute), window))
	assert.False(t, session.Expired(started.Add(30*time.Minute), window))
	assert.True(t, session.Expired(started.Add(31*time.Minute), window))
}

func TestDefaultRoomSettings(t *testing.T) {
	settings := DefaultRoomSettings()
	assert.True(t, settings.Projector)
	assert.Equal(t, 50, settings.SeatingCapacity)
	assert.Contains(t, settings.Amenities, "Whiteboard")
}
