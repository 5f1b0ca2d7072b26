package store

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

func newOrgWithUser(t *testing.T, s *Store) (*models.Organization, *models.User) {
	t.Helper()
	org := &models.Organization{ID: "org-1", Name: "Acme"}
	require.NoError(t, s.CreateOrganization(org))
	user := &models.User{ID: "user-1", OrgID: org.ID, Name: "alice", Role: models.RoleMember}
	require.NoError(t, s.CreateUser(user))
	return org, user
}

func TestStore_OrganizationNamesAreUnique(t *testing.T) {
	s := New()
	require.NoError(t, s.CreateOrganization(&models.Organization{ID: "org-1", Name: "Acme"}))

	err := s.CreateOrganization(&models.Organization{ID: "org-2", Name: "Acme"})
	assert.ErrorIs(t, err, models.ErrConflict)

	found, err := s.OrganizationByName("Acme")
	require.NoError(t, err)
	assert.Equal(t, "org-1", found.ID)
}

func TestStore_CreateUser(t *testing.T) {
	s := New()
	org, user := newOrgWithUser(t, s)

	t.Run("duplicate username", func(t *testing.T) {
		err := s.CreateUser(&models.User{ID: "user-2", OrgID: org.ID, Name: "alice"})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("unknown organization", func(t *testing.T) {
		err := s.CreateUser(&models.User{ID: "user-3", OrgID: "missing", Name: "bob"})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("membership back-reference", func(t *testing.T) {
		assert.Contains(t, org.UserIDs, user.ID)

		members, err := s.OrgMembers(org.ID)
		require.NoError(t, err)
		require.Len(t, members, 1)
		assert.Equal(t, user.ID, members[0].ID)
	})
}

func TestStore_FloorsAndRooms(t *testing.T) {
	s := New()
	floor := &models.Floor{ID: "floor-1", Number: 3}
	require.NoError(t, s.AddFloor(floor))

	assert.ErrorIs(t, s.AddFloor(&models.Floor{ID: "floor-2", Number: 3}), models.ErrConflict)

	room := &models.Room{ID: "room-1", FloorID: floor.ID, Name: "Boardroom", Capacity: 12}
	require.NoError(t, s.AddRoom(room))

	t.Run("duplicate room name", func(t *testing.T) {
		err := s.AddRoom(&models.Room{ID: "room-2", FloorID: floor.ID, Name: "Boardroom", Capacity: 4})
		assert.ErrorIs(t, err, models.ErrConflict)
	})

	t.Run("unknown floor", func(t *testing.T) {
		err := s.AddRoom(&models.Room{ID: "room-3", FloorID: "missing", Name: "Annex", Capacity: 4})
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	assert.Contains(t, floor.RoomIDs, room.ID)
}

func TestStore_RoomsKeepInsertionOrder(t *testing.T) {
	s := New()
	require.NoError(t, s.AddFloor(&models.Floor{ID: "floor-1", Number: 1}))

	for i := 0; i < 5; i++ {
		room := &models.Room{
			ID:      fmt.Sprintf("room-%d", i),
			FloorID: "floor-1",
			Name:    fmt.Sprintf("Room %d", i),
		}
		require.NoError(t, s.AddRoom(room))
	}

	rooms := s.Rooms()
	require.Len(t, rooms, 5)
	for i, room := range rooms {
		assert.Equal(t, fmt.Sprintf("room-%d", i), room.ID)
	}
}

func TestStore_Bookings(t *testing.T) {
	s := New()
	_, user := newOrgWithUser(t, s)

	booking := models.Booking{
		ID:        "booking-1",
		RoomID:    "room-1",
		UserID:    user.ID,
		Date:      time.Date(2026, time.September, 15, 0, 0, 0, 0, time.UTC),
		StartHour: 9,
		EndHour:   11,
	}
	require.NoError(t, s.AppendBooking(user.ID, booking))

	found, err := s.BookingByID(user.ID, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, 2, found.Duration())

	orgBookings, err := s.OrgBookings("org-1")
	require.NoError(t, err)
	assert.Len(t, orgBookings, 1)

	removed, err := s.RemoveBooking(user.ID, "booking-1")
	require.NoError(t, err)
	assert.Equal(t, "booking-1", removed.ID)

	_, err = s.BookingByID(user.ID, "booking-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.RemoveBooking(user.ID, "booking-1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
