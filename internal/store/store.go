// Package store is the in-memory directory of organizations, users, floors
// and rooms. It is constructed explicitly at startup and handed to the
// services that need it; nothing here is package-level state.
package store

import (
	"fmt"
	"sync"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
)

// Store holds the directory collections. A single RWMutex guards the
// collection structure; the booking engine layers its own per-room and
// per-organization locks on top for check-then-mutate sequences.
type Store struct {
	mu sync.RWMutex

	orgs     map[string]*models.Organization
	orgNames map[string]string // name -> id

	users     map[string]*models.User
	userNames map[string]string

	floors       map[string]*models.Floor
	floorNumbers map[int]string

	rooms     map[string]*models.Room
	roomNames map[string]string
	roomOrder []string // ids in insertion order
}

// New returns an empty directory store.
func New() *Store {
	return &Store{
		orgs:         make(map[string]*models.Organization),
		orgNames:     make(map[string]string),
		users:        make(map[string]*models.User),
		userNames:    make(map[string]string),
		floors:       make(map[string]*models.Floor),
		floorNumbers: make(map[int]string),
		rooms:        make(map[string]*models.Room),
		roomNames:    make(map[string]string),
	}
}

// CreateOrganization registers an organization. Names are unique.
func (s *Store) CreateOrganization(org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.orgNames[org.Name]; taken {
		return fmt.Errorf("%w: organization name %q already registered", models.ErrConflict, org.Name)
	}
	s.orgs[org.ID] = org
	s.orgNames[org.Name] = org.ID
	return nil
}

// OrganizationByID looks up an organization.
func (s *Store) OrganizationByID(id string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[id]
	if !ok {
		return nil, fmt.Errorf("%w: organization %s", models.ErrNotFound, id)
	}
	return org, nil
}

// OrganizationByName looks up an organization by its unique name.
func (s *Store) OrganizationByName(name string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.orgNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: organization %q", models.ErrNotFound, name)
	}
	return s.orgs[id], nil
}

// CreateUser registers a user under an existing organization. Usernames are
// unique; the organization keeps an id-based back-reference to the member.
func (s *Store) CreateUser(user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.userNames[user.Name]; taken {
		return fmt.Errorf("%w: username %q already registered", models.ErrConflict, user.Name)
	}
	org, ok := s.orgs[user.OrgID]
	if !ok {
		return fmt.Errorf("%w: organization %s", models.ErrNotFound, user.OrgID)
	}
	s.users[user.ID] = user
	s.userNames[user.Name] = user.ID
	org.UserIDs = append(org.UserIDs, user.ID)
	return nil
}

// UserByID looks up a user.
func (s *Store) UserByID(id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, id)
	}
	return user, nil
}

// UserByName looks up a user by username.
func (s *Store) UserByName(name string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.userNames[name]
	if !ok {
		return nil, fmt.Errorf("%w: user %q", models.ErrNotFound, name)
	}
	return s.users[id], nil
}

// OrgMembers returns all users belonging to the organization.
func (s *Store) OrgMembers(orgID string) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return nil, fmt.Errorf("%w: organization %s", models.ErrNotFound, orgID)
	}
	members := make([]*models.User, 0, len(org.UserIDs))
	for _, id := range org.UserIDs {
		if u, ok := s.users[id]; ok {
			members = append(members, u)
		}
	}
	return members, nil
}

// AddFloor registers a floor. Floor numbers are unique.
func (s *Store) AddFloor(floor *models.Floor) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.floorNumbers[floor.Number]; taken {
		return fmt.Errorf("%w: floor number %d already exists", models.ErrConflict, floor.Number)
	}
	s.floors[floor.ID] = floor
	s.floorNumbers[floor.Number] = floor.ID
	return nil
}

// FloorByID looks up a floor.
func (s *Store) FloorByID(id string) (*models.Floor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	floor, ok := s.floors[id]
	if !ok {
		return nil, fmt.Errorf("%w: floor %s", models.ErrNotFound, id)
	}
	return floor, nil
}

// AddRoom registers a room on an existing floor. Room names are unique
// across the building.
func (s *Store) AddRoom(room *models.Room) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	floor, ok := s.floors[room.FloorID]
	if !ok {
		return fmt.Errorf("%w: floor %s", models.ErrNotFound, room.FloorID)
	}
	if _, taken := s.roomNames[room.Name]; taken {
		return fmt.Errorf("%w: room name %q already exists", models.ErrConflict, room.Name)
	}
	s.rooms[room.ID] = room
	s.roomNames[room.Name] = room.ID
	s.roomOrder = append(s.roomOrder, room.ID)
	floor.RoomIDs = append(floor.RoomIDs, room.ID)
	return nil
}

// RoomByID looks up a room.
func (s *Store) RoomByID(id string) (*models.Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, fmt.Errorf("%w: room %s", models.ErrNotFound, id)
	}
	return room, nil
}

// Rooms returns all rooms in insertion order.
func (s *Store) Rooms() []*models.Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]*models.Room, 0, len(s.roomOrder))
	for _, id := range s.roomOrder {
		rooms = append(rooms, s.rooms[id])
	}
	return rooms
}

// UserBookings returns a copy of the user's booking list.
func (s *Store) UserBookings(userID string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	return append([]models.Booking(nil), user.Bookings...), nil
}

// OrgBookings returns a copy of every booking held by the organization's
// members.
func (s *Store) OrgBookings(orgID string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return nil, fmt.Errorf("%w: organization %s", models.ErrNotFound, orgID)
	}
	var bookings []models.Booking
	for _, id := range org.UserIDs {
		if u, ok := s.users[id]; ok {
			bookings = append(bookings, u.Bookings...)
		}
	}
	return bookings, nil
}

// AppendBooking adds a booking record to the owning user's list.
func (s *Store) AppendBooking(userID string, booking models.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	user.Bookings = append(user.Bookings, booking)
	return nil
}

// BookingByID finds a booking in the owning user's list.
func (s *Store) BookingByID(userID, bookingID string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	for i := range user.Bookings {
		if user.Bookings[i].ID == bookingID {
			return &user.Bookings[i], nil
		}
	}
	return nil, fmt.Errorf("%w: booking %s", models.ErrNotFound, bookingID)
}

// RemoveBooking deletes a booking from the owning user's list and returns
// the removed record.
func (s *Store) RemoveBooking(userID, bookingID string) (models.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[userID]
	if !ok {
		return models.Booking{}, fmt.Errorf("%w: user %s", models.ErrNotFound, userID)
	}
	for i := range user.Bookings {
		if user.Bookings[i].ID == bookingID {
			removed := user.Bookings[i]
			user.Bookings = append(user.Bookings[:i], user.Bookings[i+1:]...)
			return removed, nil
		}
	}
	return models.Booking{}, fmt.Errorf("%w: booking %s", models.ErrNotFound, bookingID)
}
