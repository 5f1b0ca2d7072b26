// Package auth handles login sessions, password hashing and the admin-only
// registration flows for users and organizations.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/aarti98/ConferenceBookingSystem/internal/models"
	"github.com/aarti98/ConferenceBookingSystem/internal/store"
)

// DefaultSessionWindow is the fixed session lifetime, measured from
// creation (not sliding).
const DefaultSessionWindow = 30 * time.Minute

// Service implements authentication and directory registration.
type Service struct {
	dir      *store.Store
	sessions SessionStore
	window   time.Duration
	now      func() time.Time
	logger   zerolog.Logger
}

// NewService creates the auth service. A zero window falls back to the
// 30 minute default.
func NewService(dir *store.Store, sessions SessionStore, window time.Duration, logger zerolog.Logger) *Service {
	if window <= 0 {
		window = DefaultSessionWindow
	}
	return &Service{
		dir:      dir,
		sessions: sessions,
		window:   window,
		now:      time.Now,
		logger:   logger.With().Str("component", "auth").Logger(),
	}
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login verifies credentials and opens a session.
func (s *Service) Login(ctx context.Context, username, password string) (*models.Session, error) {
	user, err := s.dir.UserByName(username)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, models.ErrNotAuthenticated
	}

	session := &models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		StartedAt: s.now(),
	}
	if err := s.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	s.logger.Info().Str("user_id", user.ID).Msg("user logged in")
	return session, nil
}

// Logout removes the session. Unknown tokens are a no-op.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Resolve returns the user behind a session token. Expired sessions are
// deleted on access and reported as not authenticated; there is no
// background eviction.
func (s *Service) Resolve(ctx context.Context, token string) (*models.User, error) {
	session, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	if session.Expired(s.now(), s.window) {
		_ = s.sessions.Delete(ctx, token)
		return nil, models.ErrNotAuthenticated
	}
	user, err := s.dir.UserByID(session.UserID)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	return user, nil
}

// resolveAdmin resolves the session and requires the admin role.
func (s *Service) resolveAdmin(ctx context.Context, token string) (*models.User, error) {
	user, err := s.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, fmt.Errorf("%w: you are not an admin", models.ErrPermissionDenied)
	}
	return user, nil
}

// RegisterOrganization creates an organization. Admin only; names unique.
func (s *Service) RegisterOrganization(ctx context.Context, token, name, contactInfo, address string) (*models.Organization, error) {
	if _, err := s.resolveAdmin(ctx, token); err != nil {
		return nil, err
	}
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: organization name is required", models.ErrInvalidInput)
	}

	org := &models.Organization{
		ID:          uuid.NewString(),
		Name:        name,
		ContactInfo: contactInfo,
		Address:     address,
	}
	if err := s.dir.CreateOrganization(org); err != nil {
		return nil, err
	}

	s.logger.Info().Str("org_id", org.ID).Str("name", name).Msg("organization registered")
	return org, nil
}

// RegisterUser creates a user under an existing organization. Admin only.
// Membership is stored as an org-id back-reference on the user; the
// organization tracks only member ids.
func (s *Service) RegisterUser(ctx context.Context, token, orgID, username, password, email, role string, permissions []string) (*models.User, error) {
	if _, err := s.resolveAdmin(ctx, token); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", models.ErrInvalidInput)
	}
	if _, err := s.dir.OrganizationByID(orgID); err != nil {
		return nil, fmt.Errorf("valid organization is required: %w", err)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.NewString(),
		OrgID:        orgID,
		Name:         username,
		Email:        email,
		Role:         role,
		Permissions:  permissions,
		PasswordHash: hash,
	}
	if err := s.dir.CreateUser(user); err != nil {
		return nil, err
	}

	s.logger.Info().Str("user_id", user.ID).Str("org_id", orgID).Str("role", role).Msg("user registered")
	return user, nil
}
