package services

import (
	"context"

	"toko-storefront/internal/models"
)

// ProfileBackend is the part of the marketplace API the profile page needs.
type ProfileBackend interface {
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, update models.ProfileUpdate) error
	Role(ctx context.Context) (models.Role, error)
	Addresses(ctx context.Context) ([]models.Address, error)
}

// ProfileView is the signed-in user's profile page.
type ProfileView struct {
	User      models.User      `json:"user"`
	Role      models.Role      `json:"role"`
	RoleLabel string           `json:"role_label"`
	Addresses []models.Address `json:"addresses"`
}

// ProfileService reads and edits the user's profile.
type ProfileService struct {
	backend  ProfileBackend
	sessions *SessionService
}

// NewProfileService creates a new ProfileService.
func NewProfileService(backend ProfileBackend, sessions *SessionService) *ProfileService {
	return &ProfileService{
		backend:  backend,
		sessions: sessions,
	}
}

// Profile loads the user, role and addresses.
func (s *ProfileService) Profile(ctx context.Context) (*ProfileView, error) {
	user, err := s.backend.Profile(ctx)
	if err != nil {
		return nil, err
	}
	role, err := s.backend.Role(ctx)
	if err != nil {
		return nil, err
	}
	addresses, err := s.backend.Addresses(ctx)
	if err != nil {
		return nil, err
	}
	if addresses == nil {
		addresses = []models.Address{}
	}
	return &ProfileView{User: *user, Role: role, RoleLabel: role.Label(), Addresses: addresses}, nil
}

// UpdateProfile saves the change at the backend, then mirrors it into the session.
func (s *ProfileService) UpdateProfile(ctx context.Context, sessionID string, update models.ProfileUpdate) (*ProfileView, error) {
	if err := s.backend.UpdateProfile(ctx, update); err != nil {
		return nil, err
	}
	if err := s.sessions.UpdateIdentity(ctx, sessionID, update); err != nil {
		return nil, err
	}
	return s.Profile(ctx)
}
