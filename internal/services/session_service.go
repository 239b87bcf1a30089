package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dgrijalva/jwt-go"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/backend"
	"toko-storefront/internal/models"
	"toko-storefront/internal/repositories"
)

// AuthBackend is the part of the marketplace API the session store needs.
type AuthBackend interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.TokenPair, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.Registration, error)
	Profile(ctx context.Context) (*models.User, error)
}

// SessionListener is told when a session is torn down, by logout or expiry.
type SessionListener interface {
	SessionCleared(sessionID string)
}

// SessionService is the session store: it derives sessions from login and
// register responses and tracks their expiry.
type SessionService struct {
	repo       repositories.SessionRepository
	backend    AuthBackend
	defaultTTL time.Duration
	listeners  []SessionListener
	now        func() time.Time
}

// NewSessionService creates a new SessionService. Listeners are notified in order.
func NewSessionService(repo repositories.SessionRepository, backend AuthBackend, defaultTTL time.Duration, listeners ...SessionListener) *SessionService {
	return &SessionService{
		repo:       repo,
		backend:    backend,
		defaultTTL: defaultTTL,
		listeners:  listeners,
		now:        time.Now,
	}
}

// SetClock replaces the clock used for expiry decisions.
func (s *SessionService) SetClock(now func() time.Time) {
	s.now = now
}

// Login authenticates against the backend and opens a new session.
// A previous session of the same browser is cleared first.
func (s *SessionService) Login(ctx context.Context, previousID string, req models.LoginRequest) (*models.Session, error) {
	tokens, err := s.backend.Login(ctx, req)
	if err != nil {
		return nil, err
	}
	if tokens.AccessToken == "" {
		return nil, &apperr.AuthError{Op: "session.Login", Err: errors.New("backend issued no access token")}
	}

	s.clear(ctx, previousID)

	session := &models.Session{PhoneNumber: req.PhoneNumber}
	s.applyTokens(session, *tokens)

	profile, err := s.backend.Profile(backend.WithToken(ctx, tokens.AccessToken))
	if err != nil {
		log.Printf("Profile lookup after login failed, keeping placeholder identity: %v", err)
	} else {
		session.Identity(*profile)
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Register creates an account. The session is authenticated only when the
// backend returns tokens with the registration.
func (s *SessionService) Register(ctx context.Context, previousID string, req models.RegisterRequest) (*models.Session, error) {
	if req.Password != req.ConfirmPassword {
		return nil, apperr.Validation("confirm_password", "passwords do not match")
	}

	reg, err := s.backend.Register(ctx, req)
	if err != nil {
		return nil, err
	}

	s.clear(ctx, previousID)

	session := &models.Session{}
	session.Identity(reg.User)
	if session.PhoneNumber == "" {
		session.PhoneNumber = req.PhoneNumber
	}
	if session.UserName == "" {
		session.UserName = req.Name
	}
	if reg.AccessToken != "" {
		s.applyTokens(session, reg.TokenPair)
	} else {
		session.ExpiresAt = s.now().Add(s.defaultTTL)
	}

	if err := s.repo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}
	return session, nil
}

// Resolve returns a live session. Expired sessions are cleared here, before
// any backend call could answer 401.
func (s *SessionService) Resolve(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, &apperr.AuthError{Op: "session.Resolve", Err: apperr.ErrNotAuthenticated}
	}
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrSessionNotFound) {
			return nil, &apperr.AuthError{Op: "session.Resolve", Err: apperr.ErrNotAuthenticated}
		}
		return nil, err
	}
	if session.Expired(s.now()) {
		log.Printf("Session %s expired at %s, clearing", id, session.ExpiresAt.Format(time.RFC3339))
		s.clear(ctx, id)
		return nil, &apperr.AuthError{Op: "session.Resolve", Err: apperr.ErrSessionExpired}
	}
	return session, nil
}

// UpdateIdentity stores new profile fields on the session.
func (s *SessionService) UpdateIdentity(ctx context.Context, id string, update models.ProfileUpdate) error {
	session, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	session.UserName = update.Name
	session.PhoneNumber = update.PhoneNumber
	return s.repo.Update(ctx, session)
}

// Logout deletes the session and tears down dependent state.
func (s *SessionService) Logout(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notify(id)
	return nil
}

func (s *SessionService) clear(ctx context.Context, id string) {
	if id == "" {
		return
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		log.Printf("Failed to delete session %s: %v", id, err)
	}
	s.notify(id)
}

func (s *SessionService) notify(id string) {
	for _, l := range s.listeners {
		l.SessionCleared(id)
	}
}

func (s *SessionService) applyTokens(session *models.Session, tokens models.TokenPair) {
	session.AccessToken = tokens.AccessToken
	session.RefreshToken = tokens.RefreshToken
	session.ExpiresAt = s.expiry(tokens)
}

// expiry prefers expires_in, then the access token's exp claim, then the default TTL.
func (s *SessionService) expiry(tokens models.TokenPair) time.Time {
	now := s.now()
	if tokens.ExpiresIn > 0 {
		return now.Add(time.Duration(tokens.ExpiresIn) * time.Second)
	}
	if exp, ok := tokenExpiry(tokens.AccessToken); ok {
		return exp
	}
	return now.Add(s.defaultTTL)
}

// tokenExpiry reads the exp claim without verifying the signature; the
// storefront holds no key and only needs to know when to stop using the token.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	switch exp := claims["exp"].(type) {
	case float64:
		return time.Unix(int64(exp), 0), true
	case int64:
		return time.Unix(exp, 0), true
	}
	return time.Time{}, false
}
