package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
)

// MockSessionRepository is an in-memory implementation of SessionRepository.
// It backs SESSION_STORE=memory and the tests.
type MockSessionRepository struct {
	sessions map[string]models.Session
	mu       sync.RWMutex
}

// NewMockSessionRepository creates a new instance of MockSessionRepository.
func NewMockSessionRepository() *MockSessionRepository {
	return &MockSessionRepository{
		sessions: make(map[string]models.Session),
	}
}

// Create stores a new session, assigning an ID if it has none.
func (r *MockSessionRepository) Create(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if _, exists := r.sessions[session.ID]; exists {
		return fmt.Errorf("session %s already exists", session.ID)
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	r.sessions[session.ID] = *session
	return nil
}

// GetByID returns a copy of the session.
func (r *MockSessionRepository) GetByID(_ context.Context, id string) (*models.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, apperr.ErrSessionNotFound)
	}
	return &session, nil
}

// Update replaces a stored session.
func (r *MockSessionRepository) Update(_ context.Context, session *models.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[session.ID]; !ok {
		return fmt.Errorf("session %s: %w", session.ID, apperr.ErrSessionNotFound)
	}
	session.UpdatedAt = time.Now()
	r.sessions[session.ID] = *session
	return nil
}

// Delete removes a session. Deleting an unknown session is not an error.
func (r *MockSessionRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, id)
	return nil
}
