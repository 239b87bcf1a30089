package repositories

import (
	"context"

	"toko-storefront/internal/models"
)

// SessionRepository defines the interface for session persistence.
// Missing sessions are reported as apperr.ErrSessionNotFound.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}
