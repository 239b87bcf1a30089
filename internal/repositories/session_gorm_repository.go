package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
)

// GORMSessionRepository is a GORM implementation of SessionRepository,
// used with the postgres and sqlite session stores.
type GORMSessionRepository struct {
	db *gorm.DB
}

// NewGORMSessionRepository creates a new instance of GORMSessionRepository
// and migrates the sessions table.
func NewGORMSessionRepository(db *gorm.DB) (*GORMSessionRepository, error) {
	if err := db.AutoMigrate(&models.Session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate sessions: %w", err)
	}
	return &GORMSessionRepository{
		db: db,
	}, nil
}

// Create creates a new session in the database.
func (r *GORMSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID retrieves a session by its ID from the database.
func (r *GORMSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("session %s: %w", id, apperr.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	return &session, nil
}

// Update saves every field of an existing session.
func (r *GORMSessionRepository) Update(ctx context.Context, session *models.Session) error {
	res := r.db.WithContext(ctx).Model(&models.Session{}).Where("id = ?", session.ID).Updates(map[string]any{
		"user_id":       session.UserID,
		"user_name":     session.UserName,
		"phone_number":  session.PhoneNumber,
		"email":         session.Email,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    session.ExpiresAt,
	})
	if res.Error != nil {
		return fmt.Errorf("failed to update session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("session %s: %w", session.ID, apperr.ErrSessionNotFound)
	}
	return nil
}

// Delete deletes a session by its ID.
func (r *GORMSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.db.WithContext(ctx).Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
