package repositories

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"toko-storefront/internal/apperr"
	"toko-storefront/internal/models"
)

const sessionKeyPrefix = "storefront:session:"

// RedisSessionRepository stores each session as a hash that Redis expires
// together with the session.
type RedisSessionRepository struct {
	client *redis.Client
}

// NewRedisSessionRepository connects using a redis:// URL.
func NewRedisSessionRepository(ctx context.Context, redisURL string) (*RedisSessionRepository, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}
	client := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return NewRedisSessionRepositoryWithClient(client), nil
}

// NewRedisSessionRepositoryWithClient wraps an existing client.
func NewRedisSessionRepositoryWithClient(client *redis.Client) *RedisSessionRepository {
	return &RedisSessionRepository{client: client}
}

// Close closes the underlying client.
func (r *RedisSessionRepository) Close() error {
	return r.client.Close()
}

func (r *RedisSessionRepository) key(id string) string {
	return sessionKeyPrefix + id
}

func (r *RedisSessionRepository) write(ctx context.Context, session *models.Session) error {
	key := r.key(session.ID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]interface{}{
		"id":            session.ID,
		"user_id":       session.UserID,
		"user_name":     session.UserName,
		"phone_number":  session.PhoneNumber,
		"email":         session.Email,
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"expires_at":    unixOrZero(session.ExpiresAt),
		"created_at":    session.CreatedAt.Unix(),
		"updated_at":    session.UpdatedAt.Unix(),
	})
	if session.ExpiresAt.IsZero() {
		pipe.Persist(ctx, key)
	} else {
		pipe.ExpireAt(ctx, key, session.ExpiresAt)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Create stores a new session.
func (r *RedisSessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	now := time.Now()
	session.CreatedAt = now
	session.UpdatedAt = now
	if err := r.write(ctx, session); err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// GetByID loads a session hash.
func (r *RedisSessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get session %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("session %s: %w", id, apperr.ErrSessionNotFound)
	}

	session := &models.Session{
		ID:           id,
		UserName:     fields["user_name"],
		PhoneNumber:  fields["phone_number"],
		Email:        fields["email"],
		AccessToken:  fields["access_token"],
		RefreshToken: fields["refresh_token"],
	}
	session.UserID, _ = strconv.ParseInt(fields["user_id"], 10, 64)
	session.ExpiresAt = parseUnix(fields["expires_at"])
	session.CreatedAt = parseUnix(fields["created_at"])
	session.UpdatedAt = parseUnix(fields["updated_at"])
	return session, nil
}

// Update rewrites an existing session.
func (r *RedisSessionRepository) Update(ctx context.Context, session *models.Session) error {
	n, err := r.client.Exists(ctx, r.key(session.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session %s: %w", session.ID, apperr.ErrSessionNotFound)
	}
	session.UpdatedAt = time.Now()
	if err := r.write(ctx, session); err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (r *RedisSessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

func unixOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.Unix()
}

func parseUnix(s string) time.Time {
	sec, err := strconv.ParseInt(s, 10, 64)
	if err != nil || sec == 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0)
}
