package models

import "time"

// Session is a browser session of the storefront: the signed-in identity and
// the backend tokens issued for it.
type Session struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID       int64     `json:"user_id"`
	UserName     string    `json:"user_name" gorm:"type:varchar(100)"`
	PhoneNumber  string    `json:"phone_number" gorm:"type:varchar(32)"`
	Email        string    `json:"email" gorm:"type:varchar(255)"`
	AccessToken  string    `json:"-" gorm:"type:text"`
	RefreshToken string    `json:"-" gorm:"type:text"`
	ExpiresAt    time.Time `json:"expires_at" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Authenticated reports whether the session carries an access token.
func (s *Session) Authenticated() bool {
	return s != nil && s.AccessToken != ""
}

// Expired reports whether the session's expiry has passed at now.
// A zero ExpiresAt never expires.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Identity copies the profile fields of u into the session.
func (s *Session) Identity(u User) {
	s.UserID = u.ID
	s.UserName = u.Name
	s.PhoneNumber = u.PhoneNumber
	s.Email = u.Email
}
