package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	apperrors "pennywise/internal/errors"
	"pennywise/internal/models"
	"pennywise/internal/token"
)

// sessionService persists login sessions in the database. Sessions carry
// an absolute expiry; expired rows behave as if absent.
type sessionService struct {
	db       *gorm.DB
	lifetime time.Duration
}

// NewSessionService creates a new SessionServicer with the given absolute
// session lifetime.
func NewSessionService(db *gorm.DB, lifetime time.Duration) SessionServicer {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	return &sessionService{db: db, lifetime: lifetime}
}

// Create issues a new session for the user.
func (s *sessionService) Create(userID uint) (*models.Session, error) {
	id, err := token.NewSession()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	session := &models.Session{
		ID:        id,
		UserID:    userID,
		ExpiresAt: time.Now().Add(s.lifetime),
	}
	if err := s.db.Create(session).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return session, nil
}

// Lookup returns the session for the given identifier. An expired session
// is deleted and reported as expired.
func (s *sessionService) Lookup(id string) (*models.Session, error) {
	var session models.Session
	if err := s.db.First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if time.Now().After(session.ExpiresAt) {
		_ = s.db.Delete(&session).Error
		return nil, apperrors.ErrSessionExpired
	}

	return &session, nil
}

// Delete removes a single session. Deleting an absent session is not an error.
func (s *sessionService) Delete(id string) error {
	if err := s.db.Delete(&models.Session{}, "id = ?", id).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DeleteForUser removes every session belonging to the user.
func (s *sessionService) DeleteForUser(userID uint) error {
	if err := s.db.Delete(&models.Session{}, "user_id = ?", userID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
