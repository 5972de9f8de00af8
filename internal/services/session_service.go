package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/internal/repositories"
)

// ErrNotAuthenticated is returned when an operation needs a live session and
// none exists.
var ErrNotAuthenticated = errors.New("no active session")

// SessionService defines the interface for operator session operations. The
// token itself is issued and verified by the catalog service; this layer only
// stores it with a fixed validity window.
type SessionService interface {
	// Login persists the supplied catalog token with a fresh expiry.
	Login(ctx context.Context, token string) (*models.Session, error)

	// Logout discards the session from memory and durable storage.
	Logout(ctx context.Context) error

	// Restore loads the persisted session at startup. A session past its
	// expiry is discarded from storage and the service starts logged-out.
	Restore(ctx context.Context) error

	IsAuthenticated() bool

	// Token returns the bearer token for catalog calls. Expiry is checked at
	// startup only, not per request.
	Token() (string, error)

	ExpiresAt() (time.Time, bool)
}

type sessionService struct {
	repo   repositories.SessionRepository
	ttl    time.Duration
	logger *zap.Logger

	mu      sync.RWMutex
	current *models.Session
}

// NewSessionService creates a new SessionService with the given validity
// window for fresh logins.
func NewSessionService(repo repositories.SessionRepository, ttl time.Duration, logger *zap.Logger) SessionService {
	return &sessionService{
		repo:   repo,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *sessionService) Login(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, errors.New("token is required")
	}

	session := &models.Session{
		Token:     token,
		ExpiresAt: time.Now().Add(s.ttl),
	}
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.logger.Info("operator logged in", zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	s.logger.Info("operator logged out")
	return nil
}

func (s *sessionService) Restore(ctx context.Context) error {
	session, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	if session == nil {
		return nil
	}

	if session.Expired(time.Now()) {
		s.logger.Info("stored session expired, discarding",
			zap.Time("expired_at", session.ExpiresAt))
		return s.repo.Clear(ctx)
	}

	s.mu.Lock()
	s.current = session
	s.mu.Unlock()

	s.logger.Info("session restored", zap.Time("expires_at", session.ExpiresAt))
	return nil
}

func (s *sessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current != nil
}

func (s *sessionService) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return "", ErrNotAuthenticated
	}
	return s.current.Token, nil
}

func (s *sessionService) ExpiresAt() (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return time.Time{}, false
	}
	return s.current.ExpiresAt, true
}
