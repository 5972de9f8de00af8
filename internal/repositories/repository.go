package repositories

import (
	"context"

	"github.com/calendario-tech/review-console/internal/models"
)

// SessionRepository persists the operator session across process restarts.
type SessionRepository interface {
	// Load returns the stored session, or (nil, nil) when none is stored.
	Load(ctx context.Context) (*models.Session, error)
	Save(ctx context.Context, session *models.Session) error
	Clear(ctx context.Context) error
}
