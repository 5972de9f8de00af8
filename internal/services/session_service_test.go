package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calendario-tech/review-console/internal/models"
)

// memSessionRepo is an in-memory stand-in for the MongoDB session store.
type memSessionRepo struct {
	session *models.Session
}

func (r *memSessionRepo) Load(ctx context.Context) (*models.Session, error) {
	if r.session == nil {
		return nil, nil
	}
	stored := *r.session
	return &stored, nil
}

func (r *memSessionRepo) Save(ctx context.Context, session *models.Session) error {
	stored := *session
	r.session = &stored
	return nil
}

func (r *memSessionRepo) Clear(ctx context.Context) error {
	r.session = nil
	return nil
}

func TestLoginPersistsTokenWithValidityWindow(t *testing.T) {
	repo := &memSessionRepo{}
	sessions := NewSessionService(repo, 24*time.Hour, zap.NewNop())

	session, err := sessions.Login(context.Background(), "tok-abc")
	require.NoError(t, err)

	assert.WithinDuration(t, time.Now().Add(24*time.Hour), session.ExpiresAt, 2*time.Second)
	require.NotNil(t, repo.session, "session must reach durable storage")
	assert.Equal(t, "tok-abc", repo.session.Token)

	assert.True(t, sessions.IsAuthenticated())
	token, err := sessions.Token()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", token)
}

func TestLoginRequiresToken(t *testing.T) {
	sessions := NewSessionService(&memSessionRepo{}, 24*time.Hour, zap.NewNop())
	_, err := sessions.Login(context.Background(), "")
	assert.Error(t, err)
	assert.False(t, sessions.IsAuthenticated())
}

func TestRestoreDiscardsExpiredSession(t *testing.T) {
	repo := &memSessionRepo{session: &models.Session{
		Token:     "stale",
		ExpiresAt: time.Now().Add(-time.Minute),
	}}
	sessions := NewSessionService(repo, 24*time.Hour, zap.NewNop())

	require.NoError(t, sessions.Restore(context.Background()))

	assert.False(t, sessions.IsAuthenticated())
	assert.Nil(t, repo.session, "expired session must be cleared from storage")

	_, err := sessions.Token()
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestRestoreKeepsLiveSession(t *testing.T) {
	expiry := time.Now().Add(time.Hour)
	repo := &memSessionRepo{session: &models.Session{
		Token:     "still-good",
		ExpiresAt: expiry,
	}}
	sessions := NewSessionService(repo, 24*time.Hour, zap.NewNop())

	require.NoError(t, sessions.Restore(context.Background()))

	assert.True(t, sessions.IsAuthenticated())
	token, err := sessions.Token()
	require.NoError(t, err)
	assert.Equal(t, "still-good", token)

	got, ok := sessions.ExpiresAt()
	require.True(t, ok)
	assert.WithinDuration(t, expiry, got, time.Second)
}

func TestRestoreWithEmptyStorage(t *testing.T) {
	sessions := NewSessionService(&memSessionRepo{}, 24*time.Hour, zap.NewNop())
	require.NoError(t, sessions.Restore(context.Background()))
	assert.False(t, sessions.IsAuthenticated())
}

func TestLogoutClearsEverything(t *testing.T) {
	repo := &memSessionRepo{}
	sessions := NewSessionService(repo, 24*time.Hour, zap.NewNop())

	_, err := sessions.Login(context.Background(), "tok")
	require.NoError(t, err)
	require.NoError(t, sessions.Logout(context.Background()))

	assert.False(t, sessions.IsAuthenticated())
	assert.Nil(t, repo.session)
}
