package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/calendario-tech/review-console/internal/models"
)

type stubSessions struct {
	authenticated bool
}

func (s *stubSessions) Login(ctx context.Context, token string) (*models.Session, error) {
	return nil, nil
}
func (s *stubSessions) Logout(ctx context.Context) error  { return nil }
func (s *stubSessions) Restore(ctx context.Context) error { return nil }
func (s *stubSessions) IsAuthenticated() bool             { return s.authenticated }
func (s *stubSessions) Token() (string, error)            { return "tok", nil }
func (s *stubSessions) ExpiresAt() (time.Time, bool)      { return time.Time{}, false }

func TestSessionRequired(t *testing.T) {
	gin.SetMode(gin.TestMode)

	sessions := &stubSessions{}
	router := gin.New()
	router.Use(SessionRequired(sessions))
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	sessions.authenticated = true
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// A supplied request id is echoed back
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	assert.Equal(t, "abc-123", rr.Header().Get("X-Request-ID"))

	// A missing one is generated
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
