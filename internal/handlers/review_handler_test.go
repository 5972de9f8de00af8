package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/internal/services"
	"github.com/calendario-tech/review-console/pkg/catalog"
)

type stubCatalog struct {
	mu       sync.Mutex
	calls    []string
	pending  []models.Event
	approved []models.Event
}

func (s *stubCatalog) record(call string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
}

func (s *stubCatalog) ListPending(ctx context.Context) ([]models.Event, error) {
	s.record("list_pending")
	return s.pending, nil
}

func (s *stubCatalog) ListApproved(ctx context.Context) ([]models.Event, error) {
	s.record("list_approved")
	return s.approved, nil
}

func (s *stubCatalog) SetStatus(ctx context.Context, eventID int, decision catalog.Decision) error {
	s.record(fmt.Sprintf("set_status %d %s", eventID, decision))
	return nil
}

func (s *stubCatalog) UpdateFields(ctx context.Context, eventID int, fields map[string]interface{}) error {
	s.record(fmt.Sprintf("update_fields %d", eventID))
	return nil
}

func (s *stubCatalog) DeleteEvent(ctx context.Context, eventID int) error {
	s.record(fmt.Sprintf("delete_event %d", eventID))
	return nil
}

func testRouter(stub *stubCatalog) *gin.Engine {
	gin.SetMode(gin.TestMode)

	events := services.NewEventService(stub, zap.NewNop())
	review := services.NewReviewService(stub, events, zap.NewNop())
	eventHandler := NewEventHandler(events)
	reviewHandler := NewReviewHandler(review, events)

	router := gin.New()
	router.GET("/events/pending", eventHandler.GetPending)
	router.GET("/events/pending/tags", eventHandler.GetPendingTags)
	router.POST("/events/reload", eventHandler.Reload)
	router.GET("/review", reviewHandler.State)
	router.POST("/review/select/:id", reviewHandler.Select)
	router.POST("/review/edits", reviewHandler.ApplyEdit)
	router.POST("/review/request", reviewHandler.Request)
	router.POST("/review/confirm", reviewHandler.Confirm)
	router.POST("/review/cancel", reviewHandler.Cancel)
	router.DELETE("/review", reviewHandler.Close)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func stubWithEvents() *stubCatalog {
	return &stubCatalog{
		pending: []models.Event{
			{ID: 1, EventName: "GopherCon", OrganizationName: "Golang BR", Status: models.EventStatusRequested, Tags: []string{"ai"},
				Intl: map[string]models.LocalizedContent{models.DefaultLanguage: {Cost: "Gratuito"}}},
			{ID: 2, EventName: "Web Week", OrganizationName: "DevHouse", Status: models.EventStatusRequested, Tags: []string{"web"},
				Intl: map[string]models.LocalizedContent{models.DefaultLanguage: {}}},
		},
	}
}

func TestGetPendingAppliesFilters(t *testing.T) {
	router := testRouter(stubWithEvents())
	require.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodPost, "/events/reload", "").Code)

	rr := doJSON(t, router, http.MethodGet, "/events/pending?tags=ai", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].ID)

	rr = doJSON(t, router, http.MethodGet, "/events/pending/tags", "")
	var tags []string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tags))
	assert.Equal(t, []string{"ai", "web"}, tags)
}

func TestReviewFlowOverHTTP(t *testing.T) {
	stub := stubWithEvents()
	router := testRouter(stub)
	require.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodPost, "/events/reload", "").Code)

	// Select event 1 for review
	rr := doJSON(t, router, http.MethodPost, "/review/select/1", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var snap services.ReviewSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, services.StateEditing, snap.State)
	assert.Equal(t, services.ModeReview, snap.Mode)

	// Stage an edit
	rr = doJSON(t, router, http.MethodPost, "/review/edits", `{"op":"set_event_name","value":"GopherCon BR"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	// Request approval, then confirm
	rr = doJSON(t, router, http.MethodPost, "/review/request", `{"action":"approve"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = doJSON(t, router, http.MethodPost, "/review/confirm", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, services.StateIdle, snap.State)

	stub.mu.Lock()
	calls := append([]string(nil), stub.calls...)
	stub.mu.Unlock()
	assert.Contains(t, calls, "set_status 1 approved")
	assert.Contains(t, calls, "update_fields 1")
}

func TestSelectUnknownEventIs404(t *testing.T) {
	router := testRouter(stubWithEvents())
	rr := doJSON(t, router, http.MethodPost, "/review/select/42", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRemoveDefaultLanguageOverHTTPIs400(t *testing.T) {
	router := testRouter(stubWithEvents())
	require.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodPost, "/events/reload", "").Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/review/select/1", "").Code)

	rr := doJSON(t, router, http.MethodPost, "/review/edits", `{"op":"remove_language","code":"pt-br"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestConfirmWithoutRequestIs409(t *testing.T) {
	router := testRouter(stubWithEvents())
	rr := doJSON(t, router, http.MethodPost, "/review/confirm", "")
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestCloseReviewResetsState(t *testing.T) {
	router := testRouter(stubWithEvents())
	require.Equal(t, http.StatusNoContent, doJSON(t, router, http.MethodPost, "/events/reload", "").Code)
	require.Equal(t, http.StatusOK, doJSON(t, router, http.MethodPost, "/review/select/1", "").Code)

	rr := doJSON(t, router, http.MethodDelete, "/review", "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = doJSON(t, router, http.MethodGet, "/review", "")
	var snap services.ReviewSnapshot
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, services.StateIdle, snap.State)
}
