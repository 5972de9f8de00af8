package services

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/calendario-tech/review-console/internal/filter"
	"github.com/calendario-tech/review-console/internal/metrics"
	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/pkg/catalog"
)

// CatalogAPI is the slice of the catalog client the services depend on.
type CatalogAPI interface {
	ListPending(ctx context.Context) ([]models.Event, error)
	ListApproved(ctx context.Context) ([]models.Event, error)
	SetStatus(ctx context.Context, eventID int, decision catalog.Decision) error
	UpdateFields(ctx context.Context, eventID int, fields map[string]interface{}) error
	DeleteEvent(ctx context.Context, eventID int) error
}

// Compile-time check that the real client satisfies the interface
var _ CatalogAPI = (*catalog.Client)(nil)

// EventService caches the two catalog collections and serves filtered views
// of them. Membership is the server's call: pending and approved are fetched
// independently and never recomputed client-side.
type EventService struct {
	catalog CatalogAPI
	logger  *zap.Logger

	mu       sync.RWMutex
	pending  []models.Event
	approved []models.Event
}

// NewEventService creates a new EventService
func NewEventService(catalogAPI CatalogAPI, logger *zap.Logger) *EventService {
	return &EventService{
		catalog: catalogAPI,
		logger:  logger,
	}
}

// Reload fetches both collections and replaces the cache wholesale. The two
// fetches are issued together; each populates an independent collection, so
// their completion order does not matter. On any failure the cache is left
// as it was.
func (s *EventService) Reload(ctx context.Context) error {
	var (
		wg          sync.WaitGroup
		pending     []models.Event
		approved    []models.Event
		pendingErr  error
		approvedErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		pending, pendingErr = s.catalog.ListPending(ctx)
		metrics.CatalogRequests.WithLabelValues("list_pending", metrics.Outcome(pendingErr)).Inc()
	}()
	go func() {
		defer wg.Done()
		approved, approvedErr = s.catalog.ListApproved(ctx)
		metrics.CatalogRequests.WithLabelValues("list_approved", metrics.Outcome(approvedErr)).Inc()
	}()
	wg.Wait()

	if pendingErr != nil {
		return pendingErr
	}
	if approvedErr != nil {
		return approvedErr
	}

	s.mu.Lock()
	s.pending = pending
	s.approved = approved
	s.mu.Unlock()

	s.logger.Info("collections reloaded",
		zap.Int("pending", len(pending)),
		zap.Int("approved", len(approved)))
	return nil
}

// Pending returns the cached pending collection narrowed by search and tags.
func (s *EventService) Pending(search string, tags []string) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.pending, search, tags)
}

// Approved returns the cached approved collection narrowed by search and tags.
func (s *EventService) Approved(search string, tags []string) []models.Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.Apply(s.approved, search, tags)
}

// PendingTags returns the tag vocabulary of the pending collection.
func (s *EventService) PendingTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.TagVocabulary(s.pending)
}

// ApprovedTags returns the tag vocabulary of the approved collection.
func (s *EventService) ApprovedTags() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return filter.TagVocabulary(s.approved)
}

// Find looks an event up by id in either cached collection.
func (s *EventService) Find(eventID int) (models.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, event := range s.pending {
		if event.ID == eventID {
			return event, true
		}
	}
	for _, event := range s.approved {
		if event.ID == eventID {
			return event, true
		}
	}
	return models.Event{}, false
}

// Delete removes an event from the catalog and reloads both collections.
func (s *EventService) Delete(ctx context.Context, eventID int) error {
	err := s.catalog.DeleteEvent(ctx, eventID)
	metrics.CatalogRequests.WithLabelValues("delete_event", metrics.Outcome(err)).Inc()
	if err != nil {
		return err
	}
	s.logger.Info("event deleted", zap.Int("event_id", eventID))
	return s.Reload(ctx)
}
