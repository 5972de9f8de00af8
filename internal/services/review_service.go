package services

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/jinzhu/copier"
	"go.uber.org/zap"

	"github.com/calendario-tech/review-console/internal/metrics"
	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/pkg/catalog"
)

// ReviewState is where the workflow currently sits.
type ReviewState string

const (
	StateIdle                ReviewState = "idle"
	StateEditing             ReviewState = "editing"
	StatePendingConfirmation ReviewState = "pending_confirmation"
)

// ReviewMode tells the two variants of the editing state apart: reviewing a
// requested event (approve/decline) versus editing an already-decided one
// (save in place).
type ReviewMode string

const (
	ModeReview ReviewMode = "review"
	ModeEdit   ReviewMode = "edit"
)

// ReviewAction is the recorded irreversible action awaiting confirmation.
type ReviewAction string

const (
	ActionApprove ReviewAction = "approve"
	ActionDecline ReviewAction = "decline"
	ActionSave    ReviewAction = "save"
)

var (
	// ErrBadTransition is returned for an operation the current state does
	// not allow.
	ErrBadTransition = errors.New("action not allowed in current review state")

	// ErrPartiallyApplied reports the accepted gap in the approve sequence:
	// the status change landed but the field update did not, leaving the
	// event approved without its edits.
	ErrPartiallyApplied = errors.New("event approved but field update failed")
)

// ReviewSnapshot is the externally visible workflow state.
type ReviewSnapshot struct {
	State  ReviewState   `json:"state"`
	Mode   ReviewMode    `json:"mode,omitempty"`
	Action ReviewAction  `json:"requested_action,omitempty"`
	Event  *models.Event `json:"event,omitempty"`
}

// ReviewService drives a single selected event from staging through an
// explicit confirmation to a terminal catalog mutation, then reloads both
// collections. One operator at a time; the mutex only serializes the HTTP
// server's concurrent deliveries.
type ReviewService struct {
	catalog CatalogAPI
	events  *EventService
	logger  *zap.Logger

	mu       sync.Mutex
	state    ReviewState
	mode     ReviewMode
	action   ReviewAction
	original *models.Event
	working  *models.Event
}

// NewReviewService creates a new ReviewService
func NewReviewService(catalogAPI CatalogAPI, events *EventService, logger *zap.Logger) *ReviewService {
	return &ReviewService{
		catalog: catalogAPI,
		events:  events,
		logger:  logger,
		state:   StateIdle,
	}
}

// SelectForReview stages an event: the working copy takes the edits, the
// original is retained untouched for diffing. Requested events open in review
// mode, anything already decided opens in edit mode.
func (s *ReviewService) SelectForReview(event models.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateIdle {
		return ErrBadTransition
	}

	original, err := cloneEvent(&event)
	if err != nil {
		return err
	}
	working, err := cloneEvent(&event)
	if err != nil {
		return err
	}

	s.original = original
	s.working = working
	if event.Status == models.EventStatusRequested {
		s.mode = ModeReview
	} else {
		s.mode = ModeEdit
	}
	s.state = StateEditing

	s.logger.Info("event staged for review",
		zap.Int("event_id", event.ID),
		zap.String("mode", string(s.mode)))
	return nil
}

// Apply runs one edit command against the working copy.
func (s *ReviewService) Apply(cmd models.EditCommand) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing {
		return ErrBadTransition
	}
	return cmd.Apply(s.working)
}

// RequestApprove records an approval pending confirmation.
func (s *ReviewService) RequestApprove() error {
	return s.request(ActionApprove, ModeReview)
}

// RequestDecline records a decline pending confirmation.
func (s *ReviewService) RequestDecline() error {
	return s.request(ActionDecline, ModeReview)
}

// RequestSave records an edit-in-place save pending confirmation.
func (s *ReviewService) RequestSave() error {
	return s.request(ActionSave, ModeEdit)
}

func (s *ReviewService) request(action ReviewAction, mode ReviewMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateEditing || s.mode != mode {
		return ErrBadTransition
	}
	s.action = action
	s.state = StatePendingConfirmation
	return nil
}

// CancelConfirmation steps back to editing, keeping the staged edits.
func (s *ReviewService) CancelConfirmation() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePendingConfirmation {
		return ErrBadTransition
	}
	s.action = ""
	s.state = StateEditing
	return nil
}

// CloseReview discards the working copy and returns to idle from any state.
func (s *ReviewService) CloseReview() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

// Confirm executes the recorded action. On success the workflow returns to
// idle and both collections are reloaded. On failure the workflow reverts to
// editing with the working copy intact (deterministically, so the operator
// can re-request or cancel); no reload happens and nothing is rolled back.
func (s *ReviewService) Confirm(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StatePendingConfirmation {
		return ErrBadTransition
	}

	action := s.action
	eventID := s.original.ID

	switch action {
	case ActionApprove:
		err := s.catalog.SetStatus(ctx, eventID, catalog.DecisionApproved)
		metrics.CatalogRequests.WithLabelValues("set_status", metrics.Outcome(err)).Inc()
		if err != nil {
			s.revertToEditing(err)
			return err
		}
		if patch := diffEvents(s.original, s.working); len(patch) > 0 {
			err := s.catalog.UpdateFields(ctx, eventID, patch)
			metrics.CatalogRequests.WithLabelValues("update_fields", metrics.Outcome(err)).Inc()
			if err != nil {
				// The status change already landed; report this distinctly
				// from a full failure.
				partial := fmt.Errorf("%w: %v", ErrPartiallyApplied, err)
				s.revertToEditing(partial)
				return partial
			}
		}

	case ActionDecline:
		err := s.catalog.SetStatus(ctx, eventID, catalog.DecisionDeclined)
		metrics.CatalogRequests.WithLabelValues("set_status", metrics.Outcome(err)).Inc()
		if err != nil {
			s.revertToEditing(err)
			return err
		}

	case ActionSave:
		if patch := diffEvents(s.original, s.working); len(patch) > 0 {
			err := s.catalog.UpdateFields(ctx, eventID, patch)
			metrics.CatalogRequests.WithLabelValues("update_fields", metrics.Outcome(err)).Inc()
			if err != nil {
				s.revertToEditing(err)
				return err
			}
		}

	default:
		return ErrBadTransition
	}

	metrics.ReviewDecisions.WithLabelValues(string(action)).Inc()
	s.logger.Info("review action completed",
		zap.Int("event_id", eventID),
		zap.String("action", string(action)))
	s.reset()

	return s.events.Reload(ctx)
}

// Snapshot reports the current workflow state and working copy.
func (s *ReviewService) Snapshot() ReviewSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := ReviewSnapshot{State: s.state}
	if s.state == StateIdle {
		return snap
	}
	snap.Mode = s.mode
	snap.Action = s.action
	if s.working != nil {
		working, err := cloneEvent(s.working)
		if err == nil {
			snap.Event = working
		}
	}
	return snap
}

func (s *ReviewService) revertToEditing(err error) {
	s.logger.Warn("review action failed, edits preserved", zap.Error(err))
	s.action = ""
	s.state = StateEditing
}

func (s *ReviewService) reset() {
	s.state = StateIdle
	s.mode = ""
	s.action = ""
	s.original = nil
	s.working = nil
}

func cloneEvent(event *models.Event) (*models.Event, error) {
	clone := &models.Event{}
	if err := copier.CopyWithOption(clone, event, copier.Option{DeepCopy: true}); err != nil {
		return nil, err
	}
	return clone, nil
}

// diffEvents computes the partial update to send when the working copy is
// persisted. Scalars compare by value; tags element-wise; intl by deep
// structural equality so identical content never produces a spurious patch.
// The id is immutable and never part of a patch.
func diffEvents(original, working *models.Event) map[string]interface{} {
	patch := map[string]interface{}{}
	if working.EventName != original.EventName {
		patch["event_name"] = working.EventName
	}
	if working.OrganizationName != original.OrganizationName {
		patch["organization_name"] = working.OrganizationName
	}
	if working.StartDatetime != original.StartDatetime {
		patch["start_datetime"] = working.StartDatetime
	}
	if working.EndDatetime != original.EndDatetime {
		patch["end_datetime"] = working.EndDatetime
	}
	if working.Address != original.Address {
		patch["address"] = working.Address
	}
	if working.EventLink != original.EventLink {
		patch["event_link"] = working.EventLink
	}
	if working.MapsLink != original.MapsLink {
		patch["maps_link"] = working.MapsLink
	}
	if working.Online != original.Online {
		patch["online"] = working.Online
	}
	if working.Status != original.Status {
		patch["status"] = working.Status
	}
	if !reflect.DeepEqual(working.Tags, original.Tags) {
		patch["tags"] = working.Tags
	}
	if !reflect.DeepEqual(working.Intl, original.Intl) {
		patch["intl"] = working.Intl
	}
	return patch
}
