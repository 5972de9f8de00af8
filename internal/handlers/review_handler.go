package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/calendario-tech/review-console/internal/models"
	"github.com/calendario-tech/review-console/internal/services"
)

// ReviewHandler handles review workflow HTTP requests
type ReviewHandler struct {
	review *services.ReviewService
	events *services.EventService
}

// NewReviewHandler creates a new ReviewHandler
func NewReviewHandler(review *services.ReviewService, events *services.EventService) *ReviewHandler {
	return &ReviewHandler{
		review: review,
		events: events,
	}
}

// Select handles POST /review/select/:id
func (h *ReviewHandler) Select(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	event, ok := h.events.Find(id)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Event not found in loaded collections"})
		return
	}

	if err := h.review.SelectForReview(event); err != nil {
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.review.Snapshot())
}

// State handles GET /review
func (h *ReviewHandler) State(c *gin.Context) {
	c.JSON(http.StatusOK, h.review.Snapshot())
}

// ApplyEdit handles POST /review/edits
func (h *ReviewHandler) ApplyEdit(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cmd, err := models.DecodeEditCommand(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.review.Apply(cmd); err != nil {
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.review.Snapshot())
}

// Request handles POST /review/request
func (h *ReviewHandler) Request(c *gin.Context) {
	var req struct {
		Action services.ReviewAction `json:"action" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var err error
	switch req.Action {
	case services.ActionApprove:
		err = h.review.RequestApprove()
	case services.ActionDecline:
		err = h.review.RequestDecline()
	case services.ActionSave:
		err = h.review.RequestSave()
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown action"})
		return
	}

	if err != nil {
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.review.Snapshot())
}

// Confirm handles POST /review/confirm
func (h *ReviewHandler) Confirm(c *gin.Context) {
	if err := h.review.Confirm(c.Request.Context()); err != nil {
		if errors.Is(err, services.ErrPartiallyApplied) {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":             err.Error(),
				"partially_applied": true,
			})
			return
		}
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.review.Snapshot())
}

// Cancel handles POST /review/cancel
func (h *ReviewHandler) Cancel(c *gin.Context) {
	if err := h.review.CancelConfirmation(); err != nil {
		c.JSON(reviewErrorStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.review.Snapshot())
}

// Close handles DELETE /review
func (h *ReviewHandler) Close(c *gin.Context) {
	h.review.CloseReview()
	c.Status(http.StatusNoContent)
}

func reviewErrorStatus(err error) int {
	switch {
	case errors.Is(err, services.ErrBadTransition):
		return http.StatusConflict
	case errors.Is(err, models.ErrDefaultLanguage),
		errors.Is(err, models.ErrUnknownLanguage):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
