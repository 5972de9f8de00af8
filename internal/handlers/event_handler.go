package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/calendario-tech/review-console/internal/services"
)

// EventHandler handles event collection HTTP requests
type EventHandler struct {
	events *services.EventService
}

// NewEventHandler creates a new EventHandler
func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{
		events: events,
	}
}

// filterParams reads the shared search/tags query parameters. Tags arrive
// comma-separated; empty entries are dropped.
func filterParams(c *gin.Context) (string, []string) {
	search := c.Query("search")
	var tags []string
	for _, tag := range strings.Split(c.Query("tags"), ",") {
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return search, tags
}

// GetPending handles GET /events/pending
func (h *EventHandler) GetPending(c *gin.Context) {
	search, tags := filterParams(c)
	c.JSON(http.StatusOK, h.events.Pending(search, tags))
}

// GetApproved handles GET /events/approved
func (h *EventHandler) GetApproved(c *gin.Context) {
	search, tags := filterParams(c)
	c.JSON(http.StatusOK, h.events.Approved(search, tags))
}

// GetPendingTags handles GET /events/pending/tags
func (h *EventHandler) GetPendingTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.events.PendingTags())
}

// GetApprovedTags handles GET /events/approved/tags
func (h *EventHandler) GetApprovedTags(c *gin.Context) {
	c.JSON(http.StatusOK, h.events.ApprovedTags())
}

// Reload handles POST /events/reload
func (h *EventHandler) Reload(c *gin.Context) {
	if err := h.events.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load events: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// Delete handles DELETE /events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ID format"})
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete event: " + err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}
