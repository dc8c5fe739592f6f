package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/eben2468/srcwebsite-sub006/internal/models"
	"github.com/eben2468/srcwebsite-sub006/internal/rbac"
	"github.com/eben2468/srcwebsite-sub006/internal/services"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

type EventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
}

func (h *EventHandler) GetEvents(c *gin.Context) {
	events, err := h.eventService.GetEvents()
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to get events"})
		return
	}

	c.JSON(200, gin.H{"success": true, "events": events})
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Title and start time are required"})
		return
	}

	event, err := h.eventService.CreateEvent(req.Title, req.Description, req.Location, req.StartsAt, actingUserID(c))
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to create event"})
		return
	}

	c.JSON(201, gin.H{"success": true, "event": event})
}

// UpdateEvent allows the role grant or the organizer's ownership override.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid event ID"})
		return
	}

	var req EventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Title and start time are required"})
		return
	}

	event, err := h.eventService.GetEvent(uint(id))
	if err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Event not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to load event"})
		return
	}

	user := c.MustGet("user").(*models.User)
	if !rbac.Can(user.Role, user.ID, rbac.ActionUpdate, rbac.ResourceEvents, event.OrganizerID) {
		c.JSON(403, gin.H{"success": false, "message": "Access denied"})
		return
	}

	updated, err := h.eventService.UpdateEvent(uint(id), req.Title, req.Description, req.Location, req.StartsAt)
	if err != nil {
		c.JSON(500, gin.H{"success": false, "message": "Failed to update event"})
		return
	}

	c.JSON(200, gin.H{"success": true, "event": updated})
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(400, gin.H{"success": false, "message": "Invalid event ID"})
		return
	}

	if err := h.eventService.DeleteEvent(uint(id)); err != nil {
		if errors.Is(err, services.ErrEventNotFound) {
			c.JSON(404, gin.H{"success": false, "message": "Event not found"})
			return
		}
		c.JSON(500, gin.H{"success": false, "message": "Failed to delete event"})
		return
	}

	c.JSON(200, gin.H{"success": true, "message": "Event deleted successfully"})
}
