package handler

import (
	"net/http"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/timeline"
	"github.com/gin-gonic/gin"
)

type TimelineHandler struct {
	timelineUseCase *timeline.TimelineUseCase
}

func NewTimelineHandler(timelineUseCase *timeline.TimelineUseCase) *TimelineHandler {
	return &TimelineHandler{timelineUseCase: timelineUseCase}
}

// ListTemplates handles GET /life-events/templates
// @Summary List catalog life events
// @Tags life-events
// @Security BearerAuth
// @Produce json
// @Param category query string false "formative, turning_points or growth"
// @Success 200 {array} domain.LifeEvent
// @Failure 400 {object} ErrorResponse
// @Router /life-events/templates [get]
func (h *TimelineHandler) ListTemplates(c *gin.Context) {
	category := domain.Category(c.Query("category"))
	templates, err := h.timelineUseCase.ListTemplates(c.Request.Context(), category)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, templates)
}

// ListMyEvents handles GET /me/life-events
// @Summary List my timeline
// @Tags life-events
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.UserLifeEvent
// @Router /me/life-events [get]
func (h *TimelineHandler) ListMyEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	events, err := h.timelineUseCase.ListUserEvents(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// CreateEvent handles POST /me/life-events
// @Summary Add a life event to my timeline
// @Tags life-events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body timeline.CreateEventRequest true "Life event"
// @Success 201 {object} domain.UserLifeEvent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /me/life-events [post]
func (h *TimelineHandler) CreateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req timeline.CreateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.timelineUseCase.CreateEvent(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

// UpdateEvent handles PATCH /me/life-events/:event_id
// @Summary Update one of my life events
// @Tags life-events
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param event_id path string true "Life event ID"
// @Param request body timeline.UpdateEventRequest true "Fields to change"
// @Success 200 {object} domain.UserLifeEvent
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /me/life-events/{event_id} [patch]
func (h *TimelineHandler) UpdateEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	var req timeline.UpdateEventRequest
	if !bindJSON(c, &req) {
		return
	}

	event, err := h.timelineUseCase.UpdateEvent(c.Request.Context(), userID, eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, event)
}

// DeleteEvent handles DELETE /me/life-events/:event_id
// @Summary Delete one of my life events
// @Tags life-events
// @Security BearerAuth
// @Param event_id path string true "Life event ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /me/life-events/{event_id} [delete]
func (h *TimelineHandler) DeleteEvent(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	eventID, ok := uuidParam(c, "event_id")
	if !ok {
		return
	}

	if err := h.timelineUseCase.DeleteEvent(c.Request.Context(), userID, eventID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
