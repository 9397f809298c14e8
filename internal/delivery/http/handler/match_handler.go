package handler

import (
	"net/http"

	"github.com/gdugdh24/dejavu-backend/internal/usecase/chapter"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/match"
	"github.com/gin-gonic/gin"
)

type MatchHandler struct {
	matchUseCase *match.MatchUseCase
	generator    *chapter.Generator
}

func NewMatchHandler(matchUseCase *match.MatchUseCase, generator *chapter.Generator) *MatchHandler {
	return &MatchHandler{
		matchUseCase: matchUseCase,
		generator:    generator,
	}
}

// ApplyAction handles POST /matches/:user_id/action
// @Summary Relate, be curious about or pass on a user
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param user_id path int true "Target user ID"
// @Param request body match.ActionRequest true "Action"
// @Success 200 {object} match.ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /matches/{user_id}/action [post]
func (h *MatchHandler) ApplyAction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := intParam(c, "user_id")
	if !ok {
		return
	}

	var req match.ActionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.matchUseCase.ApplyAction(c.Request.Context(), userID, targetID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMatchAction handles PUT /matches/by-id/:match_id/action
// @Summary Change my action on an existing match
// @Tags matches
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param match_id path string true "Match ID"
// @Param request body match.ActionRequest true "Action"
// @Success 200 {object} match.ActionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /matches/by-id/{match_id}/action [put]
func (h *MatchHandler) UpdateMatchAction(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID, ok := uuidParam(c, "match_id")
	if !ok {
		return
	}

	var req match.ActionRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.matchUseCase.UpdateMatchAction(c.Request.Context(), matchID, userID, req.Action)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetMatches handles GET /matches
// @Summary My matches where someone chose relate
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} match.MatchSummary
// @Router /matches [get]
func (h *MatchHandler) GetMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	matches, err := h.matchUseCase.GetUserMatches(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, matches)
}

// GetSharedEvents handles GET /matches/by-id/:match_id/shared-events
// @Summary Shared events of a revealed match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param match_id path string true "Match ID"
// @Success 200 {array} domain.SharedEvent
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/by-id/{match_id}/shared-events [get]
func (h *MatchHandler) GetSharedEvents(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID, ok := uuidParam(c, "match_id")
	if !ok {
		return
	}

	events, err := h.generator.GetSharedEvents(c.Request.Context(), matchID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetConversationStarters handles GET /matches/by-id/:match_id/conversation-starters
// @Summary Conversation starters of a revealed match
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param match_id path string true "Match ID"
// @Success 200 {array} domain.ConversationStarter
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/by-id/{match_id}/conversation-starters [get]
func (h *MatchHandler) GetConversationStarters(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID, ok := uuidParam(c, "match_id")
	if !ok {
		return
	}

	starters, err := h.generator.GetConversationStarters(c.Request.Context(), matchID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, starters)
}

// MarkStarterUsed handles POST /matches/by-id/:match_id/conversation-starters/:starter_id/use
// @Summary Mark a conversation starter as used
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param match_id path string true "Match ID"
// @Param starter_id path string true "Starter ID"
// @Success 200 {object} domain.ConversationStarter
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/by-id/{match_id}/conversation-starters/{starter_id}/use [post]
func (h *MatchHandler) MarkStarterUsed(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	matchID, ok := uuidParam(c, "match_id")
	if !ok {
		return
	}
	starterID, ok := uuidParam(c, "starter_id")
	if !ok {
		return
	}

	starter, err := h.generator.MarkStarterUsed(c.Request.Context(), matchID, starterID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, starter)
}
