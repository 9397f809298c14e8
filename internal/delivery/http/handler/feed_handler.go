package handler

import (
	"net/http"
	"strconv"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/gdugdh24/dejavu-backend/internal/usecase/feed"
	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	feedUseCase *feed.FeedUseCase
}

func NewFeedHandler(feedUseCase *feed.FeedUseCase) *FeedHandler {
	return &FeedHandler{feedUseCase: feedUseCase}
}

// GetPotentialMatches handles GET /matches/potential
// @Summary Discovery candidates ranked by Deja score
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Maximum number of candidates (default 10, max 50)"
// @Success 200 {array} feed.CandidateResponse
// @Failure 400 {object} ErrorResponse
// @Router /matches/potential [get]
func (h *FeedHandler) GetPotentialMatches(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			respondError(c, domain.NewValidationError("limit", "must be a positive integer"))
			return
		}
		limit = v
	}

	candidates, err := h.feedUseCase.GetCandidates(c.Request.Context(), userID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, candidates)
}
