package http

import (
	"github.com/gdugdh24/dejavu-backend/internal/delivery/http/handler"
	"github.com/gdugdh24/dejavu-backend/internal/delivery/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Router struct {
	profileHandler  *handler.ProfileHandler
	timelineHandler *handler.TimelineHandler
	feedHandler     *handler.FeedHandler
	matchHandler    *handler.MatchHandler
	authMiddleware  *middleware.AuthMiddleware
	logger          *zap.Logger
}

func NewRouter(
	profileHandler *handler.ProfileHandler,
	timelineHandler *handler.TimelineHandler,
	feedHandler *handler.FeedHandler,
	matchHandler *handler.MatchHandler,
	authMiddleware *middleware.AuthMiddleware,
	logger *zap.Logger,
) *Router {
	return &Router{
		profileHandler:  profileHandler,
		timelineHandler: timelineHandler,
		feedHandler:     feedHandler,
		matchHandler:    matchHandler,
		authMiddleware:  authMiddleware,
		logger:          logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.RequestLogger(r.logger), middleware.Metrics())

	// Health check (supports both GET and HEAD)
	healthHandler := func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	}
	router.GET("/health", healthHandler)
	router.HEAD("/health", healthHandler)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := router.Group("/api/v1")
	v1.GET("/health", healthHandler)

	protected := v1.Group("")
	protected.Use(r.authMiddleware.RequireAuth())
	{
		protected.GET("/life-events/templates", r.timelineHandler.ListTemplates)

		me := protected.Group("/me")
		{
			me.GET("/life-events", r.timelineHandler.ListMyEvents)
			me.POST("/life-events", r.timelineHandler.CreateEvent)
			me.PATCH("/life-events/:event_id", r.timelineHandler.UpdateEvent)
			me.DELETE("/life-events/:event_id", r.timelineHandler.DeleteEvent)

			me.GET("/profile", r.profileHandler.GetMe)
			me.PATCH("/profile", r.profileHandler.UpdateMe)
			me.POST("/profile/complete-onboarding", r.profileHandler.CompleteOnboarding)
		}

		matches := protected.Group("/matches")
		{
			matches.GET("", r.matchHandler.GetMatches)
			matches.GET("/potential", r.feedHandler.GetPotentialMatches)
			matches.POST("/:user_id/action", r.matchHandler.ApplyAction)

			byID := matches.Group("/by-id/:match_id")
			{
				byID.PUT("/action", r.matchHandler.UpdateMatchAction)
				byID.GET("/shared-events", r.matchHandler.GetSharedEvents)
				byID.GET("/conversation-starters", r.matchHandler.GetConversationStarters)
				byID.POST("/conversation-starters/:starter_id/use", r.matchHandler.MarkStarterUsed)
			}
		}
	}

	return router
}
