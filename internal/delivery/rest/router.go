package rest

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the game routes.
func NewRouter(h *Handler, logger *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(requestLogger(logger))

	router.GET("/health", h.Health)

	api := router.Group("/api/v1")
	games := api.Group("/games")
	{
		games.POST("", h.CreateGame)
		games.GET("/:id", h.GetGame)
		games.DELETE("/:id", h.DeleteGame)
		games.POST("/:id/answers", h.SubmitAnswer)
		games.POST("/:id/restart", h.RestartGame)
		games.GET("/:id/ws", h.Stream)
	}

	return router
}
