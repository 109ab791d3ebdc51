package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/calvora/recsys-backend/internal/handlers"
)

type RouterConfig struct {
	ActivityHandler       *handlers.ActivityHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		// Activities
		api.POST("/activities", cfg.ActivityHandler.Track)
		api.GET("/activities/:user_id", cfg.ActivityHandler.Recent)
		api.GET("/activities/:user_id/stats", cfg.ActivityHandler.Stats)
		// Recommendations
		api.POST("/recommendations", cfg.RecommendationHandler.GetRecommendations)
		api.GET("/recommendations/:user_id", cfg.RecommendationHandler.GetRecommendationsByID)
	}

	return router
}
