package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/calvora/recsys-backend/internal/db"
	"github.com/calvora/recsys-backend/internal/handlers"
	"github.com/calvora/recsys-backend/internal/logger"
	"github.com/calvora/recsys-backend/internal/repos"
	"github.com/calvora/recsys-backend/internal/server"
	"github.com/calvora/recsys-backend/internal/services"
	"github.com/calvora/recsys-backend/internal/utils"
)

func main() {
	// Env file is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Error("Postgres auto migration failed", "error", err)
		os.Exit(1)
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up Repos from main...")
	userRepo := repos.NewUserRepo(thePG, log)
	activityRepo := repos.NewUserActivityRepo(thePG, log)
	recommendationRepo := repos.NewRecommendationRepo(thePG, log)

	// Activity bus (optional, enabled by REDIS_ADDR)
	var activityPublisher services.ActivityPublisher
	if os.Getenv("REDIS_ADDR") != "" {
		activityPublisher, err = services.NewRedisActivityPublisher(log)
		if err != nil {
			log.Warn("Could not init activity publisher, continuing without it", "error", err)
			activityPublisher = nil
		} else {
			defer activityPublisher.Close()
		}
	}

	// Services
	log.Info("Setting up Services from main...")
	activityService := services.NewActivityService(thePG, log, activityRepo, activityPublisher)
	candidateGenerator := services.NewActivityCandidateGenerator(log, activityRepo)
	recommendationService := services.NewRecommendationService(thePG, log, userRepo, recommendationRepo, candidateGenerator)

	// Handlers
	log.Info("Setting up handlers from main...")
	activityHandler := handlers.NewActivityHandler(log, activityService)
	recommendationHandler := handlers.NewRecommendationHandler(log, recommendationService)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		ActivityHandler:       activityHandler,
		RecommendationHandler: recommendationHandler,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Server listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
