// File: /main.go
package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"crewcall-api/config"
	"crewcall-api/database"
	"crewcall-api/jobs"
	"crewcall-api/middleware"
	"crewcall-api/routes"
	"crewcall-api/services"
)

func main() {
	// .env is optional; real deployments configure the process environment
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	// Load configuration
	cfg := config.Load()

	// Initialize database. A failed connection is non-fatal: the process
	// keeps serving in degraded mode and persistence-backed routes answer
	// 503 until a restart with a working DATABASE_URL.
	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Printf("Warning: database unavailable, running in degraded mode: %v", err)
		db = nil
	} else {
		if err := database.Migrate(db); err != nil {
			log.Printf("Warning: failed to migrate database: %v", err)
		}
		if err := database.SeedData(db); err != nil {
			log.Printf("Warning: failed to seed database: %v", err)
		}
	}

	// Set Gin mode based on environment
	if os.Getenv("GIN_MODE") == "" && cfg.Port == "8080" { // Development
		gin.SetMode(gin.DebugMode)
	} else if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Make sure the upload directory exists
	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Printf("Warning: could not create upload directory: %v", err)
	}

	// Create router
	router := gin.Default()

	router.Use(routes.SetupCORS(cfg.AllowedOrigins))
	router.Use(middleware.SecurityHeaders())

	// Shared long-lived services
	hub := services.NewNotificationHub()
	otp := services.NewOTPService(cfg)

	routes.SetupRoutes(router, db, cfg, hub, otp)

	// Background maintenance only makes sense with persistence
	if db != nil {
		cleanupJob := jobs.NewNotificationCleanupJob(db, 6*time.Hour)
		cleanupJob.Start()
	}

	log.Printf("Starting CrewCall API server on port %s", cfg.Port)
	log.Printf("Health check available at: http://localhost:%s/ping", cfg.Port)

	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
