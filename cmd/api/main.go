package main

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"research-conference-api/config"
	"research-conference-api/middleware"
	"research-conference-api/routes"
	"research-conference-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func envMinutes(key string, fallback int) time.Duration {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return time.Duration(fallback) * time.Minute
}

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config.InitLogging()

	// Initialize database
	config.InitDB()

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)

	// Create upload directory if not exists
	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	if err := os.MkdirAll(uploadPath, os.ModePerm); err != nil {
		log.Printf("Warning: Failed to create upload directory: %v", err)
	}

	// Background workers: email outbox dispatcher and review deadline
	// reminders. Both take a MySQL named lock so only one instance runs
	// a cycle at a time.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	outbox := services.NewEmailOutboxService(config.DB)
	go outbox.RunDispatcher(ctx, envMinutes("OUTBOX_DISPATCH_MINUTES", 1))

	deadlines := services.NewDeadlineService(config.DB)
	go deadlines.RunReminder(ctx, envMinutes("REVIEW_REMINDER_MINUTES", 60))

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
