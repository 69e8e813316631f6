package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/pdfshelf/pdfshelf-backend/auth/middleware"
	"github.com/pdfshelf/pdfshelf-backend/handlers"
	"github.com/pdfshelf/pdfshelf-backend/initializers"
	"github.com/pdfshelf/pdfshelf-backend/jobs"
	"github.com/pdfshelf/pdfshelf-backend/routes"
)

const defaultPort = "8080"

func main() {
	initializers.ConnectToDatabase()
	initializers.InitStorage()
	handlers.ConfigureVotePolicy()
	port := os.Getenv("PORT")
	if port == "" {
		port = defaultPort
	}

	// Start thumbnail refresh job
	jobs.StartThumbnailJob()

	router := gin.Default()
	// Add CORS middleware before other middleware
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Location"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Fatal("SESSION_SECRET is not set in environment variables")
	}
	store := cookie.NewStore([]byte(sessionSecret))
	router.Use(sessions.Sessions("pdfshelf", store))

	// Global middleware
	router.Use(
		middleware.RateLimitMiddleware(),
	)

	routes.Register(router)

	log.Printf("listening on http://localhost:%s/", port)
	log.Fatal(router.Run(":" + port))
}
