package main

import (
	"log"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"github.com/harborline/storefront-api/internal/ai"
	"github.com/harborline/storefront-api/internal/database"
	"github.com/harborline/storefront-api/internal/handlers"
	"github.com/harborline/storefront-api/internal/ratelimit"
	"github.com/harborline/storefront-api/internal/routes"
)

func main() {
	// 0. --- Load Environment Variables (.env) ---
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	// 1. --- Database Connection ---
	db, err := database.OpenDB()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// 2. --- Redis (Rate Limiting) ---
	// Only guest order tracking uses it; without Redis the limiter fails
	// open, so a missing REDIS_ADDR degrades rather than breaks startup.
	var rdb *redis.Client
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: os.Getenv("REDIS_PASSWORD"),
		})
	} else {
		log.Println("WARNING: REDIS_ADDR is not set. Order tracking rate limits are disabled.")
	}
	trackLimiter := ratelimit.NewLimiter(rdb, "track", 10, time.Minute)

	// 3. --- AI Assistant (Optional) ---
	var aiService *ai.AIService
	if geminiKey := os.Getenv("GEMINI_API_KEY"); geminiKey != "" {
		aiService, err = ai.NewAIService(geminiKey, db)
		if err != nil {
			log.Fatalf("Failed to initialize AI service: %v", err)
		}
		defer aiService.Client.Close()
	} else {
		log.Println("WARNING: GEMINI_API_KEY is not set. The chat assistant is disabled; chat falls back to staff replies only.")
	}

	// --- Application Setup ---
	app := &handlers.Handlers{
		DB:           db,
		TrackLimiter: trackLimiter,
		AIService:    aiService,
	}

	// 4. --- Background Workers ---
	// Sweeps hourly for orders stuck in pending and cancels them,
	// returning their stock.
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		log.Println("Background worker started: monitoring for stale orders...")

		for range ticker.C {
			app.ProcessStaleOrders()
		}
	}()

	// --- Router Setup ---
	router := routes.SetupRouter(app)

	// --- Start Server ---
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("Starting Harborline storefront API on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
