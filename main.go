package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"leaderboard-service/handlers"
	"leaderboard-service/models"
	"leaderboard-service/services"
	"leaderboard-service/utils"
	"leaderboard-service/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 64 * 1024, // score submissions are tiny JSON bodies
	})

	// CORS configuration — origins come from the environment, comma-separated
	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins: allowedOriginsString,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept",
		MaxAge:       86400, // 24 hours
	}))

	scoresFile := os.Getenv("SCORES_FILE")
	if scoresFile == "" {
		scoresFile = "data/scores.json"
	}

	store, err := services.NewScoreStore(scoresFile)
	if err != nil {
		log.Fatal("failed to initialize score store:", err)
	}

	sigs, err := services.NewSignatureService()
	if err != nil {
		log.Fatal("failed to initialize signature service:", err)
	}

	registry := services.NewSessionRegistry(sigs)
	registry.StartSweeper()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Optional: periodic leaderboard snapshot backups to R2
	if utils.R2Enabled() {
		if err := utils.InitR2(); err != nil {
			log.Fatal("failed to initialize R2 client:", err)
		}
		backupInterval := 1 * time.Hour
		if v := os.Getenv("BACKUP_INTERVAL"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				backupInterval = d
			} else {
				log.Printf("⚠️  Invalid BACKUP_INTERVAL %q, using default %s", v, backupInterval)
			}
		}
		backupWorker := workers.NewBackupWorker(store, backupInterval)
		go backupWorker.Run(ctx)
	} else {
		log.Println("⚠️  R2_BUCKET_NAME not set — scores backups disabled, running local-only")
	}

	scoreHandler := handlers.NewScoreHandler(store, registry)
	handlers.SetupScoreRoutes(app, scoreHandler)

	// Game frontend
	app.Static("/", "./public")

	port := os.Getenv("PORT")
	if port == "" {
		port = "5200"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Printf("✅ Scores file: %s (max %d entries)", store.Path(), models.MaxScores)
	log.Println("✅ Session sweeper running (every 10m, 30m max session age)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
}
