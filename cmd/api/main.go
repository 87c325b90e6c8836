package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/platefinder/platefinder-backend/config"
	"github.com/platefinder/platefinder-backend/internal/database"
	"github.com/platefinder/platefinder-backend/internal/server"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Redis backs rate limiting only; the API runs without it.
	redisClient, err := database.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Redis unavailable, rate limiting disabled: %v", err)
		redisClient = nil
	}

	// Image uploads need a bucket; without one the route is not registered.
	var storage *config.S3Config
	if cfg.S3BucketName != "" {
		storage, err = config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Printf("S3 unavailable, image uploads disabled: %v", err)
			storage = nil
		}
	}

	srv := server.New(cfg, db, redisClient, storage)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s", cfg.ServerAddr())
		errChan <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
