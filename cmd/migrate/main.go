package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"dossierportal-backend/config"
	"dossierportal-backend/database"

	"github.com/joho/godotenv"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration instead of applying pending ones")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL is required")
	}

	logger := config.NewLogger(os.Stdout, slog.LevelInfo)

	if *down {
		if err := database.Rollback(connString, logger); err != nil {
			log.Fatalf("Failed to roll back: %v", err)
		}
		return
	}

	if err := database.Migrate(connString, logger); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}
}
