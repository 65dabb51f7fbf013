package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/config"
	"dossierportal-backend/database"
	"dossierportal-backend/models"
	"dossierportal-backend/repository"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "admin@example.org", "email of the administrator")
	password := flag.String("password", "", "password (falls back to ADMIN_PASSWORD)")
	nom := flag.String("nom", "Admin", "last name")
	prenom := flag.String("prenom", "Portail", "first name")
	flag.Parse()

	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: No .env file found, using environment variables")
	}

	if *password == "" {
		*password = os.Getenv("ADMIN_PASSWORD")
	}
	if len(*password) < auth.MinPasswordLength {
		log.Fatalf("A password of at least %d characters is required (-password or ADMIN_PASSWORD)", auth.MinPasswordLength)
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	logger := config.NewLogger(os.Stdout, slog.LevelInfo)

	pool, err := database.Connect(ctx, connString, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	users := repository.NewUserRepository(pool)

	// Check if user already exists
	if existing, err := users.GetByEmail(ctx, *email); err == nil {
		log.Printf("User with email %s already exists (ID: %s, role: %s)", existing.Email, existing.ID, existing.Role)
		return
	} else if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("Failed to look up user: %v", err)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	now := time.Now().UTC()
	u := &models.User{
		ID:           uuid.New(),
		Nom:          *nom,
		Prenom:       *prenom,
		Email:        *email,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	fmt.Printf("Administrator created\n")
	fmt.Printf("   ID: %s\n", u.ID)
	fmt.Printf("   Email: %s\n", u.Email)
	fmt.Printf("   Name: %s\n", u.DisplayName())
}
