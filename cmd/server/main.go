package main

import (
	"context"
	"errors"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/config"
	"dossierportal-backend/database"
	"dossierportal-backend/handlers"
	"dossierportal-backend/repository"
	"dossierportal-backend/repository/memory"
	"dossierportal-backend/service"
	"dossierportal-backend/storage"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

// repositories groups the persistence layer selected by DATABASE_DRIVER
type repositories struct {
	tx              service.TransactionManager
	dossiers        service.DossierRepository
	documents       service.DocumentRepository
	commentaires    service.CommentaireRepository
	statusChanges   service.StatusChangeRepository
	users           service.UserRepository
	formSubmissions service.FormSubmissionRepository
	readiness       handlers.ReadinessChecker
	close           func()
}

func main() {
	// Load .env file from the working directory or the project root
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../../.env"); err != nil {
			log.Printf("Warning: No .env file found, using environment variables")
		}
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	var logOutput io.Writer = os.Stdout
	if cfg.LogDir != "" {
		logFile, err := config.SetupLogFile(cfg.LogDir, cfg.LogMaxFiles)
		if err != nil {
			log.Fatalf("Failed to set up log file: %v", err)
		}
		defer logFile.Close()
		logOutput = io.MultiWriter(os.Stdout, logFile)
	}
	logger := config.NewLogger(logOutput, cfg.LogLevel)
	slog.SetDefault(logger)

	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET not set, signing sessions with the development secret")
	}

	ctx := context.Background()

	repos, err := openRepositories(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer repos.close()

	documentStore, err := storage.NewStorage(ctx, cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	logger.Info("storage initialized", "type", string(cfg.Storage.Type))

	policy, err := cfg.Policy()
	if err != nil {
		log.Fatalf("Failed to load transition policy: %v", err)
	}
	logger.Info("transition policy loaded", "policy", policy.Name())

	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	// Initialize services
	directory := service.NewUserDirectory(repos.users, cfg.NameCacheSize, cfg.NameCacheTTL)

	dossierService := service.NewDossierService(
		service.WithDossierRepository(repos.dossiers),
		service.WithDocumentRepository(repos.documents),
		service.WithCommentaireRepository(repos.commentaires),
		service.WithStatusChangeRepository(repos.statusChanges),
		service.WithTransactionManager(repos.tx),
		service.WithDocumentStorage(documentStore),
		service.WithTransitionPolicy(policy),
		service.WithNotifier(service.NewLogNotifier(logger)),
		service.WithUserDirectory(directory),
		service.WithLogger(logger),
	)

	userService := service.NewUserService(
		service.WithUserRepository(repos.users),
		service.WithTokenManager(tokens),
		service.UserWithDirectory(directory),
		service.UserWithLogger(logger),
	)

	formService := service.NewFormService(
		service.WithFormSubmissionRepository(repos.formSubmissions),
		service.FormWithDossierRepository(repos.dossiers),
		service.FormWithLogger(logger),
	)

	if cfg.Environment == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Dossiers:      dossierService,
		Users:         userService,
		Forms:         formService,
		Tokens:        tokens,
		Readiness:     repos.readiness,
		Logger:        logger,
		SecureCookies: cfg.SecureCookies,
	})

	// CORS must wrap the router so pre-flight requests never reach auth
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port, "environment", cfg.Environment, "database", cfg.DatabaseDriver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

func openRepositories(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories, error) {
	if cfg.DatabaseDriver == config.DriverMemory {
		logger.Warn("using the in-memory store, data is lost on restart")
		store := memory.NewStore()
		return &repositories{
			tx:              store,
			dossiers:        store.Dossiers(),
			documents:       store.Documents(),
			commentaires:    store.Commentaires(),
			statusChanges:   store.StatusChanges(),
			users:           store.Users(),
			formSubmissions: store.FormSubmissions(),
			close:           func() {},
		}, nil
	}

	if cfg.AutoMigrate {
		if err := database.Migrate(cfg.DatabaseURL, logger); err != nil {
			return nil, err
		}
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}

	return &repositories{
		tx:              repository.NewTransactionManager(pool),
		dossiers:        repository.NewDossierRepository(pool),
		documents:       repository.NewDocumentRepository(pool),
		commentaires:    repository.NewCommentaireRepository(pool),
		statusChanges:   repository.NewStatusChangeRepository(pool),
		users:           repository.NewUserRepository(pool),
		formSubmissions: repository.NewFormSubmissionRepository(pool),
		readiness:       database.NewReadinessChecker(pool),
		close:           pool.Close,
	}, nil
}
