package handlers

import (
	"log/slog"

	"dossierportal-backend/auth"
	"dossierportal-backend/middleware"
	"dossierportal-backend/models"
	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterConfig holds what the HTTP layer needs
type RouterConfig struct {
	Dossiers      *service.DossierService
	Users         *service.UserService
	Forms         *service.FormService
	Tokens        *auth.TokenManager
	Readiness     ReadinessChecker
	Logger        *slog.Logger
	SecureCookies bool
}

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files
const multipartMemory = 8 << 20

// NewRouter builds the gin engine with every route of the portal
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.MaxMultipartMemory = multipartMemory
	r.Use(gin.Recovery(), middleware.RequestLogger(logger), middleware.Metrics())

	r.GET("/health", Health(cfg.Readiness))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	dossierHandler := NewDossierHandler(cfg.Dossiers)
	documentHandler := NewDocumentHandler(cfg.Dossiers)
	authHandler := NewAuthHandler(cfg.Users, cfg.SecureCookies)
	userHandler := NewUserHandler(cfg.Users)
	formHandler := NewFormHandler(cfg.Forms)

	internal := auth.RequireRoles(models.RoleStaff, models.RoleAnalyste, models.RoleAdmin)
	admin := auth.RequireRoles(models.RoleAdmin)

	api := r.Group("/api")
	api.Use(auth.Authenticate(cfg.Tokens))
	{
		// Public endpoints
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)
		api.GET("/formulaires/:type/schema", formHandler.GetSchema)

		authed := api.Group("")
		authed.Use(auth.RequireAuth())

		authed.GET("/auth/me", authHandler.Me)

		// Dossier endpoints
		authed.POST("/dossiers", dossierHandler.CreateDossier)
		authed.GET("/dossiers", dossierHandler.ListDossiers)
		authed.GET("/dossiers/:id", dossierHandler.GetDossier)
		authed.POST("/dossiers/:id/status", internal, dossierHandler.ChangeStatus)
		authed.GET("/dossiers/:id/history", internal, dossierHandler.StatusHistory)
		authed.POST("/dossiers/:id/commentaires", dossierHandler.AddComment)
		authed.POST("/dossiers/:id/documents", documentHandler.UploadDocument)
		authed.GET("/dossiers/:id/formulaires", formHandler.ListDossierForms)

		// Document endpoints
		authed.GET("/documents/:id", documentHandler.GetDocument)

		// Form endpoints
		authed.POST("/formulaires/:type", formHandler.SubmitForm)

		// Statistics
		authed.GET("/stats/dossiers", internal, dossierHandler.DossierStats)
		authed.GET("/stats/users", admin, userHandler.UserStats)

		// User endpoints
		authed.GET("/users", admin, userHandler.ListUsers)
		authed.POST("/users", admin, userHandler.CreateUser)
		authed.GET("/users/:id", userHandler.GetUser)
		authed.PATCH("/users/:id", userHandler.UpdateProfile)
		authed.PATCH("/users/:id/role", admin, userHandler.ChangeRole)
	}

	return r
}
