package handlers

import (
	"net/http"
	"time"

	"dossierportal-backend/auth"
	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles registration, login and the current session
type AuthHandler struct {
	userService   *service.UserService
	secureCookies bool
}

// NewAuthHandler creates a new auth handler. secureCookies marks the session
// cookie Secure, which browsers only send over HTTPS.
func NewAuthHandler(userService *service.UserService, secureCookies bool) *AuthHandler {
	return &AuthHandler{userService: userService, secureCookies: secureCookies}
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.Register(c.Request.Context(), service.RegisterRequest{Input: req})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result.User)
}

// LoginRequest represents the request body for a login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.Login(c.Request.Context(), service.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSession(c, result.Token, int(time.Until(result.ExpiresAt).Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"user":      result.User,
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSession(c, "", -1)
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	p := actor(c)
	result, err := h.userService.GetUser(c.Request.Context(), p, p.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result.User)
}

func (h *AuthHandler) setSession(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, maxAge, "/", "", h.secureCookies, true)
}
