package handlers

import (
	"net/http"

	"dossierportal-backend/models"
	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles HTTP requests for user accounts
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// ListUsers handles GET /api/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := models.UserFilter{SearchTerm: c.Query("q")}
	if raw := c.Query("role"); raw != "" {
		role := models.Role(raw)
		filter.Role = &role
	}

	result, err := h.userService.ListUsers(c.Request.Context(), service.ListUsersRequest{
		Actor:  actor(c),
		Filter: filter,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": result.Users})
}

// CreateUser handles POST /api/users
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req service.UserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.CreateUser(c.Request.Context(), service.CreateUserRequest{
		Actor: actor(c),
		Input: req,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result.User)
}

// GetUser handles GET /api/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	result, err := h.userService.GetUser(c.Request.Context(), actor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.User)
}

// UpdateProfileRequest represents the request body for a profile change.
// Absent fields are left untouched.
type UpdateProfileRequest struct {
	Nom       *string `json:"nom"`
	Prenom    *string `json:"prenom"`
	Email     *string `json:"email"`
	Telephone *string `json:"telephone"`
}

// UpdateProfile handles PATCH /api/users/:id
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.UpdateProfile(c.Request.Context(), service.UpdateProfileRequest{
		Actor:     actor(c),
		UserID:    id,
		Nom:       req.Nom,
		Prenom:    req.Prenom,
		Email:     req.Email,
		Telephone: req.Telephone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.User)
}

// ChangeRoleRequest represents the request body for a role change
type ChangeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole handles PATCH /api/users/:id/role
func (h *UserHandler) ChangeRole(c *gin.Context) {
	id, ok := pathID(c, "id", "user")
	if !ok {
		return
	}

	var req ChangeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	result, err := h.userService.ChangeRole(c.Request.Context(), service.ChangeRoleRequest{
		Actor:  actor(c),
		UserID: id,
		Role:   req.Role,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result.User)
}

// UserStats handles GET /api/stats/users
func (h *UserHandler) UserStats(c *gin.Context) {
	result, err := h.userService.UserStats(c.Request.Context(), actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
