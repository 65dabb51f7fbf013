package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"dossierportal-backend/auth"
	"dossierportal-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// respondError writes err as {"error": ...}. Validation errors also carry
// the offending fields. Server errors are logged and answered generically.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var httpErr service.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode()
	}

	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		slog.ErrorContext(c.Request.Context(), "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()),
		)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	var ve *service.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		body["fields"] = ve.Fields
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// pathID parses the :name path parameter as a UUID, answering 400 otherwise
func pathID(c *gin.Context, name, resource string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+resource+" id")
		return uuid.Nil, false
	}
	return id, true
}

// actor returns the caller, or the zero principal for anonymous requests
func actor(c *gin.Context) auth.Principal {
	p, _ := auth.PrincipalFrom(c)
	return p
}
