package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ReadinessChecker reports whether a backing dependency is reachable
type ReadinessChecker interface {
	CheckReady(ctx context.Context) (status string, message string)
}

// Health handles GET /health. Without a checker the process itself is the
// only dependency and reports ok.
func Health(checker ReadinessChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		status, message := checker.CheckReady(c.Request.Context())
		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, gin.H{"status": status, "message": message})
	}
}
