package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/sku_console/internal/utils"
)

// SessionChecker reports whether the console holds a usable credential.
type SessionChecker interface {
	IsAuthenticated(ctx context.Context) bool
}

// RequireSession rejects requests while the console is logged out.
func RequireSession(sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !sessions.IsAuthenticated(c.Request.Context()) {
			utils.Error(c, http.StatusUnauthorized, "NOT_AUTHENTICATED", "Please sign in first")
			c.Abort()
			return
		}
		c.Next()
	}
}
