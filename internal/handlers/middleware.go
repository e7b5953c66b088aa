package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// sessionMiddleware validates the Bearer session token issued by /auth/login.
// Every gated request is checked individually; there is no shared session
// state in the process.
func (h *Handler) sessionMiddleware(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "missing Authorization header",
		})
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid Authorization header format",
		})
		return
	}

	if err := h.services.ParseToken(parts[1]); err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
			"error": "invalid or expired token",
		})
		return
	}

	c.Next()
}
