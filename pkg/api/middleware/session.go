package middleware

import (
	"net/http"

	"qrscan-go/pkg/scanner"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequireSession resolves the :id path parameter to a live scanner session
func RequireSession(manager *scanner.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
			c.Abort()
			return
		}

		session, err := manager.Get(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			c.Abort()
			return
		}

		c.Set("sessionID", id)
		c.Set("session", session)
		c.Next()
	}
}
