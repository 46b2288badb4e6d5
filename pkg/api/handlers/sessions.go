package handlers

import (
	"net/http"

	"qrscan-go/pkg/scanner"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSession starts a new scanner session
func CreateSession(manager *scanner.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := manager.Create()

		view, err := session.View(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, view)
	}
}

// GetSession returns a snapshot of a session
func GetSession(c *gin.Context) {
	view, err := sessionFrom(c).View(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// DeleteSession closes a session and discards its history
func DeleteSession(manager *scanner.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.MustGet("sessionID").(uuid.UUID)

		if err := manager.Delete(id); err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
	}
}
