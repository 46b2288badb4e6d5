package handlers

import (
	"errors"
	"net/http"

	"qrscan-go/pkg/models"

	"github.com/gin-gonic/gin"
)

// maxImageBytes bounds uploaded images and streamed frames
const maxImageBytes = 10 << 20

// ListScans returns the session's history, newest first
func ListScans(c *gin.Context) {
	view, err := sessionFrom(c).View(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view.History)
}

// CreateScan submits a string that was already decoded on the client
func CreateScan(c *gin.Context) {
	var scan models.ScanCreate
	if err := c.ShouldBindJSON(&scan); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindError(err)})
		return
	}

	result, err := sessionFrom(c).Submit(c.Request.Context(), scan.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	respondScan(c, result)
}

// UploadScan decodes a single uploaded image from the "file" form field
func UploadScan(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	header, err := c.FormFile("file")
	var tooBig *http.MaxBytesError
	if errors.As(err, &tooBig) || c.Request.ContentLength > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image file"})
		return
	}

	file, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read uploaded file"})
		return
	}
	defer file.Close()

	result, err := sessionFrom(c).Upload(c.Request.Context(), file)
	if err != nil {
		respondError(c, err)
		return
	}

	respondScan(c, result)
}

// SubmitFrame decodes one live camera frame sent as the raw request body.
// Frames without a new code return 204.
func SubmitFrame(c *gin.Context) {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, maxImageBytes)

	result, ok, err := sessionFrom(c).Frame(c.Request.Context(), c.Query("device"), body)
	if err != nil {
		respondError(c, err)
		return
	}
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// ClearScans empties the session's history
func ClearScans(c *gin.Context) {
	if err := sessionFrom(c).Clear(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "history cleared"})
}

// ResetSession clears the history and restarts the capture source
func ResetSession(c *gin.Context) {
	session := sessionFrom(c)
	if err := session.Reset(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}

	view, err := session.View(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func respondScan(c *gin.Context, result models.ScanResult) {
	if result.Suppressed {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(http.StatusCreated, result)
}
