package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"qrscan-go/pkg/decoder"
	"qrscan-go/pkg/scanner"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

const errImageTooLarge = "image too large"

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	var tooBig *http.MaxBytesError
	switch {
	case errors.As(err, &tooBig):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
	case errors.Is(err, scanner.ErrSessionNotFound), errors.Is(err, scanner.ErrClosed):
		c.JSON(http.StatusNotFound, gin.H{"error": scanner.ErrSessionNotFound.Error()})
	case errors.Is(err, decoder.ErrNoCode):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": decoder.UploadFailureMessage})
	case errors.Is(err, decoder.ErrImageTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": errImageTooLarge})
	case errors.Is(err, scanner.ErrUnknownDevice):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "request cancelled"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// bindError turns a binding failure into a readable message
func bindError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", strings.ToLower(fe.Field())))
		case "url":
			msgs = append(msgs, fmt.Sprintf("%s must be a valid URL", strings.ToLower(fe.Field())))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %q validation", strings.ToLower(fe.Field()), fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}

func sessionFrom(c *gin.Context) *scanner.Session {
	return c.MustGet("session").(*scanner.Session)
}
