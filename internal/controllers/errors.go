package controllers

import (
	"errors"
	"net/http"
	"os"

	"diskmosaic/internal/config"
	"diskmosaic/internal/models"
	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
)

// statusFor maps service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNoSession), errors.Is(err, os.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, services.ErrIndexOutOfRange),
		errors.Is(err, models.ErrNotDirectory),
		errors.Is(err, services.ErrRelativeRoot),
		errors.Is(err, config.ErrInvalidThreshold):
		return http.StatusBadRequest
	case errors.Is(err, os.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{"error": err.Error()})
}
