package controllers

import (
	"net/http"

	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
)

func GetTargets(c *gin.Context) {
	targets, err := services.GetCachedTargets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, targets)
}
