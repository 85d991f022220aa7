package controllers

import (
	"net/http"
	"time"

	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
)

// GetHistory returns scan progress samples and past sessions in a window
// Query params: duration=5m|10m|1h|24h (default: 10m)
func GetHistory(c *gin.Context) {
	durationStr := c.DefaultQuery("duration", "10m")

	duration, err := time.ParseDuration(durationStr)
	if err != nil || duration <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration format"})
		return
	}

	window := services.GetHistoricalData(duration)
	c.JSON(http.StatusOK, gin.H{
		"duration": durationStr,
		"data":     window,
	})
}
