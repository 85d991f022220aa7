package controllers

import (
	"net/http"

	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
)

type ignoredPathRequest struct {
	Path string `json:"path" binding:"required"`
}

type thresholdRequest struct {
	Threshold uint64 `json:"small_file_threshold"`
}

func settingsResponse(s *services.Settings) gin.H {
	return gin.H{
		"ignored_paths":        s.IgnoredPaths(),
		"small_file_threshold": s.SmallFileThreshold(),
		"workers":              s.Workers(),
	}
}

func GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, settingsResponse(services.GetSettings()))
}

// AddIgnoredPath ignores a directory in subsequent scans.
func AddIgnoredPath(c *gin.Context) {
	var req ignoredPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	s := services.GetSettings()
	if err := s.AddIgnoredPath(req.Path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, settingsResponse(s))
}

func RemoveIgnoredPath(c *gin.Context) {
	var req ignoredPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}
	s := services.GetSettings()
	if !s.RemoveIgnoredPath(req.Path) {
		c.JSON(http.StatusNotFound, gin.H{"error": "path is not ignored"})
		return
	}
	c.JSON(http.StatusOK, settingsResponse(s))
}

func SetSmallFileThreshold(c *gin.Context) {
	var req thresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	s := services.GetSettings()
	if err := s.SetSmallFileThreshold(req.Threshold); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, settingsResponse(s))
}
