package controllers

import (
	"net/http"

	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
)

type startScanRequest struct {
	Path string `json:"path" binding:"required"`
}

// StartScan starts scanning the requested directory, replacing any
// previous session.
func StartScan(c *gin.Context) {
	var req startScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path is required"})
		return
	}

	analyzer, err := services.StartScan(c.Request.Context(), req.Path)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, analyzer.Status())
}

// StopScan asks the running scan to stop. The partial tree stays browsable.
func StopScan(c *gin.Context) {
	if err := services.StopScan(); err != nil {
		abortWithError(c, err)
		return
	}
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzer.Status())
}

func GetScanStatus(c *gin.Context) {
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzer.Status())
}
