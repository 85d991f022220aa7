package controllers

import (
	"net/http"
	"strconv"

	"diskmosaic/internal/models"
	"diskmosaic/internal/services"

	"github.com/gin-gonic/gin"
)

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "index must be an integer"})
		return 0, false
	}
	return index, true
}

// GetView returns the directory on top of the navigation stack.
func GetView(c *gin.Context) {
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzer.View())
}

// ZoomIn enters the child at :index of the displayed directory.
func ZoomIn(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := analyzer.ZoomIn(index); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, analyzer.View())
}

// ZoomOut goes back to path level :index. Levels at or past the top are a no-op.
func ZoomOut(c *gin.Context) {
	index, ok := indexParam(c)
	if !ok {
		return
	}
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	analyzer.ZoomOutTo(index)
	c.JSON(http.StatusOK, analyzer.View())
}

// ZoomUp goes up one level.
func ZoomUp(c *gin.Context) {
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	analyzer.ZoomOut()
	c.JSON(http.StatusOK, analyzer.View())
}

type boundsRequest struct {
	Bounds map[int]models.Bounds `json:"bounds" binding:"required"`
}

// SetBounds stores layout rectangles computed by the client.
func SetBounds(c *gin.Context) {
	var req boundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bounds are required"})
		return
	}
	analyzer, err := services.CurrentAnalyzer()
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := analyzer.SetBounds(req.Bounds); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
