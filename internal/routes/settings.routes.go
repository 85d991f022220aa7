package routes

import (
	"diskmosaic/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterSettingsRoutes(r gin.IRouter) {
	settings := r.Group("/settings")
	{
		settings.GET("", controllers.GetSettings)
		settings.POST("/ignored", controllers.AddIgnoredPath)
		settings.DELETE("/ignored", controllers.RemoveIgnoredPath)
		settings.PUT("/threshold", controllers.SetSmallFileThreshold)
	}

	r.GET("/targets", controllers.GetTargets)
	r.GET("/history", controllers.GetHistory)
}
