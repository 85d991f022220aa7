package routes

import (
	"diskmosaic/internal/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterScanRoutes(r gin.IRouter) {
	scan := r.Group("/scan")
	{
		scan.POST("", controllers.StartScan)
		scan.POST("/stop", controllers.StopScan)
		scan.GET("/status", controllers.GetScanStatus)
	}

	view := r.Group("/view")
	{
		view.GET("", controllers.GetView)
		view.POST("/zoom-in/:index", controllers.ZoomIn)
		view.POST("/zoom-out/:index", controllers.ZoomOut)
		view.POST("/up", controllers.ZoomUp)
		view.PUT("/bounds", controllers.SetBounds)
	}
}
