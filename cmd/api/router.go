package api

import (
	"net/http"

	taskDelivery "studyplanner-backend/internal/task/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, taskHandler *taskDelivery.TaskHandler) {
	api := r.Group("/api")
	{
		// Health check
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Task CRUD and views
		tasks := api.Group("/tasks")
		{
			tasks.GET("", taskHandler.GetTasks)
			tasks.POST("", taskHandler.CreateTask)
			tasks.GET("/search", taskHandler.SearchTasks)
			tasks.GET("/upcoming", taskHandler.GetUpcoming)
			tasks.GET("/overdue", taskHandler.GetOverdue)
			tasks.GET("/:id", taskHandler.GetTaskByID)
			tasks.PUT("/:id", taskHandler.UpdateTask)
			tasks.PATCH("/:id/toggle", taskHandler.ToggleTaskStatus)
			tasks.DELETE("/:id", taskHandler.DeleteTask)
		}

		// Dashboard and analytics
		api.GET("/timeline", taskHandler.GetTimeline)
		api.GET("/stats", taskHandler.GetStats)
		api.GET("/analytics", taskHandler.GetAnalytics)
		api.GET("/activities", taskHandler.GetActivities)

		// Backup
		api.GET("/export", taskHandler.ExportData)
		api.POST("/import", taskHandler.ImportData)
	}
}
