package api

import (
	"studyplanner-backend/internal/notification"
	"studyplanner-backend/internal/report"
	taskDelivery "studyplanner-backend/internal/task/delivery"
	taskUsecasePkg "studyplanner-backend/internal/task/usecase"
	"studyplanner-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	config      *config.Config
	taskHandler *taskDelivery.TaskHandler
}

func NewHandler(taskUc taskUsecasePkg.TaskUsecase, notifier notification.Notifier, cfg *config.Config) *Handler {
	exporter := report.NewExporter(taskUc)
	return &Handler{
		config:      cfg,
		taskHandler: taskDelivery.NewTaskHandler(taskUc, exporter, notifier),
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()

	// CORS middleware so any local frontend origin can talk to the API
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.taskHandler)

	return r.Run(addr)
}
