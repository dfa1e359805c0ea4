package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/studyhall-backend/internal/handlers"
	"github.com/yungbote/studyhall-backend/internal/middleware"
)

type RouterConfig struct {
	RequestUser          *middleware.RequestUserMiddleware
	PreferencesHandler   *handlers.PreferencesHandler
	NotificationsHandler *handlers.NotificationsHandler
	SubscriptionsHandler *handlers.SubscriptionsHandler
	ActivityHandler      *handlers.ActivityHandler
	UsageHandler         *handlers.UsageHandler
	CalendarHandler      *handlers.CalendarHandler
	SSEHandler           *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
			"http://localhost:5174",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With", "X-User-ID"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	api.Use(cfg.RequestUser.RequireUser())
	{
		api.GET("/notifications/preferences", cfg.PreferencesHandler.Get)
		api.PUT("/notifications/preferences", cfg.PreferencesHandler.Update)

		api.GET("/notifications", cfg.NotificationsHandler.List)
		api.POST("/notifications/:id/read", cfg.NotificationsHandler.MarkRead)

		api.POST("/notifications/subscriptions", cfg.SubscriptionsHandler.Register)
		api.DELETE("/notifications/subscriptions/:id", cfg.SubscriptionsHandler.Unregister)

		api.POST("/activity", cfg.ActivityHandler.Track)
		api.POST("/usage", cfg.UsageHandler.Record)

		api.POST("/calendar/events", cfg.CalendarHandler.CreateEvent)
		api.PUT("/calendar/events/:id", cfg.CalendarHandler.MoveEvent)

		api.GET("/events/stream", cfg.SSEHandler.Stream)
	}

	return router
}
