package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

func NotificationRoutes(server *gin.Engine, notifications *controllers.NotificationController, sessions *session.Manager) {
	group := server.Group("/notifications", middlewares.RequireAuth(sessions))
	{
		group.GET("", notifications.List)
		group.PUT("/read-all", notifications.MarkAllRead)
		group.PUT("/:notificationId/read", notifications.MarkRead)
		group.DELETE("/:notificationId", notifications.Delete)
	}
}
