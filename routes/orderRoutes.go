package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

func OrderRoutes(server *gin.Engine, orders *controllers.OrderController, sessions *session.Manager) {
	customer := server.Group("/orders", middlewares.RequireAuth(sessions), middlewares.RequireCustomer())
	{
		customer.POST("/checkout", orders.Checkout)
		customer.GET("/history", orders.History)
		customer.GET("/:orderId", orders.Details)
	}

	server.GET("/merchant/orders", middlewares.RequireAuth(sessions), middlewares.RequireMerchant(), orders.MerchantOrders)
	server.PUT("/orders/:orderId/status", middlewares.RequireAuth(sessions), middlewares.RequireMerchant(), orders.UpdateStatus)
}
