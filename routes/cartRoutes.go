package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

func CartRoutes(server *gin.Engine, carts *controllers.CartController, sessions *session.Manager) {
	group := server.Group("/cart", middlewares.RequireAuth(sessions), middlewares.RequireCustomer())
	{
		group.GET("", carts.GetCart)
		group.GET("/count", carts.ItemCount)
		group.POST("/add", carts.AddItem)
		group.PUT("/update", carts.UpdateItem)
		group.DELETE("/remove/:merchantProductId", carts.RemoveItem)
		group.DELETE("/clear", carts.ClearCart)
	}
}
