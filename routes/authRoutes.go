package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

func AuthRoutes(server *gin.Engine, auth *controllers.AuthController, sessions *session.Manager) {
	group := server.Group("/auth")
	{
		group.POST("/login", auth.Login)
		group.POST("/register/customer", auth.RegisterCustomer)
		group.POST("/register/merchant", auth.RegisterMerchant)
		group.POST("/logout", middlewares.RequireAuth(sessions), auth.Logout)
		group.GET("/me", middlewares.RequireAuth(sessions), auth.Me)
	}
}
