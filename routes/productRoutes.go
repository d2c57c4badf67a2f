package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

func ProductRoutes(server *gin.Engine, products *controllers.ProductController, inventory *controllers.InventoryController, sessions *session.Manager) {
	// Catalog browsing is public; a session is attached when present so
	// personalized handlers can use it.
	catalog := server.Group("/products", middlewares.OptionalAuth(sessions))
	{
		catalog.GET("", products.GetProducts)
		catalog.GET("/search", products.SearchProducts)
		catalog.GET("/:id", products.GetProduct)
		catalog.GET("/:id/listings", inventory.ListingsForProduct)
	}

	merchantOnly := []gin.HandlerFunc{middlewares.RequireAuth(sessions), middlewares.RequireMerchant()}
	server.POST("/products", append(merchantOnly, products.CreateProduct)...)
	server.PUT("/products/:id", append(merchantOnly, products.UpdateProduct)...)
	server.DELETE("/products/:id", append(merchantOnly, products.DeleteProduct)...)
	server.POST("/products/:id/images", append(merchantOnly, products.UploadProductImages)...)

	merchant := server.Group("/merchant", merchantOnly...)
	{
		merchant.POST("/inventory", inventory.AddListing)
		merchant.GET("/inventory", inventory.MyListings)
	}
}
