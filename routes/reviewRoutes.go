package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

func ReviewRoutes(server *gin.Engine, reviews *controllers.ReviewController, sessions *session.Manager) {
	public := server.Group("/reviews/product", middlewares.OptionalAuth(sessions))
	{
		public.GET("/:productId", reviews.ReviewsForProduct)
		public.GET("/:productId/average", reviews.AverageRating)
	}

	authed := server.Group("/reviews", middlewares.RequireAuth(sessions))
	{
		authed.POST("", middlewares.RequireCustomer(), reviews.PostReview)
		authed.DELETE("/:reviewId", reviews.DeleteReview)
	}
}
