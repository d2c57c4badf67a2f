package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/controllers"
)

// RankingRoutes exposes the public merchant scorecards. No auth required;
// shoppers browse these before signing in.
func RankingRoutes(server *gin.Engine, rankings *controllers.RankingController, inventory *controllers.InventoryController) {
	server.GET("/merchants/rankings", rankings.Rankings)
	server.GET("/merchants/rankings/top", rankings.TopMerchants)
	server.GET("/merchants/:merchantId/ranking", rankings.MerchantRanking)
	server.GET("/merchants/:merchantId/inventory", inventory.MerchantInventory)
}
