package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/session"
)

// RankingController serves the public merchant scorecards the order service
// aggregates from order and review volume.
type RankingController struct {
	Orders   *clients.OrderClient
	Sessions *session.Manager
}

func NewRankingController(orders *clients.OrderClient, sessions *session.Manager) *RankingController {
	return &RankingController{Orders: orders, Sessions: sessions}
}

func (c *RankingController) Rankings(ctx *gin.Context) {
	rankings, err := c.Orders.MerchantRankings(ctx.Request.Context())
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Merchant rankings fetched", rankings)
}

func (c *RankingController) MerchantRanking(ctx *gin.Context) {
	merchantID, err := strconv.ParseInt(ctx.Param("merchantId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid merchant ID")
		return
	}

	ranking, err := c.Orders.MerchantRanking(ctx.Request.Context(), merchantID)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Merchant ranking fetched", ranking)
}

func (c *RankingController) TopMerchants(ctx *gin.Context) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid limit")
		return
	}

	rankings, err := c.Orders.TopMerchants(ctx.Request.Context(), limit)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Top merchants fetched", rankings)
}
