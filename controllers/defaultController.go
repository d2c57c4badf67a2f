package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func GetHome(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, "Storefront gateway is running", gin.H{
		"service": "storefront-gateway",
	})
}
