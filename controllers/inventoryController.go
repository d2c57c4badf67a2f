package controllers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/session"
)

type InventoryController struct {
	Inventory *clients.InventoryClient
	Sessions  *session.Manager
}

func NewInventoryController(inventory *clients.InventoryClient, sessions *session.Manager) *InventoryController {
	return &InventoryController{Inventory: inventory, Sessions: sessions}
}

// AddListing creates a merchant listing for a catalog product.
func (c *InventoryController) AddListing(ctx *gin.Context) {
	var form models.InventoryFormData
	if err := ctx.ShouldBindJSON(&form); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	item, err := c.Inventory.Add(clients.WithToken(ctx.Request.Context(), s.Token), form)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Listing created", item)
}

func (c *InventoryController) MyListings(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	items, err := c.Inventory.MyListings(clients.WithToken(ctx.Request.Context(), s.Token))
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Listings fetched", items)
}

// MerchantInventory lists one merchant's public listings, the storefront's
// merchant shop page.
func (c *InventoryController) MerchantInventory(ctx *gin.Context) {
	merchantID, err := strconv.ParseInt(ctx.Param("merchantId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid merchant ID")
		return
	}

	items, err := c.Inventory.ForMerchant(ctx.Request.Context(), merchantID)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Merchant listings fetched", items)
}

// ListingsForProduct returns every merchant's offer for one catalog product,
// the storefront's "buy from" options.
func (c *InventoryController) ListingsForProduct(ctx *gin.Context) {
	items, err := c.Inventory.ByProduct(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Product listings fetched", items)
}
