package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/cart"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/session"
)

type CartController struct {
	Carts    *cart.Manager
	Sessions *session.Manager
}

func NewCartController(carts *cart.Manager, sessions *session.Manager) *CartController {
	return &CartController{Carts: carts, Sessions: sessions}
}

// GetCart returns the authoritative server cart, refreshing the mirror.
func (c *CartController) GetCart(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	mirrored, err := c.Carts.Fetch(ctx.Request.Context(), s)
	middlewares.RecordCartOperation("fetch", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Cart fetched", mirrored)
}

func (c *CartController) AddItem(ctx *gin.Context) {
	var req models.AddToCartRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	err := c.Carts.Add(ctx.Request.Context(), s, req.MerchantProductID, req.Quantity)
	middlewares.RecordCartOperation("add", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Item added to cart", c.Carts.Cart(s))
}

func (c *CartController) UpdateItem(ctx *gin.Context) {
	var req models.UpdateCartItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	err := c.Carts.UpdateQuantity(ctx.Request.Context(), s, req.MerchantProductID, req.Quantity)
	middlewares.RecordCartOperation("update", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Cart updated", c.Carts.Cart(s))
}

func (c *CartController) RemoveItem(ctx *gin.Context) {
	merchantProductID := ctx.Param("merchantProductId")
	if merchantProductID == "" {
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	err := c.Carts.Remove(ctx.Request.Context(), s, merchantProductID)
	middlewares.RecordCartOperation("remove", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Item removed from cart", c.Carts.Cart(s))
}

func (c *CartController) ClearCart(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	err := c.Carts.Clear(ctx.Request.Context(), s)
	middlewares.RecordCartOperation("clear", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Cart cleared", c.Carts.Cart(s))
}

// ItemCount serves the cart badge: the sum of quantities in the mirror,
// without a backend round trip.
func (c *CartController) ItemCount(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	sendJSONResponse(ctx, http.StatusOK, "Cart item count", gin.H{
		"count": c.Carts.ItemCount(s),
	})
}
