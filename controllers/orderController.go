package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/cart"
	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/session"
	"github.com/markethub/storefront-gateway/store"
)

type OrderController struct {
	Orders   *clients.OrderClient
	Cache    store.OrderCache
	Carts    *cart.Manager
	Sessions *session.Manager
	Events   cart.Publisher
}

func NewOrderController(orders *clients.OrderClient, cache store.OrderCache, carts *cart.Manager, sessions *session.Manager, events cart.Publisher) *OrderController {
	return &OrderController{Orders: orders, Cache: cache, Carts: carts, Sessions: sessions, Events: events}
}

// Checkout converts the mirrored cart into an order via the cart manager,
// which snapshots the purchase and clears the mirror on success.
func (c *OrderController) Checkout(ctx *gin.Context) {
	var req models.CheckoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	orderID, err := c.Carts.Checkout(ctx.Request.Context(), s, req)
	middlewares.RecordOrderOperation("checkout", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Order placed successfully", gin.H{
		"orderId": orderID,
	})
}

// History returns the customer's orders. Backend entries missing their line
// items are filled from the checkout-time snapshot, and when the order
// service is down entirely the snapshots are served alone so the page still
// renders.
func (c *OrderController) History(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	reqCtx := clients.WithToken(ctx.Request.Context(), s.Token)

	orders, err := c.Orders.OrderHistory(reqCtx)
	middlewares.RecordOrderOperation("history", err)
	if err != nil {
		if cached, cacheErr := c.Cache.List(ctx.Request.Context(), s.User.UserID); cacheErr == nil && len(cached) > 0 {
			log.Println("Order history unavailable, serving cached snapshots:", err)
			sendJSONResponse(ctx, http.StatusOK, "Order history (cached)", cached)
			return
		}
		handleBackendError(ctx, c.Sessions, err)
		return
	}

	for i := range orders {
		if len(orders[i].Items) > 0 {
			continue
		}
		if cached, ok := c.Cache.Get(ctx.Request.Context(), s.User.UserID, orders[i].OrderID); ok {
			orders[i].Items = cached.Items
		}
	}
	sendJSONResponse(ctx, http.StatusOK, "Order history fetched", orders)
}

// Details merges the backend's view of one order with the local snapshot:
// status and total always come from the backend when it answers, line items
// fall back to the snapshot when the backend omits them.
func (c *OrderController) Details(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("orderId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	s := middlewares.SessionFrom(ctx)
	reqCtx := clients.WithToken(ctx.Request.Context(), s.Token)

	order, err := c.Orders.OrderDetails(reqCtx, orderID)
	middlewares.RecordOrderOperation("details", err)
	if err != nil {
		if cached, ok := c.Cache.Get(ctx.Request.Context(), s.User.UserID, orderID); ok {
			log.Printf("Order %d unavailable from backend, serving cached snapshot: %v", orderID, err)
			sendJSONResponse(ctx, http.StatusOK, "Order details (cached)", cached)
			return
		}
		handleBackendError(ctx, c.Sessions, err)
		return
	}

	if len(order.Items) == 0 {
		if cached, ok := c.Cache.Get(ctx.Request.Context(), s.User.UserID, orderID); ok {
			order.Items = cached.Items
			if order.ShippingAddress == "" {
				order.ShippingAddress = cached.ShippingAddress
			}
			if order.PaymentMethod == "" {
				order.PaymentMethod = cached.PaymentMethod
			}
		}
	}
	sendJSONResponse(ctx, http.StatusOK, "Order details fetched", order)
}

// MerchantOrders lists the orders containing the merchant's listings.
func (c *OrderController) MerchantOrders(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	reqCtx := clients.WithToken(ctx.Request.Context(), s.Token)

	orders, err := c.Orders.MerchantOrders(reqCtx)
	middlewares.RecordOrderOperation("merchant_orders", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Merchant orders fetched", orders)
}

// UpdateStatus advances an order through its lifecycle and publishes a
// status event so the customer gets notified.
func (c *OrderController) UpdateStatus(ctx *gin.Context) {
	orderID, err := strconv.ParseInt(ctx.Param("orderId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req models.UpdateOrderStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	reqCtx := clients.WithToken(ctx.Request.Context(), s.Token)

	err = c.Orders.UpdateOrderStatus(reqCtx, orderID, req.Status)
	middlewares.RecordOrderOperation("status_update", err)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}

	if c.Events != nil {
		event := models.OrderEvent{
			OrderID:  orderID,
			Type:     "status_updated",
			Status:   string(req.Status),
			Occurred: time.Now(),
		}
		// Customer contact details come from the backend order, not the
		// merchant's session.
		if order, detailErr := c.Orders.OrderDetails(reqCtx, orderID); detailErr == nil {
			event.UserID = order.CustomerID
			event.Email = order.CustomerEmail
			event.Total = order.TotalAmount
		}
		if event.Email == "" {
			log.Printf("Order %d has no customer email; status notification will be skipped", orderID)
		}
		if publishErr := c.Events.PublishOrderEvent(event); publishErr != nil {
			log.Printf("Failed to publish status event for order %d: %v", orderID, publishErr)
		}
	}

	sendJSONResponse(ctx, http.StatusOK, msgOrderStatusUpdated, gin.H{
		"orderId": orderID,
		"status":  req.Status,
	})
}
