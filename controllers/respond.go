// Package controllers holds the gateway's HTTP surface. Every handler
// responds with the `{success, message, data}` envelope the storefront
// expects, mirroring the shape the backend services speak.
package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/cart"
	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

const (
	msgInvalidInput         = "invalid input"
	msgSessionExpired       = "Session expired, please sign in again."
	msgForbidden            = "You do not have access to this resource."
	msgNotFound             = "resource not found"
	msgUpstreamUnavailable  = "A backend service is unavailable. Try again later."
	msgLoggedOut            = "Logged out successfully."
	msgCartEmpty            = "Your cart is empty."
	msgCustomerAccessOnly   = "Cart operations require a customer account."
	msgQuantityOutOfRange   = "Quantity must be at least 1."
	msgOrderStatusUpdated   = "Order status updated."
	msgNotificationsCleared = "All notifications marked as read."
)

func sendJSONResponse(ctx *gin.Context, status int, message string, data any) {
	ctx.JSON(status, gin.H{
		"success": status < 400,
		"message": message,
		"data":    data,
	})
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, message, nil)
}

// handleBackendError maps a client or manager error onto the gateway's own
// response. A 401 from any backend means the token is dead everywhere: the
// persisted session is destroyed before the caller is told to sign in again.
// A 403 keeps the session; the user just lacks the role.
func handleBackendError(ctx *gin.Context, sessions *session.Manager, err error) {
	switch {
	case errors.Is(err, clients.ErrSessionExpired):
		if s := middlewares.SessionFrom(ctx); s != nil {
			if logoutErr := sessions.Logout(ctx.Request.Context(), s.Token); logoutErr != nil {
				log.Println("Failed to destroy expired session:", logoutErr)
			}
		}
		sendErrorResponse(ctx, http.StatusUnauthorized, msgSessionExpired)
	case errors.Is(err, clients.ErrForbidden):
		sendErrorResponse(ctx, http.StatusForbidden, msgForbidden)
	case errors.Is(err, clients.ErrNotFound):
		sendErrorResponse(ctx, http.StatusNotFound, msgNotFound)
	case errors.Is(err, cart.ErrNotCustomer):
		sendErrorResponse(ctx, http.StatusForbidden, msgCustomerAccessOnly)
	case errors.Is(err, cart.ErrInvalidQuantity):
		sendErrorResponse(ctx, http.StatusBadRequest, msgQuantityOutOfRange)
	case errors.Is(err, cart.ErrEmptyCart):
		sendErrorResponse(ctx, http.StatusBadRequest, msgCartEmpty)
	default:
		var authErr *clients.AuthError
		if errors.As(err, &authErr) {
			sendErrorResponse(ctx, http.StatusUnauthorized, authErr.Message)
			return
		}
		var apiErr *clients.APIError
		if errors.As(err, &apiErr) {
			status := apiErr.StatusCode
			if status < 400 {
				status = http.StatusBadGateway
			}
			sendErrorResponse(ctx, status, apiErr.Error())
			return
		}
		log.Println("Backend call failed:", err)
		sendErrorResponse(ctx, http.StatusBadGateway, msgUpstreamUnavailable)
	}
}
