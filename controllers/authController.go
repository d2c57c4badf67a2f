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

type AuthController struct {
	Sessions *session.Manager
	Carts    *cart.Manager
}

func NewAuthController(sessions *session.Manager, carts *cart.Manager) *AuthController {
	return &AuthController{Sessions: sessions, Carts: carts}
}

func (c *AuthController) Login(ctx *gin.Context) {
	var req models.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s, err := c.Sessions.Login(ctx.Request.Context(), req.Email, req.Password, req.Role)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}

	sendJSONResponse(ctx, http.StatusOK, "Login successful", s)
}

func (c *AuthController) RegisterCustomer(ctx *gin.Context) {
	var req models.RegisterCustomerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s, err := c.Sessions.RegisterCustomer(ctx.Request.Context(), req)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, "Account created successfully", s)
}

func (c *AuthController) RegisterMerchant(ctx *gin.Context) {
	var req models.RegisterMerchantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s, err := c.Sessions.RegisterMerchant(ctx.Request.Context(), req)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}

	sendJSONResponse(ctx, http.StatusCreated, "Merchant account created successfully", s)
}

// Logout destroys the persisted session and drops the user's cart mirror.
// No backend call is made; the token simply stops resolving to a session.
func (c *AuthController) Logout(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	if err := c.Sessions.Logout(ctx.Request.Context(), s.Token); err != nil {
		log.Println("Logout error:", err)
		sendErrorResponse(ctx, http.StatusInternalServerError, "Unable to log out. Try again.")
		return
	}
	c.Carts.Forget(s.User.UserID)
	sendJSONResponse(ctx, http.StatusOK, msgLoggedOut, nil)
}

// Me returns the hydrated session for the request's token.
func (c *AuthController) Me(ctx *gin.Context) {
	sendJSONResponse(ctx, http.StatusOK, "Session active", middlewares.SessionFrom(ctx))
}
