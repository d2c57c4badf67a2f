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

type ReviewController struct {
	Reviews  *clients.ReviewClient
	Sessions *session.Manager
}

func NewReviewController(reviews *clients.ReviewClient, sessions *session.Manager) *ReviewController {
	return &ReviewController{Reviews: reviews, Sessions: sessions}
}

func (c *ReviewController) PostReview(ctx *gin.Context) {
	var form models.ReviewFormData
	if err := ctx.ShouldBindJSON(&form); err != nil {
		log.Println("Bind error:", err)
		sendErrorResponse(ctx, http.StatusBadRequest, msgInvalidInput)
		return
	}

	s := middlewares.SessionFrom(ctx)
	review, err := c.Reviews.Post(clients.WithToken(ctx.Request.Context(), s.Token), form)
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, "Review posted", review)
}

func (c *ReviewController) ReviewsForProduct(ctx *gin.Context) {
	reviews, err := c.Reviews.ForProduct(ctx.Request.Context(), ctx.Param("productId"))
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Reviews fetched", reviews)
}

func (c *ReviewController) AverageRating(ctx *gin.Context) {
	rating, err := c.Reviews.AverageRating(ctx.Request.Context(), ctx.Param("productId"))
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Average rating fetched", rating)
}

func (c *ReviewController) DeleteReview(ctx *gin.Context) {
	reviewID, err := strconv.ParseInt(ctx.Param("reviewId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid review ID")
		return
	}

	s := middlewares.SessionFrom(ctx)
	if err := c.Reviews.Delete(clients.WithToken(ctx.Request.Context(), s.Token), reviewID); err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Review deleted", nil)
}
