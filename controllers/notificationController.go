package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/middlewares"
	"github.com/markethub/storefront-gateway/session"
)

type NotificationController struct {
	Notifications *clients.NotificationClient
	Sessions      *session.Manager
}

func NewNotificationController(notifications *clients.NotificationClient, sessions *session.Manager) *NotificationController {
	return &NotificationController{Notifications: notifications, Sessions: sessions}
}

func (c *NotificationController) List(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	notifications, err := c.Notifications.List(clients.WithToken(ctx.Request.Context(), s.Token))
	if err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Notifications fetched", notifications)
}

func (c *NotificationController) MarkRead(ctx *gin.Context) {
	notificationID, err := strconv.ParseInt(ctx.Param("notificationId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	s := middlewares.SessionFrom(ctx)
	if err := c.Notifications.MarkRead(clients.WithToken(ctx.Request.Context(), s.Token), notificationID); err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Notification marked as read", nil)
}

func (c *NotificationController) MarkAllRead(ctx *gin.Context) {
	s := middlewares.SessionFrom(ctx)
	if err := c.Notifications.MarkAllRead(clients.WithToken(ctx.Request.Context(), s.Token)); err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, msgNotificationsCleared, nil)
}

func (c *NotificationController) Delete(ctx *gin.Context) {
	notificationID, err := strconv.ParseInt(ctx.Param("notificationId"), 10, 64)
	if err != nil {
		sendErrorResponse(ctx, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	s := middlewares.SessionFrom(ctx)
	if err := c.Notifications.Delete(clients.WithToken(ctx.Request.Context(), s.Token), notificationID); err != nil {
		handleBackendError(ctx, c.Sessions, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, "Notification deleted", nil)
}
