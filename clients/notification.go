package clients

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markethub/storefront-gateway/models"
)

type NotificationClient struct {
	http *resty.Client
}

func NewNotificationClient(baseURL string, timeout time.Duration) *NotificationClient {
	return &NotificationClient{http: newRestyClient(baseURL, timeout)}
}

func (c *NotificationClient) List(ctx context.Context) ([]models.Notification, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/notifications")
	if err != nil {
		return nil, fmt.Errorf("fetch notifications: %w", err)
	}
	var notifications []models.Notification
	if err := decodeEnvelope(resp, &notifications); err != nil {
		return nil, err
	}
	return notifications, nil
}

func (c *NotificationClient) MarkRead(ctx context.Context, notificationID int64) error {
	resp, err := c.http.R().SetContext(ctx).
		Put("/notifications/" + strconv.FormatInt(notificationID, 10) + "/read")
	if err != nil {
		return fmt.Errorf("mark notification %d read: %w", notificationID, err)
	}
	return decodeEnvelope(resp, nil)
}

func (c *NotificationClient) MarkAllRead(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Put("/notifications/read-all")
	if err != nil {
		return fmt.Errorf("mark notifications read: %w", err)
	}
	return decodeEnvelope(resp, nil)
}

func (c *NotificationClient) Delete(ctx context.Context, notificationID int64) error {
	resp, err := c.http.R().SetContext(ctx).
		Delete("/notifications/" + strconv.FormatInt(notificationID, 10))
	if err != nil {
		return fmt.Errorf("delete notification %d: %w", notificationID, err)
	}
	return decodeEnvelope(resp, nil)
}

// SendEmail asks the notification service to deliver a transactional email.
// Used by the order event consumer, not by the HTTP surface.
func (c *NotificationClient) SendEmail(ctx context.Context, req models.EmailRequest) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/notify/email")
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	return decodeEnvelope(resp, nil)
}
