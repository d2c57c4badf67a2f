package clients

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markethub/storefront-gateway/models"
)

type InventoryClient struct {
	http *resty.Client
}

func NewInventoryClient(baseURL string, timeout time.Duration) *InventoryClient {
	return &InventoryClient{http: newRestyClient(baseURL, timeout)}
}

func (c *InventoryClient) Add(ctx context.Context, data models.InventoryFormData) (*models.InventoryItem, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(data).Post("/inventory")
	if err != nil {
		return nil, fmt.Errorf("add inventory: %w", err)
	}
	var item models.InventoryItem
	if err := decodeEnvelope(resp, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *InventoryClient) ForMerchant(ctx context.Context, merchantID int64) ([]models.InventoryItem, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("merchantId", strconv.FormatInt(merchantID, 10)).
		Get("/inventory")
	if err != nil {
		return nil, fmt.Errorf("fetch merchant inventory: %w", err)
	}
	var items []models.InventoryItem
	if err := decodeEnvelope(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// MyListings returns the authenticated merchant's own listings.
func (c *InventoryClient) MyListings(ctx context.Context) ([]models.InventoryItem, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/inventory/my-listings")
	if err != nil {
		return nil, fmt.Errorf("fetch listings: %w", err)
	}
	var items []models.InventoryItem
	if err := decodeEnvelope(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *InventoryClient) ByProduct(ctx context.Context, productID string) ([]models.InventoryItem, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/inventory/product/" + productID)
	if err != nil {
		return nil, fmt.Errorf("fetch inventory for product %s: %w", productID, err)
	}
	var items []models.InventoryItem
	if err := decodeEnvelope(resp, &items); err != nil {
		return nil, err
	}
	return items, nil
}
