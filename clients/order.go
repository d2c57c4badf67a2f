package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markethub/storefront-gateway/models"
)

// OrderClient covers the order service: the server-held cart, checkout, and
// order retrieval for customers and merchants.
type OrderClient struct {
	http *resty.Client
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{http: newRestyClient(baseURL, timeout)}
}

func (c *OrderClient) GetCart(ctx context.Context) (*models.Cart, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/cart")
	if err != nil {
		return nil, fmt.Errorf("fetch cart: %w", err)
	}
	var cart models.Cart
	if err := decodeEnvelope(resp, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

// AddItem's response payload is unreliable (often null or sparse), so only
// the envelope's success flag is consulted; callers re-fetch the cart.
func (c *OrderClient) AddItem(ctx context.Context, req models.AddToCartRequest) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/cart/add")
	if err != nil {
		return fmt.Errorf("add to cart: %w", err)
	}
	return decodeEnvelope(resp, nil)
}

func (c *OrderClient) RemoveItem(ctx context.Context, merchantProductID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/cart/remove/" + merchantProductID)
	if err != nil {
		return fmt.Errorf("remove from cart: %w", err)
	}
	return decodeEnvelope(resp, nil)
}

func (c *OrderClient) UpdateItem(ctx context.Context, req models.UpdateCartItemRequest) error {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Put("/cart/update")
	if err != nil {
		return fmt.Errorf("update cart item: %w", err)
	}
	return decodeEnvelope(resp, nil)
}

func (c *OrderClient) ClearCart(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/cart/clear")
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return decodeEnvelope(resp, nil)
}

// Checkout converts the server-held cart into an order and returns its id.
func (c *OrderClient) Checkout(ctx context.Context, req models.CheckoutRequest) (int64, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(req).Post("/orders/checkout")
	if err != nil {
		return 0, fmt.Errorf("checkout: %w", err)
	}
	var orderID int64
	if err := decodeEnvelope(resp, &orderID); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (c *OrderClient) OrderHistory(ctx context.Context) ([]models.Order, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/orders/history")
	if err != nil {
		return nil, fmt.Errorf("fetch order history: %w", err)
	}
	var orders []models.Order
	if err := decodeEnvelope(resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *OrderClient) OrderDetails(ctx context.Context, orderID int64) (*models.Order, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/orders/%d", orderID))
	if err != nil {
		return nil, fmt.Errorf("fetch order %d: %w", orderID, err)
	}
	var order models.Order
	if err := decodeEnvelope(resp, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *OrderClient) MerchantOrders(ctx context.Context) ([]models.Order, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/merchant/orders")
	if err != nil {
		return nil, fmt.Errorf("fetch merchant orders: %w", err)
	}
	var orders []models.Order
	if err := decodeEnvelope(resp, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// MerchantRankings returns every merchant's aggregated scorecard.
func (c *OrderClient) MerchantRankings(ctx context.Context) ([]models.MerchantRanking, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/merchants/rankings")
	if err != nil {
		return nil, fmt.Errorf("fetch merchant rankings: %w", err)
	}
	var rankings []models.MerchantRanking
	if err := decodeEnvelope(resp, &rankings); err != nil {
		return nil, err
	}
	return rankings, nil
}

func (c *OrderClient) MerchantRanking(ctx context.Context, merchantID int64) (*models.MerchantRanking, error) {
	resp, err := c.http.R().SetContext(ctx).Get(fmt.Sprintf("/merchants/%d/ranking", merchantID))
	if err != nil {
		return nil, fmt.Errorf("fetch ranking for merchant %d: %w", merchantID, err)
	}
	var ranking models.MerchantRanking
	if err := decodeEnvelope(resp, &ranking); err != nil {
		return nil, err
	}
	return &ranking, nil
}

func (c *OrderClient) TopMerchants(ctx context.Context, limit int) ([]models.MerchantRanking, error) {
	resp, err := c.http.R().SetContext(ctx).
		SetQueryParam("limit", fmt.Sprintf("%d", limit)).
		Get("/merchants/rankings/top")
	if err != nil {
		return nil, fmt.Errorf("fetch top merchants: %w", err)
	}
	var rankings []models.MerchantRanking
	if err := decodeEnvelope(resp, &rankings); err != nil {
		return nil, err
	}
	return rankings, nil
}

func (c *OrderClient) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string]string{"status": string(status)}).
		Put(fmt.Sprintf("/orders/%d/status", orderID))
	if err != nil {
		return fmt.Errorf("update order %d status: %w", orderID, err)
	}
	return decodeEnvelope(resp, nil)
}
