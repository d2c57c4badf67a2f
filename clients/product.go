package clients

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markethub/storefront-gateway/models"
)

type ProductClient struct {
	http *resty.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *ProductClient {
	return &ProductClient{http: newRestyClient(baseURL, timeout)}
}

func (c *ProductClient) List(ctx context.Context) ([]models.Product, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/products")
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	var products []models.Product
	if err := decodeEnvelope(resp, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *ProductClient) Get(ctx context.Context, productID string) (*models.Product, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/products/" + productID)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", productID, err)
	}
	var product models.Product
	if err := decodeEnvelope(resp, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *ProductClient) Search(ctx context.Context, query string, filters models.SearchFilters) ([]models.Product, error) {
	req := c.http.R().SetContext(ctx).SetQueryParam("q", query)
	if filters.Category != "" {
		req.SetQueryParam("category", filters.Category)
	}
	if filters.Brand != "" {
		req.SetQueryParam("brand", filters.Brand)
	}
	if filters.MinPrice != "" {
		req.SetQueryParam("minPrice", filters.MinPrice)
	}
	if filters.MaxPrice != "" {
		req.SetQueryParam("maxPrice", filters.MaxPrice)
	}

	resp, err := req.Get("/products/search")
	if err != nil {
		return nil, fmt.Errorf("search products: %w", err)
	}
	var products []models.Product
	if err := decodeEnvelope(resp, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *ProductClient) Create(ctx context.Context, data models.ProductFormData) (*models.Product, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(data).Post("/products")
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	var product models.Product
	if err := decodeEnvelope(resp, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *ProductClient) Update(ctx context.Context, productID string, data models.ProductFormData) (*models.Product, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(data).Put("/products/" + productID)
	if err != nil {
		return nil, fmt.Errorf("update product %s: %w", productID, err)
	}
	var product models.Product
	if err := decodeEnvelope(resp, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// AttachImages registers uploaded image URLs with a catalog product so the
// listing renders them.
func (c *ProductClient) AttachImages(ctx context.Context, productID string, imageUrls []string) error {
	resp, err := c.http.R().SetContext(ctx).
		SetBody(map[string][]string{"imageUrls": imageUrls}).
		Post("/products/" + productID + "/images")
	if err != nil {
		return fmt.Errorf("attach images to product %s: %w", productID, err)
	}
	return decodeEnvelope(resp, nil)
}

func (c *ProductClient) Delete(ctx context.Context, productID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/products/" + productID)
	if err != nil {
		return fmt.Errorf("delete product %s: %w", productID, err)
	}
	return decodeEnvelope(resp, nil)
}
