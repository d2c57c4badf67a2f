package clients

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/markethub/storefront-gateway/models"
)

type ReviewClient struct {
	http *resty.Client
}

func NewReviewClient(baseURL string, timeout time.Duration) *ReviewClient {
	return &ReviewClient{http: newRestyClient(baseURL, timeout)}
}

func (c *ReviewClient) Post(ctx context.Context, data models.ReviewFormData) (*models.Review, error) {
	resp, err := c.http.R().SetContext(ctx).SetBody(data).Post("/reviews")
	if err != nil {
		return nil, fmt.Errorf("post review: %w", err)
	}
	var review models.Review
	if err := decodeEnvelope(resp, &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *ReviewClient) ForProduct(ctx context.Context, productID string) ([]models.Review, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/reviews/product/" + productID)
	if err != nil {
		return nil, fmt.Errorf("fetch reviews for product %s: %w", productID, err)
	}
	var reviews []models.Review
	if err := decodeEnvelope(resp, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *ReviewClient) AverageRating(ctx context.Context, productID string) (*models.AverageRating, error) {
	resp, err := c.http.R().SetContext(ctx).Get("/reviews/product/" + productID + "/average")
	if err != nil {
		return nil, fmt.Errorf("fetch average rating for product %s: %w", productID, err)
	}
	var rating models.AverageRating
	if err := decodeEnvelope(resp, &rating); err != nil {
		return nil, err
	}
	return &rating, nil
}

func (c *ReviewClient) Delete(ctx context.Context, reviewID int64) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/reviews/" + strconv.FormatInt(reviewID, 10))
	if err != nil {
		return fmt.Errorf("delete review %d: %w", reviewID, err)
	}
	return decodeEnvelope(resp, nil)
}
