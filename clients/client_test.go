package clients

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func backendStub(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"unauthorized destroys session", http.StatusUnauthorized, ErrSessionExpired},
		{"forbidden keeps session", http.StatusForbidden, ErrForbidden},
		{"missing cart is not fatal", http.StatusNotFound, ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := backendStub(t, func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			})

			client := NewOrderClient(server.URL, time.Second)
			_, err := client.GetCart(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSuccessFalseWithHTTP200IsAnError(t *testing.T) {
	server := backendStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":false,"message":"insufficient stock","data":null}`))
	})

	client := NewOrderClient(server.URL, time.Second)
	_, err := client.GetCart(context.Background())
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "insufficient stock", apiErr.Message)
}

func TestEnvelopeDataDecoded(t *testing.T) {
	server := backendStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"cartId":7,"items":[{"merchantProductId":"mp-1","quantity":2,"price":10.5}],"totalValue":21}}`))
	})

	client := NewOrderClient(server.URL, time.Second)
	cart, err := client.GetCart(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), cart.CartID)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "mp-1", cart.Items[0].MerchantProductID)
}

func TestNullDataIsTolerated(t *testing.T) {
	server := backendStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"cleared","data":null}`))
	})

	client := NewOrderClient(server.URL, time.Second)
	assert.NoError(t, client.ClearCart(context.Background()))
}

func TestBearerTokenAttachedFromContext(t *testing.T) {
	var gotAuth string
	server := backendStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":{"cartId":1,"items":[],"totalValue":0}}`))
	})

	client := NewOrderClient(server.URL, time.Second)
	ctx := WithToken(context.Background(), "tok-123")
	_, err := client.GetCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
}

func TestNoTokenMeansNoAuthHeader(t *testing.T) {
	var gotAuth string
	server := backendStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"ok","data":[]}`))
	})

	client := NewProductClient(server.URL, time.Second)
	_, err := client.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
}

func TestAttachImagesRegistersUrlsWithProductService(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string][]string
	server := backendStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"success":true,"message":"registered","data":null}`))
	})

	client := NewProductClient(server.URL, time.Second)
	ctx := WithToken(context.Background(), "tok-m")
	urls := []string{"https://bucket/img-1.jpg", "https://bucket/img-2.jpg"}
	require.NoError(t, client.AttachImages(ctx, "prod-9", urls))

	assert.Equal(t, "/products/prod-9/images", gotPath)
	assert.Equal(t, "Bearer tok-m", gotAuth)
	assert.Equal(t, urls, gotBody["imageUrls"])
}

func TestMerchantRankingEndpoints(t *testing.T) {
	var gotPath, gotLimit string
	server := backendStub(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/merchants/7/ranking":
			w.Write([]byte(`{"success":true,"message":"ok","data":{"merchantId":7,"businessName":"Acme","averageRating":4.5,"totalReviews":12,"totalOrders":80}}`))
		default:
			w.Write([]byte(`{"success":true,"message":"ok","data":[{"merchantId":7,"businessName":"Acme","averageRating":4.5,"totalReviews":12,"totalOrders":80}]}`))
		}
	})

	client := NewOrderClient(server.URL, time.Second)

	rankings, err := client.MerchantRankings(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "/merchants/rankings", gotPath)
	require.Len(t, rankings, 1)
	assert.Equal(t, "Acme", rankings[0].BusinessName)

	ranking, err := client.MerchantRanking(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "/merchants/7/ranking", gotPath)
	assert.InDelta(t, 4.5, ranking.AverageRating, 0.001)

	_, err = client.TopMerchants(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "/merchants/rankings/top", gotPath)
	assert.Equal(t, "5", gotLimit)
}

func TestMalformedEnvelope(t *testing.T) {
	server := backendStub(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json at all`))
	})

	client := NewOrderClient(server.URL, time.Second)
	_, err := client.GetCart(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionExpired)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
}
