package controllers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/markethub/storefront-gateway/cart"
	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/controllers"
	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/routes"
	"github.com/markethub/storefront-gateway/session"
	"github.com/markethub/storefront-gateway/store"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	m.Run()
}

type gateway struct {
	router   *gin.Engine
	sessions *store.MemorySessionStore
	cache    *store.MemoryOrderCache
}

type capturingPublisher struct {
	events []models.OrderEvent
}

func (p *capturingPublisher) PublishOrderEvent(event models.OrderEvent) error {
	p.events = append(p.events, event)
	return nil
}

// newGateway wires a full gateway against stub auth and order backends, the
// same shape main assembles, with in-memory stores.
func newGateway(t *testing.T, authHandler, orderHandler http.HandlerFunc) *gateway {
	return newGatewayWith(t, authHandler, orderHandler, nil)
}

func newGatewayWith(t *testing.T, authHandler, orderHandler http.HandlerFunc, pub cart.Publisher) *gateway {
	t.Helper()

	authBackend := httptest.NewServer(authHandler)
	t.Cleanup(authBackend.Close)
	orderBackend := httptest.NewServer(orderHandler)
	t.Cleanup(orderBackend.Close)

	sessionStore := store.NewMemorySessionStore()
	orderCache := store.NewMemoryOrderCache()

	sessions := session.NewManager(clients.NewAuthClient(authBackend.URL, time.Second), sessionStore)
	orderClient := clients.NewOrderClient(orderBackend.URL, time.Second)
	carts := cart.NewManager(orderClient, orderCache, pub)

	router := gin.New()
	router.Use(cors.Default())
	routes.DefaultRoutes(router)
	routes.AuthRoutes(router, controllers.NewAuthController(sessions, carts), sessions)
	routes.CartRoutes(router, controllers.NewCartController(carts, sessions), sessions)
	routes.OrderRoutes(router, controllers.NewOrderController(orderClient, orderCache, carts, sessions, pub), sessions)

	return &gateway{router: router, sessions: sessionStore, cache: orderCache}
}

func stubAuthBackend(token string, role models.Role) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{
			"success": true,
			"message": "ok",
			"data": map[string]any{
				"token": token,
				"user": map[string]any{
					"userId": 10,
					"email":  "shopper@example.com",
					"role":   string(role),
				},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func stubOrderBackend(cart models.Cart) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "ok",
			"data":    cart,
		})
	}
}

func (g *gateway) do(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	g.router.ServeHTTP(rec, req)
	return rec
}

func envelopeOf(t *testing.T, rec *httptest.ResponseRecorder) (bool, string, json.RawMessage) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Success, env.Message, env.Data
}

func TestLoginReturnsSessionEnvelope(t *testing.T) {
	g := newGateway(t, stubAuthBackend("tok-1", models.RoleCustomer), stubOrderBackend(models.Cart{}))

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	success, _, data := envelopeOf(t, rec)
	assert.True(t, success)

	var s models.Session
	require.NoError(t, json.Unmarshal(data, &s))
	assert.Equal(t, "tok-1", s.Token)
	assert.True(t, s.IsCustomer())
	assert.Equal(t, 1, g.sessions.Len(), "login must persist the session")
}

func TestLoginRejectsBadPayload(t *testing.T) {
	g := newGateway(t, stubAuthBackend("tok-1", models.RoleCustomer), stubOrderBackend(models.Cart{}))

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCartRequiresAuthentication(t *testing.T) {
	g := newGateway(t, stubAuthBackend("tok-1", models.RoleCustomer), stubOrderBackend(models.Cart{}))

	rec := g.do(t, http.MethodGet, "/cart", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = g.do(t, http.MethodGet, "/cart", "unknown-token", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartRejectsMerchants(t *testing.T) {
	g := newGateway(t, stubAuthBackend("tok-m", models.RoleMerchant), stubOrderBackend(models.Cart{}))

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"m@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodGet, "/cart", "tok-m", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, 1, g.sessions.Len(), "role mismatch must not destroy the session")
}

func TestCartFetchMirrorsBackend(t *testing.T) {
	serverCart := models.Cart{
		CartID: 3,
		Items: []models.CartItem{
			{MerchantProductID: "mp-1", Quantity: 2, Price: 29.99},
		},
	}
	g := newGateway(t, stubAuthBackend("tok-1", models.RoleCustomer), stubOrderBackend(serverCart))

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodGet, "/cart", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, _, data := envelopeOf(t, rec)
	var got models.Cart
	require.NoError(t, json.Unmarshal(data, &got))
	require.Len(t, got.Items, 1)
	assert.InDelta(t, 59.98, got.TotalValue, 0.001)
}

func TestBackend401DestroysSession(t *testing.T) {
	g := newGateway(t,
		stubAuthBackend("tok-1", models.RoleCustomer),
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		},
	)

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, g.sessions.Len())

	rec = g.do(t, http.MethodGet, "/cart", "tok-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, g.sessions.Len(), "a backend 401 must destroy the persisted session")

	// The token now hydrates to nothing.
	rec = g.do(t, http.MethodGet, "/cart", "tok-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMissingCartServedAsEmpty(t *testing.T) {
	g := newGateway(t,
		stubAuthBackend("tok-1", models.RoleCustomer),
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		},
	)

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodGet, "/cart", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, _, data := envelopeOf(t, rec)
	var got models.Cart
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Empty(t, got.Items)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	g := newGateway(t, stubAuthBackend("tok-1", models.RoleCustomer), stubOrderBackend(models.Cart{}))

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodPost, "/auth/logout", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, g.sessions.Len())

	rec = g.do(t, http.MethodGet, "/auth/me", "tok-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOrderDetailsMergesSnapshotItems(t *testing.T) {
	// Backend knows the order but has lost its line items.
	backendOrder := models.Order{OrderID: 501, TotalAmount: 59.98, Status: models.OrderShipped, OrderDate: time.Now()}
	g := newGateway(t,
		stubAuthBackend("tok-1", models.RoleCustomer),
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"success": true, "message": "ok", "data": backendOrder,
			})
		},
	)

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := models.Order{
		OrderID:     501,
		TotalAmount: 59.98,
		Status:      models.OrderPending, // stale; backend wins
		OrderDate:   time.Now(),
		Items: []models.OrderItem{
			{MerchantProductID: "mp-1", ProductName: "Kettle", Price: 29.99, Quantity: 2},
		},
		PaymentMethod: "COD",
	}
	require.NoError(t, g.cache.Put(context.Background(), 10, snapshot))

	rec = g.do(t, http.MethodGet, "/orders/501", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, _, data := envelopeOf(t, rec)
	var got models.Order
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, models.OrderShipped, got.Status, "status comes from the backend")
	require.Len(t, got.Items, 1, "items come from the snapshot")
	assert.Equal(t, "Kettle", got.Items[0].ProductName)
	assert.Equal(t, "COD", got.PaymentMethod)
}

func TestOrderHistoryFallsBackToSnapshots(t *testing.T) {
	g := newGateway(t,
		stubAuthBackend("tok-1", models.RoleCustomer),
		func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	)

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, g.cache.Put(context.Background(), 10, models.Order{
		OrderID: 600, TotalAmount: 10, Status: models.OrderDelivered, OrderDate: time.Now(),
	}))

	rec = g.do(t, http.MethodGet, "/orders/history", "tok-1", "")
	require.Equal(t, http.StatusOK, rec.Code)

	_, _, data := envelopeOf(t, rec)
	var orders []models.Order
	require.NoError(t, json.Unmarshal(data, &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, int64(600), orders[0].OrderID)
}

func TestUpdateStatusPublishesEventWithCustomerEmail(t *testing.T) {
	backendOrder := models.Order{
		OrderID:       501,
		TotalAmount:   59.98,
		Status:        models.OrderShipped,
		OrderDate:     time.Now(),
		CustomerID:    10,
		CustomerEmail: "shopper@example.com",
	}
	pub := &capturingPublisher{}
	g := newGatewayWith(t,
		stubAuthBackend("tok-m", models.RoleMerchant),
		func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if r.Method == http.MethodPut {
				w.Write([]byte(`{"success":true,"message":"updated","data":null}`))
				return
			}
			json.NewEncoder(w).Encode(map[string]any{
				"success": true, "message": "ok", "data": backendOrder,
			})
		},
		pub,
	)

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"m@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodPut, "/orders/501/status", "tok-m", `{"status":"SHIPPED"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, pub.events, 1)
	event := pub.events[0]
	assert.Equal(t, "status_updated", event.Type)
	assert.Equal(t, "SHIPPED", event.Status)
	assert.Equal(t, int64(501), event.OrderID)
	assert.Equal(t, int64(10), event.UserID)
	assert.Equal(t, "shopper@example.com", event.Email,
		"the event must carry the customer's email or the notification is dropped")
	assert.InDelta(t, 59.98, event.Total, 0.001)
}

func TestCheckoutRejectsEmptyCart(t *testing.T) {
	g := newGateway(t, stubAuthBackend("tok-1", models.RoleCustomer), stubOrderBackend(models.Cart{}))

	rec := g.do(t, http.MethodPost, "/auth/login", "", `{"email":"shopper@example.com","password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = g.do(t, http.MethodPost, "/orders/checkout", "tok-1", `{"paymentMethod":"COD","shippingAddress":"12 High St"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	success, _, _ := envelopeOf(t, rec)
	assert.False(t, success)
}
