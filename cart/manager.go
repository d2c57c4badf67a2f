// Package cart keeps a per-user mirror of the server-held cart and
// serializes every mutation into an order-service round trip. Mutation
// responses are never trusted: each write is followed by a full re-fetch of
// the cart, trading one extra round trip for a mirror that always matches
// the server.
package cart

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/markethub/storefront-gateway/clients"
	"github.com/markethub/storefront-gateway/models"
	"github.com/markethub/storefront-gateway/store"
)

var (
	// ErrNotCustomer rejects cart writes from anonymous or merchant callers
	// before any network call is made.
	ErrNotCustomer     = errors.New("cart operations require a customer session")
	ErrInvalidQuantity = errors.New("quantity must be at least 1")
	ErrEmptyCart       = errors.New("cart is empty")
)

// OrderAPI is the slice of the order service client the manager needs.
type OrderAPI interface {
	GetCart(ctx context.Context) (*models.Cart, error)
	AddItem(ctx context.Context, req models.AddToCartRequest) error
	RemoveItem(ctx context.Context, merchantProductID string) error
	UpdateItem(ctx context.Context, req models.UpdateCartItemRequest) error
	ClearCart(ctx context.Context) error
	Checkout(ctx context.Context, req models.CheckoutRequest) (int64, error)
}

// Publisher emits order lifecycle events. May be nil when the event bus is
// not configured; checkout still succeeds.
type Publisher interface {
	PublishOrderEvent(event models.OrderEvent) error
}

type Manager struct {
	orders OrderAPI
	cache  store.OrderCache
	events Publisher

	mu      sync.RWMutex
	mirrors map[int64]*mirror
}

// mirror is one user's view of their server-held cart. The revision counter
// bumps on every replacement so concurrent refetches can be told apart.
type mirror struct {
	cart     models.Cart
	revision uint64
}

func NewManager(orders OrderAPI, cache store.OrderCache, events Publisher) *Manager {
	return &Manager{
		orders:  orders,
		cache:   cache,
		events:  events,
		mirrors: make(map[int64]*mirror),
	}
}

func (m *Manager) requireCustomer(session *models.Session) error {
	if !session.IsAuthenticated() || !session.IsCustomer() {
		return ErrNotCustomer
	}
	return nil
}

func (m *Manager) authedCtx(ctx context.Context, session *models.Session) context.Context {
	return clients.WithToken(ctx, session.Token)
}

// Fetch loads the authoritative cart from the order service and replaces the
// mirror. A 404 or 403 means "no cart yet" and yields an empty cart, not an
// error. Any other failure leaves the prior mirror untouched and returns the
// error alongside it.
func (m *Manager) Fetch(ctx context.Context, session *models.Session) (*models.Cart, error) {
	if err := m.requireCustomer(session); err != nil {
		return nil, err
	}

	cart, err := m.orders.GetCart(m.authedCtx(ctx, session))
	if err != nil {
		if errors.Is(err, clients.ErrNotFound) || errors.Is(err, clients.ErrForbidden) {
			return m.replaceMirror(session.User.UserID, models.Cart{}), nil
		}
		log.Printf("Cart fetch failed for user %d: %v", session.User.UserID, err)
		return m.Cart(session), err
	}

	return m.replaceMirror(session.User.UserID, *cart), nil
}

// Add puts quantity units of a merchant listing into the cart, then
// re-fetches. The gate runs before any network call.
func (m *Manager) Add(ctx context.Context, session *models.Session, merchantProductID string, quantity int) error {
	if err := m.requireCustomer(session); err != nil {
		return err
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	req := models.AddToCartRequest{MerchantProductID: merchantProductID, Quantity: quantity}
	if err := m.orders.AddItem(m.authedCtx(ctx, session), req); err != nil {
		return err
	}
	_, err := m.Fetch(ctx, session)
	return err
}

func (m *Manager) Remove(ctx context.Context, session *models.Session, merchantProductID string) error {
	if err := m.requireCustomer(session); err != nil {
		return err
	}
	if err := m.orders.RemoveItem(m.authedCtx(ctx, session), merchantProductID); err != nil {
		return err
	}
	_, err := m.Fetch(ctx, session)
	return err
}

// UpdateQuantity sets a line's quantity. A requested quantity below 1 is
// removal, not a zero-quantity line.
func (m *Manager) UpdateQuantity(ctx context.Context, session *models.Session, merchantProductID string, quantity int) error {
	if quantity < 1 {
		return m.Remove(ctx, session, merchantProductID)
	}
	if err := m.requireCustomer(session); err != nil {
		return err
	}

	req := models.UpdateCartItemRequest{MerchantProductID: merchantProductID, Quantity: quantity}
	if err := m.orders.UpdateItem(m.authedCtx(ctx, session), req); err != nil {
		return err
	}
	_, err := m.Fetch(ctx, session)
	return err
}

// Clear empties the server-side cart. The outcome is deterministic, so the
// mirror is set to empty directly with no re-fetch.
func (m *Manager) Clear(ctx context.Context, session *models.Session) error {
	if err := m.requireCustomer(session); err != nil {
		return err
	}
	if err := m.orders.ClearCart(m.authedCtx(ctx, session)); err != nil {
		return err
	}
	m.replaceMirror(session.User.UserID, models.Cart{})
	return nil
}

// Checkout converts the current cart into an order. On success a
// denormalized snapshot of what was bought goes into the order cache (the
// order service's detail endpoint may later omit line items), an order
// event is published, and the mirror is cleared.
func (m *Manager) Checkout(ctx context.Context, session *models.Session, req models.CheckoutRequest) (int64, error) {
	if err := m.requireCustomer(session); err != nil {
		return 0, err
	}

	current := m.Cart(session)
	if len(current.Items) == 0 {
		fetched, err := m.Fetch(ctx, session)
		if err != nil {
			return 0, err
		}
		current = fetched
	}
	if len(current.Items) == 0 {
		return 0, ErrEmptyCart
	}

	orderID, err := m.orders.Checkout(m.authedCtx(ctx, session), req)
	if err != nil {
		return 0, err
	}

	order := snapshotOrder(orderID, current, req)
	if err := m.cache.Put(ctx, session.User.UserID, order); err != nil {
		// The cache is a fallback, not the source of truth; checkout stands.
		log.Printf("Order %d snapshot not cached: %v", orderID, err)
	}
	m.publish(models.OrderEvent{
		OrderID:  orderID,
		UserID:   session.User.UserID,
		Email:    session.User.Email,
		Type:     "created",
		Status:   string(models.OrderPending),
		Total:    order.TotalAmount,
		Occurred: time.Now(),
	})

	m.replaceMirror(session.User.UserID, models.Cart{})
	return orderID, nil
}

func (m *Manager) publish(event models.OrderEvent) {
	if m.events == nil {
		return
	}
	if err := m.events.PublishOrderEvent(event); err != nil {
		log.Printf("Failed to publish order event for order %d: %v", event.OrderID, err)
	}
}

// snapshotOrder freezes the mirrored cart into the denormalized order copy
// written to the cache, carrying the resolved display names.
func snapshotOrder(orderID int64, cart *models.Cart, req models.CheckoutRequest) models.Order {
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, item := range cart.Items {
		orderItem := models.OrderItem{
			MerchantProductID: item.MerchantProductID,
			Price:             item.Price,
			Quantity:          item.Quantity,
		}
		if item.Product != nil {
			orderItem.ProductName = item.Product.Name
			if len(item.Product.ImageUrls) > 0 {
				orderItem.ProductImage = item.Product.ImageUrls[0]
			}
		}
		items = append(items, orderItem)
	}
	return models.Order{
		OrderID:         orderID,
		TotalAmount:     cart.TotalValue,
		Status:          models.OrderPending,
		OrderDate:       time.Now(),
		Items:           items,
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
	}
}

// Cart returns a copy of the user's mirrored cart. Never nil.
func (m *Manager) Cart(session *models.Session) *models.Cart {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mir, ok := m.mirrors[session.User.UserID]
	if !ok {
		return &models.Cart{Items: []models.CartItem{}}
	}
	return copyCart(&mir.cart)
}

// ItemCount is the sum of quantities in the mirrored cart.
func (m *Manager) ItemCount(session *models.Session) int {
	return m.Cart(session).ItemCount()
}

// Revision reports how many times the user's mirror has been replaced.
func (m *Manager) Revision(session *models.Session) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if mir, ok := m.mirrors[session.User.UserID]; ok {
		return mir.revision
	}
	return 0
}

// Forget drops a user's mirror, e.g. on logout.
func (m *Manager) Forget(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.mirrors, userID)
}

// replaceMirror normalizes the cart (line subtotals, total), installs it as
// the user's mirror, bumps the revision, and returns a copy.
func (m *Manager) replaceMirror(userID int64, cart models.Cart) *models.Cart {
	cart.Normalize()
	if cart.Items == nil {
		cart.Items = []models.CartItem{}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	mir, ok := m.mirrors[userID]
	if !ok {
		mir = &mirror{}
		m.mirrors[userID] = mir
	}
	mir.cart = cart
	mir.revision++
	return copyCart(&mir.cart)
}

func copyCart(cart *models.Cart) *models.Cart {
	dup := *cart
	dup.Items = make([]models.CartItem, len(cart.Items))
	copy(dup.Items, cart.Items)
	return &dup
}
