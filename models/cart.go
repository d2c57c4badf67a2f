package models

// CartProduct carries the denormalized display fields the order service
// attaches to a cart line so the storefront can render it without a catalog
// round trip.
type CartProduct struct {
	Name      string   `json:"name"`
	Brand     string   `json:"brand,omitempty"`
	ImageUrls []string `json:"imageUrls,omitempty"`
}

// CartItem is one merchant listing in the cart. MerchantProductID identifies
// the merchant's priced, stocked listing, not the catalog product itself.
type CartItem struct {
	MerchantProductID string       `json:"merchantProductId"`
	Quantity          int          `json:"quantity"`
	Price             float64      `json:"price"`
	SubTotal          float64      `json:"subTotal"`
	Product           *CartProduct `json:"product,omitempty"`
}

type Cart struct {
	CartID     int64      `json:"cartId"`
	Items      []CartItem `json:"items"`
	TotalValue float64    `json:"totalValue"`
}

// Normalize recomputes each line's subtotal and the cart total so that
// subTotal = quantity x price and totalValue = sum of subtotals, regardless
// of what the order service sent.
func (c *Cart) Normalize() {
	var total float64
	for i := range c.Items {
		c.Items[i].SubTotal = float64(c.Items[i].Quantity) * c.Items[i].Price
		total += c.Items[i].SubTotal
	}
	c.TotalValue = total
}

// ItemCount is the sum of quantities, consumed by the header badge.
func (c *Cart) ItemCount() int {
	if c == nil {
		return 0
	}
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

type AddToCartRequest struct {
	MerchantProductID string `json:"merchantProductId" binding:"required"`
	Quantity          int    `json:"quantity" binding:"required,min=1"`
}

type UpdateCartItemRequest struct {
	MerchantProductID string `json:"merchantProductId" binding:"required"`
	Quantity          int    `json:"quantity" binding:"required"`
}

type CheckoutRequest struct {
	PaymentMethod   string `json:"paymentMethod" binding:"required"`
	ShippingAddress string `json:"shippingAddress" binding:"required"`
}
