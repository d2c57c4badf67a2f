package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderShipped   OrderStatus = "SHIPPED"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type OrderItem struct {
	MerchantProductID string  `json:"merchantProductId"`
	ProductName       string  `json:"productName,omitempty"`
	ProductImage      string  `json:"productImage,omitempty"`
	Price             float64 `json:"price"`
	Quantity          int     `json:"quantity"`
}

type Order struct {
	OrderID         int64       `json:"orderId"`
	TotalAmount     float64     `json:"totalAmount"`
	Status          OrderStatus `json:"status"`
	OrderDate       time.Time   `json:"orderDate"`
	Items           []OrderItem `json:"items,omitempty"`
	ShippingAddress string      `json:"shippingAddress,omitempty"`
	PaymentMethod   string      `json:"paymentMethod,omitempty"`
	CustomerID      int64       `json:"customerId,omitempty"`
	CustomerName    string      `json:"customerName,omitempty"`
	CustomerEmail   string      `json:"customerEmail,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" binding:"required,oneof=PENDING CONFIRMED SHIPPED DELIVERED CANCELLED"`
}

// OrderSnapshot is the durable denormalized copy of an order written at
// checkout time. The order service's history and detail endpoints are known
// to omit line items, so the gateway keeps its own copy of what was bought
// and merges it back in when the backend comes up short.
type OrderSnapshot struct {
	gorm.Model
	OrderID         int64  `gorm:"uniqueIndex"`
	UserID          int64  `gorm:"index"`
	TotalAmount     float64
	Status          string
	OrderDate       time.Time
	PaymentMethod   string
	ShippingAddress string
	Items           datatypes.JSON
}

func NewOrderSnapshot(userID int64, order Order) (OrderSnapshot, error) {
	items, err := json.Marshal(order.Items)
	if err != nil {
		return OrderSnapshot{}, err
	}
	return OrderSnapshot{
		OrderID:         order.OrderID,
		UserID:          userID,
		TotalAmount:     order.TotalAmount,
		Status:          string(order.Status),
		OrderDate:       order.OrderDate,
		PaymentMethod:   order.PaymentMethod,
		ShippingAddress: order.ShippingAddress,
		Items:           datatypes.JSON(items),
	}, nil
}

func (s *OrderSnapshot) ToOrder() (Order, error) {
	order := Order{
		OrderID:         s.OrderID,
		TotalAmount:     s.TotalAmount,
		Status:          OrderStatus(s.Status),
		OrderDate:       s.OrderDate,
		PaymentMethod:   s.PaymentMethod,
		ShippingAddress: s.ShippingAddress,
	}
	if len(s.Items) > 0 {
		if err := json.Unmarshal(s.Items, &order.Items); err != nil {
			return order, err
		}
	}
	return order, nil
}

// OrderEvent is published on the order exchange after checkout and status
// changes; the consumer turns these into customer emails.
type OrderEvent struct {
	OrderID  int64     `json:"orderId"`
	UserID   int64     `json:"userId"`
	Email    string    `json:"email,omitempty"`
	Type     string    `json:"type"` // created, status_updated
	Status   string    `json:"status"`
	Total    float64   `json:"total"`
	Occurred time.Time `json:"occurred"`
}
