package models

import (
	"time"

	"github.com/google/uuid"
)

// OrderItem is one line of an order. Name and Price are copied from the
// product at purchase time so later catalog edits do not rewrite history.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
	Price     float64   `json:"price"`
}

// ShippingAddress is the destination recorded with an order.
type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

// Order is a placed order and its fulfilment state.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user"`
	Items         []OrderItem     `json:"orderItems"`
	Shipping      ShippingAddress `json:"shippingAddress"`
	PaymentMethod string          `json:"paymentMethod"`
	TotalPrice    float64         `json:"totalPrice"`
	IsPaid        bool            `json:"isPaid"`
	PaidAt        *time.Time      `json:"paidAt,omitempty"`
	IsDelivered   bool            `json:"isDelivered"`
	DeliveredAt   *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
