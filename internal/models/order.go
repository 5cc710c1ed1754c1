package models

import "time"

// OrderStatus is one of the allowed order states.
type OrderStatus string

const (
	StatusInTransit OrderStatus = "в пути"
	StatusInStock   OrderStatus = "на складе"

	DefaultOrderStatus = StatusInTransit
)

// Valid reports whether s is one of the allowed statuses.
func (s OrderStatus) Valid() bool {
	return s == StatusInTransit || s == StatusInStock
}

// NormalizeStatus returns s when it is allowed and the default status otherwise.
func NormalizeStatus(s OrderStatus) OrderStatus {
	if s.Valid() {
		return s
	}
	return DefaultOrderStatus
}

// OrderItem is a denormalized snapshot of a product inside an order.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a customer purchase record.
type Order struct {
	ID           string      `json:"id"`
	CustomerName string      `json:"customerName"`
	Date         string      `json:"date"`
	Status       OrderStatus `json:"status"`
	PhoneNumber  string      `json:"phoneNumber,omitempty"`
	Description  string      `json:"description,omitempty"`
	Image        *string     `json:"image,omitempty"`
	Products     []OrderItem `json:"products"`
	TotalAmount  float64     `json:"totalAmount"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// OrderInput carries the caller supplied fields of a new order.
type OrderInput struct {
	CustomerName string
	Date         string
	Status       OrderStatus
	PhoneNumber  string
	Description  string
	Image        *string
	Products     []OrderItem
	TotalAmount  float64
}

// ItemsTotal sums price*quantity over the given line items.
func ItemsTotal(items []OrderItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
