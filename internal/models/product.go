package models

import "time"

// Product is a catalog item with its on-hand quantity.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Price       float64   `json:"price"`
	Quantity    int       `json:"quantity"`
	Description string    `json:"description"`
	Image       *string   `json:"image"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ProductInput carries the caller supplied fields of a new product.
type ProductInput struct {
	Name        string
	Price       float64
	Quantity    int
	Description string
	Image       *string
}
