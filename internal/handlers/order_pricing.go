package handlers

import (
	"fmt"
	"math"

	"shopdesk/internal/models"
)

type orderItemRequest struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name" binding:"required"`
	Quantity  int     `json:"quantity" binding:"gte=1"`
	Price     float64 `json:"price" binding:"gte=0"`
}

func toOrderItems(in []orderItemRequest) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(in))
	for _, item := range in {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	return items
}

// resolveOrderTotal returns the explicit total when one was sent and the sum
// of the line items otherwise.
func resolveOrderTotal(items []models.OrderItem, explicit *float64) (float64, error) {
	if explicit == nil {
		return roundMoney(models.ItemsTotal(items)), nil
	}
	if *explicit < 0 || math.IsNaN(*explicit) || math.IsInf(*explicit, 0) {
		return 0, fmt.Errorf("totalAmount must be a non-negative number")
	}
	return *explicit, nil
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
