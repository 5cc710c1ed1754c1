package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/models"
	"shopdesk/internal/store"
)

/* =========================
   REQUEST DTOs
========================= */

type orderRequest struct {
	CustomerName string             `json:"customerName" binding:"required"`
	Date         string             `json:"date" binding:"required,datetime=2006-01-02"`
	Status       models.OrderStatus `json:"status"`
	PhoneNumber  string             `json:"phoneNumber" binding:"omitempty,phone"`
	Description  string             `json:"description" binding:"max=2000"`
	Image        *string            `json:"image"`
	Products     []orderItemRequest `json:"products" binding:"dive"`
	TotalAmount  *float64           `json:"totalAmount"`
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// orderForm is a validated order request with its total resolved.
type orderForm struct {
	orderRequest
	items []models.OrderItem
	total float64
}

func bindOrder(c *gin.Context, route string) (orderForm, bool) {
	var req orderRequest
	if !bindJSON(c, route, &req) {
		return orderForm{}, false
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	req.Description = strings.TrimSpace(req.Description)
	if req.CustomerName == "" {
		respondValidation(c, map[string]string{"customerName": "is required"})
		return orderForm{}, false
	}
	if req.Image != nil && *req.Image == "" {
		req.Image = nil
	}

	items := toOrderItems(req.Products)
	total, err := resolveOrderTotal(items, req.TotalAmount)
	if err != nil {
		respondValidation(c, map[string]string{"totalAmount": err.Error()})
		return orderForm{}, false
	}
	return orderForm{orderRequest: req, items: items, total: total}, true
}

/* =========================
   LIST / GET
========================= */

// GetOrders serves the order list view under the current filters and sort option.
func GetOrders(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		respondList(c, route, s.FilteredOrders())
	}
}

func GetOrder(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		order, ok := s.Order(c.Param("id"))
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

/* =========================
   CREATE / UPDATE / DELETE
========================= */

// CreateOrder records a new order. Unknown statuses fall back to the default
// one and a missing totalAmount is computed from the line items.
func CreateOrder(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		form, ok := bindOrder(c, route)
		if !ok {
			return
		}

		order := s.AddOrder(models.OrderInput{
			CustomerName: form.CustomerName,
			Date:         form.Date,
			Status:       form.Status,
			PhoneNumber:  form.PhoneNumber,
			Description:  form.Description,
			Image:        form.Image,
			Products:     form.items,
			TotalAmount:  form.total,
		})
		recordOperation("add_order", true)

		c.JSON(http.StatusCreated, order)
	}
}

func UpdateOrder(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /orders/:id"
		defer handlePanic(c, route)

		form, ok := bindOrder(c, route)
		if !ok {
			return
		}

		id := c.Param("id")
		current, ok := s.Order(id)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		current.CustomerName = form.CustomerName
		current.Date = form.Date
		current.Status = form.Status
		current.PhoneNumber = form.PhoneNumber
		current.Description = form.Description
		current.Image = form.Image
		current.Products = form.items
		current.TotalAmount = form.total

		ok = s.UpdateOrder(current)
		recordOperation("update_order", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}

		updated, _ := s.Order(id)
		c.JSON(http.StatusOK, updated)
	}
}

// UpdateOrderStatus only accepts the allowed statuses.
func UpdateOrderStatus(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /orders/:id/status"
		defer handlePanic(c, route)

		var req orderStatusRequest
		if !bindJSON(c, route, &req) {
			return
		}

		id := c.Param("id")
		err := s.UpdateOrderStatus(id, req.Status)
		recordOperation("update_order_status", err == nil)
		switch {
		case errors.Is(err, store.ErrInvalidStatus):
			respondValidation(c, map[string]string{
				"status": "must be one of: " + string(models.StatusInTransit) + ", " + string(models.StatusInStock),
			})
			return
		case errors.Is(err, store.ErrOrderNotFound):
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		case err != nil:
			respondWithError(c, http.StatusInternalServerError, route, err.Error())
			return
		}

		order, _ := s.Order(id)
		c.JSON(http.StatusOK, order)
	}
}

func DeleteOrder(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /orders/:id"
		defer handlePanic(c, route)

		ok := s.DeleteOrder(c.Param("id"))
		recordOperation("delete_order", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
