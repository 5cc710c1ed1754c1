package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/models"
	"shopdesk/internal/store"
)

/* =======================
   REQUEST MODELS
======================= */

type productRequest struct {
	Name        string   `json:"name" binding:"required"`
	Price       *float64 `json:"price" binding:"required,gt=0"`
	Quantity    *int     `json:"quantity" binding:"required,gte=0"`
	Description string   `json:"description" binding:"max=2000"`
	Image       *string  `json:"image"`
}

type adjustQuantityRequest struct {
	Delta *int `json:"delta" binding:"required"`
}

// bindProduct binds and trims a product form. It answers the request itself
// when the form is invalid.
func bindProduct(c *gin.Context, route string) (productRequest, bool) {
	var req productRequest
	if !bindJSON(c, route, &req) {
		return req, false
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Description = strings.TrimSpace(req.Description)
	if req.Name == "" {
		respondValidation(c, map[string]string{"name": "is required"})
		return req, false
	}
	return req, true
}

/* =======================
   LIST
======================= */

// GetProducts serves the catalog view: the product list under the current
// search filters and sort option.
func GetProducts(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		respondList(c, route, s.FilteredProducts())
	}
}

func GetProduct(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"
		defer handlePanic(c, route)

		product, ok := s.Product(c.Param("id"))
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

/* =======================
   CREATE / UPDATE / DELETE
======================= */

func CreateProduct(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"
		defer handlePanic(c, route)

		req, ok := bindProduct(c, route)
		if !ok {
			return
		}

		image := req.Image
		if image != nil && *image == "" {
			image = nil
		}

		product := s.AddProduct(models.ProductInput{
			Name:        req.Name,
			Price:       *req.Price,
			Quantity:    *req.Quantity,
			Description: req.Description,
			Image:       image,
		})
		recordOperation("add_product", true)

		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProduct replaces a product. An omitted image keeps the current one,
// an empty string removes it.
func UpdateProduct(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:id"
		defer handlePanic(c, route)

		req, ok := bindProduct(c, route)
		if !ok {
			return
		}

		current, ok := s.Product(c.Param("id"))
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		current.Name = req.Name
		current.Price = *req.Price
		current.Quantity = *req.Quantity
		current.Description = req.Description
		if req.Image != nil {
			current.Image = req.Image
			if *req.Image == "" {
				current.Image = nil
			}
		}

		ok = s.UpdateProduct(current)
		recordOperation("update_product", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}

		updated, _ := s.Product(current.ID)
		c.JSON(http.StatusOK, updated)
	}
}

func DeleteProduct(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:id"
		defer handlePanic(c, route)

		ok := s.DeleteProduct(c.Param("id"))
		recordOperation("delete_product", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AdjustProductQuantity applies a stock delta. The quantity never drops
// below zero.
func AdjustProductQuantity(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:id/adjust"
		defer handlePanic(c, route)

		var req adjustQuantityRequest
		if !bindJSON(c, route, &req) {
			return
		}

		product, ok := s.AdjustQuantity(c.Param("id"), *req.Delta)
		recordOperation("adjust_quantity", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}
