package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/models"
	"shopdesk/internal/store"
)

// Home sends the root to the catalog.
func Home() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/products")
	}
}

func uiView(s *store.Store) gin.H {
	return gin.H{
		"filters":     s.SearchFilters(),
		"sortOption":  s.SortOption(),
		"sidebarOpen": s.SidebarOpen(),
	}
}

func GetUIState(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /ui"
		defer handlePanic(c, route)

		c.JSON(http.StatusOK, uiView(s))
	}
}

/* =======================
   FILTERS
======================= */

// parseFilterPatch reads a partial filter update. Keys that are absent are
// left unchanged; a null bound clears it.
func parseFilterPatch(body []byte) (models.FilterPatch, map[string]string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return models.FilterPatch{}, nil, err
	}

	var patch models.FilterPatch
	fields := map[string]string{}

	if v, ok := raw["type"]; ok {
		var t models.CollectionType
		if err := json.Unmarshal(v, &t); err != nil || !t.Valid() {
			fields["type"] = "must be one of: products, orders, database"
		} else {
			patch.Type = &t
		}
	}
	if v, ok := raw["query"]; ok {
		var q string
		if err := json.Unmarshal(v, &q); err != nil {
			fields["query"] = "must be a string"
		} else {
			patch.Query = &q
		}
	}
	parseBound(raw, "minPrice", &patch.MinPrice, fields)
	parseBound(raw, "maxPrice", &patch.MaxPrice, fields)
	parseBound(raw, "minQuantity", &patch.MinQuantity, fields)
	parseBound(raw, "maxQuantity", &patch.MaxQuantity, fields)

	return patch, fields, nil
}

func parseBound[T int | float64](raw map[string]json.RawMessage, key string, dst *models.Bound[T], fields map[string]string) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var value *T
	if err := json.Unmarshal(v, &value); err != nil {
		fields[key] = "must be a number or null"
		return
	}
	dst.Set = true
	dst.Value = value
}

func UpdateSearchFilters(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /ui/filters"
		defer handlePanic(c, route)

		body, err := c.GetRawData()
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		patch, fields, err := parseFilterPatch(body)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if len(fields) > 0 {
			respondValidation(c, fields)
			return
		}

		filters, err := s.SetSearchFilters(patch)
		recordOperation("set_search_filters", err == nil)
		if errors.Is(err, store.ErrInvalidCollection) {
			respondValidation(c, map[string]string{"type": "must be one of: products, orders, database"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"filters": filters})
	}
}

/* =======================
   SORT / SIDEBAR
======================= */

type sortRequest struct {
	Option models.SortOption `json:"option" binding:"required,oneof=default alphabetical priceLowToHigh priceHighToLow dateNewest dateOldest"`
}

type sidebarRequest struct {
	Open *bool `json:"open" binding:"required"`
}

func SetSortOption(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /ui/sort"
		defer handlePanic(c, route)

		var req sortRequest
		if !bindJSON(c, route, &req) {
			return
		}
		err := s.SetSortOption(req.Option)
		recordOperation("set_sort_option", err == nil)
		if err != nil {
			respondValidation(c, map[string]string{"option": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"sortOption": req.Option})
	}
}

func SetSidebar(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /ui/sidebar"
		defer handlePanic(c, route)

		var req sidebarRequest
		if !bindJSON(c, route, &req) {
			return
		}
		s.SetSidebarOpen(*req.Open)
		c.JSON(http.StatusOK, gin.H{"sidebarOpen": *req.Open})
	}
}
