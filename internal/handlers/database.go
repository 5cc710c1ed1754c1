package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/models"
	"shopdesk/internal/store"
)

type phoneEntryView struct {
	models.PhoneEntry
	Total float64 `json:"total"`
}

func newPhoneEntryView(e models.PhoneEntry) phoneEntryView {
	return phoneEntryView{PhoneEntry: e, Total: e.Total()}
}

// GetDatabase serves the customer database view: phone numbers with their
// purchase history, under the current filters.
func GetDatabase(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /database"
		defer handlePanic(c, route)

		entries := s.FilteredDatabase()
		views := make([]phoneEntryView, 0, len(entries))
		for _, e := range entries {
			views = append(views, newPhoneEntryView(e))
		}
		respondList(c, route, views)
	}
}

func GetPhoneEntry(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /database/:phone"
		defer handlePanic(c, route)

		entry, ok := s.PhoneEntry(c.Param("phone"))
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "phone number not found")
			return
		}
		c.JSON(http.StatusOK, newPhoneEntryView(entry))
	}
}

func DeletePhoneEntry(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /database/:phone"
		defer handlePanic(c, route)

		ok := s.DeletePhoneEntry(c.Param("phone"))
		recordOperation("delete_phone_entry", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "phone number not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// DeleteDatabaseOrder drops one purchase record from a phone entry. The
// order itself is not touched.
func DeleteDatabaseOrder(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /database/:phone/orders/:orderId"
		defer handlePanic(c, route)

		ok := s.DeleteOrderFromDatabase(c.Param("phone"), c.Param("orderId"))
		recordOperation("delete_database_order", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "order record not found")
			return
		}

		entry, exists := s.PhoneEntry(c.Param("phone"))
		if !exists {
			c.Status(http.StatusNoContent)
			return
		}
		c.JSON(http.StatusOK, newPhoneEntryView(entry))
	}
}
