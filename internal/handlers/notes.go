package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/store"
)

type noteRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

func GetNotes(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /notes"
		defer handlePanic(c, route)

		respondList(c, route, s.Notes())
	}
}

func CreateNote(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /notes"
		defer handlePanic(c, route)

		var req noteRequest
		if !bindJSON(c, route, &req) {
			return
		}
		title, content := strings.TrimSpace(req.Title), strings.TrimSpace(req.Content)
		fields := map[string]string{}
		if title == "" {
			fields["title"] = "is required"
		}
		if content == "" {
			fields["content"] = "is required"
		}
		if len(fields) > 0 {
			respondValidation(c, fields)
			return
		}

		note := s.AddNote(title, content)
		recordOperation("add_note", true)
		c.JSON(http.StatusCreated, note)
	}
}

func DeleteNote(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /notes/:id"
		defer handlePanic(c, route)

		ok := s.DeleteNote(c.Param("id"))
		recordOperation("delete_note", ok)
		if !ok {
			respondWithError(c, http.StatusNotFound, route, "note not found")
			return
		}
		c.Status(http.StatusNoContent)
	}
}
