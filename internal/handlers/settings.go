package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopdesk/internal/models"
	"shopdesk/internal/store"
)

func settingsView(s *store.Store) gin.H {
	return gin.H{"theme": s.Theme(), "settings": s.Settings()}
}

func GetSettings(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /settings"
		defer handlePanic(c, route)

		c.JSON(http.StatusOK, settingsView(s))
	}
}

func UpdateSettings(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PATCH /settings"
		defer handlePanic(c, route)

		var patch models.SettingsPatch
		if !bindJSON(c, route, &patch) {
			return
		}
		s.UpdateSettings(patch)
		recordOperation("update_settings", true)

		c.JSON(http.StatusOK, settingsView(s))
	}
}

func ToggleTheme(s *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /settings/theme/toggle"
		defer handlePanic(c, route)

		theme := s.ToggleTheme()
		recordOperation("toggle_theme", true)
		c.JSON(http.StatusOK, gin.H{"theme": theme})
	}
}
