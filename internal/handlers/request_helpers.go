package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopdesk/internal/middleware"
)

var logger = logrus.StandardLogger()

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		logger.WithFields(logrus.Fields{"route": route, "panic": r}).Error("panic recovered")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	entry := logger.WithFields(logrus.Fields{"route": route, "status": status})
	if status >= http.StatusInternalServerError {
		entry.Error(message)
	} else {
		entry.Debug(message)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

// bindJSON decodes the request body into dst and answers 400 when the body
// is malformed or fails validation.
func bindJSON(c *gin.Context, route string, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}
	if fields := validationMessages(err); fields != nil {
		logger.WithFields(logrus.Fields{"route": route, "fields": fields}).Debug("validation failed")
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
		return false
	}
	respondWithError(c, http.StatusBadRequest, route, "invalid request body")
	return false
}

func respondValidation(c *gin.Context, fields map[string]string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "validation failed", "fields": fields})
}

// recordOperation counts a store mutation in the metrics.
func recordOperation(operation string, success bool) {
	middleware.RecordStoreOperation(operation, success)
}
