package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"shopdesk/internal/middleware"
)

type tokenRequest struct {
	Passcode string `json:"passcode" binding:"required"`
}

// IssueToken exchanges the operator passcode for a signed access token.
func IssueToken(jwtSecret, passcodeHash string, accessTTL time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/token"
		defer handlePanic(c, route)

		if jwtSecret == "" || passcodeHash == "" {
			respondWithError(c, http.StatusNotFound, route, "authentication is disabled")
			return
		}

		var req tokenRequest
		if !bindJSON(c, route, &req) {
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(passcodeHash), []byte(req.Passcode)); err != nil {
			respondWithError(c, http.StatusUnauthorized, route, "invalid credentials")
			return
		}

		expiresAt := time.Now().Add(accessTTL)
		claims := jwt.MapClaims{
			"sub": middleware.TokenSubject,
			"iat": time.Now().Unix(),
			"exp": expiresAt.Unix(),
		}

		token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
		signed, err := token.SignedString([]byte(jwtSecret))
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "token generation failed")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":     signed,
			"expiresAt": expiresAt.UTC(),
		})
	}
}
