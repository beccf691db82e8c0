package middleware

import (
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const CheckUserKey = "user"

// LoadUser resolves the session's user_id to a Profile and sets it on the
// context. Runs on every request; a dead session id just leaves the
// request anonymous.
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID != nil {
			var profile models.Profile
			result := db.DB.First(&profile, userID)
			if result.Error == nil {
				c.Set(CheckUserKey, &profile)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests that LoadUser left anonymous.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CheckUserKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.Next()
	}
}
