package handlers

import (
	"mojiboard/internal/middleware"
	"mojiboard/internal/models"
	"mojiboard/internal/services"

	"github.com/gin-gonic/gin"
)

const anonCookie = "anon_id"

// jsonError is the single error shape every endpoint answers with.
func jsonError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// currentProfile returns the profile LoadUser put on the context, or nil.
func currentProfile(c *gin.Context) *models.Profile {
	if user, exists := c.Get(middleware.CheckUserKey); exists {
		return user.(*models.Profile)
	}
	return nil
}

// resolveActor identifies the requester: the session profile when logged
// in, otherwise the anon_id cookie. A missing cookie gets a token minted,
// registered and set on the response in one go.
func resolveActor(c *gin.Context) (services.Actor, error) {
	if profile := currentProfile(c); profile != nil {
		return services.Actor{Profile: profile}, nil
	}

	token, err := c.Cookie(anonCookie)
	if err != nil || token == "" {
		token = services.MintAnonToken()
		if _, err := services.EnsureAnonymous(token); err != nil {
			return services.Actor{}, err
		}
		c.SetCookie(anonCookie, token, 365*24*3600, "/", "", false, true)
	}
	return services.Actor{AnonToken: token}, nil
}
