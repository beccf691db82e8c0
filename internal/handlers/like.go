package handlers

import (
	"errors"
	"mojiboard/internal/services"
	"mojiboard/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type LikeHandler struct{}

func NewLikeHandler() *LikeHandler {
	return &LikeHandler{}
}

// Toggle flips the caller's like on a post and returns the new state with
// the fresh count.
func (h *LikeHandler) Toggle(c *gin.Context) {
	actor, err := resolveActor(c)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	postID := utils.StringToUint(c.Param("id"))

	liked, count, err := services.ToggleLike(actor, postID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			jsonError(c, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, gorm.ErrRecordNotFound):
			jsonError(c, http.StatusNotFound, "image not found")
		default:
			jsonError(c, http.StatusInternalServerError, "query failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"liked": liked, "likes": count})
}
