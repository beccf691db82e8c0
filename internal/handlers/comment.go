package handlers

import (
	"errors"
	"mojiboard/internal/services"
	"mojiboard/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CommentHandler struct{}

func NewCommentHandler() *CommentHandler {
	return &CommentHandler{}
}

// List returns the post's reply tree.
func (h *CommentHandler) List(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))

	comments, err := services.ListComments(postID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": services.BuildTree(comments)})
}

type createCommentRequest struct {
	Body     string `json:"body"`
	ParentID *uint  `json:"parent_id"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	actor, err := resolveActor(c)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	postID := utils.StringToUint(c.Param("id"))

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := services.AddComment(actor, postID, req.Body, req.ParentID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			jsonError(c, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, services.ErrEmptyBody):
			jsonError(c, http.StatusBadRequest, "comment body is empty")
		case errors.Is(err, services.ErrBadParent):
			jsonError(c, http.StatusBadRequest, "invalid parent comment")
		case errors.Is(err, gorm.ErrRecordNotFound):
			jsonError(c, http.StatusNotFound, "image not found")
		default:
			jsonError(c, http.StatusInternalServerError, "query failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"comment": comment})
}

func (h *CommentHandler) Delete(c *gin.Context) {
	actor, err := resolveActor(c)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	commentID := utils.StringToUint(c.Param("id"))

	if err := services.DeleteComment(actor, commentID); err != nil {
		switch {
		case errors.Is(err, services.ErrAuthRequired):
			jsonError(c, http.StatusUnauthorized, "authentication required")
		case errors.Is(err, services.ErrNotOwner):
			jsonError(c, http.StatusForbidden, "not the author")
		case errors.Is(err, gorm.ErrRecordNotFound):
			jsonError(c, http.StatusNotFound, "comment not found")
		default:
			jsonError(c, http.StatusInternalServerError, "query failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
