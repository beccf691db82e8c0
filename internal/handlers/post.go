package handlers

import (
	"fmt"
	"math"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"mojiboard/internal/services"
	"mojiboard/internal/utils"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type PostHandler struct{}

func NewPostHandler() *PostHandler {
	return &PostHandler{}
}

const postsPerPage = 30

// Feed lists published images newest first across all boards.
func (h *PostHandler) Feed(c *gin.Context) {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("post:feed:page:%d", page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	var total int64
	db.DB.Model(&models.ImagePost{}).Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(postsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.ImagePost
	db.DB.Preload("Profile").Preload("Board").
		Order("created_at DESC").
		Limit(postsPerPage).
		Offset((page - 1) * postsPerPage).
		Find(&posts)

	services.FillEngagementCounts(posts)

	data := gin.H{
		"posts":       posts,
		"page":        page,
		"total_pages": totalPages,
	}
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)

	c.JSON(http.StatusOK, data)
}

type createPostRequest struct {
	BoardID  uint   `json:"board_id"`
	ImageURL string `json:"image_url"`
}

// Create publishes a generated image onto a board. The board must exist;
// posts never dangle.
func (h *PostHandler) Create(c *gin.Context) {
	profile := currentProfile(c)

	var req createPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ImageURL == "" {
		jsonError(c, http.StatusBadRequest, "image_url is required")
		return
	}

	var board models.Board
	if err := db.DB.First(&board, req.BoardID).Error; err != nil {
		jsonError(c, http.StatusBadRequest, "contest not found")
		return
	}

	post := models.ImagePost{
		BoardID:   board.ID,
		ProfileID: profile.ID,
		ImageURL:  req.ImageURL,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not publish image")
		return
	}

	utils.GetCache().Delete("post:feed:page:1")

	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Detail returns one post with its like count, the viewer's like state and
// the full reply tree.
func (h *PostHandler) Detail(c *gin.Context) {
	postID := utils.StringToUint(c.Param("id"))

	var post models.ImagePost
	if err := db.DB.Preload("Profile").Preload("Board").First(&post, postID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "image not found")
		return
	}

	actor, err := resolveActor(c)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	comments, err := services.ListComments(post.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":     post,
		"likes":    services.CountLikes(post.ID),
		"liked":    services.HasLiked(actor, post.ID),
		"comments": services.BuildTree(comments),
	})
}

// Delete removes the caller's own post.
func (h *PostHandler) Delete(c *gin.Context) {
	profile := currentProfile(c)
	postID := utils.StringToUint(c.Param("id"))

	var post models.ImagePost
	if err := db.DB.First(&post, postID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "image not found")
		return
	}
	if post.ProfileID != profile.ID {
		jsonError(c, http.StatusForbidden, "not the author")
		return
	}

	if err := db.DB.Delete(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not delete image")
		return
	}

	utils.GetCache().Delete("post:feed:page:1")

	c.JSON(http.StatusOK, gin.H{"success": true})
}
