package handlers

import (
	"errors"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"mojiboard/internal/services"
	"mojiboard/internal/utils"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type MeHandler struct{}

func NewMeHandler() *MeHandler {
	return &MeHandler{}
}

func (h *MeHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": currentProfile(c)})
}

// MyPosts lists the caller's published images, newest first.
func (h *MeHandler) MyPosts(c *gin.Context) {
	profile := currentProfile(c)

	var posts []models.ImagePost
	db.DB.Preload("Board").
		Where("profile_id = ?", profile.ID).
		Order("created_at DESC").
		Find(&posts)

	services.FillEngagementCounts(posts)

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// LikedPosts lists the images the caller has liked, newest first.
func (h *MeHandler) LikedPosts(c *gin.Context) {
	profile := currentProfile(c)

	var likes []models.Like
	db.DB.Where("profile_id = ?", profile.ID).Find(&likes)

	if len(likes) == 0 {
		c.JSON(http.StatusOK, gin.H{"posts": []models.ImagePost{}})
		return
	}

	postIDs := make([]uint, len(likes))
	for i, l := range likes {
		postIDs[i] = l.PostID
	}

	var posts []models.ImagePost
	db.DB.Preload("Board").Preload("Profile").
		Where("id IN ?", postIDs).
		Order("created_at DESC").
		Find(&posts)

	services.FillEngagementCounts(posts)

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

type settingsRequest struct {
	Username    string `json:"username"`
	Phone       string `json:"phone"`
	Nickname    string `json:"nickname"`
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UpdateSettings edits the caller's profile. A nickname change goes
// through the availability guard first, and a duplicate-key from a race
// past it still comes back as its own conflict message.
func (h *MeHandler) UpdateSettings(c *gin.Context) {
	profile := currentProfile(c)

	var req settingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	updates := make(map[string]interface{})

	if req.Username != "" && req.Username != profile.Username {
		updates["username"] = req.Username
	}
	if req.Phone != "" && req.Phone != profile.Phone {
		updates["phone"] = req.Phone
	}

	if req.Nickname != "" && req.Nickname != profile.Nickname {
		available, err := services.NicknameAvailable(req.Nickname, profile.ID)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "query failed")
			return
		}
		if !available {
			jsonError(c, http.StatusConflict, "nickname already in use")
			return
		}
		updates["nickname"] = req.Nickname
	}

	if req.OldPassword != "" && req.NewPassword != "" {
		if !utils.CheckPasswordHash(req.OldPassword, profile.Password) {
			jsonError(c, http.StatusBadRequest, "wrong password")
			return
		}
		if len(req.NewPassword) < 6 {
			jsonError(c, http.StatusBadRequest, "password must be at least 6 characters")
			return
		}
		hash, err := utils.HashPassword(req.NewPassword)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "update failed")
			return
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := db.DB.Model(profile).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				jsonError(c, http.StatusConflict, "nickname already in use")
				return
			}
			jsonError(c, http.StatusInternalServerError, "update failed")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"user": profile})
}
