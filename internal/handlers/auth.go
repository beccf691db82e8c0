package handlers

import (
	"errors"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"mojiboard/internal/services"
	"mojiboard/internal/utils"
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	defaultMaxCount int
}

func NewAuthHandler() *AuthHandler {
	maxCount := utils.StringToInt(os.Getenv("DAILY_MAX_DEFAULT"))
	if maxCount <= 0 {
		maxCount = 3
	}
	return &AuthHandler{defaultMaxCount: maxCount}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username"`
	Phone    string `json:"phone"`
	Gender   string `json:"gender"`
	Birth    string `json:"birth"`
	Nickname string `json:"nickname"`
}

// Signup creates the profile row and starts a session. The nickname
// pre-check is advisory; the unique index decides for real, and a
// duplicate-key at insert time is answered with its own message so the
// client can tell it apart from other failures.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	parts := strings.Split(req.Email, "@")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		jsonError(c, http.StatusBadRequest, "invalid email address")
		return
	}
	if len(req.Password) < 6 {
		jsonError(c, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}
	if req.Username == "" {
		req.Username = parts[0]
	}

	if req.Nickname == "" {
		nickname, err := services.RandomNickname()
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "could not generate a nickname")
			return
		}
		req.Nickname = nickname
	} else {
		available, err := services.NicknameAvailable(req.Nickname, 0)
		if err != nil {
			jsonError(c, http.StatusInternalServerError, "query failed")
			return
		}
		if !available {
			jsonError(c, http.StatusConflict, "nickname already in use")
			return
		}
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "signup failed")
		return
	}

	profile := models.Profile{
		Email:    req.Email,
		Password: hash,
		Username: req.Username,
		Nickname: req.Nickname,
		Phone:    req.Phone,
		Gender:   req.Gender,
		Birth:    req.Birth,
		MaxCount: h.defaultMaxCount,
	}

	if err := db.DB.Create(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Which index fired: email or nickname
			var existing models.Profile
			if db.DB.Where("email = ?", req.Email).First(&existing).Error == nil {
				jsonError(c, http.StatusConflict, "email already registered")
				return
			}
			jsonError(c, http.StatusConflict, "nickname already in use")
			return
		}
		jsonError(c, http.StatusInternalServerError, "signup failed")
		return
	}

	session := sessions.Default(c)
	session.Set("user_id", profile.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

type checkNicknameRequest struct {
	Nickname string `json:"nickname"`
}

// CheckNickname answers the advisory availability question during signup
// and profile edit. The excluding id comes from the session when present
// so editing your own nickname does not report it as taken.
func (h *AuthHandler) CheckNickname(c *gin.Context) {
	var req checkNicknameRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Nickname == "" {
		jsonError(c, http.StatusBadRequest, "nickname is required")
		return
	}

	excludeID := uint(0)
	if profile := currentProfile(c); profile != nil {
		excludeID = profile.ID
	}

	available, err := services.NicknameAvailable(req.Nickname, excludeID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	message := "nickname is available"
	if !available {
		message = "nickname already in use"
	}
	c.JSON(http.StatusOK, gin.H{"available": available, "message": message})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Remember bool   `json:"remember"`
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	var profile models.Profile
	if err := db.DB.Where("email = ?", req.Email).First(&profile).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}
	if !utils.CheckPasswordHash(req.Password, profile.Password) {
		jsonError(c, http.StatusUnauthorized, "invalid email or password")
		return
	}

	session := sessions.Default(c)
	if req.Remember {
		session.Options(sessions.Options{MaxAge: 30 * 24 * 3600, Path: "/", HttpOnly: true})
	}
	session.Set("user_id", profile.ID)
	session.Save()

	c.JSON(http.StatusOK, gin.H{"user": profile})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Save()
	c.JSON(http.StatusOK, gin.H{"success": true})
}

const localeCookie = "locale"

func (h *AuthHandler) GetLocale(c *gin.Context) {
	locale, err := c.Cookie(localeCookie)
	if err != nil || locale == "" {
		locale = "en"
	}
	c.JSON(http.StatusOK, gin.H{"locale": locale})
}

type localeRequest struct {
	Locale string `json:"locale"`
}

func (h *AuthHandler) SetLocale(c *gin.Context) {
	var req localeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Locale == "" {
		jsonError(c, http.StatusBadRequest, "locale is required")
		return
	}
	c.SetCookie(localeCookie, req.Locale, 365*24*3600, "/", "", false, false)
	c.JSON(http.StatusOK, gin.H{"locale": req.Locale})
}
