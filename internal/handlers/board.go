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

type BoardHandler struct{}

func NewBoardHandler() *BoardHandler {
	return &BoardHandler{}
}

const boardsPerPage = 20

// List returns contests newest first, with per-board post counts filled by
// one grouped query. Pages are cached briefly since every visitor sees the
// same listing.
func (h *BoardHandler) List(c *gin.Context) {
	page := utils.StringToInt(c.Query("page"))
	if page < 1 {
		page = 1
	}

	cacheKey := fmt.Sprintf("board:list:page:%d", page)
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if data, ok := cached.(gin.H); ok {
			c.JSON(http.StatusOK, data)
			return
		}
	}

	var total int64
	db.DB.Model(&models.Board{}).Count(&total)
	totalPages := int(math.Ceil(float64(total) / float64(boardsPerPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var boards []models.Board
	db.DB.Preload("Profile").
		Order("created_at DESC").
		Limit(boardsPerPage).
		Offset((page - 1) * boardsPerPage).
		Find(&boards)

	fillPostCounts(boards)

	data := gin.H{
		"boards":      boards,
		"page":        page,
		"total_pages": totalPages,
	}
	utils.GetCache().Set(cacheKey, data, 1*time.Minute)

	c.JSON(http.StatusOK, data)
}

// fillPostCounts batch-fills the post count of each board.
func fillPostCounts(boards []models.Board) {
	if len(boards) == 0 {
		return
	}

	boardIDs := make([]uint, len(boards))
	for i, b := range boards {
		boardIDs[i] = b.ID
	}

	type countResult struct {
		BoardID uint
		Count   int
	}
	var results []countResult
	db.DB.Model(&models.ImagePost{}).
		Select("board_id, COUNT(*) as count").
		Where("board_id IN ?", boardIDs).
		Group("board_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.BoardID] = r.Count
	}
	for i := range boards {
		boards[i].PostCount = countMap[boards[i].ID]
	}
}

type createBoardRequest struct {
	Title    string `json:"title"`
	Body     string `json:"body"`
	CoverURL string `json:"cover_url"`
}

func (h *BoardHandler) Create(c *gin.Context) {
	profile := currentProfile(c)

	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" {
		jsonError(c, http.StatusBadRequest, "title is required")
		return
	}

	board := models.Board{
		ProfileID: profile.ID,
		Title:     req.Title,
		Body:      req.Body,
		CoverURL:  req.CoverURL,
	}
	if err := db.DB.Create(&board).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create contest")
		return
	}

	utils.GetCache().Delete("board:list:page:1")

	c.JSON(http.StatusOK, gin.H{"board": board})
}

// Detail returns a board with its posts; like and comment counts are
// filled with the batch queries, never per item.
func (h *BoardHandler) Detail(c *gin.Context) {
	boardID := utils.StringToUint(c.Param("id"))

	var board models.Board
	if err := db.DB.Preload("Profile").First(&board, boardID).Error; err != nil {
		jsonError(c, http.StatusNotFound, "contest not found")
		return
	}

	var posts []models.ImagePost
	db.DB.Preload("Profile").
		Where("board_id = ?", board.ID).
		Order("created_at DESC").
		Find(&posts)

	services.FillEngagementCounts(posts)

	c.JSON(http.StatusOK, gin.H{
		"board":     board,
		"body_html": utils.RenderMarkdown(board.Body),
		"posts":     posts,
	})
}
