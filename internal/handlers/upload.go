package handlers

import (
	"fmt"
	"mojiboard/internal/services"
	"mojiboard/internal/utils"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	storage *services.StorageService
}

func NewUploadHandler() *UploadHandler {
	return &UploadHandler{storage: services.NewStorageService()}
}

// Upload stores a board cover or a source image and returns its public
// URL. Requires login; the bucket form value picks the destination.
func (h *UploadHandler) Upload(c *gin.Context) {
	profile := currentProfile(c)

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		jsonError(c, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		jsonError(c, http.StatusBadRequest, "only image files are allowed")
		return
	}
	if header.Size > 10*1024*1024 {
		jsonError(c, http.StatusBadRequest, "image must be 10MB or smaller")
		return
	}

	bucket := services.BucketUpload
	if c.PostForm("bucket") == "contest" {
		bucket = services.BucketContest
	}

	url, err := h.storage.Upload(file, header, bucket, fmt.Sprintf("u%d", profile.ID))
	if err != nil {
		jsonError(c, http.StatusInternalServerError, fmt.Sprintf("upload failed: %v", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

// ListUploads pages through a bucket, for the source image picker.
func (h *UploadHandler) ListUploads(c *gin.Context) {
	page := utils.StringToInt(c.Query("page"))
	if page < 0 {
		page = 0
	}

	objects, err := h.storage.List(services.BucketUpload, 100, page*10)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not list uploads")
		return
	}

	urls := make([]string, len(objects))
	for i, obj := range objects {
		urls[i] = h.storage.PublicURL(services.BucketUpload, obj.Name)
	}
	c.JSON(http.StatusOK, gin.H{"images": urls})
}
