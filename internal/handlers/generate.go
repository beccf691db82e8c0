package handlers

import (
	"errors"
	"fmt"
	"log"
	"mojiboard/internal/db"
	"mojiboard/internal/models"
	"mojiboard/internal/services"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type GenerateHandler struct {
	storage   *services.StorageService
	generator *services.GeneratorService
}

func NewGenerateHandler() *GenerateHandler {
	return &GenerateHandler{
		storage:   services.NewStorageService(),
		generator: services.GetGeneratorService(),
	}
}

// Generate runs the full make flow: authorize the actor's daily quota,
// store the source image, call the generation backend and record the
// result. Quota is consumed before the uploads, so a failed upload still
// costs the slot.
func (h *GenerateHandler) Generate(c *gin.Context) {
	file, header, err := c.Request.FormFile("image")
	if err != nil {
		jsonError(c, http.StatusBadRequest, "image and prompt are both required")
		return
	}
	defer file.Close()

	prompt := strings.TrimSpace(c.PostForm("prompt"))
	if prompt == "" {
		jsonError(c, http.StatusBadRequest, "image and prompt are both required")
		return
	}

	if !strings.HasPrefix(header.Header.Get("Content-Type"), "image/") {
		jsonError(c, http.StatusBadRequest, "only image files are allowed")
		return
	}
	if header.Size > 10*1024*1024 {
		jsonError(c, http.StatusBadRequest, "image must be 10MB or smaller")
		return
	}

	actor, err := resolveActor(c)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	if err := services.AuthorizeGeneration(actor); err != nil {
		if errors.Is(err, services.ErrDailyLimit) {
			jsonError(c, http.StatusTooManyRequests, "daily limit exceeded")
			return
		}
		jsonError(c, http.StatusInternalServerError, "query failed")
		return
	}

	ownerPrefix := actor.AnonToken
	if actor.Authenticated() {
		ownerPrefix = fmt.Sprintf("u%d", actor.Profile.ID)
	}

	uploadURL, err := h.storage.Upload(file, header, services.BucketUpload, ownerPrefix)
	if err != nil {
		log.Printf("Source upload failed: %v", err)
		jsonError(c, http.StatusInternalServerError, "image upload failed")
		return
	}

	resultURL, err := h.generator.Generate(uploadURL, prompt)
	if err != nil {
		log.Printf("Generation failed: %v", err)
		jsonError(c, http.StatusBadGateway, "image generation failed")
		return
	}

	// Pull the result into our own bucket; the backend's URL may expire.
	// On failure the remote URL still works, so keep going with it.
	if resultURL != uploadURL {
		if stored, err := h.storage.StoreFromURL(resultURL, services.BucketResult, ownerPrefix); err != nil {
			log.Printf("Result store failed, keeping remote URL: %v", err)
		} else {
			resultURL = stored
		}
	}

	generation := models.Generation{
		UploadImg:   uploadURL,
		PromptText:  prompt,
		CompleteImg: resultURL,
	}
	if actor.Authenticated() {
		generation.ProfileID = &actor.Profile.ID
	} else {
		token := actor.AnonToken
		generation.AnonToken = &token
	}
	if err := db.DB.Create(&generation).Error; err != nil {
		log.Printf("Generation record insert failed: %v", err)
		jsonError(c, http.StatusInternalServerError, "could not record generation")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_img":   uploadURL,
		"complete_img": resultURL,
	})
}
