package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"
)

// GeneratorService calls the external image-generation API that turns an
// uploaded picture plus a prompt into a finished sticker image.
type GeneratorService struct {
	BaseURL string
	Token   string
	Model   string
	client  *http.Client
}

var (
	generatorService *GeneratorService
	generatorOnce    sync.Once
)

func GetGeneratorService() *GeneratorService {
	generatorOnce.Do(func() {
		generatorService = &GeneratorService{
			BaseURL: os.Getenv("GEN_BASE_URL"),
			Token:   os.Getenv("GEN_TOKEN"),
			Model:   os.Getenv("GEN_MODEL"),
			client:  &http.Client{Timeout: 60 * time.Second},
		}
	})
	return generatorService
}

type generateRequest struct {
	Model    string `json:"model"`
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url"`
}

type GenerateResponse struct {
	ResultURL string `json:"result_url"`
}

// Generate submits the source image and prompt and returns the result
// image URL. With no backend configured it echoes the source image, which
// keeps the rest of the flow usable in local dev.
func (s *GeneratorService) Generate(imageURL, prompt string) (string, error) {
	if s.BaseURL == "" {
		return imageURL, nil
	}

	payload, err := json.Marshal(generateRequest{
		Model:    s.Model,
		Prompt:   prompt,
		ImageURL: imageURL,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/v1/images/generations", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generation API returned status %d", resp.StatusCode)
	}

	var result GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", err
	}
	if result.ResultURL == "" {
		return "", fmt.Errorf("generation API returned no result url")
	}
	return result.ResultURL, nil
}
