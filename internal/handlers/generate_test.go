package handlers

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

// generateRequest builds a multipart POST the way the client submits the
// make form. The file part carries no image content type, matching an
// octet-stream upload.
func generateRequest(t *testing.T, withImage bool, prompt string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	if withImage {
		part, err := writer.CreateFormFile("image", "cat.png")
		if err != nil {
			t.Fatalf("CreateFormFile failed: %v", err)
		}
		io.WriteString(part, "png-bytes")
	}
	if prompt != "" {
		writer.WriteField("prompt", prompt)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/api/generate", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestGenerateValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/generate", NewGenerateHandler().Generate)

	// Image present but prompt missing
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, generateRequest(t, true, ""))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing prompt, got %d", rec.Code)
	}

	// Prompt present but image missing
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, generateRequest(t, false, "make it a sticker"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for missing image, got %d", rec.Code)
	}

	// Both present but the file part is not an image content type
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, generateRequest(t, true, "make it a sticker"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-image upload, got %d", rec.Code)
	}
}
