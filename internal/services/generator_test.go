package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Bad request body: %v", err)
		}
		if req.Prompt != "pixel cat sticker" {
			t.Errorf("Expected prompt to pass through, got %q", req.Prompt)
		}
		if req.Model != "test-model" {
			t.Errorf("Expected model test-model, got %q", req.Model)
		}

		json.NewEncoder(w).Encode(GenerateResponse{ResultURL: "https://cdn.example.com/result.png"})
	}))
	defer server.Close()

	s := &GeneratorService{
		BaseURL: server.URL,
		Token:   "test-token",
		Model:   "test-model",
		client:  server.Client(),
	}

	result, err := s.Generate("https://cdn.example.com/source.png", "pixel cat sticker")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result != "https://cdn.example.com/result.png" {
		t.Errorf("Expected result URL, got %s", result)
	}
}

func TestGenerateNoBackend(t *testing.T) {
	// Without a configured backend the source image is echoed back
	s := &GeneratorService{client: http.DefaultClient}

	result, err := s.Generate("https://cdn.example.com/source.png", "anything")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if result != "https://cdn.example.com/source.png" {
		t.Errorf("Expected source echo, got %s", result)
	}
}

func TestGetGeneratorServiceSingleton(t *testing.T) {
	if GetGeneratorService() != GetGeneratorService() {
		t.Error("Expected a single shared generator client")
	}
}

func TestGenerateBackendError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	s := &GeneratorService{BaseURL: server.URL, client: server.Client()}

	if _, err := s.Generate("https://cdn.example.com/source.png", "prompt"); err == nil {
		t.Error("Expected error on backend failure")
	}
}
