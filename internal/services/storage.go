package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Buckets, one per upload kind.
const (
	BucketContest = "contest_img" // board cover images
	BucketUpload  = "upload_img"  // user-supplied source images
	BucketResult  = "result_img"  // finished generation results
)

// StorageService talks to the object store's REST API: upload, list and
// public-URL. Objects are world-readable once uploaded.
type StorageService struct {
	BaseURL string
	Key     string
	Enabled bool
	client  *http.Client
}

func NewStorageService() *StorageService {
	base := os.Getenv("STORAGE_URL")
	key := os.Getenv("STORAGE_KEY")

	enabled := base != "" && key != ""
	if !enabled {
		log.Println("StorageService disabled: STORAGE_URL / STORAGE_KEY not set")
	}

	return &StorageService{
		BaseURL: strings.TrimSuffix(base, "/"),
		Key:     key,
		Enabled: enabled,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Upload streams the file into a bucket and returns its public URL.
// Object names are {owner}-{unix-ms}.{ext} so uploads never collide and
// remain traceable to the actor that made them.
func (s *StorageService) Upload(file multipart.File, header *multipart.FileHeader, bucket, ownerPrefix string) (string, error) {
	if !s.Enabled {
		return "", fmt.Errorf("object storage not configured")
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	// Mobile browsers sometimes send no content type
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	name := fmt.Sprintf("%s-%d%s", ownerPrefix, time.Now().UnixMilli(), ext)

	req, err := http.NewRequest("POST",
		fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, bucket, name), file)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	req.ContentLength = header.Size

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return s.PublicURL(bucket, name), nil
}

// StoreFromURL copies a remote image into a bucket and returns its public
// URL. Used to pull finished results off the generation backend so they
// stay reachable after the backend expires them.
func (s *StorageService) StoreFromURL(srcURL, bucket, ownerPrefix string) (string, error) {
	if !s.Enabled {
		return "", fmt.Errorf("object storage not configured")
	}

	src, err := s.client.Get(srcURL)
	if err != nil {
		return "", fmt.Errorf("source fetch failed: %w", err)
	}
	defer src.Body.Close()
	if src.StatusCode != http.StatusOK {
		return "", fmt.Errorf("source fetch failed: status %d", src.StatusCode)
	}

	ext := strings.ToLower(filepath.Ext(strings.SplitN(srcURL, "?", 2)[0]))
	if ext == "" {
		ext = ".png"
	}
	contentType := src.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/png"
	}

	name := fmt.Sprintf("%s-%d%s", ownerPrefix, time.Now().UnixMilli(), ext)

	req, err := http.NewRequest("POST",
		fmt.Sprintf("%s/storage/v1/object/%s/%s", s.BaseURL, bucket, name), src.Body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Cache-Control", "max-age=3600")
	if src.ContentLength > 0 {
		req.ContentLength = src.ContentLength
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	return s.PublicURL(bucket, name), nil
}

// PublicURL builds the world-readable URL of an object.
func (s *StorageService) PublicURL(bucket, name string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.BaseURL, bucket, name)
}

type StorageObject struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
}

// List pages through the objects of a bucket.
func (s *StorageService) List(bucket string, limit, offset int) ([]StorageObject, error) {
	if !s.Enabled {
		return nil, fmt.Errorf("object storage not configured")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"prefix": "",
		"limit":  limit,
		"offset": offset,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequest("POST",
		fmt.Sprintf("%s/storage/v1/object/list/%s", s.BaseURL, bucket), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+s.Key)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list failed: status %d", resp.StatusCode)
	}

	var objects []StorageObject
	if err := json.NewDecoder(resp.Body).Decode(&objects); err != nil {
		return nil, err
	}
	return objects, nil
}
