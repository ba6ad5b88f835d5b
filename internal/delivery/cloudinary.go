package delivery

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Harmonybod/Event-Ticketing-System/internal/config"
)

// CloudinaryClient uploads QR images and returns a public URL the
// messaging channel can reference.
type CloudinaryClient struct {
	cfg     config.CloudinaryConfig
	client  *http.Client
	baseURL string
}

func NewCloudinaryClient(cfg config.CloudinaryConfig) *CloudinaryClient {
	return &CloudinaryClient{
		cfg:     cfg,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.cloudinary.com/v1_1",
	}
}

func (c *CloudinaryClient) Configured() bool {
	return c.cfg.CloudName != "" && c.cfg.APIKey != "" && c.cfg.APISecret != ""
}

// signature builds the SHA-1 request signature over the sorted
// parameters plus the API secret, per the upload API contract.
func (c *CloudinaryClient) signature(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	// Small fixed set, insertion sort is fine.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j] < keys[j-1]; j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.APISecret))
	return hex.EncodeToString(sum[:])
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload pushes a local image file and returns its secure URL.
func (c *CloudinaryClient) Upload(ctx context.Context, localPath string) (string, error) {
	if !c.Configured() {
		return "", fmt.Errorf("cloudinary client is not configured")
	}

	file, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer file.Close()

	publicID := strings.TrimSuffix(filepath.Base(localPath), filepath.Ext(localPath))
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	signed := map[string]string{
		"folder":    c.cfg.Folder,
		"public_id": publicID,
		"timestamp": timestamp,
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for k, v := range signed {
		writer.WriteField(k, v)
	}
	writer.WriteField("api_key", c.cfg.APIKey)
	writer.WriteField("signature", c.signature(signed))

	part, err := writer.CreateFormFile("file", filepath.Base(localPath))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s/image/upload", c.baseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var parsed uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if resp.StatusCode >= 300 || parsed.SecureURL == "" {
		return "", fmt.Errorf("upload failed (%d): %s", resp.StatusCode, parsed.Error.Message)
	}
	return parsed.SecureURL, nil
}
