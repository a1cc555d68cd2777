package imagestore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Uploader stores an image and returns its public URL. Usecases depend on
// this interface so tests can substitute a mock.
type Uploader interface {
	Upload(ctx context.Context, filename string, file io.Reader) (string, error)
}

// Config holds Cloudinary credentials and endpoint configuration.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	// BaseURL overrides the Cloudinary API endpoint. Empty means production.
	BaseURL string
	Folder  string
}

const defaultBaseURL = "https://api.cloudinary.com"

// CloudinaryClient uploads images through Cloudinary's signed REST API.
type CloudinaryClient struct {
	cfg    Config
	client *http.Client
	log    *zap.Logger
	now    func() time.Time
}

// NewCloudinaryClient creates a new Cloudinary upload client.
func NewCloudinaryClient(cfg Config, log *zap.Logger) *CloudinaryClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	return &CloudinaryClient{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
		log:    log,
		now:    time.Now,
	}
}

type uploadResponse struct {
	URL       string `json:"url"`
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Upload sends the image to Cloudinary and returns the hosted URL.
func (c *CloudinaryClient) Upload(ctx context.Context, filename string, file io.Reader) (string, error) {
	ts := strconv.FormatInt(c.now().Unix(), 10)

	params := map[string]string{
		"timestamp": ts,
	}
	if c.cfg.Folder != "" {
		params["folder"] = c.cfg.Folder
	}

	body := &strings.Builder{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}

	for k, v := range params {
		if err := writer.WriteField(k, v); err != nil {
			return "", fmt.Errorf("failed to build upload request: %w", err)
		}
	}
	if err := writer.WriteField("api_key", c.cfg.APIKey); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.WriteField("signature", c.sign(params)); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", c.cfg.BaseURL, c.cfg.CloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(body.String()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}
	defer resp.Body.Close()

	var result uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error("image host rejected upload",
			zap.Int("status", resp.StatusCode),
			zap.String("message", result.Error.Message),
		)
		return "", fmt.Errorf("image upload failed: status %d: %s", resp.StatusCode, result.Error.Message)
	}

	uploadedURL := result.SecureURL
	if uploadedURL == "" {
		uploadedURL = result.URL
	}
	if uploadedURL == "" {
		return "", fmt.Errorf("image upload response missing url")
	}

	c.log.Info("image uploaded", zap.String("public_id", result.PublicID))
	return uploadedURL, nil
}

// sign computes the SHA-1 request signature over the sorted upload
// parameters, as required by the Cloudinary upload API.
func (c *CloudinaryClient) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + c.cfg.APISecret))
	return hex.EncodeToString(sum[:])
}
