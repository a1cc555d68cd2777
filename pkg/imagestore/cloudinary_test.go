package imagestore

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestClient(t *testing.T, baseURL string) *CloudinaryClient {
	c := NewCloudinaryClient(Config{
		CloudName: "demo",
		APIKey:    "key123",
		APISecret: "shh",
		BaseURL:   baseURL,
	}, zaptest.NewLogger(t))
	c.now = func() time.Time { return time.Unix(1700000000, 0) }
	return c
}

func TestCloudinaryClient_Upload_Success(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "key123", r.FormValue("api_key"))
		assert.Equal(t, "1700000000", r.FormValue("timestamp"))

		// signature over "timestamp=1700000000" + secret
		sum := sha1.Sum([]byte("timestamp=1700000000shh"))
		assert.Equal(t, hex.EncodeToString(sum[:]), r.FormValue("signature"))

		file, _, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"http://res.example/avatar.png","secure_url":"https://res.example/avatar.png","public_id":"abc123"}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	url, err := client.Upload(context.Background(), "avatar.png", strings.NewReader("fake-image-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "https://res.example/avatar.png", url)
	assert.Equal(t, "/v1_1/demo/image/upload", gotPath)
}

func TestCloudinaryClient_Upload_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Upload(context.Background(), "avatar.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid Signature")
}

func TestCloudinaryClient_Upload_MissingURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := newTestClient(t, srv.URL)

	_, err := client.Upload(context.Background(), "avatar.png", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing url")
}
