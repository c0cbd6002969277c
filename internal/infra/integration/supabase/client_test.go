package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClient(server *httptest.Server) *Client {
	c := NewClient(server.URL, "service-key", "uploads")
	return c
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewClient("", "", "").Configured())
	assert.False(t, NewClient("https://x.supabase.co", "", "").Configured())
	assert.True(t, NewClient("https://x.supabase.co", "key", "").Configured())
}

func TestUploadSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/storage/v1/object/uploads/logo.png", r.URL.Path)
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "true", r.Header.Get("x-upsert"))
		assert.Equal(t, "image/png", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("png-bytes"), body)

		json.NewEncoder(w).Encode(uploadResponse{Key: "uploads/logo.png"})
	}))
	defer server.Close()

	out, err := testClient(server).Upload(context.Background(), "logo.png", "image/png", []byte("png-bytes"))
	assert.NoError(t, err)
	assert.Equal(t, "logo.png", out.Path)
	assert.Equal(t, server.URL+"/storage/v1/object/public/uploads/logo.png", out.PublicURL)
}

func TestUploadRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(errorResponse{Message: "bucket not found"})
	}))
	defer server.Close()

	_, err := testClient(server).Upload(context.Background(), "logo.png", "image/png", nil)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bucket not found")
}

func TestDeleteSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DELETE", r.Method)
		assert.Equal(t, "/storage/v1/object/uploads/logo.png", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	assert.NoError(t, testClient(server).Delete(context.Background(), "logo.png"))
}

func TestDeleteMissingObjectIsNotAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	assert.NoError(t, testClient(server).Delete(context.Background(), "gone.png"))
}
