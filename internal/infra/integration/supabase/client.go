package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Supabase Storage REST API with the service-role key,
// which bypasses row-level security. It never retries and never touches the
// local fallback; that decision belongs to the upload handler.
type Client struct {
	baseURL    string
	serviceKey string
	bucket     string
	http       *http.Client
}

func NewClient(baseURL, serviceKey, bucket string) *Client {
	if bucket == "" {
		bucket = "uploads"
	}
	return &Client{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		bucket:     bucket,
		http:       &http.Client{Timeout: 30 * time.Second},
	}
}

// Configured reports whether the hosted storage is wired up at all.
func (c *Client) Configured() bool {
	return c.baseURL != "" && c.serviceKey != ""
}

// Upload stores an object and returns its public URL.
func (c *Client) Upload(ctx context.Context, path, contentType string, data []byte) (*UploadOutput, error) {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-upsert", "true")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("supabase storage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError("upload", resp)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding supabase response: %w", err)
	}

	return &UploadOutput{
		Path:      path,
		PublicURL: fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, path),
	}, nil
}

// Delete removes an object. Missing objects are not an error.
func (c *Client) Delete(ctx context.Context, path string) error {
	url := fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, path)

	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("supabase storage request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError("delete", resp)
	}

	return nil
}

func (c *Client) apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	var e errorResponse
	if json.Unmarshal(body, &e) == nil && e.Message != "" {
		return fmt.Errorf("supabase storage %s rejected (status %d): %s", op, resp.StatusCode, e.Message)
	}
	return fmt.Errorf("supabase storage %s rejected (status %d)", op, resp.StatusCode)
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)
}
