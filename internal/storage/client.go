package storage

import (
	"bytes"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// Client wraps the supabase storage bucket holding the original photo
// files. Keys are opaque to the rest of the system.
type Client struct {
	client  *storage.Client
	bucket  string
	baseURL string
}

func New(supabaseURL, serviceKey, bucket string) *Client {
	baseURL := strings.TrimRight(supabaseURL, "/")
	return &Client{
		client:  storage.NewClient(baseURL+"/storage/v1", serviceKey, nil),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// Upload stores the object and returns its public URL.
func (c *Client) Upload(key string, data []byte, contentType string) (string, error) {
	upsert := true
	_, err := c.client.UploadFile(c.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("upload object %s: %w", key, err)
	}
	return c.PublicURL(key), nil
}

func (c *Client) PublicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, key)
}

func (c *Client) Delete(key string) error {
	_, err := c.client.RemoveFile(c.bucket, []string{key})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
