package remote

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// ImageURL is where the site serves the image with the given id.
func (c *Client) ImageURL(id string) string {
	return c.endpoint("/image/" + strings.TrimSpace(id) + ".jpg")
}

// FetchImage downloads an image. Unlike fragments, a non-2xx status is an
// error since there is nothing useful to show.
func (c *Client) FetchImage(ctx context.Context, id string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ImageURL(id), nil)
	if err != nil {
		return nil, "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.do(req, slog.String("image", id))
	if err != nil {
		return nil, "", err
	}
	if resp.status < 200 || resp.status > 299 {
		return nil, "", fmt.Errorf("fetch image %s: HTTP %d: %s", id, resp.status, http.StatusText(resp.status))
	}
	return resp.body, resp.contentType, nil
}

// Upload stores body under name and returns the server's fragment.
func (c *Client) Upload(ctx context.Context, name, contentType string, body io.Reader) ([]byte, error) {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "" || name == "." || name == string(filepath.Separator) {
		return nil, fmt.Errorf("upload: empty file name")
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	resp, err := c.post(ctx, "/image/"+name, contentType, body, slog.String("upload", name))
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// UploadFile reads path and uploads it under its base name.
func (c *Client) UploadFile(ctx context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.Upload(ctx, filepath.Base(path), ContentType(path, data), bytes.NewReader(data))
}

// ContentType guesses an upload's media type from its extension, falling back
// to sniffing the first bytes.
func ContentType(path string, data []byte) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return http.DetectContentType(data)
}
