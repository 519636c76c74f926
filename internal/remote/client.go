// Package remote talks to the site's command endpoint and image store.
package remote

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"edat-cli/internal/model"

	"github.com/google/uuid"
)

// UserCookie names the cookie the server reads the acting user from.
const UserCookie = "edat_user"

const DefaultTimeout = 30 * time.Second

// maxResponseSize bounds how much of a response fragment is read.
const maxResponseSize = 8 << 20

var ErrNoServer = errors.New("no server configured")

var ErrResponseTooLarge = errors.New("response too large")

type Config struct {
	// Server is the site base URL, e.g. https://example.org.
	Server  string
	User    string
	Timeout time.Duration

	HTTPClient *http.Client
	Logger     *slog.Logger
}

type Client struct {
	base    *url.URL
	user    string
	timeout time.Duration
	http    *http.Client
	log     *slog.Logger
}

func New(cfg Config) (*Client, error) {
	server := strings.TrimSpace(cfg.Server)
	if server == "" {
		return nil, ErrNoServer
	}
	base, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", server)
	}

	c := &Client{
		base:    base,
		user:    strings.TrimSpace(cfg.User),
		timeout: cfg.Timeout,
		http:    cfg.HTTPClient,
		log:     cfg.Logger,
	}
	if c.timeout <= 0 {
		c.timeout = DefaultTimeout
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		c.log = slog.New(slog.DiscardHandler)
	}
	return c, nil
}

func (c *Client) Server() string { return c.base.String() }

// endpoint joins the unescaped path p onto the server URL; String does the
// escaping.
func (c *Client) endpoint(p string) string {
	u := *c.base
	u.RawPath = ""
	u.Path = strings.TrimRight(u.Path, "/") + p
	return u.String()
}

// Send posts cmd to /cmd and returns the rendered fragment. The body is
// returned for every status code: the server renders its own error pages.
func (c *Client) Send(ctx context.Context, cmd model.Command) ([]byte, error) {
	payload, err := model.Encode(cmd)
	if err != nil {
		return nil, err
	}
	resp, err := c.post(ctx, "/cmd", "application/json", bytes.NewReader(payload), slog.String("command", cmd.CommandName()))
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

type response struct {
	body        []byte
	status      int
	contentType string
}

func (c *Client) post(ctx context.Context, p, contentType string, body io.Reader, attrs ...any) (response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(p), body)
	if err != nil {
		return response{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	return c.do(req, attrs...)
}

func (c *Client) do(req *http.Request, attrs ...any) (response, error) {
	reqID := uuid.NewString()
	req.Header.Set("X-Request-Id", reqID)
	if c.user != "" {
		req.AddCookie(&http.Cookie{Name: UserCookie, Value: c.user})
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("request failed", append(attrs, "request_id", reqID, "path", req.URL.Path, "err", err)...)
		return response{}, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	out, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return response{}, fmt.Errorf("read response: %w", err)
	}
	if len(out) > maxResponseSize {
		c.log.Warn("response too large", append(attrs, "request_id", reqID, "path", req.URL.Path, "limit", maxResponseSize)...)
		return response{}, fmt.Errorf("%w: over %d bytes", ErrResponseTooLarge, maxResponseSize)
	}
	c.log.Debug("request done", append(attrs,
		"request_id", reqID,
		"method", req.Method,
		"path", req.URL.Path,
		"status", resp.StatusCode,
		"bytes", len(out),
		"elapsed", time.Since(start),
	)...)
	return response{body: out, status: resp.StatusCode, contentType: resp.Header.Get("Content-Type")}, nil
}
