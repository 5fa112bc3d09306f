// Package api is the HTTP client for the clustering backend.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	clustering "github.com/Nicholas-Eugene/cluster-web-frontend"
	"github.com/google/uuid"
)

// Client talks to the clustering backend. It is safe for concurrent use.
type Client struct {
	baseURL         string
	authToken       string
	httpClient      *http.Client
	requestTimeout  time.Duration
	artifactTimeout time.Duration
	logger          *slog.Logger
	dumpDir         string
}

// NewClient creates a new Client
func NewClient(cfg Config) (*Client, error) {
	cfg.applyDefaults()

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid base URL %q: scheme must be http or https", cfg.BaseURL)
	}

	return &Client{
		baseURL:         cfg.BaseURL,
		authToken:       cfg.AuthToken,
		httpClient:      cfg.HTTPClient,
		requestTimeout:  cfg.RequestTimeout,
		artifactTimeout: cfg.ArtifactTimeout,
		logger:          cfg.Logger,
		dumpDir:         cfg.DumpDir,
	}, nil
}

// BaseURL returns the backend root the client was configured with
func (c *Client) BaseURL() string {
	return c.baseURL
}

// request describes one backend call
type request struct {
	method      string
	path        string // relative to {baseURL}/clustering/
	query       url.Values
	body        []byte
	contentType string
	artifact    bool // binary download, uses the artifact timeout
}

// response is a successful (2xx) backend reply
type response struct {
	status int
	header http.Header
	body   []byte
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/clustering/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// send performs the request and maps every failure to an *APIError
func (c *Client) send(ctx context.Context, r request) (*response, error) {
	timeout := c.requestTimeout
	if r.artifact {
		timeout = c.artifactTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if r.body != nil {
		body = bytes.NewReader(r.body)
	}

	target := c.endpoint(r.path, r.query)
	httpReq, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, unexpectedError(fmt.Errorf("failed to create HTTP request: %w", err))
	}

	requestID := uuid.NewString()
	httpReq.Header.Set("X-Request-ID", requestID)
	if r.contentType != "" {
		httpReq.Header.Set("Content-Type", r.contentType)
	}
	if r.artifact {
		httpReq.Header.Set("Accept", "*/*")
	} else {
		httpReq.Header.Set("Accept", "application/json")
	}
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Warn("backend request failed",
			"method", r.method, "path", r.path, "request_id", requestID, "error", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(fmt.Errorf("failed to read response body: %w", err))
	}

	c.logger.Debug("backend request",
		"method", r.method,
		"path", r.path,
		"status", resp.StatusCode,
		"bytes", len(respBody),
		"duration", time.Since(start),
		"request_id", requestID,
	)

	if c.dumpDir != "" && !r.artifact {
		c.dumpExchange(r, target, resp.StatusCode, respBody)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError(resp.StatusCode, respBody)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: respBody}, nil
}

// getJSON issues a GET and returns the raw JSON body
func (c *Client) getJSON(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.send(ctx, request{method: http.MethodGet, path: path})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// postJSON marshals payload and POSTs it, returning the raw JSON body
func (c *Client) postJSON(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, unexpectedError(fmt.Errorf("failed to marshal request for %s: %w", path, err))
	}
	resp, err := c.send(ctx, request{
		method:      http.MethodPost,
		path:        path,
		body:        body,
		contentType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	return resp.body, nil
}

// sessionPath builds "<prefix>/<escaped id>/" and rejects an empty session
func sessionPath(prefix, sessionID string, rest ...string) (string, error) {
	if strings.TrimSpace(sessionID) == "" {
		return "", &APIError{Message: clustering.MsgNoSession}
	}
	parts := []string{prefix, url.PathEscape(sessionID)}
	for _, p := range rest {
		parts = append(parts, url.PathEscape(p))
	}
	return strings.Join(parts, "/") + "/", nil
}
