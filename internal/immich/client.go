package immich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultRequestTimeout = 30 * time.Second

// Client talks to one Immich server on behalf of one account. Each supply
// context owns its own Client; nothing here is process-global.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	cache   *responseCache
}

// ClientConfig carries the connection parameters for one account.
type ClientConfig struct {
	// URL is the server base URL, e.g. https://photos.example.com
	URL string
	// APIKey is sent as the x-api-key header on every request.
	APIKey string
	// Timeout bounds each HTTP request. Zero means a 30s default.
	Timeout time.Duration
	// CacheSize is a human-readable byte budget (e.g. "64 MB") for the
	// in-memory response cache. Empty disables caching.
	CacheSize string
}

// NewClient builds a Client from config. The base URL is normalized so both
// "https://host" and "https://host/api" are accepted.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("immich: empty server URL")
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("immich: parse URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("immich: unsupported URL scheme %q", u.Scheme)
	}
	base := strings.TrimSuffix(u.String(), "/")
	if !strings.HasSuffix(base, "/api") {
		base += "/api"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	c := &Client{
		baseURL: base,
		apiKey:  cfg.APIKey,
		http:    &http.Client{Timeout: timeout},
	}
	if cfg.CacheSize != "" {
		cache, err := newResponseCache(cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		c.cache = cache
	}
	return c, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Close releases client resources. The HTTP client keeps idle connections
// around; drop them so a torn-down account does not pin sockets.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// do issues a request and decodes the JSON response into out (unless out is
// nil). Non-2xx statuses are returned as errors with a body excerpt.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("immich: encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("immich: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("immich: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return statusError{method: method, path: path, status: resp.StatusCode, body: string(excerpt)}
	}
	if out == nil {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("immich: decode %s %s: %w", method, path, err)
	}
	return nil
}

// Ping verifies connectivity and credentials.
func (c *Client) Ping(ctx context.Context) error {
	var out struct {
		Res string `json:"res"`
	}
	return c.do(ctx, http.MethodGet, "/server/ping", nil, &out)
}

// GetAsset fetches full metadata for a single asset id.
func (c *Client) GetAsset(ctx context.Context, id string) (*Asset, error) {
	var out Asset
	if err := c.do(ctx, http.MethodGet, "/assets/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// statusError reports a non-2xx catalog response.
type statusError struct {
	method string
	path   string
	status int
	body   string
}

func (e statusError) Error() string {
	return fmt.Sprintf("immich: %s %s: status %d: %s", e.method, e.path, e.status, e.body)
}

// IsNotFound reports whether err is a catalog 404.
func IsNotFound(err error) bool {
	se, ok := err.(statusError)
	return ok && se.status == http.StatusNotFound
}
