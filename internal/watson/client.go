// Package watson is the REST transport shared by the dialogue and translation
// service clients. Both services take an API version date as a query parameter
// and accept HTTP basic auth with the literal user name "apikey".
package watson

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
)

const (
	// apikeyUser is the basic auth user name paired with an IAM apikey.
	apikeyUser = "apikey"

	// DefaultTimeout bounds a single request when the caller supplies no client.
	DefaultTimeout = 30 * time.Second

	// maxErrorBody caps how much of an error response is read.
	maxErrorBody = 64 << 10
)

var (
	ErrMissingAPIKey  = errors.New("apikey is required")
	ErrInvalidAPIKey  = errors.New("apikey must not start or end with braces or quotes")
	ErrInvalidURL     = errors.New("service url must be an absolute http(s) url")
	ErrMissingVersion = errors.New("api version date is required")
)

// APIError is returned when the service answers with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("service returned %d: %s", e.StatusCode, e.Message)
}

// Options configures a Client.
type Options struct {
	URL        string
	Version    string
	HTTPClient *http.Client
}

// Client sends authenticated JSON requests to one service instance.
type Client struct {
	base    *url.URL
	version string
	apikey  string
	http    *http.Client
}

// ValidateAPIKey checks that key looks like a usable credential.
func ValidateAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return ErrMissingAPIKey
	}
	if strings.ContainsAny(key[:1], `{}"`) || strings.ContainsAny(key[len(key)-1:], `{}"`) {
		return ErrInvalidAPIKey
	}
	return nil
}

// New creates a Client for the service at opts.URL using apikey.
func New(opts Options, apikey string) (*Client, error) {
	if err := ValidateAPIKey(apikey); err != nil {
		return nil, err
	}
	if opts.Version == "" {
		return nil, ErrMissingVersion
	}

	base, err := url.Parse(opts.URL)
	if err != nil || (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidURL, opts.URL)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}

	return &Client{
		base:    base,
		version: opts.Version,
		apikey:  apikey,
		http:    httpClient,
	}, nil
}

// endpoint builds the absolute URL for path with the version query applied.
// path must already be escaped.
func (c *Client) endpoint(path string) string {
	u := *c.base

	raw := strings.TrimRight(c.base.EscapedPath(), "/") + path
	if p, err := url.PathUnescape(raw); err == nil {
		u.Path, u.RawPath = p, raw
	} else {
		u.Path, u.RawPath = raw, ""
	}

	q := u.Query()
	q.Set("version", c.version)
	u.RawQuery = q.Encode()

	return u.String()
}

// PostJSON marshals in, posts it to path and decodes the reply into out.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	payload, err := sonic.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}
	return c.Post(ctx, path, "application/json", payload, out)
}

// Post sends body with the given content type to path and decodes the JSON
// reply into out.
func (c *Client) Post(ctx context.Context, path, contentType string, body []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(path), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.SetBasicAuth(apikeyUser, c.apikey)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if err := sonic.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// decodeError turns an error response into an *APIError.
func decodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var body struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(resp.StatusCode)
	if err := sonic.Unmarshal(data, &body); err == nil && body.Error != "" {
		msg = body.Error
	}

	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
