// Package api is the HTTP layer between the client and the fleet backend.
// It builds URLs and auth headers, decodes the backend's response envelopes,
// and maps failure statuses onto a small error taxonomy.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TokenSource supplies the current bearer token. The session store
// implements it; everything else treats the token as read-only.
type TokenSource interface {
	Token() string
}

// Client talks to the fleet backend. All methods are safe for use from
// bubbletea command goroutines: the client itself holds no request state.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    *slog.Logger

	mu            sync.Mutex
	onAuthExpired func()
}

// NewClient builds a Client for the given base origin.
func NewClient(base string, tokens TokenSource, log *slog.Logger) *Client {
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		base:   base,
		http:   &http.Client{Timeout: 30 * time.Second},
		tokens: tokens,
		log:    log,
	}
}

// OnAuthExpired registers the hook fired on any 401 response. The session
// store registers its teardown here so expiry is handled in one place no
// matter which screen triggered the request.
func (c *Client) OnAuthExpired(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onAuthExpired = fn
}

func (c *Client) authExpired() {
	c.mu.Lock()
	fn := c.onAuthExpired
	c.mu.Unlock()
	if fn != nil {
		fn()
	}
}

// Do performs an authenticated JSON round-trip. A non-nil body is encoded as
// JSON; a non-nil out receives the decoded 2xx response body. Failure
// statuses are mapped by decodeError.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, JoinURL(c.base, endpoint), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header = AuthHeaders(c.tokens.Token())

	return c.send(req, endpoint, out)
}

// DoPublic performs an unauthenticated round-trip and decodes the response
// body into out regardless of status. It returns an error only for
// transport failures; callers inspect the decoded body themselves. Login
// uses this so a rejected credential never trips the 401 teardown hook.
func (c *Client) DoPublic(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, JoinURL(c.base, endpoint), reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// Upload sends one file as multipart form data. Only the Authorization
// header is set explicitly; the multipart writer owns the content type.
func (c *Client) Upload(ctx context.Context, endpoint, field, path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build multipart: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish multipart: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, JoinURL(c.base, endpoint), &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.tokens.Token())
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.send(req, endpoint, out)
}

func (c *Client) send(req *http.Request, endpoint string, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := c.decodeError(resp.StatusCode, data)
		c.log.Warn("request failed",
			"method", req.Method, "endpoint", endpoint,
			"status", resp.StatusCode, "err", apiErr)
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &NetworkError{Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

// errorBody is the backend's failure shape: either a plain message or a
// structured validation array. The field key moved from "path" to "field"
// at some point; both are accepted.
type errorBody struct {
	Message string `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Path    string `json:"path"`
		Message string `json:"message"`
	} `json:"errors"`
}

func (c *Client) decodeError(status int, data []byte) error {
	var body errorBody
	_ = json.Unmarshal(data, &body)

	switch {
	case status == http.StatusUnauthorized:
		c.authExpired()
		return ErrAuthExpired
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		msg := body.Message
		if msg == "" {
			msg = "operation blocked by dependent records"
		}
		return &ConflictError{Message: msg}
	case status == http.StatusBadRequest && len(body.Errors) > 0:
		fields := make(map[string]string, len(body.Errors))
		for _, e := range body.Errors {
			name := e.Field
			if name == "" {
				name = e.Path
			}
			if name == "" {
				name = "general"
			}
			fields[name] = e.Message
		}
		return &ValidationError{Fields: fields}
	case status >= 500:
		// Server faults surface like transport faults: keep the data on
		// screen and offer a retry.
		return &NetworkError{Err: fmt.Errorf("server error (%d)", status)}
	default:
		msg := body.Message
		if msg == "" {
			msg = http.StatusText(status)
		}
		return &APIError{Status: status, Message: msg}
	}
}
