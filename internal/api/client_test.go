package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, staticToken("tok-123"), nil)
}

func TestJoinURL(t *testing.T) {
	tests := []struct {
		base     string
		endpoint string
		want     string
	}{
		{"http://localhost:5001", "api/trucks", "http://localhost:5001/api/trucks"},
		{"http://localhost:5001/", "api/trucks", "http://localhost:5001/api/trucks"},
		{"http://localhost:5001", "/api/trucks", "http://localhost:5001/api/trucks"},
		{"http://localhost:5001/", "/api/trucks", "http://localhost:5001/api/trucks"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, JoinURL(tt.base, tt.endpoint))
	}
}

func TestAuthHeaders(t *testing.T) {
	h := AuthHeaders("abc")
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
	assert.Equal(t, "application/json", h.Get("Content-Type"))
}

func TestDoSendsAuthAndDecodes(t *testing.T) {
	var gotAuth, gotContentType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"data":{"name":"Acme"}}`))
	})

	var out struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	err := c.Do(context.Background(), http.MethodGet, "api/customers/1", nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "application/json", gotContentType)
	assert.Equal(t, "Acme", out.Data.Name)
}

func TestDoUnauthorizedFiresHook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	fired := false
	c.OnAuthExpired(func() { fired = true })

	err := c.Do(context.Background(), http.MethodGet, "api/trucks", nil, nil)
	assert.ErrorIs(t, err, ErrAuthExpired)
	assert.True(t, fired)
}

func TestDoForbiddenAndNotFound(t *testing.T) {
	status := http.StatusForbidden
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})

	err := c.Do(context.Background(), http.MethodGet, "api/users", nil, nil)
	assert.ErrorIs(t, err, ErrForbidden)

	status = http.StatusNotFound
	err = c.Do(context.Background(), http.MethodGet, "api/trucks/gone", nil, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDoConflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"customer has active journeys"}`))
	})

	err := c.Do(context.Background(), http.MethodDelete, "api/customers/1", nil, nil)
	var conflict *ConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "customer has active journeys", conflict.Message)
}

func TestDoValidationError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		// One entry uses the old "path" key, one the new "field" key.
		w.Write([]byte(`{"errors":[
			{"field":"plateNumber","message":"Plate number is taken"},
			{"path":"capacity","message":"Capacity must be positive"}
		]}`))
	})

	err := c.Do(context.Background(), http.MethodPost, "api/trucks", map[string]any{}, nil)
	var v *ValidationError
	require.ErrorAs(t, err, &v)
	assert.Equal(t, "Plate number is taken", v.Fields["plateNumber"])
	assert.Equal(t, "Capacity must be positive", v.Fields["capacity"])
}

func TestDoServerErrorIsNetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := c.Do(context.Background(), http.MethodGet, "api/trucks", nil, nil)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestDoOtherStatusIsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"message":"short and stout"}`))
	})

	err := c.Do(context.Background(), http.MethodGet, "api/trucks", nil, nil)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusTeapot, apiErr.Status)
	assert.Equal(t, "short and stout", apiErr.Message)
}

func TestDoPublicDecodesFailureBodyWithoutHook(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"Invalid username or password"}`))
	})

	fired := false
	c.OnAuthExpired(func() { fired = true })

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	err := c.DoPublic(context.Background(), http.MethodPost, "api/auth/login", map[string]string{}, &out)
	require.NoError(t, err)
	assert.False(t, out.Success)
	assert.Equal(t, "Invalid username or password", out.Message)
	assert.False(t, fired, "a rejected login must not tear the session down")
}

func TestDoPublicTransportError(t *testing.T) {
	c := NewClient("http://127.0.0.1:1", staticToken(""), nil)
	err := c.DoPublic(context.Background(), http.MethodPost, "api/auth/login", nil, nil)
	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
	assert.Error(t, errors.Unwrap(netErr))
}

func TestUpload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.pdf")
	require.NoError(t, os.WriteFile(path, []byte("pdf-bytes"), 0o644))

	var gotAuth, gotFilename, gotContent string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, r.ParseMultipartForm(1<<20))
		f, header, err := r.FormFile("proof")
		require.NoError(t, err)
		defer f.Close()
		gotFilename = header.Filename
		content, err := io.ReadAll(f)
		require.NoError(t, err)
		gotContent = string(content)
		w.Write([]byte(`{"data":{}}`))
	})

	err := c.Upload(context.Background(), "api/office-expenses/1/proof", "proof", path, nil)
	require.NoError(t, err)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "receipt.pdf", gotFilename)
	assert.Equal(t, "pdf-bytes", gotContent)
}
