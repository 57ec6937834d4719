package api

import (
	"net/http"
	"strings"
)

// JoinURL joins the configured base origin with a relative endpoint path.
// The path's leading slash is stripped before joining so the result never
// contains a double slash.
func JoinURL(base, endpoint string) string {
	base = strings.TrimRight(base, "/")
	endpoint = strings.TrimLeft(endpoint, "/")
	return base + "/" + endpoint
}

// AuthHeaders returns the header set for an authenticated JSON request.
// Multipart callers must not use this: they set only the Authorization
// header and let the transport negotiate the multipart boundary.
func AuthHeaders(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	h.Set("Content-Type", "application/json")
	return h
}
