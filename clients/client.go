// Package clients holds the REST client wrapper for the six backend
// microservices. All envelope decoding and status mapping lives here so the
// rest of the gateway never branches on payload shape.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrSessionExpired maps HTTP 401: the token is no longer valid and the
	// persisted session must be destroyed.
	ErrSessionExpired = errors.New("session expired")
	// ErrForbidden maps HTTP 403: role mismatch, the session stays intact.
	ErrForbidden = errors.New("forbidden")
	ErrNotFound  = errors.New("not found")
)

// APIError carries the backend's human-readable message from an envelope
// with success=false or a non-2xx body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend returned status %d", e.StatusCode)
}

type contextKey string

const tokenContextKey contextKey = "bearerToken"

// WithToken returns a context that carries the session's bearer token;
// the request hook attaches it to every outgoing call.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

func TokenFrom(ctx context.Context) string {
	if token, ok := ctx.Value(tokenContextKey).(string); ok {
		return token
	}
	return ""
}

// newRestyClient builds the shared outbound client: JSON headers, per-service
// base URL and timeout, and token attachment from the request context.
func newRestyClient(baseURL string, timeout time.Duration) *resty.Client {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if token := TokenFrom(req.Context()); token != "" {
			req.SetHeader("Authorization", "Bearer "+token)
		}
		return nil
	})

	return client
}

// Envelope is the `{success, message, data}` wrapper every backend response
// is expected to use. success=false can accompany an HTTP 200 and must still
// be treated as a failure.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var jsonNull = []byte("null")

// decodeEnvelope maps the response status, unwraps the envelope, and decodes
// its data payload into out (which may be nil when the caller only cares
// about success).
func decodeEnvelope(resp *resty.Response, out any) error {
	switch resp.StatusCode() {
	case 401:
		return ErrSessionExpired
	case 403:
		return ErrForbidden
	case 404:
		return ErrNotFound
	}

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		var env Envelope
		if err := json.Unmarshal(resp.Body(), &env); err == nil {
			apiErr.Message = env.Message
		}
		return apiErr
	}

	var env Envelope
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("malformed response envelope: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode(), Message: env.Message}
	}
	if out != nil && len(env.Data) > 0 && !bytes.Equal(env.Data, jsonNull) {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode envelope data: %w", err)
		}
	}
	return nil
}
