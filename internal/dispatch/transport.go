package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// defaultTimeout bounds every outbound call. On expiry the call is
// treated as a failure, not retried; retry policy belongs to the caller.
const defaultTimeout = 10 * time.Second

// Transport sends one JSON request and reports the raw outcome. It
// abstracts the two outbound APIs (control plane and base station) so
// the routing logic is decoupled from HTTP specifics and easily mocked.
type Transport interface {
	// Post sends body as JSON to url with the given headers. It returns
	// the HTTP status and response body, or an error for transport-level
	// failures (timeout, connection refused) where no status exists.
	Post(ctx context.Context, url string, headers map[string]string, body any) (status int, respBody string, err error)
}

// HTTPTransport is the production Transport backed by net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates a transport with the given timeout. A zero or
// negative timeout selects the 10 second default.
func NewHTTPTransport(timeout time.Duration) *HTTPTransport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
	}
}

// Post implements Transport.
func (t *HTTPTransport) Post(ctx context.Context, url string, headers map[string]string, body any) (int, string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, "", fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return 0, "", fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort close on read path

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", fmt.Errorf("reading response: %w", err)
	}

	return resp.StatusCode, string(respBody), nil
}
