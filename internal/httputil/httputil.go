package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the shared HTTP client for completion notifications. The
// timeout keeps an unresponsive endpoint from stalling the CLI.
var Client = &http.Client{Timeout: 15 * time.Second}

// Post issues a POST with the given headers using the shared Client.
// Headers are applied after Content-Type, so callers can override it.
func Post(ctx context.Context, url, contentType string, body io.Reader, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", "shortcut-icons")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return Client.Do(req)
}

// CheckStatus returns an error if the response status code is not 2xx.
// The prefix is included in the error message for context (e.g. "webhook").
func CheckStatus(resp *http.Response, prefix string) error {
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d: %s", prefix, resp.StatusCode, ReadSnippet(resp.Body))
	}
	return nil
}

// ReadSnippet reads up to 200 bytes from r for inclusion in error messages.
func ReadSnippet(r io.Reader) string {
	buf := make([]byte, 200)
	n, _ := io.ReadFull(r, buf)
	if n == 0 {
		return "(empty body)"
	}
	s := string(buf[:n])
	if n == 200 {
		s += "..."
	}
	return s
}
