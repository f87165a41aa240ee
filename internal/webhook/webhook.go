package webhook

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/Mavwarf/shortcut-icons/internal/httputil"
)

// Send posts a JSON body to url. Custom headers are applied after the
// default Content-Type, so callers can override it. Header values are
// expanded with os.ExpandEnv to support $VAR secrets.
func Send(ctx context.Context, url string, body []byte, headers map[string]string) error {
	expanded := make(map[string]string, len(headers))
	for k, v := range headers {
		expanded[k] = os.ExpandEnv(v)
	}

	resp, err := httputil.Post(ctx, url, "application/json", bytes.NewReader(body), expanded)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "webhook")
}
