package connectors

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// userAgent is sent by the scraping connectors so public profile pages
// return the full markup they serve to browsers.
const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 " +
	"(KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

const (
	// maxErrorBody bounds the upstream response excerpt embedded in error
	// messages.
	maxErrorBody = 200

	// maxResponseBody bounds how much of any upstream response is read.
	maxResponseBody = 5 << 20

	// DefaultTimeout bounds each upstream call so a hung platform cannot
	// hang a whole batch.
	DefaultTimeout = 10 * time.Second
)

// apiClient is the outbound HTTP helper shared by all connectors. Failures
// (transport errors, non-2xx statuses, unparsable payloads) come back as
// transient errors carrying a short description of what the upstream said.
type apiClient struct {
	hc *http.Client
}

func newAPIClient(hc *http.Client) *apiClient {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &apiClient{hc: hc}
}

func (c *apiClient) get(ctx context.Context, rawURL string, params url.Values, headers map[string]string) ([]byte, error) {
	if len(params) > 0 {
		rawURL = rawURL + "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		excerpt := body
		if len(excerpt) > maxErrorBody {
			excerpt = excerpt[:maxErrorBody]
		}
		return nil, fmt.Errorf("HTTP %d error - %s", resp.StatusCode, excerpt)
	}

	return body, nil
}

// getJSON performs a GET and decodes the JSON payload into v.
func (c *apiClient) getJSON(ctx context.Context, rawURL string, params url.Values, headers map[string]string, v any) error {
	body, err := c.get(ctx, rawURL, params, headers)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("cannot parse JSON response: %w", err)
	}
	return nil
}

// getHTML fetches a public page as a browser would and returns the markup.
func (c *apiClient) getHTML(ctx context.Context, rawURL string) (string, error) {
	body, err := c.get(ctx, rawURL, nil, map[string]string{"User-Agent": userAgent})
	if err != nil {
		return "", err
	}
	return string(body), nil
}
