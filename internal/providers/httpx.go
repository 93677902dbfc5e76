package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultHTTPClient returns the client adapters fall back to when none is
// injected. The timeout bounds every outbound identity call.
func DefaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

// DoJSON executes req and decodes a 2xx JSON response into out.
// Any transport error or non-2xx status is wrapped as a *CallError for the
// given provider so the broker can distinguish provider failures from
// validation failures.
func DoJSON(hc *http.Client, provider string, req *http.Request, out any) error {
	resp, err := hc.Do(req)
	if err != nil {
		return NewCallError(provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return NewCallError(provider, fmt.Errorf("identity endpoint returned status %d", resp.StatusCode))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return NewCallError(provider, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// NewJSONRequest builds a GET request with an Accept: application/json
// header, the common case for identity endpoints.
func NewJSONRequest(ctx context.Context, method, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}
