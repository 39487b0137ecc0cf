package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"
)

// errorEnvelope is the JSON body Last.fm returns for failed calls.
type errorEnvelope struct {
	Code    *int   `json:"error"`
	Message string `json:"message"`
}

// call makes an HTTP GET request to the Last.fm API.
//
// It handles:
// - Request construction with api_key, format=json and method
// - Error envelope decoding into *Error
// - Retry with exponential backoff when the client allows retries
// - Context cancellation
//
// The raw JSON body is returned on success.
func (c *Client) call(ctx context.Context, method string, params map[string]string) ([]byte, error) {
	query := url.Values{}
	for k, v := range params {
		if v != "" {
			query.Set(k, v)
		}
	}
	query.Set("method", method)
	query.Set("api_key", c.apiKey)
	query.Set("format", "json")

	reqURL := c.baseURL + "?" + query.Encode()

	var lastErr error
	backoff := c.retryBackoff
	maxAttempts := c.retries + 1

	for i := 0; i < maxAttempts; i++ {
		c.logDebugf("lastfm: calling %s (attempt %d/%d)", method, i+1, maxAttempts)
		canRetry := i < maxAttempts-1

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if ctx.Err() == nil && shouldRetryNetworkError(err) && canRetry {
				c.logDebugf("lastfm: network error, retrying: %v", err)
				if !sleep(ctx, backoff) {
					return nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, fmt.Errorf("http request failed: %w", err)
		}

		body, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		// Last.fm reports API errors in a JSON envelope, sometimes with a
		// non-200 status. Prefer the envelope when it is present.
		if apiErr := decodeError(body); apiErr != nil {
			if apiErr.Temporary() && canRetry {
				c.logDebugf("lastfm: temporary error, retrying: %v", apiErr)
				lastErr = apiErr
				if !sleep(ctx, backoff) {
					return nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, apiErr
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error: %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
			if canRetry {
				c.logDebugf("lastfm: server error, retrying: %v", lastErr)
				if !sleep(ctx, backoff) {
					return nil, ctx.Err()
				}
				backoff = nextBackoff(backoff)
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		c.logDebugf("lastfm: %s succeeded", method)
		return body, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// get calls method and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, method string, params map[string]string, out interface{}) error {
	body, err := c.call(ctx, method, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("lastfm: failed to parse %s response: %w", method, err)
	}
	return nil
}

// decodeError returns the API error carried by body, or nil.
func decodeError(body []byte) *Error {
	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err != nil || env.Code == nil {
		return nil
	}
	return &Error{Code: *env.Code, Message: env.Message}
}

// shouldRetryNetworkError checks if a network error is retryable.
func shouldRetryNetworkError(err error) bool {
	if err == nil {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}

	var urlErr *url.Error
	return errors.As(err, &urlErr) && !errors.Is(urlErr.Err, context.Canceled)
}

// sleep waits for the specified duration or until context is cancelled.
// Returns true if sleep completed, false if context was cancelled.
func sleep(ctx context.Context, duration time.Duration) bool {
	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// nextBackoff calculates the next backoff duration with exponential increase.
// Maximum backoff is capped at 30 seconds.
func nextBackoff(current time.Duration) time.Duration {
	next := current * 2
	if next > 30*time.Second {
		return 30 * time.Second
	}
	return next
}
