package dgc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
)

// maxErrorBody caps how much of an error response body is kept for messages.
const maxErrorBody = 4 << 10

// do executes a JSON request against the catalog and decodes the response
// into out (which may be nil for calls whose body is irrelevant).
// Transient failures (network errors, 429, 5xx) are retried with fibonacci
// backoff when the client was configured with WithRetry.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	if c.maxRetries == 0 {
		return c.doOnce(ctx, method, path, query, body, out)
	}

	b := retry.WithMaxRetries(c.maxRetries, retry.NewFibonacci(c.retryBase))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		err := c.doOnce(ctx, method, path, query, body, out)
		if err == nil {
			return nil
		}
		var apiErr *Error
		if errors.As(err, &apiErr) {
			if apiErr.retryable() {
				return retry.RetryableError(err)
			}
			return err
		}
		// Network-level failure: worth another attempt.
		return retry.RetryableError(err)
	})
}

func (c *Client) doOnce(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.apiBase + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("dgc: encode %s %s: %w", method, path, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("dgc: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.username != "" || c.password != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.telemetry.Record(method, path, 0, time.Since(start), err)
		c.logger.Debug("request failed", "method", method, "path", path, "error", err)
		return fmt.Errorf("dgc: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated &&
		resp.StatusCode != http.StatusNoContent {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       path,
			Body:       strings.TrimSpace(string(raw)),
		}
		c.telemetry.Record(method, path, resp.StatusCode, time.Since(start), apiErr)
		c.logger.Debug("request rejected",
			"method", method, "path", path, "status", resp.StatusCode)
		return apiErr
	}

	c.telemetry.Record(method, path, resp.StatusCode, time.Since(start), nil)

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("dgc: read response: %w", err)
	}
	// Some mutating endpoints answer with an empty body on success.
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("dgc: decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}
