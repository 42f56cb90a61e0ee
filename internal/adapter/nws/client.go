package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/couchcryptid/weather-mcp/internal/domain"
	"github.com/couchcryptid/weather-mcp/internal/observability"
)

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 10 << 20

const acceptGeoJSON = "application/geo+json"

// Client implements domain.Fetcher against the NWS API.
type Client struct {
	userAgent  string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an NWS client. The timeout bounds the whole round trip,
// body read included.
func NewClient(userAgent string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		userAgent:  userAgent,
		httpClient: newHTTPClient(timeout),
		metrics:    metrics,
		logger:     logger,
	}
}

// newHTTPClient returns a client that never follows redirects, so a 3xx is
// reported as a status error from a single request.
func newHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Fetch performs a single GET of url and never returns a Go error: every
// failure is reported through the result's Outcome.
func (c *Client) Fetch(ctx context.Context, url string) domain.FetchResult {
	start := time.Now()
	result := c.doRequest(ctx, url)

	c.metrics.UpstreamRequests.WithLabelValues(string(result.Outcome)).Inc()
	c.metrics.UpstreamDuration.Observe(time.Since(start).Seconds())

	if result.Outcome != domain.FetchSuccess {
		c.logger.Warn("nws request failed",
			"url", url,
			"outcome", result.Outcome,
			"status", result.StatusCode,
			"error", result.Err,
		)
	} else {
		c.logger.Debug("nws request succeeded", "url", url, "bytes", len(result.Body))
	}
	return result
}

func (c *Client) doRequest(ctx context.Context, url string) domain.FetchResult {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return failure(domain.FetchTransportError, 0, fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", acceptGeoJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return failure(classify(err), 0, fmt.Errorf("nws request: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return failure(classify(err), resp.StatusCode, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return failure(domain.FetchStatusError, resp.StatusCode,
			fmt.Errorf("nws API error: status %d: %s", resp.StatusCode, truncate(body, 512)))
	}

	if len(body) > maxBodyBytes {
		return failure(domain.FetchDecodeError, resp.StatusCode,
			fmt.Errorf("decode response: body exceeds %d bytes", maxBodyBytes))
	}
	if !json.Valid(body) {
		return failure(domain.FetchDecodeError, resp.StatusCode, errors.New("decode response: invalid JSON"))
	}

	return domain.FetchResult{
		Outcome:    domain.FetchSuccess,
		StatusCode: resp.StatusCode,
		Body:       body,
	}
}

func failure(outcome domain.FetchOutcome, status int, err error) domain.FetchResult {
	return domain.FetchResult{Outcome: outcome, StatusCode: status, Err: err}
}

// classify separates deadline expiry (client timeout or caller deadline)
// from every other transport failure.
func classify(err error) domain.FetchOutcome {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.FetchTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return domain.FetchTimeout
	}
	return domain.FetchTransportError
}

func truncate(b []byte, n int) []byte {
	if len(b) > n {
		return b[:n]
	}
	return b
}
