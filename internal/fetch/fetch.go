// ABOUTME: HTTP fetcher for feed downloads with retry, size cap, and private-address guard
// ABOUTME: Fans out across configured feeds with bounded concurrency, preserving config order

package fetch

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/harper/scout/internal/config"
)

const MaxResponseSize = 10 * 1024 * 1024 // 10MB

const userAgent = "scout/1.0 (feed monitor)"

// retryDelay spaces retry attempts linearly: attempt n waits n*retryDelay.
var retryDelay = 500 * time.Millisecond

// Result is the outcome of fetching one configured feed. Err is set
// instead of aborting the batch when a feed fails.
type Result struct {
	Feed config.Feed
	Body []byte
	Err  error
}

// Client downloads feed documents over HTTP. Construct with NewClient;
// the zero value has no timeout or concurrency limit.
type Client struct {
	http        *http.Client
	retries     int
	concurrency int
}

// NewClient builds a fetcher from the sources-file fetch settings.
func NewClient(cfg config.FetchConfig) *Client {
	concurrency := cfg.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	retries := cfg.Retries
	if retries < 0 {
		retries = 0
	}
	return &Client{
		http:        &http.Client{Timeout: cfg.Timeout()},
		retries:     retries,
		concurrency: concurrency,
	}
}

// isPrivateIP checks if an IP address is in a private range (excluding loopback for tests).
func isPrivateIP(ip net.IP) bool {
	// Allow loopback addresses (localhost) for tests
	if ip.IsLoopback() {
		return false
	}
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast()
}

// Fetch retrieves a single URL, retrying transport errors and
// retryable status codes (5xx, 429) up to the configured attempt
// count with linear backoff. The body is capped at MaxResponseSize.
// Includes SSRF protection by blocking private IP ranges.
func (c *Client) Fetch(ctx context.Context, urlStr string) ([]byte, error) {
	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	// SSRF protection: block private IP ranges
	if ips, err := net.LookupIP(parsedURL.Hostname()); err == nil {
		for _, ip := range ips {
			if isPrivateIP(ip) {
				return nil, fmt.Errorf("access to private IP ranges is not allowed")
			}
		}
	}

	var lastErr error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryDelay):
			}
		}

		body, retryable, err := c.fetchOnce(ctx, urlStr)
		if err == nil {
			return body, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// fetchOnce performs one GET attempt. The retryable flag reports
// whether the failure is worth another attempt.
func (c *Client) fetchOnce(ctx context.Context, urlStr string) ([]byte, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("fetching URL: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, retryableStatus(resp.StatusCode), fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	// Read response body with DoS protection (10MB limit)
	limitedReader := io.LimitReader(resp.Body, MaxResponseSize+1)
	body, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, true, fmt.Errorf("reading response body: %w", err)
	}

	if int64(len(body)) > MaxResponseSize {
		return nil, false, fmt.Errorf("response too large (exceeds %d bytes)", MaxResponseSize)
	}

	return body, false, nil
}

func retryableStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// FetchAll downloads every feed with at most the configured number of
// requests in flight. The returned slice matches the input order, so
// downstream processing stays deterministic regardless of which
// download finishes first.
func (c *Client) FetchAll(ctx context.Context, feeds []config.Feed) []Result {
	results := make([]Result, len(feeds))
	sem := make(chan struct{}, c.concurrency)

	var wg sync.WaitGroup
	for i, feed := range feeds {
		wg.Add(1)
		go func(idx int, f config.Feed) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[idx] = Result{Feed: f, Err: ctx.Err()}
				return
			}

			body, err := c.Fetch(ctx, f.URL)
			results[idx] = Result{Feed: f, Body: body, Err: err}
		}(i, feed)
	}
	wg.Wait()

	return results
}
