// Package fetch provides the outbound HTTP transport shared by all collectors
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"wattfeed/internal/logger"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout is the per-request timeout
	DefaultTimeout = 30 * time.Second
	// DefaultMaxAttempts is the retry ceiling
	DefaultMaxAttempts = 3
	// DefaultRetryAfter is used when a 429 response carries no usable Retry-After header
	DefaultRetryAfter = 60 * time.Second
)

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Client
type Options struct {
	Timeout     time.Duration
	MaxAttempts int
	// Sleep replaces the wall-clock wait between attempts
	Sleep SleepFunc
	// Limiter throttles outbound requests; nil means unlimited
	Limiter    *rate.Limiter
	HTTPClient *http.Client
	Logger     *logger.Log
}

// Client performs GET requests with bounded retry on 429 and transient 5xx responses
type Client struct {
	http        *http.Client
	maxAttempts int
	sleep       SleepFunc
	limiter     *rate.Limiter
	log         *logger.Log
}

// NewClient creates a new Client
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.Sleep == nil {
		opts.Sleep = Sleep
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logger.GetLogger()
	}

	return &Client{
		http:        opts.HTTPClient,
		maxAttempts: opts.MaxAttempts,
		sleep:       opts.Sleep,
		limiter:     opts.Limiter,
		log:         opts.Logger,
	}
}

// NewLimiter returns a limiter for rps requests per second, or nil when rps is not positive
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Sleep waits for d, returning early with the context error on cancellation
func Sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Get fetches rawURL with params and returns the response body of the first 2xx response.
//
// 429 waits for the server-supplied Retry-After seconds, 500/502/503 back off
// 2^attempt seconds. Any other non-2xx status fails immediately. Network
// errors are not retried.
func (c *Client) Get(ctx context.Context, rawURL string, params url.Values) ([]byte, error) {
	target := rawURL
	if len(params) > 0 {
		target = rawURL + "?" + params.Encode()
	}
	safeURL := Redact(rawURL, params)
	log := c.log.WithComponent("fetch").WithFields(logger.Fields{"url": safeURL})

	var lastStatus int
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("%w: rate limiter: %w", ErrTransport, err)
			}
		}

		body, status, header, err := c.do(ctx, target)
		if err != nil {
			return nil, fmt.Errorf("%w: GET %s: %v", ErrTransport, safeURL, err)
		}
		if status >= 200 && status < 300 {
			log.WithFields(logger.Fields{"status": status, "attempt": attempt + 1, "bytes": len(body)}).Debug("fetched")
			return body, nil
		}
		lastStatus = status

		var wait time.Duration
		switch status {
		case http.StatusTooManyRequests:
			wait = retryAfter(header.Get("Retry-After"))
		case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
			wait = time.Duration(math.Pow(2, float64(attempt))) * time.Second
		default:
			return nil, &HTTPError{StatusCode: status, Attempts: attempt + 1, URL: safeURL}
		}

		if attempt == c.maxAttempts-1 {
			break
		}
		log.WithFields(logger.Fields{
			"status":  status,
			"attempt": attempt + 1,
			"wait":    wait.String(),
		}).Warn("retrying upstream request")
		if err := c.sleep(ctx, wait); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}

	return nil, &HTTPError{StatusCode: lastStatus, Attempts: c.maxAttempts, URL: safeURL}
}

func (c *Client) do(ctx context.Context, target string) ([]byte, int, http.Header, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, 0, nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// url.Error embeds the full query string, including credentials
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return nil, 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, nil, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, resp.Header, nil
}

// retryAfter parses a Retry-After header given in seconds
func retryAfter(v string) time.Duration {
	if v == "" {
		return DefaultRetryAfter
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs < 0 {
		return DefaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

// redactedParams are never written to logs or errors
var redactedParams = map[string]bool{
	"securityToken": true,
	"token":         true,
	"apikey":        true,
}

// Redact renders rawURL with params, masking credential values
func Redact(rawURL string, params url.Values) string {
	if len(params) == 0 {
		return rawURL
	}
	safe := url.Values{}
	for k, vs := range params {
		if redactedParams[k] {
			safe.Set(k, "REDACTED")
			continue
		}
		safe[k] = vs
	}
	return rawURL + "?" + safe.Encode()
}
