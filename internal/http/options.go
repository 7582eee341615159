package http

import (
	"net/http"
	"time"

	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// Option configures the HTTP client.
type Option func(*Client)

// WithLogger sets the logger.
func WithLogger(logger microcms.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request and response logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithRetryConfig sets the retry budget and the backoff bounds.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.retryMax = maxRetries
		c.retryWaitMin = waitMin
		c.retryWaitMax = waitMax
	}
}

// WithHTTPClient sets the underlying transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRetryObserver registers a callback invoked before every retry.
func WithRetryObserver(observer microcms.RetryObserver) Option {
	return func(c *Client) {
		c.onRetry = observer
	}
}

// WithErrorNormalizer registers a classifier for transport errors.
func WithErrorNormalizer(normalizer microcms.ErrorNormalizer) Option {
	return func(c *Client) {
		c.errorNormalizer = normalizer
	}
}

// WithRateLimiter makes every attempt wait for a limiter token.
func WithRateLimiter(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}

// WithMetricsRegisterer registers request metrics on registerer.
func WithMetricsRegisterer(registerer prometheus.Registerer) Option {
	return func(c *Client) {
		c.metrics = newMetrics(registerer)
	}
}
