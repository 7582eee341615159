package client

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/internal/http"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
)

var serviceDomainPattern = regexp.MustCompile(`^[A-Za-z0-9-]+$`)

// BaseURL returns the content API root for a service domain.
func BaseURL(serviceDomain string) string {
	return fmt.Sprintf("https://%s.%s/api/%s", serviceDomain, constants.BaseDomain, constants.APIVersion)
}

// ValidateConfig checks the identity parameters required to build a client.
func ValidateConfig(config *microcms.Config) error {
	if config == nil {
		return &microcms.ConfigurationError{Field: "config", Err: microcms.ErrConfigRequired}
	}

	if strings.TrimSpace(config.ServiceDomain) == "" {
		return &microcms.ConfigurationError{Field: "serviceDomain", Err: microcms.ErrServiceDomainRequired}
	}

	if !serviceDomainPattern.MatchString(config.ServiceDomain) {
		return &microcms.ConfigurationError{Field: "serviceDomain", Err: microcms.ErrInvalidServiceDomain}
	}

	if strings.TrimSpace(config.APIKey) == "" {
		return &microcms.ConfigurationError{Field: "apiKey", Err: microcms.ErrAPIKeyRequired}
	}

	return nil
}

// createHTTPClientOptions builds HTTP client options from config.
func createHTTPClientOptions(config *microcms.Config) []http.Option {
	var httpOpts []http.Option

	if config.Logger != nil {
		httpOpts = append(httpOpts, http.WithLogger(config.Logger))
	}

	if config.Debug {
		httpOpts = append(httpOpts, http.WithDebug(true))
	}

	if config.UserAgent != "" {
		httpOpts = append(httpOpts, http.WithUserAgent(config.UserAgent))
	}

	if config.HTTPClient != nil {
		httpOpts = append(httpOpts, http.WithHTTPClient(config.HTTPClient))
	}

	if config.Retry {
		retryMax := constants.DefaultRetryMax
		retryWaitMin := constants.DefaultRetryWaitMin
		retryWaitMax := constants.DefaultRetryWaitMax

		if config.RetryMax > 0 {
			retryMax = config.RetryMax
		}

		if config.RetryWaitMin > 0 {
			retryWaitMin = config.RetryWaitMin
		}

		if config.RetryWaitMax > 0 {
			retryWaitMax = config.RetryWaitMax
		}

		if retryWaitMax < retryWaitMin {
			retryWaitMax = retryWaitMin
		}

		httpOpts = append(httpOpts, http.WithRetryConfig(retryMax, retryWaitMin, retryWaitMax))
	}

	if config.OnRetry != nil {
		httpOpts = append(httpOpts, http.WithRetryObserver(config.OnRetry))
	}

	if config.ErrorNormalizer != nil {
		httpOpts = append(httpOpts, http.WithErrorNormalizer(config.ErrorNormalizer))
	}

	if config.RateLimiter != nil {
		httpOpts = append(httpOpts, http.WithRateLimiter(config.RateLimiter))
	}

	if config.MetricsRegisterer != nil {
		httpOpts = append(httpOpts, http.WithMetricsRegisterer(config.MetricsRegisterer))
	}

	return httpOpts
}
