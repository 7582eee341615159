package commands

import (
	"fmt"
	"io"
	"net/http"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/pkg/cmsclient"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"
)

// clientFactory builds the client used by content commands. Tests replace it.
var clientFactory = CreateClient

// httpClient overrides the transport of created clients when set.
var httpClient *http.Client

// CreateClient creates a content API client from the effective configuration.
// Logs are written to logOutput.
func CreateClient(logOutput io.Writer) (microcms.Client, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if config.ServiceDomain == "" {
		return nil, constants.ErrNoServiceDomain
	}

	if config.APIKey == "" {
		return nil, constants.ErrNoAPIKey
	}

	verbose := viper.GetBool("verbose")

	logLevel := config.LogLevel
	if verbose {
		logLevel = "debug"
	}

	logger, err := NewLogger(logLevel, logOutput)
	if err != nil {
		return nil, err
	}

	clientConfig := &microcms.Config{
		ServiceDomain: config.ServiceDomain,
		APIKey:        config.APIKey,
		HTTPClient:    httpClient,
		Retry:         config.Retry,
		RetryMax:      config.RetryMax,
		Logger:        logger,
		Debug:         verbose,
		UserAgent:     "microcms-cli/" + constants.Version,
	}

	if config.RateLimit > 0 {
		clientConfig.RateLimiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}

	client, err := cmsclient.New(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return client, nil
}
