package cmsclient

import (
	"fmt"
	"strings"

	"github.com/fivetwenty-io/microcms-go/internal/client"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
)

// New creates a new content API client. The configuration is copied, so
// later changes to config do not affect the returned client.
func New(config *microcms.Config) (microcms.Client, error) {
	if config == nil {
		return nil, &microcms.ConfigurationError{Field: "config", Err: microcms.ErrConfigRequired}
	}

	normalized := *config
	normalized.ServiceDomain = strings.TrimSpace(normalized.ServiceDomain)
	normalized.APIKey = strings.TrimSpace(normalized.APIKey)

	cmsClient, err := client.New(&normalized)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return cmsClient, nil
}

// BaseURL returns the content API root for a service domain.
func BaseURL(serviceDomain string) string {
	return client.BaseURL(strings.TrimSpace(serviceDomain))
}
