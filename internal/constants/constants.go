package constants

import "time"

// File and directory permissions.
const (
	// ConfigDirPerm is the permission for configuration directories.
	ConfigDirPerm = 0750

	// ConfigFilePerm is the permission for configuration files.
	ConfigFilePerm = 0600
)

// Service addressing.
const (
	// BaseDomain is the domain every service domain is a subdomain of.
	BaseDomain = "microcms.io"

	// APIVersion is the content API version segment.
	APIVersion = "v1"

	// APIKeyHeader carries the API key on every request.
	APIKeyHeader = "X-MICROCMS-API-KEY"

	// Version of this client, reported in the default User-Agent.
	Version = "1.2.0"

	// DefaultUserAgent is sent when the configuration does not override it.
	DefaultUserAgent = "microcms-go/" + Version
)

// HTTP and network timeouts.
const (
	// DefaultHTTPTimeout is the default timeout for HTTP requests.
	DefaultHTTPTimeout = 30 * time.Second
)

// Retry limits.
const (
	// DefaultRetryMax is the number of retries after the first attempt when
	// retries are enabled.
	DefaultRetryMax = 2

	// DefaultRetryWaitMin is the backoff floor between attempts.
	DefaultRetryWaitMin = 5 * time.Second

	// DefaultRetryWaitMax caps the exponential backoff.
	DefaultRetryWaitMax = 30 * time.Second
)

// HTTP status codes commonly used.
const (
	// HTTPStatusOK represents a successful HTTP response.
	HTTPStatusOK = 200

	// HTTPStatusMultipleChoices is the first status outside the success range.
	HTTPStatusMultipleChoices = 300

	// HTTPStatusBadRequest represents a client error.
	HTTPStatusBadRequest = 400

	// HTTPStatusTooManyRequests is the only retryable client error.
	HTTPStatusTooManyRequests = 429

	// HTTPStatusInternalServerError represents server errors.
	HTTPStatusInternalServerError = 500
)

// Pagination limits.
const (
	// MaxPageSize is the largest limit the list API accepts.
	MaxPageSize = 100

	// DefaultPageFetchConcurrency bounds parallel page fetches.
	DefaultPageFetchConcurrency = 5
)

// Query values.
const (
	// DraftStatus is the status query value that saves content as a draft.
	DraftStatus = "draft"

	// DefaultIDField is the field holding a list content's identifier.
	DefaultIDField = "id"
)

// Format constants.
const (
	// FormatTable for table output format.
	FormatTable = "table"

	// FormatJSON for JSON output format.
	FormatJSON = "json"

	// FormatYAML for YAML output format.
	FormatYAML = "yaml"

	// JSONIndentSize is the indent used by JSON and YAML encoders.
	JSONIndentSize = 2
)

// Display constants.
const (
	// NotAvailable is used when information is not available.
	NotAvailable = "N/A"

	// MaskedSecret is used to hide sensitive information.
	MaskedSecret = "***"

	// TimeDisplayFormat renders timestamps in tables.
	TimeDisplayFormat = "2006-01-02 15:04:05"

	// MaxCellWidth truncates long values in property tables.
	MaxCellWidth = 80
)
