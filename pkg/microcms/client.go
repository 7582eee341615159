package microcms

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"
)

// ContentClient provides the CRUD operations of the content API.
//
// Read operations decode the response body into out, which must be a
// pointer or nil to discard the body. The typed helpers Get, GetList,
// GetListDetail and GetObject wrap these methods with generics.
type ContentClient interface {
	Get(ctx context.Context, req *GetRequest, out interface{}) error
	GetList(ctx context.Context, req *GetListRequest, out interface{}) error
	GetListDetail(ctx context.Context, req *GetListDetailRequest, out interface{}) error
	GetObject(ctx context.Context, req *GetObjectRequest, out interface{}) error
	Create(ctx context.Context, req *CreateRequest) (*WriteResponse, error)
	Update(ctx context.Context, req *UpdateRequest) (*WriteResponse, error)
	Delete(ctx context.Context, req *DeleteRequest) error
}

// Client is a content API client bound to one service.
type Client interface {
	ContentClient

	// BaseURL returns https://{serviceDomain}.microcms.io/api/v1.
	BaseURL() string
}

// Logger interface for logging.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}

// RetryObserver is invoked before every retry with the error that caused
// it and the retry number (1 for the first retry).
type RetryObserver func(err error, attempt int)

// ErrorNormalizer lets a custom transport classify its own errors. When it
// returns a non-nil error for a transport failure, that error is surfaced
// unchanged instead of being wrapped in a NetworkError.
type ErrorNormalizer func(err error) error

// Config represents client configuration for building a Client.
//
// # Retries
//
// Retries are disabled unless Retry is set. When enabled, 5xx and 429
// responses and transport failures are retried up to RetryMax times (default
// 2) with exponential backoff starting at RetryWaitMin (default 5s) and capped
// at RetryWaitMax (default 30s). Other 4xx responses are never retried.
//
// The configuration is copied by cmsclient.New; later changes to the value
// passed in do not affect the client.
type Config struct {
	// Required fields
	// ServiceDomain: the subdomain of the service, e.g. "example" for
	// https://example.microcms.io.
	ServiceDomain string
	// APIKey: sent in the X-MICROCMS-API-KEY header.
	APIKey string

	// Optional configurations
	// HTTPClient: transport used for every attempt. Defaults to a client with
	// a 30s timeout.
	HTTPClient *http.Client
	// Retry: enables retrying transient failures.
	Retry bool
	// RetryMax: retries after the first attempt. Applied when Retry is set.
	RetryMax int
	// RetryWaitMin: backoff floor between attempts.
	RetryWaitMin time.Duration
	// RetryWaitMax: backoff ceiling between attempts.
	RetryWaitMax time.Duration
	// OnRetry: observes every retry.
	OnRetry RetryObserver
	// ErrorNormalizer: classifies transport errors before the NetworkError wrap.
	ErrorNormalizer ErrorNormalizer
	// Logger: optional structured logger used by the HTTP layer.
	Logger Logger
	// Debug: enables request/response logging when a Logger is provided.
	Debug bool
	// UserAgent: overrides the default User-Agent header sent by the client.
	UserAgent string
	// RateLimiter: when set, every attempt waits for a token first.
	RateLimiter *rate.Limiter
	// MetricsRegisterer: when set, request metrics are registered on it.
	MetricsRegisterer prometheus.Registerer
}

// GetRequest reads a single content. ContentID is optional so the same call
// can address object endpoints.
type GetRequest struct {
	Endpoint  string
	ContentID string
	Queries   *Queries
}

// GetListRequest reads a page of a list endpoint.
type GetListRequest struct {
	Endpoint string
	Queries  *Queries
}

// GetListDetailRequest reads one content of a list endpoint.
type GetListDetailRequest struct {
	Endpoint  string
	ContentID string
	Queries   *Queries
}

// GetObjectRequest reads an object endpoint.
type GetObjectRequest struct {
	Endpoint string
	Queries  *Queries
}

// CreateRequest creates content. Without ContentID the API assigns one (POST);
// with it the content is created under that ID (PUT).
type CreateRequest struct {
	Endpoint  string
	ContentID string
	Content   interface{}
	IsDraft   bool
}

// UpdateRequest patches content. ContentID is empty for object endpoints.
type UpdateRequest struct {
	Endpoint  string
	ContentID string
	Content   interface{}
}

// DeleteRequest deletes one content of a list endpoint.
type DeleteRequest struct {
	Endpoint  string
	ContentID string
}
