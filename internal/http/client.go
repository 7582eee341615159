package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/time/rate"
)

// Client is the HTTP executor used by the content clients. It owns the
// retry loop, authentication header, and request/response logging.
type Client struct {
	baseURL         string
	apiKey          string
	client          *retryablehttp.Client
	httpClient      *http.Client
	logger          microcms.Logger
	debug           bool
	userAgent       string
	retryMax        int
	retryWaitMin    time.Duration
	retryWaitMax    time.Duration
	onRetry         microcms.RetryObserver
	errorNormalizer microcms.ErrorNormalizer
	limiter         *rate.Limiter
	metrics         *metrics
}

// Request represents an HTTP request. Path is relative to the base URL.
type Request struct {
	Method  string
	Path    string
	Query   *microcms.Queries
	Headers map[string]string
	Body    interface{}
}

// Response represents an HTTP response with a fully read body.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// NewClient creates a new HTTP client. Without WithRetryConfig every call
// makes exactly one attempt.
func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	client := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		apiKey:       apiKey,
		userAgent:    constants.DefaultUserAgent,
		retryWaitMin: constants.DefaultRetryWaitMin,
		retryWaitMax: constants.DefaultRetryWaitMax,
	}

	for _, opt := range opts {
		opt(client)
	}

	client.client = &retryablehttp.Client{
		HTTPClient:      client.transport(),
		RetryWaitMin:    client.retryWaitMin,
		RetryWaitMax:    client.retryWaitMax,
		RetryMax:        client.retryMax,
		RequestLogHook:  client.requestLogHook,
		ResponseLogHook: client.responseLogHook,
		CheckRetry:      client.checkRetry,
		Backoff:         retryablehttp.DefaultBackoff,
		ErrorHandler:    client.errorHandler,
	}

	if client.logger != nil {
		client.client.Logger = &leveledLogger{logger: client.logger}
	}

	return client
}

func (c *Client) transport() *http.Client {
	httpClient := c.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: constants.DefaultHTTPTimeout}
	}

	if c.limiter == nil {
		return httpClient
	}

	limited := *httpClient

	base := limited.Transport
	if base == nil {
		base = http.DefaultTransport
	}

	limited.Transport = &rateLimitedTransport{base: base, limiter: c.limiter}

	return &limited
}

// BaseURL returns the URL every path is resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// BuildURL joins the base URL, the path, and the encoded query. An empty
// query adds no "?".
func (c *Client) BuildURL(path string, query *microcms.Queries) string {
	fullURL := c.baseURL
	if path != "" {
		fullURL += "/" + strings.TrimLeft(path, "/")
	}

	if !query.IsEmpty() {
		fullURL += "?" + query.Encode()
	}

	return fullURL
}

// Do performs an HTTP request. A non-success status returns both the
// response and a *microcms.HTTPError.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	fullURL := c.BuildURL(req.Path, req.Query)

	var body interface{}

	if req.Body != nil {
		switch raw := req.Body.(type) {
		case []byte:
			body = raw
		default:
			data, err := json.Marshal(req.Body)
			if err != nil {
				return nil, fmt.Errorf("marshaling request body: %w", err)
			}

			body = data
		}
	}

	state := &attemptState{method: method, url: fullURL}
	ctx = withAttemptState(ctx, state)

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	httpReq.Header.Set(constants.APIKeyHeader, c.apiKey)
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)

	c.metrics.observeDuration(method, time.Since(start))

	if err != nil {
		return nil, c.transportError(state, err)
	}

	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       respBody,
	}

	if ClassifyStatus(resp.StatusCode) != OutcomeSuccess {
		return response, newHTTPError(method, fullURL, resp.StatusCode, respBody)
	}

	return response, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, path string, query *microcms.Queries) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodGet,
		Path:   path,
		Query:  query,
	})
}

// Post performs a POST request.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPost,
		Path:   path,
		Body:   body,
	})
}

// Put performs a PUT request.
func (c *Client) Put(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPut,
		Path:   path,
		Body:   body,
	})
}

// Patch performs a PATCH request.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodPatch,
		Path:   path,
		Body:   body,
	})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{
		Method: http.MethodDelete,
		Path:   path,
	})
}
