package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/internal/http"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
)

// Client implements the microcms.Client interface.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

var _ microcms.Client = (*Client)(nil)

// New creates a content API client. The configuration is read once; later
// changes to it have no effect.
func New(config *microcms.Config) (*Client, error) {
	err := ValidateConfig(config)
	if err != nil {
		return nil, err
	}

	baseURL := BaseURL(config.ServiceDomain)

	return &Client{
		httpClient: http.NewClient(baseURL, config.APIKey, createHTTPClientOptions(config)...),
		baseURL:    baseURL,
	}, nil
}

// NewWithHTTPClient creates a client around an existing executor.
func NewWithHTTPClient(httpClient *http.Client) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    httpClient.BaseURL(),
	}
}

// BaseURL implements microcms.Client.BaseURL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Get implements microcms.Client.Get.
func (c *Client) Get(ctx context.Context, req *microcms.GetRequest, out interface{}) error {
	if req == nil || req.Endpoint == "" {
		return endpointRequired()
	}

	return c.read(ctx, "getting content", contentPath(req.Endpoint, req.ContentID), req.Queries, out)
}

// GetList implements microcms.Client.GetList.
func (c *Client) GetList(ctx context.Context, req *microcms.GetListRequest, out interface{}) error {
	if req == nil || req.Endpoint == "" {
		return endpointRequired()
	}

	return c.read(ctx, "listing contents", req.Endpoint, req.Queries, out)
}

// GetListDetail implements microcms.Client.GetListDetail.
func (c *Client) GetListDetail(ctx context.Context, req *microcms.GetListDetailRequest, out interface{}) error {
	if req == nil || req.Endpoint == "" {
		return endpointRequired()
	}

	return c.read(ctx, "getting list content", contentPath(req.Endpoint, req.ContentID), req.Queries, out)
}

// GetObject implements microcms.Client.GetObject.
func (c *Client) GetObject(ctx context.Context, req *microcms.GetObjectRequest, out interface{}) error {
	if req == nil || req.Endpoint == "" {
		return endpointRequired()
	}

	return c.read(ctx, "getting object", req.Endpoint, req.Queries, out)
}

// Create implements microcms.Client.Create.
func (c *Client) Create(ctx context.Context, req *microcms.CreateRequest) (*microcms.WriteResponse, error) {
	if req == nil || req.Endpoint == "" {
		return nil, endpointRequired()
	}

	if req.Content == nil {
		return nil, &microcms.ValidationError{Field: "content", Err: microcms.ErrContentRequired}
	}

	method := "POST"
	if req.ContentID != "" {
		method = "PUT"
	}

	var query *microcms.Queries
	if req.IsDraft {
		query = microcms.NewQueries().Set(microcms.QueryStatus, constants.DraftStatus)
	}

	resp, err := c.httpClient.Do(ctx, &http.Request{
		Method: method,
		Path:   contentPath(req.Endpoint, req.ContentID),
		Query:  query,
		Body:   req.Content,
	})
	if err != nil {
		return nil, fmt.Errorf("creating content: %w", err)
	}

	return parseWriteResponse(resp)
}

// Update implements microcms.Client.Update.
func (c *Client) Update(ctx context.Context, req *microcms.UpdateRequest) (*microcms.WriteResponse, error) {
	if req == nil || req.Endpoint == "" {
		return nil, endpointRequired()
	}

	if req.Content == nil {
		return nil, &microcms.ValidationError{Field: "content", Err: microcms.ErrContentRequired}
	}

	resp, err := c.httpClient.Patch(ctx, contentPath(req.Endpoint, req.ContentID), req.Content)
	if err != nil {
		return nil, fmt.Errorf("updating content: %w", err)
	}

	return parseWriteResponse(resp)
}

// Delete implements microcms.Client.Delete.
func (c *Client) Delete(ctx context.Context, req *microcms.DeleteRequest) error {
	if req == nil || req.Endpoint == "" {
		return endpointRequired()
	}

	if req.ContentID == "" {
		return &microcms.ValidationError{Field: "contentId", Err: microcms.ErrContentIDRequired}
	}

	_, err := c.httpClient.Delete(ctx, contentPath(req.Endpoint, req.ContentID))
	if err != nil {
		return fmt.Errorf("deleting content: %w", err)
	}

	return nil
}

func (c *Client) read(ctx context.Context, action, path string, query *microcms.Queries, out interface{}) error {
	resp, err := c.httpClient.Get(ctx, path, query)
	if err != nil {
		return fmt.Errorf("%s: %w", action, err)
	}

	if out == nil || len(resp.Body) == 0 {
		return nil
	}

	err = json.Unmarshal(resp.Body, out)
	if err != nil {
		return fmt.Errorf("parsing %s response: %w", path, err)
	}

	return nil
}

func parseWriteResponse(resp *http.Response) (*microcms.WriteResponse, error) {
	var written microcms.WriteResponse

	if len(resp.Body) == 0 {
		return &written, nil
	}

	err := json.Unmarshal(resp.Body, &written)
	if err != nil {
		return nil, fmt.Errorf("parsing write response: %w", err)
	}

	return &written, nil
}

func contentPath(endpoint, contentID string) string {
	if contentID == "" {
		return endpoint
	}

	return endpoint + "/" + url.PathEscape(contentID)
}

func endpointRequired() error {
	return &microcms.ValidationError{Field: "endpoint", Err: microcms.ErrEndpointRequired}
}
