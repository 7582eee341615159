package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	internalhttp "github.com/fivetwenty-io/microcms-go/internal/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewTestClient creates a new test client against the given server URL.
func NewTestClient(baseURL string, opts ...internalhttp.Option) *Client {
	return NewWithHTTPClient(internalhttp.NewClient(baseURL, "test-key", opts...))
}

// rewriteTransport sends every request to target while keeping the path and
// query, so clients built from a service domain can talk to httptest servers.
type rewriteTransport struct {
	target *url.URL
	hosts  []string
}

func (r *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r.hosts = append(r.hosts, req.URL.Host)

	rewritten := req.Clone(req.Context())
	rewritten.URL.Scheme = r.target.Scheme
	rewritten.URL.Host = r.target.Host
	rewritten.Host = r.target.Host

	return http.DefaultTransport.RoundTrip(rewritten)
}

func newRewriteTransport(t *testing.T, serverURL string) *rewriteTransport {
	t.Helper()

	target, err := url.Parse(serverURL)
	require.NoError(t, err)

	return &rewriteTransport{target: target}
}

// TestReadOperation represents a read operation test case.
type TestReadOperation struct {
	Name          string
	ExpectedPath  string
	ExpectedQuery string
	StatusCode    int
	Response      interface{}
	WantErr       bool
	ErrMessage    string
}

// RunReadTests runs a series of read operation tests. Every case must reach
// the server exactly once.
func RunReadTests(
	t *testing.T,
	tests []TestReadOperation,
	readFunc func(context.Context, *Client) (interface{}, error),
) {
	t.Helper()

	for _, testCase := range tests {
		t.Run(testCase.Name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32

			server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
				calls.Add(1)
				assert.Equal(t, testCase.ExpectedPath, request.URL.Path)
				assert.Equal(t, testCase.ExpectedQuery, request.URL.RawQuery)
				assert.Equal(t, "GET", request.Method)
				assert.Equal(t, "test-key", request.Header.Get("X-MICROCMS-API-KEY"))

				writer.Header().Set("Content-Type", "application/json")
				writer.WriteHeader(testCase.StatusCode)

				if testCase.Response != nil {
					_ = json.NewEncoder(writer).Encode(testCase.Response)
				}
			}))
			defer server.Close()

			client := NewTestClient(server.URL)
			result, err := readFunc(context.Background(), client)

			if testCase.WantErr {
				require.Error(t, err)

				if testCase.ErrMessage != "" {
					assert.Contains(t, err.Error(), testCase.ErrMessage)
				}
			} else {
				require.NoError(t, err)
				require.NotNil(t, result)
			}

			assert.Equal(t, int32(1), calls.Load())
		})
	}
}
