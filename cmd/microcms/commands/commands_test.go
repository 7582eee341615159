//nolint:testpackage // Need access to internal types
package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"github.com/fivetwenty-io/microcms-go/pkg/microcms"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient records requests and answers reads with canned bodies.
type fakeClient struct {
	body    interface{}
	pages   []microcms.ListResponse[microcms.Content]
	err     error
	written microcms.WriteResponse

	gets    []*microcms.GetRequest
	lists   []*microcms.GetListRequest
	objects []*microcms.GetObjectRequest
	creates []*microcms.CreateRequest
	updates []*microcms.UpdateRequest
	deletes []*microcms.DeleteRequest
}

var _ microcms.Client = (*fakeClient)(nil)

func (f *fakeClient) BaseURL() string { return "https://example.microcms.io/api/v1" }

func (f *fakeClient) decode(out interface{}, value interface{}) error {
	if f.err != nil {
		return f.err
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	return json.Unmarshal(data, out)
}

func (f *fakeClient) Get(_ context.Context, req *microcms.GetRequest, out interface{}) error {
	f.gets = append(f.gets, req)

	return f.decode(out, f.body)
}

func (f *fakeClient) GetList(_ context.Context, req *microcms.GetListRequest, out interface{}) error {
	f.lists = append(f.lists, req)

	index := req.Queries.Offset / constants.MaxPageSize
	if index >= len(f.pages) {
		return f.decode(out, microcms.ListResponse[microcms.Content]{})
	}

	return f.decode(out, f.pages[index])
}

func (f *fakeClient) GetListDetail(_ context.Context, req *microcms.GetListDetailRequest, out interface{}) error {
	return f.decode(out, f.body)
}

func (f *fakeClient) GetObject(_ context.Context, req *microcms.GetObjectRequest, out interface{}) error {
	f.objects = append(f.objects, req)

	return f.decode(out, f.body)
}

func (f *fakeClient) Create(_ context.Context, req *microcms.CreateRequest) (*microcms.WriteResponse, error) {
	f.creates = append(f.creates, req)

	return &f.written, f.err
}

func (f *fakeClient) Update(_ context.Context, req *microcms.UpdateRequest) (*microcms.WriteResponse, error) {
	f.updates = append(f.updates, req)

	return &f.written, f.err
}

func (f *fakeClient) Delete(_ context.Context, req *microcms.DeleteRequest) error {
	f.deletes = append(f.deletes, req)

	return f.err
}

// useFakeClient swaps the client factory and output format for one test.
func useFakeClient(t *testing.T, fake *fakeClient, output string) {
	t.Helper()

	previous := clientFactory
	clientFactory = func(io.Writer) (microcms.Client, error) { return fake, nil }

	viper.Set(keyOutput, output)

	t.Cleanup(func() {
		clientFactory = previous

		viper.Reset()
	})
}

func run(t *testing.T, cmd *cobra.Command, stdin string, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := NewRootCommand("1.0.0", "abc123", "2026-01-01")
	assert.Equal(t, "microcms", cmd.Use)
	assert.True(t, cmd.SilenceUsage)

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}

	for _, name := range []string{"version", "config", "get", "list", "object", "create", "update", "delete", "ids"} {
		assert.Contains(t, names, name)
	}

	for _, flag := range []string{"config", "service-domain", "api-key", "output", "retry", "retry-max", "rate-limit", "log-level", "verbose"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(flag), "Flag %s should exist", flag)
	}
}

func TestContentCommands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cmd   *cobra.Command
		use   string
		flags []string
	}{
		{"get", NewGetCommand(), "get ENDPOINT [CONTENT_ID]", []string{"draft-key", "fields", "depth", "rich-editor-format", "query"}},
		{"object", NewObjectCommand(), "object ENDPOINT", []string{"draft-key", "fields", "depth"}},
		{"list", NewListCommand(), "list ENDPOINT", []string{"limit", "offset", "orders", "q", "ids", "filters", "all", "concurrency"}},
		{"ids", NewIDsCommand(), "ids ENDPOINT", []string{"field", "filters", "orders", "draft-key"}},
		{"create", NewCreateCommand(), "create ENDPOINT", []string{"id", "draft", "data", "file"}},
		{"update", NewUpdateCommand(), "update ENDPOINT [CONTENT_ID]", []string{"data", "file"}},
		{"delete", NewDeleteCommand(), "delete ENDPOINT CONTENT_ID", []string{"force"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short)
			assert.NotNil(t, tt.cmd.RunE)
			assert.NotNil(t, tt.cmd.Args)

			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "Flag %s should exist", flag)
			}
		})
	}
}

func TestQueryFlags_Build(t *testing.T) {
	t.Parallel()

	flags := queryFlags{
		raw:     "limit=5&orders=createdAt&custom=x",
		orders:  "-publishedAt",
		fields:  []string{"id", "title"},
		depth:   2,
		filters: "title[contains]go",
	}

	queries, err := flags.build()
	require.NoError(t, err)

	assert.Equal(t, 5, queries.Limit)
	assert.Equal(t, "-publishedAt", queries.Orders)
	assert.Equal(t, []string{"id", "title"}, queries.Fields)
	assert.Equal(t, 2, queries.Depth)
	assert.Equal(t, "title[contains]go", queries.Filters)

	custom, ok := queries.Get("custom")
	assert.True(t, ok)
	assert.Equal(t, "x", custom)

	_, err = (&queryFlags{raw: "limit=abc"}).build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid --query")
}

//nolint:paralleltest // mutates package state
func TestGetCommand_Execute(t *testing.T) {
	fake := &fakeClient{body: map[string]interface{}{"id": "post-1", "title": "Hello"}}
	useFakeClient(t, fake, constants.FormatJSON)

	out, err := run(t, NewGetCommand(), "", "blogs", "post-1", "--fields", "id,title", "--draft-key", "dk")
	require.NoError(t, err)

	require.Len(t, fake.gets, 1)
	assert.Equal(t, "blogs", fake.gets[0].Endpoint)
	assert.Equal(t, "post-1", fake.gets[0].ContentID)
	assert.Equal(t, "dk", fake.gets[0].Queries.DraftKey)

	var content map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &content))
	assert.Equal(t, "Hello", content["title"])
}

//nolint:paralleltest // mutates package state
func TestGetCommand_Table(t *testing.T) {
	fake := &fakeClient{body: map[string]interface{}{"id": "post-1", "title": "Hello"}}
	useFakeClient(t, fake, constants.FormatTable)

	out, err := run(t, NewGetCommand(), "", "blogs", "post-1")
	require.NoError(t, err)
	assert.Contains(t, out, "post-1")
	assert.Contains(t, out, "Hello")
}

//nolint:paralleltest // mutates package state
func TestObjectCommand_Execute(t *testing.T) {
	fake := &fakeClient{body: map[string]interface{}{"siteName": "Example"}}
	useFakeClient(t, fake, constants.FormatYAML)

	out, err := run(t, NewObjectCommand(), "", "settings")
	require.NoError(t, err)

	require.Len(t, fake.objects, 1)
	assert.Equal(t, "settings", fake.objects[0].Endpoint)
	assert.Contains(t, out, "siteName: Example")
}

//nolint:paralleltest // mutates package state
func TestListCommand_Execute(t *testing.T) {
	page := func(offset, total int, ids ...string) microcms.ListResponse[microcms.Content] {
		contents := make([]microcms.Content, 0, len(ids))
		for _, id := range ids {
			contents = append(contents, microcms.Content{"id": id, "title": "title " + id})
		}

		return microcms.ListResponse[microcms.Content]{Contents: contents, TotalCount: total, Offset: offset, Limit: len(ids)}
	}

	t.Run("single page", func(t *testing.T) {
		fake := &fakeClient{pages: []microcms.ListResponse[microcms.Content]{page(0, 2, "a", "b")}}
		useFakeClient(t, fake, constants.FormatTable)

		out, err := run(t, NewListCommand(), "", "blogs", "--limit", "2", "--fields", "id,title")
		require.NoError(t, err)

		require.Len(t, fake.lists, 1)
		assert.Equal(t, 2, fake.lists[0].Queries.Limit)
		assert.Contains(t, out, "title a")
		assert.Contains(t, out, "Showing 1-2 of 2")
	})

	t.Run("all pages", func(t *testing.T) {
		first := make([]string, constants.MaxPageSize)
		for i := range first {
			first[i] = "first"
		}

		fake := &fakeClient{pages: []microcms.ListResponse[microcms.Content]{
			page(0, constants.MaxPageSize+1, first...),
			page(constants.MaxPageSize, constants.MaxPageSize+1, "last"),
		}}
		useFakeClient(t, fake, constants.FormatJSON)

		out, err := run(t, NewListCommand(), "", "blogs", "--all", "--concurrency", "1")
		require.NoError(t, err)

		assert.Len(t, fake.lists, 2)

		var contents []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &contents))
		require.Len(t, contents, constants.MaxPageSize+1)
		assert.Equal(t, "last", contents[constants.MaxPageSize]["id"])
	})
}

//nolint:paralleltest // mutates package state
func TestIDsCommand_Execute(t *testing.T) {
	fake := &fakeClient{pages: []microcms.ListResponse[microcms.Content]{{
		Contents:   []microcms.Content{{"id": "a"}, {"id": "b"}},
		TotalCount: 2,
	}}}
	useFakeClient(t, fake, constants.FormatTable)

	out, err := run(t, NewIDsCommand(), "", "blogs", "--filters", "category[equals]go")
	require.NoError(t, err)

	assert.Equal(t, "a\nb\n", out)
	require.Len(t, fake.lists, 1)
	assert.Equal(t, "category[equals]go", fake.lists[0].Queries.Filters)
	assert.Equal(t, []string{"id"}, fake.lists[0].Queries.Fields)
}

//nolint:paralleltest // mutates package state
func TestCreateCommand_Execute(t *testing.T) {
	fake := &fakeClient{written: microcms.WriteResponse{ID: "new-id"}}
	useFakeClient(t, fake, constants.FormatJSON)

	out, err := run(t, NewCreateCommand(), "", "blogs", "--data", `{"title":"Hello"}`, "--id", "custom", "--draft")
	require.NoError(t, err)

	require.Len(t, fake.creates, 1)
	assert.Equal(t, "custom", fake.creates[0].ContentID)
	assert.True(t, fake.creates[0].IsDraft)
	assert.Equal(t, microcms.Content{"title": "Hello"}, fake.creates[0].Content)
	assert.Contains(t, out, `"id": "new-id"`)
}

//nolint:paralleltest // mutates package state
func TestCreateCommand_RequiresContent(t *testing.T) {
	fake := &fakeClient{}
	useFakeClient(t, fake, constants.FormatJSON)

	_, err := run(t, NewCreateCommand(), "", "blogs")
	require.ErrorIs(t, err, constants.ErrContentRequired)
	assert.Empty(t, fake.creates)
}

//nolint:paralleltest // mutates package state
func TestUpdateCommand_Execute(t *testing.T) {
	fake := &fakeClient{written: microcms.WriteResponse{ID: "post-1"}}
	useFakeClient(t, fake, constants.FormatTable)

	out, err := run(t, NewUpdateCommand(), "title: Updated\n", "blogs", "post-1", "--file", "-")
	require.NoError(t, err)

	require.Len(t, fake.updates, 1)
	assert.Equal(t, "post-1", fake.updates[0].ContentID)
	assert.Equal(t, microcms.Content{"title": "Updated"}, fake.updates[0].Content)
	assert.Contains(t, out, "Updated")
}

//nolint:paralleltest // mutates package state
func TestDeleteCommand_Execute(t *testing.T) {
	tests := []struct {
		name    string
		stdin   string
		args    []string
		deleted bool
		output  string
	}{
		{"force", "", []string{"blogs", "post-1", "--force"}, true, "Deleted blogs/post-1"},
		{"confirmed", "y\n", []string{"blogs", "post-1"}, true, "Deleted blogs/post-1"},
		{"declined", "n\n", []string{"blogs", "post-1"}, false, "Cancelled"},
		{"no input", "", []string{"blogs", "post-1"}, false, "Cancelled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeClient{}
			useFakeClient(t, fake, constants.FormatTable)

			out, err := run(t, NewDeleteCommand(), tt.stdin, tt.args...)
			require.NoError(t, err)

			assert.Contains(t, out, tt.output)

			if tt.deleted {
				require.Len(t, fake.deletes, 1)
				assert.Equal(t, "post-1", fake.deletes[0].ContentID)
			} else {
				assert.Empty(t, fake.deletes)
			}
		})
	}
}

//nolint:paralleltest // mutates package state
func TestCommand_PropagatesClientError(t *testing.T) {
	httpErr := &microcms.HTTPError{Method: "GET", URL: "https://example.microcms.io/api/v1/blogs/x", StatusCode: 404, Message: "Content not found"}
	fake := &fakeClient{err: httpErr}
	useFakeClient(t, fake, constants.FormatJSON)

	_, err := run(t, NewGetCommand(), "", "blogs", "x")

	var target *microcms.HTTPError
	require.ErrorAs(t, err, &target)
	assert.Equal(t, 404, target.StatusCode)
}

//nolint:paralleltest // mutates package state
func TestVersionCommand(t *testing.T) {
	viper.Set(keyOutput, constants.FormatJSON)
	t.Cleanup(viper.Reset)

	out, err := run(t, NewVersionCommand("1.0.0", "abc123", "2026-01-01"), "")
	require.NoError(t, err)

	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, VersionInfo{Version: "1.0.0", Commit: "abc123", Built: "2026-01-01"}, info)
}

// hostRewriter sends every request to target regardless of the URL host.
type hostRewriter struct {
	target *url.URL
}

func (h hostRewriter) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.URL.Scheme = h.target.Scheme
	req.URL.Host = h.target.Host

	return http.DefaultTransport.RoundTrip(req)
}

//nolint:paralleltest // mutates package state
func TestRootCommand_VerboseLogsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, "/api/v1/blogs/post-1", request.URL.Path)
		assert.Equal(t, "secret", request.Header.Get("X-MICROCMS-API-KEY"))

		writer.Header().Set("Content-Type", "application/json")
		_, _ = writer.Write([]byte(`{"id":"post-1","title":"Hello"}`))
	}))
	defer server.Close()

	target, err := url.Parse(server.URL)
	require.NoError(t, err)

	t.Setenv("HOME", t.TempDir())

	previous := httpClient
	httpClient = &http.Client{Transport: hostRewriter{target: target}}

	t.Cleanup(func() { httpClient = previous })

	tests := []struct {
		name    string
		verbose bool
	}{
		{"verbose", true},
		{"quiet", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)

			args := []string{"get", "blogs", "post-1", "-s", "example", "-k", "secret", "-o", "json"}
			if tt.verbose {
				args = append(args, "-v")
			}

			var stdout, stderr bytes.Buffer

			cmd := NewRootCommand("1.0.0", "abc123", "2026-01-01")
			cmd.SetOut(&stdout)
			cmd.SetErr(&stderr)
			cmd.SetArgs(args)

			require.NoError(t, cmd.Execute())
			assert.Contains(t, stdout.String(), `"title": "Hello"`)

			if tt.verbose {
				assert.Contains(t, stderr.String(), "HTTP Request")
				assert.Contains(t, stderr.String(), "HTTP Response")
			} else {
				assert.NotContains(t, stderr.String(), "HTTP Request")
			}
		})
	}
}
