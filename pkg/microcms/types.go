package microcms

import (
	"time"
)

// ListContent holds the system fields every list API content carries.
// Embed it in the caller's content type:
//
//	type Blog struct {
//		microcms.ListContent
//		Title string `json:"title"`
//	}
type ListContent struct {
	ID          string     `json:"id"                    yaml:"id"`
	CreatedAt   time.Time  `json:"createdAt"             yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"             yaml:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	RevisedAt   *time.Time `json:"revisedAt,omitempty"   yaml:"revisedAt,omitempty"`
}

// ObjectContent holds the system fields of an object API content.
type ObjectContent struct {
	CreatedAt   time.Time  `json:"createdAt"             yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"             yaml:"updatedAt"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" yaml:"publishedAt,omitempty"`
	RevisedAt   *time.Time `json:"revisedAt,omitempty"   yaml:"revisedAt,omitempty"`
}

// ListResponse is the paginated envelope returned by list endpoints.
type ListResponse[T any] struct {
	Contents   []T `json:"contents"   yaml:"contents"`
	TotalCount int `json:"totalCount" yaml:"totalCount"`
	Offset     int `json:"offset"     yaml:"offset"`
	Limit      int `json:"limit"      yaml:"limit"`
}

// HasMore reports whether contents exist past this page.
func (r *ListResponse[T]) HasMore() bool {
	return r.Offset+len(r.Contents) < r.TotalCount
}

// WriteResponse is returned by create and update calls.
type WriteResponse struct {
	ID string `json:"id" yaml:"id"`
}

// Content is a loosely typed content body, used when the caller has no
// declared shape for an endpoint.
type Content = map[string]interface{}

// RichEditorFormat selects how rich editor fields are rendered.
type RichEditorFormat string

const (
	// RichEditorFormatHTML renders rich editor fields as HTML strings.
	RichEditorFormatHTML RichEditorFormat = "html"

	// RichEditorFormatObject renders rich editor fields as structured objects.
	RichEditorFormatObject RichEditorFormat = "object"
)
