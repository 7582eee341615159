package microcms

import (
	"context"
	"errors"
	"fmt"

	"github.com/fivetwenty-io/microcms-go/internal/constants"
	"golang.org/x/sync/errgroup"
)

// ErrFieldNotString is returned when the ID field of a content is not a string.
var ErrFieldNotString = errors.New("field value is not a string")

// GetAllContentIDsRequest selects the list endpoint to collect IDs from.
type GetAllContentIDsRequest struct {
	Endpoint string
	// AlternateField collects a different string field instead of "id".
	AlternateField string
	DraftKey       string
	Filters        string
	Orders         string
}

// GetAllContentsRequest selects the list endpoint to read completely.
// Limit and Offset of Queries are ignored.
type GetAllContentsRequest struct {
	Endpoint string
	Queries  *Queries
	// Concurrency bounds parallel page reads. Defaults to 5.
	Concurrency int
}

// GetAllContentIDs pages through a list endpoint and returns the ID (or
// AlternateField) of every content, in API order.
func GetAllContentIDs(ctx context.Context, client ContentClient, req *GetAllContentIDsRequest) ([]string, error) {
	if client == nil {
		return nil, ErrClientRequired
	}

	if req == nil || req.Endpoint == "" {
		return nil, &ValidationError{Field: "endpoint", Err: ErrEndpointRequired}
	}

	field := req.AlternateField
	if field == "" {
		field = constants.DefaultIDField
	}

	queries := NewQueries().
		WithDraftKey(req.DraftKey).
		WithFilters(req.Filters).
		WithOrders(req.Orders).
		WithFields(field).
		WithLimit(constants.MaxPageSize)

	var ids []string

	for {
		var page ListResponse[Content]

		err := client.GetList(ctx, &GetListRequest{Endpoint: req.Endpoint, Queries: queries}, &page)
		if err != nil {
			return nil, fmt.Errorf("listing %s at offset %d: %w", req.Endpoint, queries.Offset, err)
		}

		for _, content := range page.Contents {
			id, ok := content[field].(string)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrFieldNotString, field)
			}

			ids = append(ids, id)
		}

		queries.Offset += constants.MaxPageSize

		if len(page.Contents) == 0 || queries.Offset >= page.TotalCount {
			return ids, nil
		}
	}
}

// GetAllContents reads every content of a list endpoint. The first page is
// read alone to learn the total; the remaining pages are read concurrently
// and returned in offset order.
func GetAllContents[T any](ctx context.Context, client ContentClient, req *GetAllContentsRequest) ([]T, error) {
	if client == nil {
		return nil, ErrClientRequired
	}

	if req == nil || req.Endpoint == "" {
		return nil, &ValidationError{Field: "endpoint", Err: ErrEndpointRequired}
	}

	concurrency := req.Concurrency
	if concurrency <= 0 {
		concurrency = constants.DefaultPageFetchConcurrency
	}

	fetchPage := func(ctx context.Context, offset int) (*ListResponse[T], error) {
		queries := req.Queries.Clone().WithLimit(constants.MaxPageSize).WithOffset(offset)

		page, err := GetList[T](ctx, client, &GetListRequest{Endpoint: req.Endpoint, Queries: queries})
		if err != nil {
			return nil, fmt.Errorf("listing %s at offset %d: %w", req.Endpoint, offset, err)
		}

		return page, nil
	}

	first, err := fetchPage(ctx, 0)
	if err != nil {
		return nil, err
	}

	if first.TotalCount <= len(first.Contents) {
		return first.Contents, nil
	}

	remaining := (first.TotalCount - 1) / constants.MaxPageSize
	pages := make([][]T, remaining)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i := range remaining {
		offset := (i + 1) * constants.MaxPageSize

		group.Go(func() error {
			page, err := fetchPage(groupCtx, offset)
			if err != nil {
				return err
			}

			pages[i] = page.Contents

			return nil
		})
	}

	err = group.Wait()
	if err != nil {
		return nil, fmt.Errorf("reading all contents: %w", err)
	}

	all := make([]T, 0, first.TotalCount)
	all = append(all, first.Contents...)

	for _, page := range pages {
		all = append(all, page...)
	}

	return all, nil
}
