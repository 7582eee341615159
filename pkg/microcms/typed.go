package microcms

import (
	"context"
)

// Get reads a single content and decodes it as T.
func Get[T any](ctx context.Context, client ContentClient, req *GetRequest) (*T, error) {
	var content T

	err := client.Get(ctx, req, &content)
	if err != nil {
		return nil, err
	}

	return &content, nil
}

// GetList reads a page of a list endpoint with contents decoded as T.
func GetList[T any](ctx context.Context, client ContentClient, req *GetListRequest) (*ListResponse[T], error) {
	var list ListResponse[T]

	err := client.GetList(ctx, req, &list)
	if err != nil {
		return nil, err
	}

	return &list, nil
}

// GetListDetail reads one content of a list endpoint and decodes it as T.
func GetListDetail[T any](ctx context.Context, client ContentClient, req *GetListDetailRequest) (*T, error) {
	var content T

	err := client.GetListDetail(ctx, req, &content)
	if err != nil {
		return nil, err
	}

	return &content, nil
}

// GetObject reads an object endpoint and decodes it as T.
func GetObject[T any](ctx context.Context, client ContentClient, req *GetObjectRequest) (*T, error) {
	var content T

	err := client.GetObject(ctx, req, &content)
	if err != nil {
		return nil, err
	}

	return &content, nil
}
