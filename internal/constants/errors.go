package constants

import "errors"

// Configuration errors.
var (
	ErrNoServiceDomain  = errors.New("no service domain configured, use 'microcms config init' or --service-domain")
	ErrNoAPIKey         = errors.New("no API key configured, use 'microcms config init' or --api-key")
	ErrUnknownConfigKey = errors.New("unknown configuration key")
)

// Input errors.
var (
	ErrContentRequired     = errors.New("content is required (use --data or --file)")
	ErrContentConflict     = errors.New("--data and --file are mutually exclusive")
	ErrInvalidOutputFormat = errors.New("invalid output format (expected table, json or yaml)")
	ErrInvalidContent      = errors.New("content must be a JSON or YAML object")
)
