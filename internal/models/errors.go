package models

import "errors"

// Sentinel errors for entity lookups.
var (
	ErrNetworkNotFound = errors.New("network not found")
	ErrNodeNotFound    = errors.New("node not found")
)

// Sentinel errors for query validation (map to HTTP 400).
var (
	ErrInvalidQuery       = errors.New("invalid query")
	ErrUnknownSeedMethod  = errors.New("unknown seed method")
	ErrUnknownPathsMethod = errors.New("unknown paths method")
	ErrUnsupportedFormat  = errors.New("unsupported export format")
	ErrMissingSource      = errors.New("source is required")
	ErrMissingTarget      = errors.New("target is required")
	ErrNodeNumberTooLarge = errors.New("node_number exceeds the number of nodes in the network")
)
