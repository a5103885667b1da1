package model

import "github.com/m-mizutani/goerr/v2"

// Failure taxonomy of the chat pipeline. Every step failure wraps one of
// these sentinels so the HTTP layer can map it to a status code without
// inspecting provider-specific error types.
var (
	// ErrNoMessage is returned when a request carries no message text
	ErrNoMessage = goerr.New("no message provided")

	// ErrPayloadTooLarge is returned when the store rejects a record that is
	// still oversized after truncation and compression
	ErrPayloadTooLarge = goerr.New("message too large to process")

	// ErrUpstreamUnavailable covers transient failures and timeouts of any
	// external capability: embedding, search, generation, persistence
	ErrUpstreamUnavailable = goerr.New("upstream service unavailable")

	// ErrRateLimited is returned when an upstream rejects the call for quota
	ErrRateLimited = goerr.New("upstream rate limit exceeded")

	// ErrContentFiltered is returned when the model refuses to answer
	ErrContentFiltered = goerr.New("response blocked by content filter")

	// ErrCollectionNotFound indicates a misconfigured collection name
	ErrCollectionNotFound = goerr.New("collection not found")

	// ErrConfiguration indicates missing or invalid startup configuration
	ErrConfiguration = goerr.New("invalid configuration")

	// ErrInvalidInput is returned when an upstream rejects the input text
	ErrInvalidInput = goerr.New("input rejected by upstream")

	// ErrCodec is returned when a stored payload cannot be decoded
	ErrCodec = goerr.New("unable to load message")
)
