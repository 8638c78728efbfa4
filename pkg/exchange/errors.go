package exchange

import "errors"

// Static error definitions for better error handling.
var (
	// ErrNilHTTPRequest indicates that the HTTP request or its URL is nil.
	ErrNilHTTPRequest = errors.New("HTTP request is nil")

	// ErrNilHTTPResponse indicates that the HTTP response is nil.
	ErrNilHTTPResponse = errors.New("HTTP response is nil")

	// ErrEmptyFixture indicates that a fixture has no request, response or error.
	ErrEmptyFixture = errors.New("fixture has no request, response or error")

	// ErrUnexpectedNode indicates a YAML node that cannot hold the decoded value.
	ErrUnexpectedNode = errors.New("unexpected YAML node")
)
