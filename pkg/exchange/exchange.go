// Package exchange defines read-only views of one HTTP exchange: the request
// configuration, the response envelope and the error that replaced either.
// Adapters build the views from net/http values and from YAML fixtures.
package exchange

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"syscall"

	pkgerrors "github.com/pkg/errors"
)

const (
	// CodeTimeout is the error code of timed out exchanges.
	CodeTimeout = "ETIMEDOUT"
	// CodeCanceled is the error code of canceled exchanges.
	CodeCanceled = "ECANCELED"

	contentLengthHeader = "Content-Length"
)

// Request is the request configuration of an exchange.
type Request struct {
	// URL is the request path or an absolute URL.
	URL string
	// BaseURL is prefixed to a relative URL.
	BaseURL string
	// Method is the HTTP method in any case.
	Method string
	// Headers are flat headers plus optional per-method groups.
	Headers *Headers
	// Params are appended to the URL as a query string.
	Params Params
	// Data is the request body: a string, bytes or a JSON-encodable value.
	Data any
}

// Response is the response envelope of an exchange.
type Response struct {
	// Config is the request that produced the response.
	Config *Request
	// Status is the HTTP status code.
	Status int
	// StatusText is the reason phrase.
	StatusText string
	// Headers are the response headers.
	Headers *Headers
	// Data is the response body.
	Data any
}

// Error is a failed exchange.
type Error struct {
	// Code is a symbolic error code such as ECONNREFUSED; empty when unknown.
	Code string
	// Message is the error text.
	Message string
	// Stack is the stack trace captured with the error, if any.
	Stack string
	// Config is the request that failed, if known.
	Config *Request
	// Response is the response received before the failure, if any.
	Response *Response

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// stackTracer is implemented by errors created with github.com/pkg/errors.
type stackTracer interface {
	error
	StackTrace() pkgerrors.StackTrace
}

// NewError wraps err with the exchange it belongs to.
// An *Error already present in the chain is reused and completed with req and resp.
func NewError(err error, req *Request, resp *Response) *Error {
	if err == nil {
		return nil
	}

	var existing *Error
	if errors.As(err, &existing) {
		if existing.Config == nil {
			existing.Config = req
		}

		if existing.Response == nil {
			existing.Response = resp
		}

		return existing
	}

	return &Error{
		Code:     ErrorCode(err),
		Message:  err.Error(),
		Stack:    stackOf(err),
		Config:   req,
		Response: resp,
		cause:    err,
	}
}

// AsError finds the first *Error in the chain of err.
func AsError(err error) (*Error, bool) {
	var target *Error
	if errors.As(err, &target) {
		return target, true
	}

	return nil, false
}

// ErrorCode returns the symbolic code of err or an empty string.
func ErrorCode(err error) string {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		if name := errnoName(errno); name != "" {
			return name
		}
	}

	if errors.Is(err, context.Canceled) {
		return CodeCanceled
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CodeTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeTimeout
	}

	return ""
}

// ContentLength returns the declared Content-Length of headers, or zero.
// The header name is matched ignoring case.
func ContentLength(headers *Headers) int64 {
	value, ok := headers.Lookup(contentLengthHeader)
	if !ok {
		return 0
	}

	var raw string

	switch v := value.(type) {
	case string:
		raw = v
	case int:
		return int64(v)
	case int64:
		return v
	default:
		raw = fmt.Sprint(v)
	}

	length, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || length < 0 {
		return 0
	}

	return length
}

func stackOf(err error) string {
	for current := err; current != nil; current = errors.Unwrap(current) {
		if tracer, ok := current.(stackTracer); ok {
			return fmt.Sprintf("%+v", tracer)
		}
	}

	return ""
}
