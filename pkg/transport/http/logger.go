package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	pkgerrors "github.com/pkg/errors"

	"github.com/oshokin/exchange-logger/internal/logger"
	"github.com/oshokin/exchange-logger/pkg/exchange"
	"github.com/oshokin/exchange-logger/pkg/exchangelog"
)

// LogTransport is a custom http.RoundTripper that prints requests, responses and failures.
// It wraps another http.RoundTripper and hands every exchange to an exchangelog.Logger.
type LogTransport struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// exchanges renders and writes the exchange blocks.
	exchanges *exchangelog.Logger
}

// Static error definitions for better error handling.
var (
	// ErrNilRequest indicates that the HTTP request is nil.
	ErrNilRequest = errors.New("request is nil")

	// ErrUnsuccessfulStatus indicates a response with a 4xx or 5xx status code.
	ErrUnsuccessfulStatus = errors.New("request failed with status code")
)

// NewLogTransport creates and returns a new instance of LogTransport.
// A nil next uses http.DefaultTransport, a nil exchanges uses exchangelog.Default.
func NewLogTransport(next http.RoundTripper, exchanges *exchangelog.Logger) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	if exchanges == nil {
		exchanges = exchangelog.Default()
	}

	return &LogTransport{
		next:      next,
		exchanges: exchanges,
	}
}

// RoundTrip executes a single HTTP transaction and prints the request and its outcome.
// Responses with a status code of 400 or above are printed as response errors.
// It implements the http.RoundTripper interface.
func (t *LogTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	ctx := req.Context()

	requestView, err := exchange.FromHTTPRequest(req)
	if err != nil {
		return nil, fmt.Errorf("failed to capture request: %w", err)
	}

	t.exchanges.LogRequest(requestView)

	// Record the start time to measure the duration of the request.
	startTime := time.Now()

	resp, err := t.next.RoundTrip(req)

	duration := time.Since(startTime)

	if err != nil {
		failure := exchange.NewError(pkgerrors.WithStack(err), requestView, nil)
		t.exchanges.LogErrorDetails(failure)

		logger.Debugf(ctx, "Request failed: %s %s in %s", req.Method, req.URL.String(), duration)

		return nil, failure
	}

	responseView, err := exchange.FromHTTPResponse(resp, requestView)
	if err != nil {
		resp.Body.Close() //nolint:errcheck,gosec // The read error is the one worth reporting.

		return nil, fmt.Errorf("failed to capture response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		t.exchanges.LogErrorDetails(exchange.NewError(
			pkgerrors.WithStack(fmt.Errorf("%w %d", ErrUnsuccessfulStatus, resp.StatusCode)),
			requestView,
			responseView,
		))
	} else {
		t.exchanges.LogResponse(responseView)
	}

	logger.Debugf(ctx, "%s %s [%d] %s", req.Method, req.URL.Path, resp.StatusCode, duration)

	return resp, nil
}
