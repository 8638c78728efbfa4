package exchange

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/oshokin/exchange-logger/internal/utils"
)

// FromHTTPRequest builds a Request view of req.
// The body is read and restored, so req can still be sent afterwards.
// Bodies with a non-text content type are left out.
func FromHTTPRequest(req *http.Request) (*Request, error) {
	if req == nil || req.URL == nil {
		return nil, ErrNilHTTPRequest
	}

	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	view := &Request{
		URL:     req.URL.String(),
		Method:  method,
		Headers: HeadersFromHTTP(req.Header),
	}

	if req.URL.Scheme != "" && req.URL.Host != "" {
		view.BaseURL = req.URL.Scheme + "://" + req.URL.Host
	}

	if req.ContentLength > 0 {
		setContentLength(view.Headers, req.ContentLength)
	}

	data, err := readRequestBody(req)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 && isTextBody(req.Header) {
		view.Data = string(data)
	}

	return view, nil
}

// FromHTTPResponse builds a Response view of resp produced by config.
// A text body is read and restored; other bodies are left out.
func FromHTTPResponse(resp *http.Response, config *Request) (*Response, error) {
	if resp == nil {
		return nil, ErrNilHTTPResponse
	}

	view := &Response{
		Config:     config,
		Status:     resp.StatusCode,
		StatusText: statusText(resp),
		Headers:    HeadersFromHTTP(resp.Header),
	}

	if resp.ContentLength > 0 {
		setContentLength(view.Headers, resp.ContentLength)
	}

	if resp.Body == nil || resp.Body == http.NoBody || !isTextBody(resp.Header) {
		return view, nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err = resp.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close response body: %w", err)
	}

	resp.Body = io.NopCloser(bytes.NewReader(data))

	if len(data) > 0 {
		view.Data = string(data)
	}

	return view, nil
}

// HeadersFromHTTP converts header to an ordered collection sorted by name.
// Repeated values are joined with ", ".
func HeadersFromHTTP(header http.Header) *Headers {
	headers := NewHeaders()

	keys := make([]string, 0, len(header))
	for key := range header {
		keys = append(keys, key)
	}

	slices.Sort(keys)

	for _, key := range keys {
		headers.Set(key, strings.Join(header[key], ", "))
	}

	return headers
}

func readRequestBody(req *http.Request) ([]byte, error) {
	if req.Body == nil || req.Body == http.NoBody {
		return nil, nil
	}

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return nil, fmt.Errorf("failed to copy request body: %w", err)
		}

		defer body.Close() //nolint:errcheck // Copy of the body, nothing to report.

		data, err := io.ReadAll(body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}

		return data, nil
	}

	data, err := io.ReadAll(req.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}

	if err = req.Body.Close(); err != nil {
		return nil, fmt.Errorf("failed to close request body: %w", err)
	}

	req.Body = io.NopCloser(bytes.NewReader(data))
	req.GetBody = func() (io.ReadCloser, error) {
		return io.NopCloser(bytes.NewReader(data)), nil
	}

	return data, nil
}

func isTextBody(header http.Header) bool {
	contentType := header.Get("Content-Type")

	return contentType == "" || utils.IsTextContentType(contentType)
}

func setContentLength(headers *Headers, length int64) {
	if _, ok := headers.Lookup(contentLengthHeader); ok {
		return
	}

	headers.Set(contentLengthHeader, strconv.FormatInt(length, 10))
}

func statusText(resp *http.Response) string {
	text := strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode))
	text = strings.TrimSpace(text)

	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}

	return text
}
