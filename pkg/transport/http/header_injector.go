package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/oshokin/exchange-logger/internal/utils"
)

// HeaderInjector is a custom http.RoundTripper that sets a header on requests missing it.
// The value is computed per request, so providers may return a fresh value every time.
type HeaderInjector struct {
	// next is the underlying HTTP round tripper.
	next http.RoundTripper
	// name is the canonical header name.
	name string
	// value supplies the header value.
	value func() string
}

// NewHeaderInjector creates and returns a new instance of HeaderInjector.
func NewHeaderInjector(next http.RoundTripper, name string, value func() string) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &HeaderInjector{
		next:  next,
		name:  http.CanonicalHeaderKey(name),
		value: value,
	}
}

// NewUserAgentInjector creates an injector that fills the User-Agent header
// from userAgentProvider.
func NewUserAgentInjector(next http.RoundTripper, userAgentProvider utils.UserAgentProvider) http.RoundTripper {
	return NewHeaderInjector(next, userAgentHeader, userAgentProvider.GetUserAgent)
}

// NewRequestIDInjector creates an injector that tags every request with a random
// UUID in the X-Request-Id header.
func NewRequestIDInjector(next http.RoundTripper) http.RoundTripper {
	return NewHeaderInjector(next, RequestIDHeader, uuid.NewString)
}

// RoundTrip executes a single HTTP transaction and injects the header if it is missing.
// The caller's request is cloned before it is changed.
// It implements the http.RoundTripper interface.
func (t *HeaderInjector) RoundTrip(req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, ErrNilRequest
	}

	if req.Header.Get(t.name) == "" {
		req = req.Clone(req.Context())
		if req.Header == nil {
			req.Header = make(http.Header)
		}

		req.Header.Set(t.name, t.value())
	}

	return t.next.RoundTrip(req)
}
