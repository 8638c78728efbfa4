// Package http provides http.RoundTripper middlewares that print every
// exchange through an exchangelog.Logger and decorate outgoing requests
// with User-Agent and request identifier headers.
package http
