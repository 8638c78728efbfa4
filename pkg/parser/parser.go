// Package parser composes the printed text blocks of requests, responses and
// errors out of the format primitives.
//
// A Parser holds resolved settings only; it has no mutable state and is safe
// to share between goroutines.
package parser

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/oshokin/exchange-logger/pkg/exchange"
	"github.com/oshokin/exchange-logger/pkg/format"
	"github.com/oshokin/exchange-logger/pkg/jsonvalue"
	"github.com/oshokin/exchange-logger/pkg/settings"
)

// ErrorSource names the side of the exchange an error came from.
type ErrorSource string

const (
	// SourceRequest marks errors raised before a response was received.
	SourceRequest ErrorSource = "Request"
	// SourceResponse marks errors raised while handling a response.
	SourceResponse ErrorSource = "Response"
)

const (
	// contentfulRouteHeader is prefixed with the base URL when both are known.
	contentfulRouteHeader = "x-contentful-route"

	commonHeaderGroup = "common"
)

// groupHeaderKeys are per-method default groups; they never print as entries.
//
//nolint:gochecknoglobals // Immutable lookup table.
var groupHeaderKeys = map[string]struct{}{
	"get":             {},
	"delete":          {},
	"post":            {},
	"patch":           {},
	"put":             {},
	"head":            {},
	"options":         {},
	commonHeaderGroup: {},
}

// Parser renders exchanges as boxed text blocks.
type Parser struct {
	settings  settings.Settings
	formatter *format.Formatter
}

// New creates a Parser from partial settings merged over the defaults.
func New(partial settings.Partial) *Parser {
	return NewWithSettings(settings.Resolve(partial))
}

// NewWithSettings creates a Parser from resolved settings.
func NewWithSettings(s settings.Settings) *Parser {
	return &Parser{
		settings:  s,
		formatter: format.NewFromSettings(s),
	}
}

// Settings returns the resolved settings of p.
func (p *Parser) Settings() settings.Settings {
	return p.settings
}

// ParseURL reconstructs the full URL of req.
//
// An absolute URL is used as is, a relative one is joined to the base URL
// with a single slash. Query parameters are appended URL-encoded; entries
// with a nil value are skipped.
func (p *Parser) ParseURL(req *exchange.Request) string {
	if req == nil || req.URL == "" {
		return ""
	}

	target := req.URL
	if !strings.Contains(target, "://") && req.BaseURL != "" {
		target = strings.TrimRight(req.BaseURL, "/") + "/" + strings.TrimLeft(target, "/")
	}

	query := encodeParams(req.Params)
	if query == "" {
		return target
	}

	if strings.Contains(target, "?") {
		return target + "&" + query
	}

	return target + "?" + query
}

// ParseHeaders renders headers as connector-glyph lines.
//
// The "common" group and the group named after method are merged into the
// flat entries; flat entries win, then the method group, then "common".
// Group keys themselves are never printed. A nil collection renders as an
// empty string.
func (p *Parser) ParseHeaders(headers *exchange.Headers, method, baseURL string) string {
	if headers == nil {
		return ""
	}

	merged := mergeHeaders(headers, method)

	if route, ok := merged.Get(contentfulRouteHeader); ok && baseURL != "" {
		merged.Set(contentfulRouteHeader, baseURL+format.HeaderValue(route))
	}

	entries := merged.Entries()

	if redactor := p.settings.Redactor(); redactor != nil {
		for i, e := range entries {
			if redactor.Matches(e.Key) {
				entries[i].Value = redactor.Replace(e.Value, e.Key)
			} else {
				entries[i].Value = redactor.Value(e.Value)
			}
		}
	}

	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		lines = append(lines, p.formatter.HeaderEntry(e.Key, e.Value, i == 0, i == len(entries)-1))
	}

	return strings.Join(lines, "\n")
}

// ParseRequest renders the request block.
func (p *Parser) ParseRequest(req *exchange.Request) string {
	if req == nil {
		return ""
	}

	options := p.settings.Request

	lines := []string{
		format.NewLine(),
		format.StartingLine("Request"),
		p.formatter.Title("URL") + ": " + p.ParseURL(req),
		p.formatter.Title("Method") + ": @" + strings.ToUpper(req.Method),
	}

	if options.LogHeaders {
		lines = append(lines,
			p.formatter.Title("Headers")+":",
			p.ParseHeaders(req.Headers, req.Method, req.BaseURL),
		)
	}

	if options.LogBody && req.Data != nil {
		lines = append(lines,
			p.formatter.Title("Body")+":",
			p.parseBody(req.Data, req.Headers, options.MaxBodyLength),
		)
	}

	lines = append(lines, format.EndingLine())

	return strings.Join(lines, "\n")
}

// ParseResponse renders the response block.
// A missing body prints as an empty object when body logging is enabled.
func (p *Parser) ParseResponse(resp *exchange.Response) string {
	if resp == nil {
		return ""
	}

	config := resp.Config
	if config == nil {
		config = new(exchange.Request)
	}

	options := p.settings.Response

	lines := []string{
		format.NewLine(),
		format.StartingLine("Response"),
		p.formatter.Title("URL") + ": " + p.ParseURL(config),
		p.formatter.Title("Method") + ": @" + strings.ToUpper(config.Method),
		p.formatter.Title("Status") + ": " + statusLine(resp),
	}

	if options.LogHeaders {
		// The response label has no colon.
		lines = append(lines,
			p.formatter.Title("Headers"),
			p.ParseHeaders(resp.Headers, config.Method, config.BaseURL),
		)
	}

	if options.LogBody {
		body := p.formatter.EmptyBody()
		if resp.Data != nil {
			body = p.parseBody(resp.Data, resp.Headers, options.MaxBodyLength)
		}

		lines = append(lines, p.formatter.Title("Body")+":", body)
	}

	lines = append(lines, format.EndingLine())

	return strings.Join(lines, "\n")
}

// ParseError renders the error block. The code line is left out when the
// error has no code.
func (p *Parser) ParseError(err *exchange.Error, source ErrorSource) string {
	if err == nil {
		return ""
	}

	lines := []string{
		format.NewLine(),
		format.StartingLine(string(source) + " Error"),
	}

	if err.Code != "" {
		lines = append(lines, p.formatter.Title("Code")+": "+err.Code)
	}

	lines = append(lines,
		p.formatter.Title("Message")+": @"+err.Message,
		p.formatter.Title("StackTrace")+": @"+err.Stack,
		format.EndingLine(),
	)

	return strings.Join(lines, "\n")
}

// ParseErrorDetails renders the originating request, the response (if any)
// and the error block, joined by new lines.
func (p *Parser) ParseErrorDetails(err *exchange.Error, source ErrorSource) string {
	if err == nil {
		return ""
	}

	blocks := make([]string, 0, 3)

	for _, block := range []string{
		p.ParseRequest(err.Config),
		p.ParseResponse(err.Response),
		p.ParseError(err, source),
	} {
		if block != "" {
			blocks = append(blocks, block)
		}
	}

	return strings.Join(blocks, "\n")
}

func (p *Parser) parseBody(data any, headers *exchange.Headers, maxLength int64) string {
	length := exchange.ContentLength(headers)
	if length <= 0 {
		length = format.BodyLength(data)
	}

	return p.formatter.PrettyBody(p.prepareBody(data), maxLength, length)
}

// prepareBody redacts data when obfuscation is enabled. Text that was not a
// JSON object stays text, so it keeps its opaque rendering.
func (p *Parser) prepareBody(data any) any {
	redactor := p.settings.Redactor()
	if redactor == nil {
		return data
	}

	redacted := redactor.Body(data)

	var text string

	switch d := data.(type) {
	case string:
		text = d
	case []byte:
		text = string(d)
	default:
		return redacted
	}

	if _, isText := redacted.(string); isText || strings.HasPrefix(text, "{") {
		return redacted
	}

	encoded, err := jsonvalue.Marshal(redacted)
	if err != nil {
		return text
	}

	return string(encoded)
}

func mergeHeaders(headers *exchange.Headers, method string) *exchange.Headers {
	merged := exchange.NewHeaders()

	for _, e := range headers.Entries() {
		if _, isGroup := groupHeaderKeys[e.Key]; isGroup {
			continue
		}

		merged.Set(e.Key, e.Value)
	}

	// Earlier groups win: the method group, then "common".
	var groups []*exchange.Headers
	if lowered := strings.ToLower(method); lowered != commonHeaderGroup {
		groups = append(groups, headers.Group(lowered))
	}

	groups = append(groups, headers.Group(commonHeaderGroup))

	for _, group := range groups {
		for _, e := range group.Entries() {
			if _, exists := merged.Get(e.Key); !exists {
				merged.Set(e.Key, e.Value)
			}
		}
	}

	return merged
}

func statusLine(resp *exchange.Response) string {
	return strconv.Itoa(resp.Status) + "  " + resp.StatusText
}

// encodeParams builds the query string of params.
func encodeParams(params exchange.Params) string {
	pairs := make([]string, 0, len(params))

	for _, param := range params {
		if param.Value == nil {
			continue
		}

		pairs = append(pairs, encodeURIComponent(param.Key)+"="+encodeURIComponent(format.HeaderValue(param.Value)))
	}

	return strings.Join(pairs, "&")
}

// encodeURIComponent escapes s like the ECMAScript function of the same name:
// unreserved marks stay as is and spaces become %20.
func encodeURIComponent(s string) string {
	return uriComponentReplacer.Replace(url.QueryEscape(s))
}

//nolint:gochecknoglobals // Immutable replacer.
var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)
