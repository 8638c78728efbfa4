package exchange

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/oshokin/exchange-logger/pkg/jsonvalue"
)

// Fixture is a recorded exchange loaded from YAML.
// Any of the three parts may be nil, but not all of them.
//
// Example:
//
//	request:
//	  url: entries
//	  base_url: https://cdn.example.com
//	  method: get
//	  headers:
//	    common:
//	      Accept: application/json
//	    Content-Type: application/json
//	  params:
//	    content_type: drinkTag
//	  data:
//	    hello: world
//	response:
//	  status: 200
//	  status_text: OK
//	error:
//	  code: ECONNREFUSED
//	  message: connect ECONNREFUSED 127.0.0.1:80
type Fixture struct {
	Request  *Request
	Response *Response
	Error    *Error
}

type fixtureDocument struct {
	Request  *requestDocument  `yaml:"request"`
	Response *responseDocument `yaml:"response"`
	Error    *errorDocument    `yaml:"error"`
}

type requestDocument struct {
	URL     string    `yaml:"url"`
	BaseURL string    `yaml:"base_url"`
	Method  string    `yaml:"method"`
	Headers yaml.Node `yaml:"headers"`
	Params  yaml.Node `yaml:"params"`
	Data    yaml.Node `yaml:"data"`
}

type responseDocument struct {
	Status     int       `yaml:"status"`
	StatusText string    `yaml:"status_text"`
	Headers    yaml.Node `yaml:"headers"`
	Data       yaml.Node `yaml:"data"`
}

type errorDocument struct {
	Code    string `yaml:"code"`
	Message string `yaml:"message"`
	Stack   string `yaml:"stack"`
}

// DecodeFixture reads one YAML fixture from r.
// Mapping order is kept for headers, params and bodies.
func DecodeFixture(r io.Reader) (*Fixture, error) {
	var doc fixtureDocument
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyFixture
		}

		return nil, fmt.Errorf("failed to decode fixture: %w", err)
	}

	if doc.Request == nil && doc.Response == nil && doc.Error == nil {
		return nil, ErrEmptyFixture
	}

	fixture := new(Fixture)

	if doc.Request != nil {
		req, err := doc.Request.build()
		if err != nil {
			return nil, fmt.Errorf("failed to decode fixture request: %w", err)
		}

		fixture.Request = req
	}

	if doc.Response != nil {
		resp, err := doc.Response.build(fixture.Request)
		if err != nil {
			return nil, fmt.Errorf("failed to decode fixture response: %w", err)
		}

		fixture.Response = resp
	}

	if doc.Error != nil {
		fixture.Error = &Error{
			Code:     doc.Error.Code,
			Message:  doc.Error.Message,
			Stack:    doc.Error.Stack,
			Config:   fixture.Request,
			Response: fixture.Response,
		}
	}

	return fixture, nil
}

func (d *requestDocument) build() (*Request, error) {
	headers, err := headersFromNode(&d.Headers)
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}

	params, err := paramsFromNode(&d.Params)
	if err != nil {
		return nil, fmt.Errorf("params: %w", err)
	}

	data, err := valueFromNode(&d.Data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	return &Request{
		URL:     d.URL,
		BaseURL: d.BaseURL,
		Method:  d.Method,
		Headers: headers,
		Params:  params,
		Data:    data,
	}, nil
}

func (d *responseDocument) build(config *Request) (*Response, error) {
	headers, err := headersFromNode(&d.Headers)
	if err != nil {
		return nil, fmt.Errorf("headers: %w", err)
	}

	data, err := valueFromNode(&d.Data)
	if err != nil {
		return nil, fmt.Errorf("data: %w", err)
	}

	return &Response{
		Config:     config,
		Status:     d.Status,
		StatusText: d.StatusText,
		Headers:    headers,
		Data:       data,
	}, nil
}

func headersFromNode(node *yaml.Node) (*Headers, error) {
	node = resolveNode(node)

	switch {
	case node == nil || node.Kind == 0 || isNull(node):
		return nil, nil
	case node.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: line %d: headers must be a mapping", ErrUnexpectedNode, node.Line)
	}

	headers := NewHeaders()

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i].Value, resolveNode(node.Content[i+1])

		switch value.Kind {
		case yaml.MappingNode:
			group, err := headersFromNode(value)
			if err != nil {
				return nil, err
			}

			headers.Set(key, group)
		case yaml.ScalarNode:
			headers.Set(key, value.Value)
		default:
			decoded, err := valueFromNode(value)
			if err != nil {
				return nil, err
			}

			headers.Set(key, decoded)
		}
	}

	return headers, nil
}

func paramsFromNode(node *yaml.Node) (Params, error) {
	node = resolveNode(node)

	switch {
	case node == nil || node.Kind == 0 || isNull(node):
		return nil, nil
	case node.Kind != yaml.MappingNode:
		return nil, fmt.Errorf("%w: line %d: params must be a mapping", ErrUnexpectedNode, node.Line)
	}

	params := make(Params, 0, len(node.Content)/2)

	for i := 0; i+1 < len(node.Content); i += 2 {
		value, err := valueFromNode(node.Content[i+1])
		if err != nil {
			return nil, err
		}

		params = append(params, Param{Key: node.Content[i].Value, Value: value})
	}

	return params, nil
}

// valueFromNode converts a YAML node into the values jsonvalue produces:
// *jsonvalue.Object, []any, string, bool, json.Number or nil.
func valueFromNode(node *yaml.Node) (any, error) {
	node = resolveNode(node)
	if node == nil || node.Kind == 0 {
		return nil, nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		object := jsonvalue.NewObject()

		for i := 0; i+1 < len(node.Content); i += 2 {
			value, err := valueFromNode(node.Content[i+1])
			if err != nil {
				return nil, err
			}

			object.Set(node.Content[i].Value, value)
		}

		return object, nil
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))

		for _, child := range node.Content {
			value, err := valueFromNode(child)
			if err != nil {
				return nil, err
			}

			items = append(items, value)
		}

		return items, nil
	case yaml.ScalarNode:
		return scalarFromNode(node)
	default:
		return nil, fmt.Errorf("%w: line %d: kind %d", ErrUnexpectedNode, node.Line, node.Kind)
	}
}

func scalarFromNode(node *yaml.Node) (any, error) {
	switch node.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, err
		}

		return b, nil
	case "!!int":
		var n int64
		if err := node.Decode(&n); err != nil {
			return nil, err
		}

		return json.Number(strconv.FormatInt(n, 10)), nil
	case "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, err
		}

		if math.IsInf(f, 0) || math.IsNaN(f) {
			return node.Value, nil
		}

		return json.Number(strconv.FormatFloat(f, 'f', -1, 64)), nil
	default:
		return node.Value, nil
	}
}

func resolveNode(node *yaml.Node) *yaml.Node {
	for node != nil {
		switch {
		case node.Kind == yaml.DocumentNode && len(node.Content) > 0:
			node = node.Content[0]
		case node.Kind == yaml.AliasNode && node.Alias != nil:
			node = node.Alias
		default:
			return node
		}
	}

	return nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}
