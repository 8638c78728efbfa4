package format

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/oshokin/exchange-logger/pkg/jsonvalue"
	"github.com/oshokin/exchange-logger/pkg/settings"
)

// TestIndentUnit tests indent unit fallbacks.
func TestIndentUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cfg      *Config
		expected string
	}{
		{name: "nil config", cfg: nil, expected: "  "},
		{name: "empty config", cfg: &Config{}, expected: "  "},
		{name: "width only", cfg: &Config{Indent: 4}, expected: "    "},
		{name: "char only", cfg: &Config{IndentChar: "\t"}, expected: "\t\t"},
		{name: "width and char", cfg: &Config{Indent: 3, IndentChar: "-"}, expected: "---"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, New(tt.cfg).Indent())
		})
	}
}

// TestNewFromSettings tests that resolved settings drive the indent unit.
func TestNewFromSettings(t *testing.T) {
	t.Parallel()

	s := settings.ResolveWith(settings.Partial{
		Indent:     settings.Ptr(1),
		IndentChar: settings.Ptr("\t"),
	}, settings.NoOverride)

	assert.Equal(t, "\t", NewFromSettings(s).Indent())
}

// TestTitle tests the section title prefix.
func TestTitle(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "  URL", New(nil).Title("URL"))
}

// TestPrettyBody tests body rendering for every body shape.
func TestPrettyBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     any
		expected string
	}{
		{
			name:     "JSON object string",
			body:     `{"hello":"world"}`,
			expected: "  {\n\t\"hello\": \"world\"\n  }",
		},
		{
			name:     "JSON object bytes",
			body:     []byte(`{"hello":"world"}`),
			expected: "  {\n\t\"hello\": \"world\"\n  }",
		},
		{
			name:     "nested JSON keeps member order",
			body:     `{"b":1,"a":{"c":true}}`,
			expected: "  {\n\t\"b\": 1,\n\t\"a\": {\n\t\t\"c\": true\n\t}\n  }",
		},
		{
			name:     "broken JSON is opaque",
			body:     `{"hello":`,
			expected: `  {"hello":`,
		},
		{
			name:     "broken JSON with closing brace stays unshifted",
			body:     `{"hello": world}`,
			expected: `  {"hello": world}`,
		},
		{
			name:     "text with a brace stays unshifted",
			body:     "template {name} rendered",
			expected: "  template {name} rendered",
		},
		{
			name:     "plain text",
			body:     "hello world",
			expected: "  hello world",
		},
		{
			name:     "JSON array string is opaque",
			body:     `[1,2]`,
			expected: "  [1,2]",
		},
		{
			name: "ordered object",
			body: jsonvalue.NewObject(
				jsonvalue.Member{Key: "city", Value: "Amsterdam"},
				jsonvalue.Member{Key: "score", Value: json.Number("100")},
			),
			expected: "  {\n\t\"city\": \"Amsterdam\",\n\t\"score\": 100\n  }",
		},
		{
			name:     "map",
			body:     map[string]any{"b": "2", "a": "1"},
			expected: "  {\n\t\"a\": \"1\",\n\t\"b\": \"2\"\n  }",
		},
		{
			name:     "array without braces",
			body:     []any{"a", "b"},
			expected: "  [\n\t\"a\",\n\t\"b\"\n]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, New(nil).PrettyBody(tt.body, 0, 0))
		})
	}
}

// TestPrettyBodyTooLong tests the diagnostic line that replaces long bodies.
func TestPrettyBodyTooLong(t *testing.T) {
	t.Parallel()

	f := New(nil)
	body := `{"city":"Amsterdam","console":"PlayStation","score":100,"hobbies":["music","games","travel"]}`

	tests := []struct {
		name          string
		body          any
		maxLength     int64
		contentLength int64
		expected      string
	}{
		{
			name:      "computed length",
			body:      body,
			maxLength: 10,
			expected:  TooLong(int64(len(body)), 10),
		},
		{
			name:          "declared length wins",
			body:          "short",
			maxLength:     10,
			contentLength: 100,
			expected:      "Body is too long to be displayed. Length: 100 bytes. Max length: 10 bytes.",
		},
		{
			name:      "structured body is measured compact",
			body:      map[string]any{"hello": "world"},
			maxLength: 5,
			expected:  "Body is too long to be displayed. Length: 17 bytes. Max length: 5 bytes.",
		},
		{
			name:      "within the cap",
			body:      "short",
			maxLength: 10,
			expected:  "  short",
		},
		{
			name:      "equal to the cap",
			body:      "0123456789",
			maxLength: 10,
			expected:  "  0123456789",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.expected, f.PrettyBody(tt.body, tt.maxLength, tt.contentLength))
		})
	}
}

// TestPrettyBodyTooLongIgnoresContent tests that the diagnostic line does not depend on body content.
func TestPrettyBodyTooLongIgnoresContent(t *testing.T) {
	t.Parallel()

	f := New(nil)

	first := f.PrettyBody(strings.Repeat("a", 50), 10, 0)
	second := f.PrettyBody(strings.Repeat("{", 50), 10, 0)

	assert.Equal(t, first, second)
	assert.Equal(t, "Body is too long to be displayed. Length: 50 bytes. Max length: 10 bytes.", first)
}

// TestBodyLength tests serialized body sizes.
func TestBodyLength(t *testing.T) {
	t.Parallel()

	assert.Equal(t, int64(0), BodyLength(nil))
	assert.Equal(t, int64(3), BodyLength("abc"))
	assert.Equal(t, int64(4), BodyLength([]byte("abcd")))
	assert.Equal(t, int64(2), BodyLength("é"))
	assert.Equal(t, int64(9), BodyLength([]any{"a", "b"}))
}

// TestHeaderEntry tests the four connector glyph patterns.
func TestHeaderEntry(t *testing.T) {
	t.Parallel()

	f := New(nil)

	tests := []struct {
		name     string
		key      string
		value    any
		isFirst  bool
		isLast   bool
		expected string
	}{
		{
			name:     "single",
			isFirst:  true,
			isLast:   true,
			expected: "  ┌\n  ├ Content-Type: \"application/json\"\n  └",
		},
		{
			name:     "first",
			isFirst:  true,
			expected: "  ┌ Content-Type: \"application/json\"",
		},
		{
			name:     "last",
			isLast:   true,
			expected: "  └ Content-Type: \"application/json\"",
		},
		{
			name:     "middle",
			expected: "  ├ Content-Type: \"application/json\"",
		},
		{
			name:     "value with quotes is printed verbatim",
			key:      "ETag",
			value:    `W/"33a64df5"`,
			isFirst:  true,
			expected: `  ┌ ETag: "W/"33a64df5""`,
		},
		{
			name:     "value with backslash is printed verbatim",
			key:      "X-Path",
			value:    `C:\tmp`,
			isLast:   true,
			expected: `  └ X-Path: "C:\tmp"`,
		},
		{
			name:     "value with tab is printed verbatim",
			key:      "X-Note",
			value:    "a\tb",
			expected: "  ├ X-Note: \"a\tb\"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, value := tt.key, tt.value
			if key == "" {
				key, value = "Content-Type", "application/json"
			}

			assert.Equal(t, tt.expected, f.HeaderEntry(key, value, tt.isFirst, tt.isLast))
		})
	}
}

// TestHeaderValue tests header value stringification.
func TestHeaderValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "text/plain", HeaderValue("text/plain"))
	assert.Equal(t, "42", HeaderValue(42))
	assert.Equal(t, `{"a":"<b>"}`, HeaderValue(map[string]any{"a": "<b>"}))
}

// TestEmptyBody tests the missing response body placeholder.
func TestEmptyBody(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "    {}", New(&Config{Indent: 4}).EmptyBody())
}
