// Package format renders the pieces of a printed exchange: indent units,
// section titles, boxed separators, header entries and pretty bodies.
// Every function here is a pure function of its inputs.
package format

import (
	"fmt"
	"strings"

	"github.com/oshokin/exchange-logger/pkg/jsonvalue"
	"github.com/oshokin/exchange-logger/pkg/settings"
)

const (
	// titlePrefix precedes every section title.
	titlePrefix = "  "
	// bodyIndent nests pretty-printed JSON bodies.
	bodyIndent = "\t"

	startingBracket = "┌"
	middleBracket   = "├"
	endingBracket   = "└"

	tooLongFormat = "Body is too long to be displayed. Length: %d bytes. Max length: %d bytes."
)

// Config holds the indentation options of a Formatter.
// Zero fields fall back to the defaults.
type Config struct {
	Indent     int
	IndentChar string
}

// Formatter renders exchange fragments with a fixed indent unit.
type Formatter struct {
	indent string
}

// New creates a Formatter. A nil cfg uses the default indent unit.
func New(cfg *Config) *Formatter {
	if cfg == nil {
		cfg = &Config{}
	}

	return &Formatter{indent: IndentUnit(cfg.Indent, cfg.IndentChar)}
}

// NewFromSettings creates a Formatter from resolved settings.
func NewFromSettings(s settings.Settings) *Formatter {
	return New(&Config{Indent: s.Indent, IndentChar: s.IndentChar})
}

// IndentUnit repeats char width times. A non-positive width or an empty char
// falls back to its default while the other value is kept.
func IndentUnit(width int, char string) string {
	if width <= 0 {
		width = settings.DefaultIndent
	}

	if char == "" {
		char = settings.DefaultIndentChar
	}

	return strings.Repeat(char, width)
}

// Indent returns one indent unit.
func (f *Formatter) Indent() string {
	return f.indent
}

// Title returns a section title line prefix, e.g. "  URL".
func (f *Formatter) Title(name string) string {
	return titlePrefix + name
}

// TooLong returns the line that replaces a body exceeding maxLength.
func TooLong(length, maxLength int64) string {
	return fmt.Sprintf(tooLongFormat, length, maxLength)
}

// BodyLength returns the serialized size of body in bytes.
func BodyLength(body any) int64 {
	switch b := body.(type) {
	case nil:
		return 0
	case string:
		return int64(len(b))
	case []byte:
		return int64(len(b))
	default:
		encoded, err := jsonvalue.Marshal(b)
		if err != nil {
			return int64(len(fmt.Sprint(b)))
		}

		return int64(len(encoded))
	}
}

// PrettyBody renders a body.
//
// When maxLength is positive and the content length exceeds it, the body is
// replaced by a fixed diagnostic line. contentLength is the declared length;
// a non-positive value makes the length computed from the serialized body.
//
// Strings starting with "{" are parsed and pretty-printed with tab nesting;
// other strings, and strings that fail to parse, are printed verbatim after
// one indent unit. Structured values are pretty-printed the same way as
// parsed strings. Pretty-printed output gets one extra indent unit right
// before its last closing brace.
func (f *Formatter) PrettyBody(body any, maxLength, contentLength int64) string {
	if maxLength > 0 {
		length := contentLength
		if length <= 0 {
			length = BodyLength(body)
		}

		if length > maxLength {
			return TooLong(length, maxLength)
		}
	}

	switch b := body.(type) {
	case string:
		return f.prettyText(b)
	case []byte:
		return f.prettyText(string(b))
	default:
		encoded, err := jsonvalue.MarshalIndent(b, bodyIndent)
		if err != nil {
			return f.indent + fmt.Sprint(b)
		}

		return f.shiftClosingBrace(f.indent + string(encoded))
	}
}

// EmptyBody returns the placeholder printed for a missing response body.
func (f *Formatter) EmptyBody() string {
	return f.indent + "{}"
}

// HeaderEntry renders one header line with its connector glyph.
// The value is wrapped in double quotes without escaping.
// A list of a single entry is drawn on three lines.
func (f *Formatter) HeaderEntry(key string, value any, isFirst, isLast bool) string {
	header := fmt.Sprintf("%s: \"%s\"", key, HeaderValue(value))

	switch {
	case isFirst && isLast:
		return strings.Join([]string{
			f.indent + startingBracket,
			f.indent + middleBracket + " " + header,
			f.indent + endingBracket,
		}, "\n")
	case isFirst:
		return f.indent + startingBracket + " " + header
	case isLast:
		return f.indent + endingBracket + " " + header
	default:
		return f.indent + middleBracket + " " + header
	}
}

// HeaderValue returns the printable form of a header value:
// strings verbatim, anything else as compact JSON.
func HeaderValue(value any) string {
	if s, ok := value.(string); ok {
		return s
	}

	encoded, err := jsonvalue.Marshal(value)
	if err != nil {
		return fmt.Sprint(value)
	}

	return string(encoded)
}

func (f *Formatter) prettyText(text string) string {
	if strings.HasPrefix(text, "{") {
		parsed, err := jsonvalue.Decode([]byte(text))
		if err == nil {
			encoded, err := jsonvalue.MarshalIndent(parsed, bodyIndent)
			if err == nil {
				return f.shiftClosingBrace(f.indent + string(encoded))
			}
		}
	}

	return f.indent + text
}

func (f *Formatter) shiftClosingBrace(text string) string {
	lastBrace := strings.LastIndex(text, "}")
	if lastBrace <= 0 {
		return text
	}

	return text[:lastBrace] + f.indent + text[lastBrace:]
}
