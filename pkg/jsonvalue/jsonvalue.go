// Package jsonvalue holds JSON documents in a form that keeps object members
// in the order they were written, so that bodies are printed the way the
// remote side sent them instead of in Go's sorted map order.
package jsonvalue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Static error definitions for better error handling.
var (
	// ErrTrailingData indicates that a document has data after its first value.
	ErrTrailingData = errors.New("unexpected data after top-level value")
	// ErrUnexpectedToken indicates that the decoder met a token it cannot place.
	ErrUnexpectedToken = errors.New("unexpected JSON token")
)

// Member is a single key/value pair of an Object.
type Member struct {
	Key   string
	Value any
}

// Object is a JSON object that remembers member order.
// Values are *Object, []any, string, json.Number, bool or nil.
type Object struct {
	members []Member
}

// NewObject creates an object from the given members.
// Later duplicates replace earlier ones but keep the first position.
func NewObject(members ...Member) *Object {
	o := &Object{members: make([]Member, 0, len(members))}
	for _, m := range members {
		o.Set(m.Key, m.Value)
	}

	return o
}

// Len returns the number of members.
func (o *Object) Len() int {
	if o == nil {
		return 0
	}

	return len(o.members)
}

// Members returns a copy of the members in order.
func (o *Object) Members() []Member {
	if o == nil {
		return nil
	}

	return append([]Member(nil), o.members...)
}

// Get returns the value stored under key.
func (o *Object) Get(key string) (any, bool) {
	if o == nil {
		return nil, false
	}

	for _, m := range o.members {
		if m.Key == key {
			return m.Value, true
		}
	}

	return nil, false
}

// Set replaces the value of an existing key in place or appends a new member.
func (o *Object) Set(key string, value any) {
	for i := range o.members {
		if o.members[i].Key == key {
			o.members[i].Value = value

			return
		}
	}

	o.members = append(o.members, Member{Key: key, Value: value})
}

// Delete removes key from the object.
func (o *Object) Delete(key string) {
	for i := range o.members {
		if o.members[i].Key == key {
			o.members = append(o.members[:i], o.members[i+1:]...)

			return
		}
	}
}

// MarshalJSON implements json.Marshaler keeping member order.
func (o *Object) MarshalJSON() ([]byte, error) {
	if o == nil {
		return []byte("null"), nil
	}

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, m := range o.members {
		if i > 0 {
			buf.WriteByte(',')
		}

		key, err := Marshal(m.Key)
		if err != nil {
			return nil, err
		}

		value, err := Marshal(m.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal member %q: %w", m.Key, err)
		}

		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// Decode parses a single JSON document.
// Numbers are kept as json.Number so that they print back unchanged.
func Decode(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	value, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err = dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}

	return value, nil
}

// Normalize converts any JSON-encodable Go value into the ordered representation.
// Struct fields keep their declaration order, maps are ordered by key.
func Normalize(v any) (any, error) {
	switch v.(type) {
	case nil, string, bool, json.Number:
		return v, nil
	}

	data, err := Marshal(v)
	if err != nil {
		return nil, err
	}

	return Decode(data)
}

// Marshal encodes v compactly without HTML escaping.
func Marshal(v any) ([]byte, error) {
	return encode(v, "")
}

// MarshalIndent encodes v with one indent string per nesting level.
func MarshalIndent(v any, indent string) ([]byte, error) {
	return encode(v, indent)
}

func encode(v any, indent string) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if indent != "" {
		enc.SetIndent("", indent)
	}

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	token, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := token.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		default:
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedToken, t)
		}
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Object, error) {
	o := &Object{}

	for dec.More() {
		token, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := token.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrUnexpectedToken, token)
		}

		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		o.Set(key, value)
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return o, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	values := []any{}

	for dec.More() {
		value, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}

		values = append(values, value)
	}

	if _, err := dec.Token(); err != nil {
		return nil, err
	}

	return values, nil
}
