package exchange

import (
	"strings"

	"github.com/oshokin/exchange-logger/pkg/jsonvalue"
)

// Header is one header entry. Value is usually a string; a *Headers value
// holds a per-method default group such as "common" or "post".
type Header struct {
	Key   string
	Value any
}

// Headers is an ordered header collection.
// Keys are unique and compared case-sensitively by Get and Set.
type Headers struct {
	entries []Header
}

// NewHeaders creates a collection from entries. Later duplicates replace earlier values.
func NewHeaders(entries ...Header) *Headers {
	h := &Headers{}

	for _, e := range entries {
		h.Set(e.Key, e.Value)
	}

	return h
}

// Len returns the number of entries.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}

	return len(h.entries)
}

// Entries returns a copy of the entries in order.
func (h *Headers) Entries() []Header {
	if h == nil {
		return nil
	}

	return append([]Header(nil), h.entries...)
}

// Get returns the value stored under key.
func (h *Headers) Get(key string) (any, bool) {
	if h == nil {
		return nil, false
	}

	for _, e := range h.entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return nil, false
}

// Lookup returns the first value whose key equals key ignoring case.
func (h *Headers) Lookup(key string) (any, bool) {
	if h == nil {
		return nil, false
	}

	for _, e := range h.entries {
		if strings.EqualFold(e.Key, key) {
			return e.Value, true
		}
	}

	return nil, false
}

// Group returns the nested group stored under key, if any.
func (h *Headers) Group(key string) *Headers {
	value, ok := h.Get(key)
	if !ok {
		return nil
	}

	group, _ := value.(*Headers)

	return group
}

// Set replaces the value of an existing key in place or appends a new entry.
func (h *Headers) Set(key string, value any) {
	for i := range h.entries {
		if h.entries[i].Key == key {
			h.entries[i].Value = value

			return
		}
	}

	h.entries = append(h.entries, Header{Key: key, Value: value})
}

// Delete removes key.
func (h *Headers) Delete(key string) {
	for i := range h.entries {
		if h.entries[i].Key == key {
			h.entries = append(h.entries[:i], h.entries[i+1:]...)

			return
		}
	}
}

// Clone returns a deep copy; nested groups are cloned too.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return nil
	}

	clone := &Headers{entries: make([]Header, 0, len(h.entries))}

	for _, e := range h.entries {
		if group, ok := e.Value.(*Headers); ok {
			e.Value = group.Clone()
		}

		clone.entries = append(clone.entries, e)
	}

	return clone
}

// MarshalJSON encodes the collection as an ordered JSON object.
func (h *Headers) MarshalJSON() ([]byte, error) {
	object := jsonvalue.NewObject()

	for _, e := range h.Entries() {
		object.Set(e.Key, e.Value)
	}

	return object.MarshalJSON()
}

// Param is one query parameter.
type Param struct {
	Key   string
	Value any
}

// Params is an ordered query parameter list.
type Params []Param
