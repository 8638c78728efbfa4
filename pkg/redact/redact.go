// Package redact replaces the values of sensitive fields in request and
// response payloads before they are printed.
//
// Field names are matched partially and case-insensitively: a configured key
// matches every field whose name contains it. Unknown keys are ignored.
package redact

import (
	"encoding/json"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/oshokin/exchange-logger/pkg/jsonvalue"
)

// DefaultReplacement is substituted for matched values when no Replacer is configured.
const DefaultReplacement = "[ REDACTED ]"

// redactorsCacheSize bounds the number of default-replacement redactors kept built.
const redactorsCacheSize = 128

// Replacer computes the substitute for a matched value.
// It is only ever called for matched keys.
type Replacer func(value any, key string) any

// WithValue returns a Replacer that always substitutes s.
func WithValue(s string) Replacer {
	return func(any, string) any {
		return s
	}
}

// Redactor walks documents and replaces values of matched keys.
// It never mutates its input and is safe for concurrent use.
type Redactor struct {
	// needles holds the lower-cased key list.
	needles []string
	// replace computes replacements for matched values.
	replace Replacer
}

// Redactors are immutable, so the ones using DefaultReplacement are shared
// between callers with the same key list.
//
//nolint:gochecknoglobals // Shared cache of immutable redactors.
var redactors, _ = lru.New[string, *Redactor](redactorsCacheSize)

// New creates a Redactor for the given keys.
// A nil replace substitutes DefaultReplacement; such redactors are cached
// by key list and may be returned to several callers.
func New(keys []string, replace Replacer) *Redactor {
	if replace != nil {
		return &Redactor{needles: compile(keys), replace: replace}
	}

	signature := strings.Join(keys, "\x00")
	if cached, ok := redactors.Get(signature); ok {
		return cached
	}

	r := &Redactor{
		needles: compile(keys),
		replace: WithValue(DefaultReplacement),
	}

	redactors.Add(signature, r)

	return r
}

// Matches reports whether key contains one of the configured keys, ignoring case.
func (r *Redactor) Matches(key string) bool {
	lowered := strings.ToLower(key)

	for _, needle := range r.needles {
		if strings.Contains(lowered, needle) {
			return true
		}
	}

	return false
}

// Replace returns the substitute for a matched value.
func (r *Redactor) Replace(value any, key string) any {
	return r.replace(value, key)
}

// Value returns a copy of v with matched members replaced at any depth.
// Objects may be *jsonvalue.Object or map[string]any; scalars are returned as is.
func (r *Redactor) Value(v any) any {
	switch t := v.(type) {
	case *jsonvalue.Object:
		if t == nil {
			return t
		}

		members := t.Members()
		for i, m := range members {
			members[i].Value = r.member(m.Key, m.Value)
		}

		return jsonvalue.NewObject(members...)
	case map[string]any:
		out := make(map[string]any, len(t))
		for key, value := range t {
			out[key] = r.member(key, value)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, value := range t {
			out[i] = r.Value(value)
		}

		return out
	default:
		return v
	}
}

// Body redacts a request or response payload.
//
// Strings and byte slices are parsed as JSON first; when that fails they are
// treated as form-encoded pairs, and anything else is returned unchanged.
// Other values are normalized to ordered JSON and redacted structurally.
func (r *Redactor) Body(body any) any {
	switch t := body.(type) {
	case nil:
		return nil
	case string:
		return r.text(t)
	case []byte:
		return r.text(string(t))
	case *jsonvalue.Object, map[string]any, []any, json.Number, bool:
		return r.Value(t)
	default:
		normalized, err := jsonvalue.Normalize(t)
		if err != nil {
			return body
		}

		return r.Value(normalized)
	}
}

// Form redacts an application/x-www-form-urlencoded string.
// It reports false when s holds no key=value pair, in which case s is returned unchanged.
func (r *Redactor) Form(s string) (string, bool) {
	if !strings.Contains(s, "=") {
		return s, false
	}

	pairs := strings.Split(s, "&")
	for i, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || !r.Matches(key) {
			continue
		}

		pairs[i] = key + "=" + stringify(r.replace(value, key))
	}

	return strings.Join(pairs, "&"), true
}

func (r *Redactor) text(s string) any {
	parsed, err := jsonvalue.Decode([]byte(s))
	if err == nil {
		switch parsed.(type) {
		case *jsonvalue.Object, []any:
			return r.Value(parsed)
		default:
			return s
		}
	}

	redacted, _ := r.Form(s)

	return redacted
}

func (r *Redactor) member(key string, value any) any {
	if r.Matches(key) {
		return r.replace(value, key)
	}

	return r.Value(value)
}

func compile(keys []string) []string {
	needles := make([]string, 0, len(keys))

	for _, key := range keys {
		if key == "" {
			continue
		}

		needles = append(needles, strings.ToLower(key))
	}

	return needles
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}

	encoded, err := jsonvalue.Marshal(v)
	if err != nil {
		return ""
	}

	return string(encoded)
}
