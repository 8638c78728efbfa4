// Package settings resolves partial printer options over documented defaults.
//
// A Partial only carries the fields a caller wants to change; Resolve merges
// it key by key, so a nested override never resets its siblings.
// The resolved Settings value is immutable and safe to share between goroutines.
package settings

import (
	"slices"

	"github.com/oshokin/exchange-logger/pkg/redact"
)

// Direction holds the options of one exchange direction (request or response).
type Direction struct {
	// LogHeaders enables the headers section.
	LogHeaders bool
	// LogBody enables the body section.
	LogBody bool
	// MaxBodyLength caps the printed body size in bytes; zero means no cap.
	MaxBodyLength int64
}

// Obfuscation holds the redaction options.
type Obfuscation struct {
	// Enabled turns redaction on.
	Enabled bool
	// Replacer computes substitutes; nil means redact.DefaultReplacement.
	Replacer redact.Replacer

	redactableKeys []string
}

// RedactableKeys returns a copy of the configured (or default) key list.
func (o Obfuscation) RedactableKeys() []string {
	return slices.Clone(o.redactableKeys)
}

// Settings is a fully populated, immutable printer configuration.
type Settings struct {
	// Indent is the number of characters in one indent unit.
	Indent int
	// IndentChar is the character an indent unit is built from.
	IndentChar string
	// Request holds request options.
	Request Direction
	// Response holds response options.
	Response Direction
	// Obfuscation holds redaction options.
	Obfuscation Obfuscation

	override KeysProvider
}

// DirectionPartial overrides some fields of a Direction.
type DirectionPartial struct {
	LogHeaders    *bool
	LogBody       *bool
	MaxBodyLength *int64
}

// ObfuscationPartial overrides some fields of an Obfuscation.
type ObfuscationPartial struct {
	Enabled *bool
	// RedactableKeys replaces the default list when non-nil.
	RedactableKeys []string
	// Replacement is a fixed substitute.
	Replacement *string
	// ReplaceFunc takes precedence over Replacement.
	ReplaceFunc redact.Replacer
}

// Partial overrides some fields of Settings.
type Partial struct {
	Indent      *int
	IndentChar  *string
	Request     *DirectionPartial
	Response    *DirectionPartial
	Obfuscation *ObfuscationPartial
}

// Ptr returns a pointer to v, for building partials inline.
func Ptr[T any](v T) *T {
	return &v
}

// Default returns the documented defaults.
func Default() Settings {
	return Settings{
		Indent:     DefaultIndent,
		IndentChar: DefaultIndentChar,
		Request:    Direction{LogHeaders: true, LogBody: true},
		Response:   Direction{LogHeaders: true, LogBody: true},
		Obfuscation: Obfuscation{
			redactableKeys: DefaultRedactableKeys(),
		},
		override: EnvKeysProvider(RedactableKeysEnv),
	}
}

// Resolve merges partial over the defaults.
// The override list is read from RedactableKeysEnv on every key resolution.
func Resolve(partial Partial) Settings {
	return ResolveWith(partial, EnvKeysProvider(RedactableKeysEnv))
}

// ResolveWith merges partial over the defaults using provider as the
// redactable-key override. A nil provider disables overrides.
func ResolveWith(partial Partial, provider KeysProvider) Settings {
	s := Default()

	if provider == nil {
		provider = NoOverride
	}

	s.override = provider

	if partial.Indent != nil {
		s.Indent = *partial.Indent
	}

	if partial.IndentChar != nil {
		s.IndentChar = *partial.IndentChar
	}

	s.Request = mergeDirection(s.Request, partial.Request)
	s.Response = mergeDirection(s.Response, partial.Response)
	s.Obfuscation = mergeObfuscation(s.Obfuscation, partial.Obfuscation)

	return s
}

// RedactableKeys resolves the active key list: a non-empty override wins,
// then the configured list, then the defaults.
func (s Settings) RedactableKeys() []string {
	if s.override != nil {
		if keys := s.override(); len(keys) > 0 {
			return keys
		}
	}

	if s.Obfuscation.redactableKeys == nil {
		return DefaultRedactableKeys()
	}

	return s.Obfuscation.RedactableKeys()
}

// Redactor returns a redactor for the active key list, or nil when
// obfuscation is disabled.
func (s Settings) Redactor() *redact.Redactor {
	if !s.Obfuscation.Enabled {
		return nil
	}

	return redact.New(s.RedactableKeys(), s.Obfuscation.Replacer)
}

func mergeDirection(base Direction, partial *DirectionPartial) Direction {
	if partial == nil {
		return base
	}

	if partial.LogHeaders != nil {
		base.LogHeaders = *partial.LogHeaders
	}

	if partial.LogBody != nil {
		base.LogBody = *partial.LogBody
	}

	if partial.MaxBodyLength != nil {
		base.MaxBodyLength = *partial.MaxBodyLength
	}

	return base
}

func mergeObfuscation(base Obfuscation, partial *ObfuscationPartial) Obfuscation {
	if partial == nil {
		return base
	}

	if partial.Enabled != nil {
		base.Enabled = *partial.Enabled
	}

	if partial.RedactableKeys != nil {
		base.redactableKeys = slices.Clone(partial.RedactableKeys)
	}

	switch {
	case partial.ReplaceFunc != nil:
		base.Replacer = partial.ReplaceFunc
	case partial.Replacement != nil:
		base.Replacer = redact.WithValue(*partial.Replacement)
	}

	return base
}
