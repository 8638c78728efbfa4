package settings

import (
	"os"
	"strings"
)

const (
	// DefaultIndent is the number of indent characters in one indent unit.
	DefaultIndent = 2

	// DefaultIndentChar is the character an indent unit is built from.
	DefaultIndentChar = " "

	// RedactableKeysEnv names the variable whose comma-separated list
	// replaces both configured and default redactable keys.
	RedactableKeysEnv = "LOGGER_REDACTABLE_KEYS"

	// ExtraRedactableKeysEnv names the variable whose comma-separated list
	// extends the built-in redactable keys.
	ExtraRedactableKeysEnv = "LOGGER_EXTRA_REDACTABLE_KEYS"
)

// KeysProvider returns the current redactable-key override.
// An empty result means there is no override.
type KeysProvider func() []string

// EnvKeysProvider returns a KeysProvider that reads the named environment
// variable on every call.
func EnvKeysProvider(name string) KeysProvider {
	return func() []string {
		return SplitKeys(os.Getenv(name))
	}
}

// StaticKeysProvider returns a KeysProvider that always yields keys.
func StaticKeysProvider(keys ...string) KeysProvider {
	return func() []string {
		return append([]string(nil), keys...)
	}
}

// NoOverride is a KeysProvider without an override.
func NoOverride() []string {
	return nil
}

// SplitKeys splits a comma-separated key list, dropping empty entries.
func SplitKeys(list string) []string {
	var keys []string

	for _, key := range strings.Split(list, ",") {
		key = strings.TrimSpace(key)
		if key != "" {
			keys = append(keys, key)
		}
	}

	return keys
}

// DefaultRedactableKeys returns the built-in redactable keys followed by the
// entries of ExtraRedactableKeysEnv.
func DefaultRedactableKeys() []string {
	keys := []string{
		"apiKey",
		"authorization",
		"Authorization",
		"accessToken",
		"idToken",
		"password",
		"refreshToken",
		"token",
	}

	return append(keys, SplitKeys(os.Getenv(ExtraRedactableKeysEnv))...)
}
