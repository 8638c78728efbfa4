package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestResolve tests that partial settings are merged field by field over the defaults.
func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		partial  Partial
		expected func(*testing.T, Settings)
	}{
		{
			name:    "empty partial",
			partial: Partial{},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.Equal(t, DefaultIndent, s.Indent)
				assert.Equal(t, DefaultIndentChar, s.IndentChar)
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true}, s.Request)
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true}, s.Response)
				assert.False(t, s.Obfuscation.Enabled)
				assert.Nil(t, s.Obfuscation.Replacer)
				assert.Equal(t, DefaultRedactableKeys(), s.Obfuscation.RedactableKeys())
			},
		},
		{
			name:    "different indent and indent char",
			partial: Partial{Indent: Ptr(4), IndentChar: Ptr("\t")},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.Equal(t, 4, s.Indent)
				assert.Equal(t, "\t", s.IndentChar)
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true}, s.Request)
			},
		},
		{
			name:    "request body disabled keeps siblings",
			partial: Partial{Request: &DirectionPartial{LogBody: Ptr(false)}},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.Equal(t, Direction{LogHeaders: true, LogBody: false}, s.Request)
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true}, s.Response)
			},
		},
		{
			name:    "response headers disabled keeps siblings",
			partial: Partial{Response: &DirectionPartial{LogHeaders: Ptr(false)}},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true}, s.Request)
				assert.Equal(t, Direction{LogHeaders: false, LogBody: true}, s.Response)
			},
		},
		{
			name: "body length caps",
			partial: Partial{
				Request:  &DirectionPartial{MaxBodyLength: Ptr(int64(1024))},
				Response: &DirectionPartial{MaxBodyLength: Ptr(int64(1024))},
			},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true, MaxBodyLength: 1024}, s.Request)
				assert.Equal(t, Direction{LogHeaders: true, LogBody: true, MaxBodyLength: 1024}, s.Response)
			},
		},
		{
			name:    "obfuscation enabled without keys",
			partial: Partial{Obfuscation: &ObfuscationPartial{Enabled: Ptr(true)}},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.True(t, s.Obfuscation.Enabled)
				assert.Equal(t, DefaultRedactableKeys(), s.Obfuscation.RedactableKeys())
			},
		},
		{
			name: "obfuscation with keys and replacement",
			partial: Partial{Obfuscation: &ObfuscationPartial{
				Enabled:        Ptr(true),
				RedactableKeys: []string{"username"},
				Replacement:    Ptr("***"),
			}},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				assert.Equal(t, []string{"username"}, s.Obfuscation.RedactableKeys())
				require.NotNil(t, s.Obfuscation.Replacer)
				assert.Equal(t, "***", s.Obfuscation.Replacer("value", "username"))
			},
		},
		{
			name: "replace function wins over replacement",
			partial: Partial{Obfuscation: &ObfuscationPartial{
				Replacement: Ptr("***"),
				ReplaceFunc: func(any, string) any { return "fn" },
			}},
			expected: func(t *testing.T, s Settings) {
				t.Helper()
				require.NotNil(t, s.Obfuscation.Replacer)
				assert.Equal(t, "fn", s.Obfuscation.Replacer("value", "key"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tt.expected(t, ResolveWith(tt.partial, NoOverride))
		})
	}
}

// TestResolveDoesNotAlias tests that the resolved key list is detached from the caller's slice.
func TestResolveDoesNotAlias(t *testing.T) {
	t.Parallel()

	keys := []string{"username"}
	s := ResolveWith(Partial{Obfuscation: &ObfuscationPartial{RedactableKeys: keys}}, NoOverride)

	keys[0] = "changed"

	assert.Equal(t, []string{"username"}, s.RedactableKeys())

	returned := s.RedactableKeys()
	returned[0] = "mutated"

	assert.Equal(t, []string{"username"}, s.RedactableKeys())
}

// TestRedactableKeysPrecedence tests override, configured and default key precedence.
func TestRedactableKeysPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		provider KeysProvider
		keys     []string
		expected []string
	}{
		{
			name:     "defaults without override and config",
			provider: NoOverride,
			expected: DefaultRedactableKeys(),
		},
		{
			name:     "configured keys without override",
			provider: NoOverride,
			keys:     []string{"username"},
			expected: []string{"username"},
		},
		{
			name:     "override wins over configured keys",
			provider: StaticKeysProvider("password"),
			keys:     []string{"username"},
			expected: []string{"password"},
		},
		{
			name:     "override wins over defaults",
			provider: StaticKeysProvider("password"),
			expected: []string{"password"},
		},
		{
			name:     "empty override falls back",
			provider: StaticKeysProvider(),
			keys:     []string{"username"},
			expected: []string{"username"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := ResolveWith(Partial{Obfuscation: &ObfuscationPartial{RedactableKeys: tt.keys}}, tt.provider)
			assert.Equal(t, tt.expected, s.RedactableKeys())
		})
	}
}

// TestRedactableKeysFromEnvironment tests that the environment override is read on every call.
func TestRedactableKeysFromEnvironment(t *testing.T) {
	s := Resolve(Partial{Obfuscation: &ObfuscationPartial{RedactableKeys: []string{"username"}}})

	t.Setenv(RedactableKeysEnv, "password, secret,,")
	assert.Equal(t, []string{"password", "secret"}, s.RedactableKeys())

	t.Setenv(RedactableKeysEnv, "")
	assert.Equal(t, []string{"username"}, s.RedactableKeys())
}

// TestDefaultRedactableKeysExtra tests that the extra-keys variable extends the defaults.
func TestDefaultRedactableKeysExtra(t *testing.T) {
	t.Setenv(ExtraRedactableKeysEnv, "sessionId,cookie")

	keys := DefaultRedactableKeys()
	assert.Contains(t, keys, "token")
	assert.Equal(t, []string{"sessionId", "cookie"}, keys[len(keys)-2:])
}

// TestRedactor tests that the redactor follows the enabled flag.
func TestRedactor(t *testing.T) {
	t.Parallel()

	assert.Nil(t, ResolveWith(Partial{}, NoOverride).Redactor())

	s := ResolveWith(Partial{Obfuscation: &ObfuscationPartial{
		Enabled:        Ptr(true),
		RedactableKeys: []string{"password"},
	}}, NoOverride)

	r := s.Redactor()
	require.NotNil(t, r)
	assert.True(t, r.Matches("Password"))
	assert.False(t, r.Matches("token"))
}

// TestSplitKeys tests comma list splitting.
func TestSplitKeys(t *testing.T) {
	t.Parallel()

	assert.Nil(t, SplitKeys(""))
	assert.Equal(t, []string{"a", "b"}, SplitKeys("a,,b,"))
}
