package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/exchange-logger/internal/constants"
	"github.com/oshokin/exchange-logger/pkg/settings"
)

func validConfig() *Config {
	return &Config{
		LogLevel:       "info",
		LogFileMaxSize: DefaultLogFileMaxSize,
		Indent:         2,
		IndentChar:     " ",
		Request:        DirectionConfig{LogHeaders: true, LogBody: true, MaxBodyLength: "0"},
		Response:       DirectionConfig{LogHeaders: true, LogBody: true, MaxBodyLength: "10 KB"},
		Timeout:        "30s",
	}
}

// TestLoadConfig tests the LoadConfig function.
func TestLoadConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		configContent string
		expectError   bool
		expectedError string
		check         func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config file",
			configContent: `
log_level: "debug"
indent: 4
indent_char: "."
request:
  log_headers: false
  max_body_length: "1KB"
response:
  log_body: false
obfuscation:
  enabled: true
  redactable_keys: ["password", "token"]
  replacement: "***"
timeout: "5s"
`,
			check: func(t *testing.T, cfg *Config) {
				t.Helper()

				assert.Equal(t, "debug", cfg.LogLevel)
				assert.Equal(t, 4, cfg.Indent)
				assert.Equal(t, ".", cfg.IndentChar)
				assert.False(t, cfg.Request.LogHeaders)
				assert.True(t, cfg.Request.LogBody)
				assert.Equal(t, "1KB", cfg.Request.MaxBodyLength)
				assert.True(t, cfg.Response.LogHeaders)
				assert.False(t, cfg.Response.LogBody)
				assert.True(t, cfg.Obfuscation.Enabled)
				assert.Equal(t, []string{"password", "token"}, cfg.Obfuscation.RedactableKeys)
				assert.Equal(t, "***", cfg.Obfuscation.Replacement)
				assert.Equal(t, "5s", cfg.Timeout)
			},
		},
		{
			name:          "empty config file keeps defaults",
			configContent: "",
			check: func(t *testing.T, cfg *Config) {
				t.Helper()

				assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
				assert.Equal(t, settings.DefaultIndent, cfg.Indent)
				assert.Equal(t, settings.DefaultIndentChar, cfg.IndentChar)
				assert.True(t, cfg.Request.LogHeaders)
				assert.True(t, cfg.Response.LogBody)
				assert.Equal(t, "1m0s", cfg.Timeout)
				assert.Equal(t, DefaultLogFileMaxSize, cfg.LogFileMaxSize)
				assert.True(t, cfg.LogFileCompress)
			},
		},
		{
			name:          "invalid YAML",
			configContent: "log_level: [unclosed",
			expectError:   true,
			expectedError: "failed to read config from file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			configPath := filepath.Join(t.TempDir(), "config.yaml")

			err := os.WriteFile(configPath, []byte(tt.configContent), constants.DefaultFilePermissions)
			require.NoError(t, err)

			cfg, err := LoadConfig(configPath)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError)
				assert.Nil(t, cfg)

				return
			}

			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

// TestLoadConfig_MissingExplicitFile tests that a named file must exist.
func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Nil(t, cfg)
}

// TestLoadConfig_EnvironmentOverride tests that prefixed variables win over the file.
func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	t.Setenv(EnvPrefix+"_LOG_LEVEL", "warn")
	t.Setenv(EnvPrefix+"_REQUEST_MAX_BODY_LENGTH", "2KB")

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("log_level: debug\n"), constants.DefaultFilePermissions))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "2KB", cfg.Request.MaxBodyLength)
}

// TestValidateConfig tests the ValidateConfig function.
func TestValidateConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		modify   func(cfg *Config)
		expected error
		errorMsg string
	}{
		{
			name:   "valid config",
			modify: func(*Config) {},
		},
		{
			name:     "unknown log level",
			modify:   func(cfg *Config) { cfg.LogLevel = "verbose" },
			expected: ErrUnknownLogLevel,
		},
		{
			name:     "negative indent",
			modify:   func(cfg *Config) { cfg.Indent = -1 },
			expected: ErrInvalidIndent,
		},
		{
			name:     "empty indent char",
			modify:   func(cfg *Config) { cfg.IndentChar = "" },
			expected: ErrInvalidIndentChar,
		},
		{
			name:     "long indent char",
			modify:   func(cfg *Config) { cfg.IndentChar = "ab" },
			expected: ErrInvalidIndentChar,
		},
		{
			name:     "broken body length",
			modify:   func(cfg *Config) { cfg.Request.MaxBodyLength = "lots" },
			errorMsg: "failed to parse request max body length",
		},
		{
			name:     "broken timeout",
			modify:   func(cfg *Config) { cfg.Timeout = "soon" },
			errorMsg: "failed to parse timeout",
		},
		{
			name:     "zero timeout",
			modify:   func(cfg *Config) { cfg.Timeout = "0s" },
			expected: ErrInvalidTimeout,
		},
		{
			name: "log file without rotation size",
			modify: func(cfg *Config) {
				cfg.LogFile = "exchange.log"
				cfg.LogFileMaxSize = 0
			},
			expected: ErrInvalidLogFileMaxSize,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)

			err := ValidateConfig(cfg)

			switch {
			case tt.expected != nil:
				require.ErrorIs(t, err, tt.expected)
			case tt.errorMsg != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
			default:
				require.NoError(t, err)
				assert.Equal(t, zapcore.InfoLevel, cfg.ParsedLogLevel)
				assert.Equal(t, 30*time.Second, cfg.ParsedTimeout)
				assert.Equal(t, int64(0), cfg.Request.ParsedMaxBodyLength)
				assert.Equal(t, int64(10000), cfg.Response.ParsedMaxBodyLength)
			}
		})
	}
}

// TestParseByteSize tests the ParseByteSize function.
func TestParseByteSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "empty", input: "", expected: 0},
		{name: "zero", input: "0", expected: 0},
		{name: "plain bytes", input: "93", expected: 93},
		{name: "kilobytes", input: "10 KB", expected: 10000},
		{name: "kibibytes", input: "1KiB", expected: 1024},
		{name: "garbage", input: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			size, err := ParseByteSize(tt.input)
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, size)
		})
	}
}

// TestConfigPartial tests the conversion to printer settings.
func TestConfigPartial(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Indent = 4
	cfg.IndentChar = "."
	cfg.Request.LogHeaders = false
	cfg.Obfuscation = ObfuscationConfig{
		Enabled:        true,
		RedactableKeys: []string{"secret"},
		Replacement:    "***",
	}

	require.NoError(t, ValidateConfig(cfg))

	resolved := settings.ResolveWith(cfg.Partial(), settings.NoOverride)

	assert.Equal(t, 4, resolved.Indent)
	assert.Equal(t, ".", resolved.IndentChar)
	assert.False(t, resolved.Request.LogHeaders)
	assert.True(t, resolved.Request.LogBody)
	assert.Equal(t, int64(10000), resolved.Response.MaxBodyLength)
	assert.True(t, resolved.Obfuscation.Enabled)
	assert.Equal(t, []string{"secret"}, resolved.RedactableKeys())
	assert.Equal(t, "***", resolved.Redactor().Replace("value", "secret"))
}

// TestConfigPartial_DefaultKeys tests that an empty key list keeps the built-in keys.
func TestConfigPartial_DefaultKeys(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Obfuscation.Enabled = true

	require.NoError(t, ValidateConfig(cfg))

	resolved := settings.ResolveWith(cfg.Partial(), settings.NoOverride)
	assert.Equal(t, settings.DefaultRedactableKeys(), resolved.RedactableKeys())
}
