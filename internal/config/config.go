package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/exchange-logger/internal/logger"
	"github.com/oshokin/exchange-logger/internal/utils"
	"github.com/oshokin/exchange-logger/pkg/settings"
	transporthttp "github.com/oshokin/exchange-logger/pkg/transport/http"
)

// Config holds all configuration settings.
type Config struct {
	// LogLevel specifies the logging verbosity level.
	LogLevel string `mapstructure:"log_level"`
	// LogFile is the path of a rotating log file; empty means stderr.
	LogFile string `mapstructure:"log_file"`
	// LogFileMaxSize is the size in megabytes at which the log file is rotated.
	LogFileMaxSize int `mapstructure:"log_file_max_size"`
	// LogFileMaxBackups is the number of rotated log files to keep.
	LogFileMaxBackups int `mapstructure:"log_file_max_backups"`
	// LogFileMaxAge is the number of days to keep rotated log files.
	LogFileMaxAge int `mapstructure:"log_file_max_age"`
	// LogFileCompress enables gzip compression of rotated log files.
	LogFileCompress bool `mapstructure:"log_file_compress"`
	// Indent is the number of indent characters in one indent unit.
	Indent int `mapstructure:"indent"`
	// IndentChar is the character an indent unit is built from.
	IndentChar string `mapstructure:"indent_char"`
	// Request holds the request printing options.
	Request DirectionConfig `mapstructure:"request"`
	// Response holds the response printing options.
	Response DirectionConfig `mapstructure:"response"`
	// Obfuscation holds the redaction options.
	Obfuscation ObfuscationConfig `mapstructure:"obfuscation"`
	// Timeout is the HTTP client timeout of the fetch command (e.g., "30s").
	Timeout string `mapstructure:"timeout"`
	// UserAgent is sent by the fetch command when a request carries none;
	// empty means "exchange-logger/<version>".
	UserAgent string `mapstructure:"user_agent"`
	// ParsedLogLevel is the parsed zap log level.
	ParsedLogLevel zapcore.Level
	// ParsedTimeout is the parsed HTTP client timeout.
	ParsedTimeout time.Duration
}

// DirectionConfig holds the options of one exchange direction.
type DirectionConfig struct {
	// LogHeaders enables the headers section.
	LogHeaders bool `mapstructure:"log_headers"`
	// LogBody enables the body section.
	LogBody bool `mapstructure:"log_body"`
	// MaxBodyLength caps the printed body size (e.g., "10KB"); "0" or empty disables the cap.
	MaxBodyLength string `mapstructure:"max_body_length"`
	// ParsedMaxBodyLength is the parsed body cap in bytes.
	ParsedMaxBodyLength int64
}

// ObfuscationConfig holds the redaction options.
type ObfuscationConfig struct {
	// Enabled turns redaction on.
	Enabled bool `mapstructure:"enabled"`
	// RedactableKeys replaces the built-in key list when not empty.
	RedactableKeys []string `mapstructure:"redactable_keys"`
	// Replacement is the substitute of redacted values; empty means the default marker.
	Replacement string `mapstructure:"replacement"`
}

const (
	// DefaultConfigFilename is the default name of the configuration file.
	DefaultConfigFilename = ".exchange-logger.yaml"

	// EnvPrefix is the prefix of environment variables overriding config keys,
	// e.g. EXCHANGE_LOGGER_LOG_LEVEL or EXCHANGE_LOGGER_REQUEST_MAX_BODY_LENGTH.
	EnvPrefix = "EXCHANGE_LOGGER"

	// DefaultLogLevel is the logging level used when none is configured.
	DefaultLogLevel = "info"

	// DefaultLogFileMaxSize is the default rotation size of the log file in megabytes.
	DefaultLogFileMaxSize = 10

	// DefaultLogFileMaxBackups is the default number of rotated log files to keep.
	DefaultLogFileMaxBackups = 3

	// DefaultLogFileMaxAge is the default number of days to keep rotated log files.
	DefaultLogFileMaxAge = 7
)

// Static error definitions for better error handling.
var (
	// ErrUnknownLogLevel indicates that the log level is not recognized.
	ErrUnknownLogLevel = errors.New("unknown log level")
	// ErrInvalidIndent indicates a negative indent width.
	ErrInvalidIndent = errors.New("indent cannot be negative")
	// ErrInvalidIndentChar indicates an indent character that is not exactly one character.
	ErrInvalidIndentChar = errors.New("indent_char must be exactly one character")
	// ErrInvalidTimeout indicates that the timeout is not positive.
	ErrInvalidTimeout = errors.New("timeout must be positive")
	// ErrInvalidLogFileMaxSize indicates a non-positive log file rotation size.
	ErrInvalidLogFileMaxSize = errors.New("log_file_max_size must be a positive integer")
)

// LoadConfig loads configuration settings from a YAML file.
// Environment variables prefixed with EnvPrefix override file values.
// A missing default file yields the built-in defaults, while a missing
// explicitly named file is an error.
func LoadConfig(configFilename string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	isExplicit := configFilename != ""
	if !isExplicit {
		configFilename = DefaultConfigFilename
	}

	v.SetConfigFile(configFilename)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		exists, statErr := utils.IsFileExist(configFilename)
		if isExplicit || exists || statErr != nil {
			return nil, fmt.Errorf("failed to read config from file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("log_file", "")
	v.SetDefault("log_file_max_size", DefaultLogFileMaxSize)
	v.SetDefault("log_file_max_backups", DefaultLogFileMaxBackups)
	v.SetDefault("log_file_max_age", DefaultLogFileMaxAge)
	v.SetDefault("log_file_compress", true)
	v.SetDefault("indent", settings.DefaultIndent)
	v.SetDefault("indent_char", settings.DefaultIndentChar)

	for _, direction := range []string{"request", "response"} {
		v.SetDefault(direction+".log_headers", true)
		v.SetDefault(direction+".log_body", true)
		v.SetDefault(direction+".max_body_length", "0")
	}

	v.SetDefault("obfuscation.enabled", false)
	v.SetDefault("obfuscation.redactable_keys", []string{})
	v.SetDefault("obfuscation.replacement", "")
	v.SetDefault("timeout", transporthttp.DefaultTimeout.String())
	v.SetDefault("user_agent", "")
}

// ValidateConfig checks the configuration for validity and sets derived fields.
func ValidateConfig(cfg *Config) error {
	var err error

	parsedLogLevel, isLogLevelCorrect := logger.ParseLogLevel(cfg.LogLevel)
	if !isLogLevelCorrect {
		return fmt.Errorf("%w: '%s'", ErrUnknownLogLevel, cfg.LogLevel)
	}

	cfg.ParsedLogLevel = parsedLogLevel

	if cfg.LogFile != "" && cfg.LogFileMaxSize <= 0 {
		return ErrInvalidLogFileMaxSize
	}

	if cfg.Indent < 0 {
		return ErrInvalidIndent
	}

	if utf8.RuneCountInString(cfg.IndentChar) != 1 {
		return fmt.Errorf("%w: '%s'", ErrInvalidIndentChar, cfg.IndentChar)
	}

	cfg.Request.ParsedMaxBodyLength, err = ParseByteSize(cfg.Request.MaxBodyLength)
	if err != nil {
		return fmt.Errorf("failed to parse request max body length: %w", err)
	}

	cfg.Response.ParsedMaxBodyLength, err = ParseByteSize(cfg.Response.MaxBodyLength)
	if err != nil {
		return fmt.Errorf("failed to parse response max body length: %w", err)
	}

	cfg.ParsedTimeout, err = time.ParseDuration(cfg.Timeout)
	if err != nil {
		return fmt.Errorf("failed to parse timeout: %w", err)
	}

	if cfg.ParsedTimeout <= 0 {
		return ErrInvalidTimeout
	}

	return nil
}

// ParseByteSize parses a human readable size such as "10 KB" or "1MiB".
// An empty string or "0" yields zero.
func ParseByteSize(size string) (int64, error) {
	size = strings.TrimSpace(size)
	if size == "" || size == "0" {
		return 0, nil
	}

	parsed, err := humanize.ParseBytes(size)
	if err != nil {
		return 0, err
	}

	return utils.SafeUint64ToInt64(parsed), nil
}

// Partial converts the validated configuration to printer settings.
func (c *Config) Partial() settings.Partial {
	obfuscation := &settings.ObfuscationPartial{
		Enabled: settings.Ptr(c.Obfuscation.Enabled),
	}

	if len(c.Obfuscation.RedactableKeys) > 0 {
		obfuscation.RedactableKeys = c.Obfuscation.RedactableKeys
	}

	if c.Obfuscation.Replacement != "" {
		obfuscation.Replacement = settings.Ptr(c.Obfuscation.Replacement)
	}

	return settings.Partial{
		Indent:      settings.Ptr(c.Indent),
		IndentChar:  settings.Ptr(c.IndentChar),
		Request:     c.Request.partial(),
		Response:    c.Response.partial(),
		Obfuscation: obfuscation,
	}
}

func (d DirectionConfig) partial() *settings.DirectionPartial {
	return &settings.DirectionPartial{
		LogHeaders:    settings.Ptr(d.LogHeaders),
		LogBody:       settings.Ptr(d.LogBody),
		MaxBodyLength: settings.Ptr(d.ParsedMaxBodyLength),
	}
}
