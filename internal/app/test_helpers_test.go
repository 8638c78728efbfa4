package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/exchange-logger/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		LogLevel:       "info",
		LogFileMaxSize: config.DefaultLogFileMaxSize,
		Indent:         2,
		IndentChar:     " ",
		Request:        config.DirectionConfig{LogHeaders: true, LogBody: true},
		Response:       config.DirectionConfig{LogHeaders: true, LogBody: true},
		Timeout:        "5s",
		UserAgent:      "exchange-logger-test/1.0",
	}

	require.NoError(t, config.ValidateConfig(cfg))

	return cfg
}
