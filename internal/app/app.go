package app

import (
	"fmt"
	"io"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/oshokin/exchange-logger/internal/config"
	"github.com/oshokin/exchange-logger/internal/logger"
	"github.com/oshokin/exchange-logger/pkg/exchangelog"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ConfigureLogging applies the configured level and, when a log file is set,
// redirects the process-wide logger to a rotating file.
// The returned closer releases the file; it is a no-op for stderr output.
func ConfigureLogging(cfg *config.Config) io.Closer {
	logger.SetLevel(cfg.ParsedLogLevel)

	if cfg.LogFile == "" {
		return nopCloser{}
	}

	file := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    cfg.LogFileMaxSize,
		MaxBackups: cfg.LogFileMaxBackups,
		MaxAge:     cfg.LogFileMaxAge,
		Compress:   cfg.LogFileCompress,
	}

	logger.SetOutput(file)

	return file
}

// newWriterLogger creates an exchange logger printing every block to w.
func newWriterLogger(cfg *config.Config, w io.Writer) *exchangelog.Logger {
	write := func(args ...any) {
		fmt.Fprintln(w, fmt.Sprint(args...)) //nolint:errcheck // Nothing to do when the terminal is gone.
	}

	return exchangelog.Using(write, write, exchangelog.WithSettings(cfg.Partial()))
}
