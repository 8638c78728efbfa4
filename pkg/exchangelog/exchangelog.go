// Package exchangelog is the entry point of the exchange printer: it renders
// requests, responses and errors and hands the finished text to a log sink.
//
// Every Log* method returns its argument, so the calls can sit inside
// interceptor chains and HTTP round trippers unchanged.
package exchangelog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/oshokin/exchange-logger/pkg/exchange"
	"github.com/oshokin/exchange-logger/pkg/parser"
	"github.com/oshokin/exchange-logger/pkg/settings"
)

// Logger renders exchanges and writes them to its callbacks.
// It is safe for concurrent use when the callbacks are.
type Logger struct {
	logInfo  LogFunc
	logError LogFunc
	parser   *parser.Parser
}

// Option customizes a Logger.
type Option func(*options)

type options struct {
	partial  settings.Partial
	provider settings.KeysProvider
}

// WithSettings merges partial over the default settings.
func WithSettings(partial settings.Partial) Option {
	return func(o *options) {
		o.partial = partial
	}
}

// WithKeysProvider replaces the environment lookup of the redactable-key override.
func WithKeysProvider(provider settings.KeysProvider) Option {
	return func(o *options) {
		o.provider = provider
	}
}

// New creates a Logger writing exchanges to info and failures to errorFn.
// A nil callback discards its messages.
func New(info, errorFn LogFunc, opts ...Option) *Logger {
	o := options{provider: settings.EnvKeysProvider(settings.RedactableKeysEnv)}

	for _, opt := range opts {
		opt(&o)
	}

	return &Logger{
		logInfo:  orDiscard(info),
		logError: orDiscard(errorFn),
		parser:   parser.NewWithSettings(settings.ResolveWith(o.partial, o.provider)),
	}
}

// Using creates a Logger from a pair of callbacks.
func Using(info, errorFn LogFunc, opts ...Option) *Logger {
	return New(info, errorFn, opts...)
}

// From creates a Logger writing to an existing sink.
func From(sink Sink, opts ...Option) *Logger {
	if sink == nil {
		return New(nil, nil, opts...)
	}

	return New(sink.Info, sink.Error, opts...)
}

// Default creates a Logger writing to a colored console logger on stderr.
func Default(opts ...Option) *Logger {
	return From(NewConsoleSink(), opts...)
}

// NewConsoleSink builds the colored development console logger used by Default.
func NewConsoleSink() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.DisableCaller = true
	cfg.DisableStacktrace = true

	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}

	return logger.Named("exchange").Sugar()
}

// Parser returns the parser the Logger renders with.
func (l *Logger) Parser() *parser.Parser {
	return l.parser
}

// LogRequest logs the request block of req and returns req.
func (l *Logger) LogRequest(req *exchange.Request) *exchange.Request {
	l.logInfo(l.parser.ParseRequest(req))

	return req
}

// LogResponse logs the response block of resp and returns resp.
func (l *Logger) LogResponse(resp *exchange.Response) *exchange.Response {
	l.logInfo(l.parser.ParseResponse(resp))

	return resp
}

// LogErrorDetails logs a failed exchange as a response error and returns err.
// The originating request and response are printed when err carries them.
func (l *Logger) LogErrorDetails(err error) error {
	return l.logFailure(err, parser.SourceResponse)
}

// LogRequestError logs an error raised before a response arrived and returns err.
func (l *Logger) LogRequestError(err error) error {
	return l.logFailure(err, parser.SourceRequest)
}

func (l *Logger) logFailure(err error, source parser.ErrorSource) error {
	if err == nil {
		return nil
	}

	l.logError(l.parser.ParseErrorDetails(exchange.NewError(err, nil, nil), source))

	return err
}

func orDiscard(fn LogFunc) LogFunc {
	if fn == nil {
		return func(...any) {}
	}

	return fn
}
