package exchangelog

//go:generate $MOCKGEN -source=sink.go -destination=mocks/sink_mock.go

// Sink receives finished text blocks.
// *zap.SugaredLogger satisfies it, as do most leveled loggers.
type Sink interface {
	// Info logs an exchange.
	Info(args ...any)
	// Error logs a failed exchange.
	Error(args ...any)
}

// LogFunc is a single logging callback.
type LogFunc func(args ...any)
