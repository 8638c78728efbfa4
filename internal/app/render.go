package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/oshokin/exchange-logger/internal/config"
	"github.com/oshokin/exchange-logger/internal/logger"
	"github.com/oshokin/exchange-logger/pkg/exchange"
	"github.com/oshokin/exchange-logger/pkg/exchangelog"
)

// RenderOptions tunes the render command.
type RenderOptions struct {
	// RequestError prints fixture errors as request errors instead of response errors.
	RequestError bool
}

// ExecuteRenderCommand prints the exchange recorded in every fixture file to w.
// A fixture with an error prints the failure with its request and response;
// otherwise the request and the response are printed on their own.
func ExecuteRenderCommand(
	ctx context.Context,
	cfg *config.Config,
	w io.Writer,
	fixturePaths []string,
	opts RenderOptions,
) error {
	exchanges := newWriterLogger(cfg, w)

	for _, path := range fixturePaths {
		if err := renderFixture(exchanges, path, opts); err != nil {
			return fmt.Errorf("failed to render fixture '%s': %w", path, err)
		}

		logger.Debugf(ctx, "Rendered fixture '%s'", path)
	}

	return nil
}

func renderFixture(exchanges *exchangelog.Logger, path string, opts RenderOptions) error {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return err
	}

	defer f.Close() //nolint:errcheck // Read-only file, error on close is not critical here.

	fixture, err := exchange.DecodeFixture(f)
	if err != nil {
		return err
	}

	if fixture.Error != nil {
		if opts.RequestError {
			_ = exchanges.LogRequestError(fixture.Error)
		} else {
			_ = exchanges.LogErrorDetails(fixture.Error)
		}

		return nil
	}

	if fixture.Request != nil {
		exchanges.LogRequest(fixture.Request)
	}

	if fixture.Response != nil {
		exchanges.LogResponse(fixture.Response)
	}

	return nil
}
